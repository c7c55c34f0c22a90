package ros

import (
	"strconv"
	"strings"
)

// scrapeInfo extracts type, publishers and subscribers from rostopic info
// output. The format is a "Type:" line followed by "Publishers:" and
// "Subscribers:" sections listing one " * node (uri)" entry per line, or
// the word None when a section is empty.
func scrapeInfo(out string) TopicInfo {
	var info TopicInfo
	var section *[]string

	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "Type:"):
			info.Type = strings.TrimSpace(strings.TrimPrefix(trimmed, "Type:"))
		case strings.HasPrefix(trimmed, "Publishers:"):
			section = &info.Publishers
		case strings.HasPrefix(trimmed, "Subscribers:"):
			section = &info.Subscribers
		case strings.HasPrefix(trimmed, "*") && section != nil:
			entry := strings.TrimSpace(strings.TrimPrefix(trimmed, "*"))
			// Keep the node name, drop the transport URI.
			if idx := strings.IndexAny(entry, " \t"); idx >= 0 {
				entry = entry[:idx]
			}
			if entry != "" {
				*section = append(*section, entry)
			}
		}
	}
	return info
}

// scrapeRate extracts the last reported average rate from rostopic hz
// output. The tool prints a block per refresh:
//
//	average rate: 10.002
//	        min: 0.099s max: 0.101s std dev: 0.00052s window: 50
//
// No average line means no traffic was observed; that reports 0.
func scrapeRate(out string) float64 {
	rate := 0.0
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "average rate:") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(trimmed, "average rate:"))
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			rate = parsed
		}
	}
	return rate
}
