package report

import "math"

// rateTolerance is the relative rate change below which two measurements
// are considered the same. Rate sampling jitters a few percent run to run.
const rateTolerance = 0.1

// TypeChange records a topic whose declared message type changed between
// two runs.
type TypeChange struct {
	Topic   string `json:"topic"`
	OldType string `json:"old_type"`
	NewType string `json:"new_type"`
}

// RateChange records a topic whose measured rate moved beyond tolerance.
type RateChange struct {
	Topic string  `json:"topic"`
	OldHz float64 `json:"old_hz"`
	NewHz float64 `json:"new_hz"`
}

// DocumentDiff summarizes what changed between two discovery runs.
type DocumentDiff struct {
	Added       []string     `json:"added,omitempty"`
	Removed     []string     `json:"removed,omitempty"`
	TypeChanges []TypeChange `json:"type_changes,omitempty"`
	RateChanges []RateChange `json:"rate_changes,omitempty"`
}

// Empty reports whether the two runs match.
func (d DocumentDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 &&
		len(d.TypeChanges) == 0 && len(d.RateChanges) == 0
}

// Diff compares two discovery runs topic by topic. Ordering follows the
// newer document for additions and the older one for removals.
func Diff(older, newer Document) DocumentDiff {
	var diff DocumentDiff

	oldByTopic := make(map[string]TopicReport, len(older.Topics))
	for _, rep := range older.Topics {
		oldByTopic[rep.Topic] = rep
	}
	newByTopic := make(map[string]TopicReport, len(newer.Topics))
	for _, rep := range newer.Topics {
		newByTopic[rep.Topic] = rep
	}

	for _, rep := range newer.Topics {
		prev, ok := oldByTopic[rep.Topic]
		if !ok {
			diff.Added = append(diff.Added, rep.Topic)
			continue
		}
		if prev.Type != rep.Type {
			diff.TypeChanges = append(diff.TypeChanges, TypeChange{
				Topic:   rep.Topic,
				OldType: prev.Type,
				NewType: rep.Type,
			})
		}
		if ratesDiffer(prev.RateHz, rep.RateHz) {
			diff.RateChanges = append(diff.RateChanges, RateChange{
				Topic: rep.Topic,
				OldHz: prev.RateHz,
				NewHz: rep.RateHz,
			})
		}
	}

	for _, rep := range older.Topics {
		if _, ok := newByTopic[rep.Topic]; !ok {
			diff.Removed = append(diff.Removed, rep.Topic)
		}
	}

	return diff
}

func ratesDiffer(a, b float64) bool {
	if a == b {
		return false
	}
	base := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) > rateTolerance*base
}
