package ros

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Default command names, overridable via options or environment.
const (
	defaultRostopic = "rostopic"
	defaultRosmsg   = "rosmsg"

	envRostopic = "TOPICSCAN_ROSTOPIC"
	envRosmsg   = "TOPICSCAN_ROSMSG"
)

// runCommand executes one tool invocation and returns its captured stdout.
// Swapped out in tests.
type runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)

// Runtime locates the middleware introspection tools and implements
// SchemaSource, TopicLister, TopicInspector and RateMeter by invoking them.
type Runtime struct {
	rostopic string
	rosmsg   string
	window   time.Duration
	log      zerolog.Logger
	run      runCommand
}

// NewRuntime creates a Runtime with default configuration. Tool names come
// from the environment when set, otherwise the standard names are used and
// resolved on PATH at invocation time.
func NewRuntime() *Runtime {
	r := &Runtime{
		rostopic: defaultRostopic,
		rosmsg:   defaultRosmsg,
		window:   5 * time.Second,
		log:      zerolog.Nop(),
	}
	if v := os.Getenv(envRostopic); v != "" {
		r.rostopic = v
	}
	if v := os.Getenv(envRosmsg); v != "" {
		r.rosmsg = v
	}
	r.run = r.execCommand
	return r
}

// WithToolPaths configures explicit paths for the rostopic and rosmsg tools.
func (r *Runtime) WithToolPaths(rostopic, rosmsg string) *Runtime {
	r.rostopic = rostopic
	r.rosmsg = rosmsg
	return r
}

// WithRateWindow configures how long MeasureRate samples a topic.
// The default is 5 seconds.
func (r *Runtime) WithRateWindow(window time.Duration) *Runtime {
	r.window = window
	return r
}

// WithLogger configures the logger used for command invocations.
func (r *Runtime) WithLogger(log zerolog.Logger) *Runtime {
	r.log = log
	return r
}

// Detect verifies that the introspection tools are resolvable. It is a
// convenience check; invocation still fails cleanly if a tool disappears
// between Detect and use.
func (r *Runtime) Detect() error {
	for _, tool := range []string{r.rostopic, r.rosmsg} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("middleware tool not found: %w", err)
		}
	}
	return nil
}

// Topics returns the registered topic names, one per output line.
func (r *Runtime) Topics(ctx context.Context) ([]string, error) {
	out, err := r.run(ctx, r.rostopic, "list")
	if err != nil {
		return nil, fmt.Errorf("rostopic list: %w", err)
	}

	var topics []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			topics = append(topics, line)
		}
	}
	return topics, nil
}

// Info returns the declared type and attached nodes of one topic.
func (r *Runtime) Info(ctx context.Context, topic string) (TopicInfo, error) {
	out, err := r.run(ctx, r.rostopic, "info", topic)
	if err != nil {
		return TopicInfo{}, fmt.Errorf("rostopic info %s: %w", topic, err)
	}

	info := scrapeInfo(string(out))
	info.Topic = topic
	return info, nil
}

// SchemaText returns the schema description of a message type. An unknown
// type yields empty text rather than an error.
func (r *Runtime) SchemaText(ctx context.Context, typeName string) (string, error) {
	out, err := r.run(ctx, r.rosmsg, "show", typeName)
	if err != nil {
		if strings.Contains(err.Error(), "Unknown msg type") ||
			strings.Contains(err.Error(), "Cannot locate") {
			return "", nil
		}
		return "", fmt.Errorf("rosmsg show %s: %w", typeName, err)
	}
	return string(out), nil
}

// MeasureRate samples a topic for the configured window and returns the
// reported average rate in Hz. The sampling tool streams until killed, so
// hitting the window deadline is the expected way for it to stop.
func (r *Runtime) MeasureRate(ctx context.Context, topic string) (float64, error) {
	wctx, cancel := context.WithTimeout(ctx, r.window)
	defer cancel()

	out, err := r.run(wctx, r.rostopic, "hz", topic)
	if err != nil && !errors.Is(wctx.Err(), context.DeadlineExceeded) {
		return 0, fmt.Errorf("rostopic hz %s: %w", topic, err)
	}

	return scrapeRate(string(out)), nil
}

// execCommand runs one tool through exec.CommandContext, capturing stdout.
// Failures carry the tool's stderr so scrape-level callers can match on it.
func (r *Runtime) execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	started := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	r.log.Debug().
		Str("tool", name).
		Strs("args", args).
		Dur("elapsed", time.Since(started)).
		Err(err).
		Msg("ran introspection command")

	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return stdout.Bytes(), fmt.Errorf("%w: %s", err, msg)
		}
		return stdout.Bytes(), err
	}
	return stdout.Bytes(), nil
}
