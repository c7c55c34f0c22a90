// Package ros adapts a running ROS environment to the collaborator
// interfaces consumed by report assembly. All introspection happens by
// invoking the middleware command-line tools and scraping their output;
// nothing in this package speaks the wire protocol directly.
package ros

import "context"

// TopicInfo describes one live topic: its declared message type and the
// node names currently publishing to and subscribing from it.
type TopicInfo struct {
	Topic       string   `json:"topic"`
	Type        string   `json:"type"`
	Publishers  []string `json:"publishers"`
	Subscribers []string `json:"subscribers"`
}

// SchemaSource produces the textual schema description for a message type.
// An unknown type yields empty text, not an error; callers parse empty text
// into an empty schema.
type SchemaSource interface {
	SchemaText(ctx context.Context, typeName string) (string, error)
}

// TopicLister enumerates the currently registered topic names.
type TopicLister interface {
	Topics(ctx context.Context) ([]string, error)
}

// TopicInspector reports the type and attached nodes of one topic.
type TopicInspector interface {
	Info(ctx context.Context, topic string) (TopicInfo, error)
}

// RateMeter measures the message arrival rate of one topic in Hz. A topic
// with no traffic during the measurement window reports 0 without error.
type RateMeter interface {
	MeasureRate(ctx context.Context, topic string) (float64, error)
}
