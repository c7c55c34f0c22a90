// Package report assembles topic discovery runs into structured documents.
// It drives the middleware collaborators topic by topic, parses each
// declared schema, and packages everything as one Document per run.
package report

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	topicscan "github.com/topicscan/go"
	"github.com/topicscan/go/ros"
)

// Introspector is the full set of middleware capabilities a discovery run
// needs. ros.Runtime satisfies it; tests use stubs.
type Introspector interface {
	ros.TopicLister
	ros.TopicInspector
	ros.SchemaSource
	ros.RateMeter
}

// TopicReport is the assembled record for one endpoint.
type TopicReport struct {
	Topic       string           `json:"topic"`
	Type        string           `json:"type,omitempty"`
	Publishers  []string         `json:"publishers,omitempty"`
	Subscribers []string         `json:"subscribers,omitempty"`
	RateHz      float64          `json:"rate_hz"`
	Schema      topicscan.Schema `json:"schema"`
	Error       string           `json:"error,omitempty"`
}

// Document is the result of one discovery run. Topic order matches the
// lister's enumeration order.
type Document struct {
	ID         string        `json:"id"`
	CapturedAt time.Time     `json:"captured_at"`
	Topics     []TopicReport `json:"topics"`
}

// Builder runs discovery and assembles Documents.
type Builder struct {
	src          Introspector
	parser       *topicscan.Parser
	parallel     int
	topicTimeout time.Duration
	measureRates bool
	log          zerolog.Logger
}

// NewBuilder creates a Builder with default configuration.
func NewBuilder(src Introspector) *Builder {
	return &Builder{
		src:          src,
		parser:       topicscan.NewParser(),
		parallel:     4,
		topicTimeout: 30 * time.Second,
		measureRates: true,
		log:          zerolog.Nop(),
	}
}

// WithParser configures the schema parser.
func (b *Builder) WithParser(p *topicscan.Parser) *Builder {
	b.parser = p
	return b
}

// WithParallelism configures how many topics are inspected concurrently.
// The default is 4.
func (b *Builder) WithParallelism(n int) *Builder {
	if n > 0 {
		b.parallel = n
	}
	return b
}

// WithTopicTimeout configures the per-topic deadline covering info, schema
// and rate collection together.
func (b *Builder) WithTopicTimeout(d time.Duration) *Builder {
	b.topicTimeout = d
	return b
}

// WithRates configures whether message rates are measured. Skipping them
// makes a run much faster since rate sampling dominates wall time.
func (b *Builder) WithRates(measure bool) *Builder {
	b.measureRates = measure
	return b
}

// WithLogger configures the logger used during assembly.
func (b *Builder) WithLogger(log zerolog.Logger) *Builder {
	b.log = log
	return b
}

// Build runs one discovery pass over every topic the lister reports.
//
// Per-topic failures degrade to partial reports carrying an error note;
// only failure to enumerate topics at all aborts the run. Schema text is
// fetched and parsed once per message type and shared across topics, with
// the type-to-schema mapping owned by this run alone.
func (b *Builder) Build(ctx context.Context) (Document, error) {
	return b.BuildTopics(ctx, nil)
}

// BuildTopics is Build restricted to an explicit topic list. A nil or empty
// list means every topic the lister reports.
func (b *Builder) BuildTopics(ctx context.Context, only []string) (Document, error) {
	topics, err := b.src.Topics(ctx)
	if err != nil {
		return Document{}, err
	}
	if len(only) > 0 {
		topics = filterTopics(topics, only)
	}

	doc := Document{
		ID:         uuid.NewString(),
		CapturedAt: time.Now().UTC(),
		Topics:     make([]TopicReport, len(topics)),
	}

	schemas := newSchemaCache(b.src, b.parser)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallel)
	for i, topic := range topics {
		i, topic := i, topic
		g.Go(func() error {
			doc.Topics[i] = b.inspectTopic(gctx, topic, schemas)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Document{}, err
	}

	return doc, nil
}

// inspectTopic assembles one TopicReport. It never fails; whatever could
// not be collected is absent and the first failure is noted on the report.
func (b *Builder) inspectTopic(ctx context.Context, topic string, schemas *schemaCache) TopicReport {
	tctx, cancel := context.WithTimeout(ctx, b.topicTimeout)
	defer cancel()

	rep := TopicReport{Topic: topic, Schema: topicscan.Schema{}}

	info, err := b.src.Info(tctx, topic)
	if err != nil {
		b.log.Warn().Str("topic", topic).Err(err).Msg("topic info failed")
		rep.Error = err.Error()
		return rep
	}
	rep.Type = info.Type
	rep.Publishers = info.Publishers
	rep.Subscribers = info.Subscribers

	if info.Type != "" {
		schema, err := schemas.get(tctx, info.Type)
		if err != nil {
			b.log.Warn().Str("type", info.Type).Err(err).Msg("schema fetch failed")
			rep.Error = err.Error()
		} else {
			rep.Schema = schema
		}
	}

	if b.measureRates {
		rate, err := b.src.MeasureRate(tctx, topic)
		if err != nil {
			b.log.Warn().Str("topic", topic).Err(err).Msg("rate measurement failed")
			if rep.Error == "" {
				rep.Error = err.Error()
			}
		} else {
			rep.RateHz = rate
		}
	}

	return rep
}

// schemaCache maps message type names to parsed schemas for one run.
type schemaCache struct {
	src    ros.SchemaSource
	parser *topicscan.Parser

	mu      sync.Mutex
	schemas map[string]topicscan.Schema
}

func newSchemaCache(src ros.SchemaSource, parser *topicscan.Parser) *schemaCache {
	return &schemaCache{
		src:     src,
		parser:  parser,
		schemas: make(map[string]topicscan.Schema),
	}
}

func (c *schemaCache) get(ctx context.Context, typeName string) (topicscan.Schema, error) {
	c.mu.Lock()
	schema, ok := c.schemas[typeName]
	c.mu.Unlock()
	if ok {
		return schema, nil
	}

	text, err := c.src.SchemaText(ctx, typeName)
	if err != nil {
		return nil, err
	}
	// Empty text is a valid empty schema: the type was unknown upstream.
	schema = c.parser.ParseSchemaString(text)

	c.mu.Lock()
	c.schemas[typeName] = schema
	c.mu.Unlock()
	return schema, nil
}

func filterTopics(topics, only []string) []string {
	keep := make(map[string]bool, len(only))
	for _, t := range only {
		keep[t] = true
	}
	var out []string
	for _, t := range topics {
		if keep[t] {
			out = append(out, t)
		}
	}
	return out
}
