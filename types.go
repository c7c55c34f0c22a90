// Package topicscan defines the core data structures for message schema parsing.
package topicscan

// FieldKind distinguishes structured fields from named constants.
type FieldKind int

const (
	// KindField is an ordinary declared field, possibly with nested fields.
	KindField FieldKind = iota
	// KindConstant is a named literal of a primitive type.
	KindConstant
)

// Field represents one parsed schema entry: a declared field or a constant.
//
// Value is set only for constants; Default only for fields that carried a
// trailing token after the name. Fields stays nil for leaves: it is created
// only when at least one deeper-indented line has been attached beneath the
// field, so a leaf never serializes with an empty "fields" key.
type Field struct {
	Type    string    `json:"type"`
	Name    string    `json:"name"`
	Kind    FieldKind `json:"-"`
	Value   string    `json:"value,omitempty"`
	Default string    `json:"default,omitempty"`
	Fields  []*Field  `json:"fields,omitempty"`
}

// Schema is the ordered sequence of top-level fields of one message type.
type Schema []*Field
