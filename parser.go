// Package topicscan provides parsing of indentation-formatted message
// schema descriptions into nested field structures.
package topicscan

import (
	"bufio"
	"io"
	"strings"
)

// Scanner wraps a bufio.Scanner with additional functionality.
type Scanner struct {
	*bufio.Scanner
	lineNum int
}

// NewScanner creates a new Scanner from an io.Reader.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		Scanner: bufio.NewScanner(r),
		lineNum: 0,
	}
}

// NextLine advances the scanner and returns the current line number and text.
func (s *Scanner) NextLine() (int, string, bool) {
	if !s.Scan() {
		return s.lineNum, "", false
	}
	s.lineNum++
	return s.lineNum, s.Text(), true
}

// Parser provides configurable schema parsing functionality.
//
// A Parser holds no state between invocations; the same Parser may be used
// from multiple goroutines to parse independent schemas concurrently.
type Parser struct {
	commentMarker string
	skipLine      func(string) bool
}

// NewParser creates a new Parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		commentMarker: "#",
		skipLine:      func(line string) bool { return false },
	}
}

// WithCommentMarker configures the character sequence that starts a
// trailing comment. The default is "#".
func (p *Parser) WithCommentMarker(marker string) *Parser {
	p.commentMarker = marker
	return p
}

// WithSkipLine configures an additional line skip predicate, applied to the
// raw line before classification.
func (p *Parser) WithSkipLine(fn func(string) bool) *Parser {
	p.skipLine = fn
	return p
}

// ParseSchema parses a schema description from an io.Reader.
//
// The parse itself has no fatal path: malformed lines are skipped and empty
// input yields an empty schema. The only error returned is a read error
// from the underlying reader.
func (p *Parser) ParseSchema(r io.Reader) (Schema, error) {
	scanner := NewScanner(r)
	state := newParseState()

	for {
		_, line, ok := scanner.NextLine()
		if !ok {
			break
		}
		if p.skipLine(line) {
			continue
		}
		cl, ok := p.classifyLine(line)
		if !ok {
			continue
		}
		state.push(cl)
	}

	return state.root, scanner.Err()
}

// ParseSchemaString parses a schema description from a string.
func (p *Parser) ParseSchemaString(text string) Schema {
	// strings.Reader never fails mid-read.
	schema, _ := p.ParseSchema(strings.NewReader(text))
	return schema
}

// classifiedLine is the decomposition of one meaningful input line.
type classifiedLine struct {
	indent int // raw count of leading whitespace characters
	field  *Field
}

// classifyLine strips comments and whitespace from a raw line and decomposes
// the remainder into an indentation width plus a field record. It reports
// false for lines that carry no content: blank, comment-only, or missing a
// name token.
func (p *Parser) classifyLine(line string) (classifiedLine, bool) {
	if idx := strings.Index(line, p.commentMarker); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimRight(line, " \t")

	content := strings.TrimLeft(line, " \t")
	if content == "" {
		return classifiedLine{}, false
	}
	// Indentation is a raw character count, not a level: nesting depth is
	// inferred later by comparing consecutive widths, so both space and
	// tab indented dialects classify identically.
	indent := len(line) - len(content)

	if eq := strings.Index(content, "="); eq >= 0 {
		return p.classifyConstant(indent, content, eq)
	}

	tokens := strings.Fields(content)
	if len(tokens) < 2 {
		// No name token: stray or partial content, skipped non-fatally.
		return classifiedLine{}, false
	}
	f := &Field{
		Type: tokens[0],
		Name: tokens[1],
		Kind: KindField,
	}
	if len(tokens) > 2 {
		f.Default = tokens[2]
	}
	return classifiedLine{indent: indent, field: f}, true
}

// classifyConstant handles assignment lines such as "uint8 DEBUG=10".
func (p *Parser) classifyConstant(indent int, content string, eq int) (classifiedLine, bool) {
	typeEnd := strings.IndexAny(content, " \t")
	if typeEnd < 0 || typeEnd > eq {
		return classifiedLine{}, false
	}
	name := strings.TrimSpace(content[typeEnd:eq])
	if name == "" {
		return classifiedLine{}, false
	}
	return classifiedLine{
		indent: indent,
		field: &Field{
			Type:  content[:typeEnd],
			Name:  name,
			Kind:  KindConstant,
			Value: strings.TrimSpace(content[eq+1:]),
		},
	}, true
}

// openRecord is one still-open ancestor on the parse stack.
type openRecord struct {
	indent int
	field  *Field
}

// parseState tracks the chain of currently-open ancestors while the tree is
// built. Stack entries are strictly increasing in indent from bottom to top;
// a record leaves the stack exactly when a later line's indent is less than
// or equal to its own.
type parseState struct {
	root       Schema
	stack      []openRecord
	prev       *Field
	prevIndent int
}

func newParseState() *parseState {
	// Root starts non-nil so an empty parse serializes as an empty
	// sequence rather than null.
	return &parseState{root: Schema{}}
}

// push attaches one classified line to the tree.
//
// Membership is decided eagerly: every record is appended to its final
// container the moment it is seen, so there is no flush step at end of
// input and an aborted parse leaves a valid tree covering every processed
// line. Popping the stack only changes where the next record lands.
func (s *parseState) push(cl classifiedLine) {
	switch {
	case s.prev == nil:
		// First line establishes depth zero, whatever its absolute indent.
		s.root = append(s.root, cl.field)
	case cl.indent > s.prevIndent:
		// Any strictly deeper indent is exactly one level down from the
		// previous record, regardless of magnitude.
		s.stack = append(s.stack, openRecord{indent: s.prevIndent, field: s.prev})
		s.prev.Fields = append(s.prev.Fields, cl.field)
	default:
		// Equal or shallower: seal every open record at this width or
		// deeper, then append as a sibling in whatever container remains.
		for len(s.stack) > 0 && s.stack[len(s.stack)-1].indent >= cl.indent {
			s.stack = s.stack[:len(s.stack)-1]
		}
		if len(s.stack) == 0 {
			s.root = append(s.root, cl.field)
		} else {
			parent := s.stack[len(s.stack)-1].field
			parent.Fields = append(parent.Fields, cl.field)
		}
	}
	s.prev = cl.field
	s.prevIndent = cl.indent
}
