// SPDX-License-Identifier: MPL-2.0

package tomldoc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
)

const (
	stmtKeyValue stmtKind = iota + 1
	stmtTable
	stmtArrayTable
	stmtComment
)

const (
	valueScalar valueKind = iota + 1
	valueArray
	valueInlineTable
)

type (
	stmtKind  uint8
	valueKind uint8

	// statement is one top-level TOML expression with its byte span.
	statement struct {
		kind stmtKind
		// key is the header path for tables, or the dotted key as written
		// (relative to section) for key/value pairs.
		key     Path
		section Path
		// start is the first byte of the statement's line; end is one past the
		// newline that terminates it (or len(src)).
		start int
		end   int
		value *value
	}

	// value is the span of a value. Arrays and inline tables carry their items.
	value struct {
		kind  valueKind
		start int
		end   int
		items []*item
	}

	// item is an array element or an inline-table entry.
	item struct {
		key      Path
		start    int
		value    *value
		commaEnd int // one past the trailing comma, -1 when there is none
	}

	// indexer turns the expressions of an unstable.Parser into statement
	// spans. Scalars, keys and comments carry their own ranges; the bounds
	// of arrays and inline tables are recovered from the trivia between
	// their children.
	indexer struct {
		p       *unstable.Parser
		src     []byte
		section Path
	}
)

// path returns the absolute key path defined by the statement.
func (st *statement) path() Path {
	if st.kind != stmtKeyValue {
		return st.key
	}
	p := make(Path, 0, len(st.section)+len(st.key))
	p = append(p, st.section...)
	return append(p, st.key...)
}

func (st *statement) isHeader() bool {
	return st.kind == stmtTable || st.kind == stmtArrayTable
}

// lookup resolves rel inside an inline table value.
func (v *value) lookup(rel Path) *value {
	if v.kind != valueInlineTable {
		return nil
	}
	var found *value
	for _, it := range v.items {
		switch {
		case it.key.Equal(rel):
			found = it.value
		case rel.HasPrefix(it.key):
			if nested := it.value.lookup(rel[len(it.key):]); nested != nil {
				found = nested
			}
		}
	}
	return found
}

// scan indexes the top-level statements of src. Only offsets are kept, so no
// parser memory outlives the call.
func scan(src []byte) ([]*statement, error) {
	p := &unstable.Parser{KeepComments: true}
	p.Reset(src)
	x := &indexer{p: p, src: src}

	var stmts []*statement
	for p.NextExpression() {
		stmts = append(stmts, x.statement(p.Expression()))
	}
	if err := p.Error(); err != nil {
		return nil, x.parserError(err)
	}
	return stmts, nil
}

func (x *indexer) statement(e *unstable.Node) *statement {
	var (
		st    = &statement{}
		first int
		last  int
	)
	switch e.Kind {
	case unstable.Comment:
		st.kind = stmtComment
		first, last = span(e.Raw)
	case unstable.Table, unstable.ArrayTable:
		st.kind = stmtTable
		closer := 1
		if e.Kind == unstable.ArrayTable {
			st.kind, closer = stmtArrayTable, 2
		}
		var keyEnd int
		st.key, first, keyEnd = x.key(e.Key())
		last = skipSpaces(x.src, keyEnd) + closer
		x.section = st.key
	default:
		st.kind, st.section = stmtKeyValue, x.section
		var keyEnd int
		st.key, first, keyEnd = x.key(e.Key())
		st.value = x.value(e.Value(), keyEnd)
		last = st.value.end
	}
	st.start = lineStart(x.src, first)
	st.end = lineEnd(x.src, last)
	return st
}

// key collects a dotted key and returns its decoded parts with the offsets of
// its first and one past its last byte.
func (x *indexer) key(it unstable.Iterator) (Path, int, int) {
	var (
		parts      Path
		start, end = -1, 0
	)
	for it.Next() {
		k := it.Node()
		parts = append(parts, string(k.Data))
		s, e := span(k.Raw)
		if start < 0 {
			start = s
		}
		end = e
	}
	return parts, start, end
}

// value locates n, which starts at the first token at or after from.
func (x *indexer) value(n *unstable.Node, from int) *value {
	switch n.Kind {
	case unstable.Array:
		v := &value{kind: valueArray, start: skipTrivia(x.src, from, "=,")}
		pos := v.start + 1
		it := n.Children()
		for it.Next() {
			c := it.Node()
			if c.Kind == unstable.Comment {
				continue
			}
			elem := x.value(c, pos)
			entry := &item{start: elem.start, value: elem, commaEnd: -1}
			pos = x.separator(entry)
			v.items = append(v.items, entry)
		}
		v.end = skipTrivia(x.src, pos, ",") + 1
		return v

	case unstable.InlineTable:
		start, _ := span(n.Raw)
		v := &value{kind: valueInlineTable, start: start}
		pos := start + 1
		it := n.Children()
		for it.Next() {
			kv := it.Node()
			key, keyStart, keyEnd := x.key(kv.Key())
			elem := x.value(kv.Value(), keyEnd)
			entry := &item{key: key, start: keyStart, value: elem, commaEnd: -1}
			pos = x.separator(entry)
			v.items = append(v.items, entry)
		}
		v.end = skipTrivia(x.src, pos, ",") + 1
		return v

	default:
		// Booleans and date-times carry no Raw range, but their Data
		// references the input.
		r := n.Raw
		if r.Length == 0 {
			r = x.p.Range(n.Data)
		}
		start, end := span(r)
		return &value{kind: valueScalar, start: start, end: end}
	}
}

// separator records the comma that follows entry, if any, and returns the
// offset where scanning for the next entry resumes.
func (x *indexer) separator(entry *item) int {
	pos := skipTrivia(x.src, entry.value.end, "")
	if pos < len(x.src) && x.src[pos] == ',' {
		entry.commaEnd = pos + 1
		return entry.commaEnd
	}
	return entry.value.end
}

func (x *indexer) parserError(err error) error {
	var pe *unstable.ParserError
	if errors.As(err, &pe) && len(pe.Highlight) > 0 {
		pos := x.p.Shape(x.p.Range(pe.Highlight)).Start
		return &ParseError{Line: pos.Line, Column: pos.Column, Message: pe.Message, cause: err}
	}
	return fmt.Errorf("index toml: %w", err)
}

func span(r unstable.Range) (int, int) {
	return int(r.Offset), int(r.Offset + r.Length)
}

func skipSpaces(src []byte, pos int) int {
	for pos < len(src) && (src[pos] == ' ' || src[pos] == '\t') {
		pos++
	}
	return pos
}

// skipTrivia returns the first offset at or after pos that holds neither
// whitespace, a line break, a comment nor one of the bytes in seps.
func skipTrivia(src []byte, pos int, seps string) int {
	for pos < len(src) {
		switch c := src[pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			pos++
		case c == '#':
			for pos < len(src) && src[pos] != '\n' {
				pos++
			}
		case strings.IndexByte(seps, c) >= 0:
			pos++
		default:
			return pos
		}
	}
	return pos
}

// lineEnd returns the offset after the line break that ends the expression
// finishing at pos; a trailing comment belongs to the expression.
func lineEnd(src []byte, pos int) int {
	if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(src)
}

func lineStart(src []byte, pos int) int {
	for pos > 0 && src[pos-1] != '\n' {
		pos--
	}
	return pos
}
