// SPDX-License-Identifier: MPL-2.0

package tomldoc

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// edit replaces src[start:end] with text. Insertions have start == end.
type edit struct {
	start int
	end   int
	text  string
}

// apply splices the edits into the source and re-parses it. The document is
// left untouched when the result is not valid TOML.
func (d *Document) apply(edits ...edit) error {
	edits = mergeEdits(edits)

	var out bytes.Buffer
	out.Grow(len(d.src))
	last := 0
	for _, e := range edits {
		out.Write(d.src[last:e.start])
		out.WriteString(e.text)
		last = e.end
	}
	out.Write(d.src[last:])

	next, err := parse(out.Bytes())
	if err != nil {
		return fmt.Errorf("rewritten document is not valid TOML: %w", err)
	}
	next.bom = d.bom
	*d = *next
	return nil
}

// mergeEdits sorts edits by offset and coalesces overlapping removals.
func mergeEdits(edits []edit) []edit {
	slices.SortFunc(edits, func(a, b edit) int { return a.start - b.start })
	merged := edits[:0]
	for _, e := range edits {
		if n := len(merged); n > 0 && e.start < merged[n-1].end && e.text == "" && merged[n-1].text == "" {
			merged[n-1].end = max(merged[n-1].end, e.end)
			continue
		}
		merged = append(merged, e)
	}
	return merged
}

// removals collects the edits that drop every definition found under path.
// At most one inline-table entry is removed per call because neighbouring
// entries share separators; Delete loops until nothing is left.
func (d *Document) removals(path Path) []edit {
	var (
		edits  []edit
		inline *edit
	)
	for i, st := range d.stmts {
		switch st.kind {
		case stmtTable, stmtArrayTable:
			if st.key.HasPrefix(path) {
				edits = append(edits, d.sectionRange(i))
			}
		case stmtKeyValue:
			if len(st.section) > 0 && st.section.HasPrefix(path) {
				continue
			}
			abs := st.path()
			switch {
			case abs.HasPrefix(path):
				edits = append(edits, edit{start: st.start, end: st.end})
			case inline == nil && path.HasPrefix(abs):
				if e, ok := d.inlineRemoval(st.value, path[len(abs):]); ok {
					inline = &e
				}
			}
		}
	}
	if inline != nil {
		edits = append(edits, *inline)
	}
	return edits
}

// inlineRemoval finds the inline-table entry defining rel inside v.
func (d *Document) inlineRemoval(v *value, rel Path) (edit, bool) {
	if v.kind != valueInlineTable {
		return edit{}, false
	}
	for i, it := range v.items {
		if it.key.HasPrefix(rel) {
			return d.itemRemoval(v, i), true
		}
		if rel.HasPrefix(it.key) {
			if e, ok := d.inlineRemoval(it.value, rel[len(it.key):]); ok {
				return e, true
			}
		}
	}
	return edit{}, false
}

// sectionRange covers a table header and its body up to the next header,
// plus the blank lines that follow it. Comment lines directly above a header,
// with no blank line in between, belong to that header: they go with the
// section and are left in place for the next one. A section at the end of the
// file also takes the blank lines before it.
func (d *Document) sectionRange(i int) edit {
	start := d.stmts[d.attachedComments(i)].start

	next := i + 1
	for next < len(d.stmts) && !d.stmts[next].isHeader() {
		next++
	}
	bodyEnd := next
	if next < len(d.stmts) {
		bodyEnd = max(d.attachedComments(next), i+1)
	}
	end := d.stmts[bodyEnd-1].end

	end = skipBlankLines(d.src, end)
	if end == len(d.src) {
		start = backBlankLines(d.src, start)
	}
	return edit{start: start, end: end}
}

// attachedComments returns the index of the first comment statement in the
// run of comment lines that directly precedes statement i, or i when there
// is none.
func (d *Document) attachedComments(i int) int {
	j := i
	for j > 0 {
		prev := d.stmts[j-1]
		if prev.kind != stmtComment || prev.end != d.stmts[j].start {
			break
		}
		j--
	}
	return j
}

// itemRemoval removes one element or entry from an array or inline table.
func (d *Document) itemRemoval(list *value, idx int) edit {
	items := list.items
	it := items[idx]
	tail := it.value.end
	if it.commaEnd >= 0 {
		tail = it.commaEnd
	}
	open, closing := list.start, list.end-1

	// An item that owns its line(s) is removed with them, trailing comment
	// included.
	if ls := lineStart(d.src, it.start); ls > open && isBlank(d.src[ls:it.start]) {
		if le, ok := restOfLine(d.src, tail); ok && le <= closing {
			return edit{start: ls, end: le}
		}
	}

	switch {
	case idx+1 < len(items):
		return edit{start: it.start, end: items[idx+1].start}
	case idx > 0:
		return edit{start: items[idx-1].value.end, end: tail}
	case isBlank(d.src[open+1:it.start]) && isBlank(d.src[tail:closing]):
		return edit{start: open + 1, end: closing}
	default:
		return edit{start: it.start, end: tail}
	}
}

// insertion builds the edit that adds `key = text` to the table at path.
func (d *Document) insertion(table Path, key, text string) edit {
	line := formatKey(key) + " = " + text

	// Explicit [table] or the last [[table]] element.
	if hdr := d.lastHeader(table); hdr >= 0 {
		last := d.stmts[hdr]
		for j := hdr + 1; j < len(d.stmts) && !d.stmts[j].isHeader(); j++ {
			if d.stmts[j].kind == stmtKeyValue {
				last = d.stmts[j]
			}
		}
		return d.insertAfter(last, line)
	}

	if len(table) == 0 {
		var last *statement
		for _, st := range d.stmts {
			if st.isHeader() {
				break
			}
			if st.kind == stmtKeyValue {
				last = st
			}
		}
		if last != nil {
			return d.insertAfter(last, line)
		}
		return edit{text: line + d.newline()}
	}

	// Inline table: `table = { ... }`.
	if v := d.findValue(table); v != nil && v.kind == valueInlineTable {
		if len(v.items) == 0 {
			return edit{start: v.end - 1, end: v.end - 1, text: line}
		}
		end := v.items[len(v.items)-1].value.end
		return edit{start: end, end: end, text: ", " + line}
	}

	// Table implied by dotted keys: `table.other = ...`.
	for i := len(d.stmts) - 1; i >= 0; i-- {
		st := d.stmts[i]
		if st.kind != stmtKeyValue || len(st.section) > len(table) {
			continue
		}
		if abs := st.path(); len(abs) > len(table) && abs.HasPrefix(table) {
			rel := append(slices.Clone(table[len(st.section):]), key)
			return d.insertAfter(st, rel.String()+" = "+text)
		}
	}

	// Table implied by sub-table headers only: open it explicitly at the end.
	nl := d.newline()
	var b strings.Builder
	if n := len(d.src); n > 0 {
		if d.src[n-1] != '\n' {
			b.WriteString(nl)
		}
		b.WriteString(nl)
	}
	b.WriteString("[" + table.String() + "]" + nl + line + nl)
	return edit{start: len(d.src), end: len(d.src), text: b.String()}
}

func (d *Document) lastHeader(table Path) int {
	for i := len(d.stmts) - 1; i >= 0; i-- {
		if st := d.stmts[i]; st.isHeader() && st.key.Equal(table) {
			return i
		}
	}
	return -1
}

// insertAfter adds line right after st, using st's indentation.
func (d *Document) insertAfter(st *statement, line string) edit {
	nl := d.newline()
	indent := d.src[st.start:st.start]
	for i := st.start; i < len(d.src) && (d.src[i] == ' ' || d.src[i] == '\t'); i++ {
		indent = d.src[st.start : i+1]
	}
	prefix := ""
	if st.end == len(d.src) && (st.end == 0 || d.src[st.end-1] != '\n') {
		prefix = nl
	}
	return edit{start: st.end, end: st.end, text: prefix + string(indent) + line + nl}
}

// newline returns the document's line ending.
func (d *Document) newline() string {
	if bytes.Contains(d.src, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			return false
		}
	}
	return true
}

// restOfLine returns the offset after the newline ending the line at pos when
// only blanks and an optional comment remain on it.
func restOfLine(src []byte, pos int) (int, bool) {
	for pos < len(src) && (src[pos] == ' ' || src[pos] == '\t') {
		pos++
	}
	if pos < len(src) && src[pos] == '#' {
		for pos < len(src) && src[pos] != '\n' {
			pos++
		}
	}
	switch {
	case pos+1 < len(src) && src[pos] == '\r' && src[pos+1] == '\n':
		return pos + 2, true
	case pos < len(src) && src[pos] == '\n':
		return pos + 1, true
	default:
		return 0, false
	}
}

// skipBlankLines advances pos (a line start) over whitespace-only lines.
func skipBlankLines(src []byte, pos int) int {
	for {
		i := pos
		for i < len(src) && (src[i] == ' ' || src[i] == '\t' || src[i] == '\r') {
			i++
		}
		switch {
		case i == len(src):
			return len(src)
		case src[i] == '\n':
			pos = i + 1
		default:
			return pos
		}
	}
}

// backBlankLines moves start (a line start) back over whitespace-only lines.
func backBlankLines(src []byte, start int) int {
	for start > 0 {
		prev := lineStart(src, start-1)
		if !isBlank(src[prev : start-1]) {
			break
		}
		start = prev
	}
	return start
}
