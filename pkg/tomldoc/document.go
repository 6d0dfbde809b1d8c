// SPDX-License-Identifier: MPL-2.0

package tomldoc

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Document is a parsed TOML document that can be mutated without disturbing
// formatting outside the mutated keys. A Document is not safe for concurrent
// use.
type Document struct {
	src   []byte
	root  map[string]any
	stmts []*statement
	// bom records a leading UTF-8 byte order mark; src never holds it.
	bom bool
}

var utf8BOM = []byte("\xEF\xBB\xBF")

// TrimBOM returns src without a leading UTF-8 byte order mark.
func TrimBOM(src []byte) []byte { return bytes.TrimPrefix(src, utf8BOM) }

// Parse decodes src. The returned document owns a private copy of src. A
// leading byte order mark is skipped and written back by Bytes.
func Parse(src []byte) (*Document, error) {
	body := TrimBOM(src)
	doc, err := parse(bytes.Clone(body))
	if err != nil {
		return nil, err
	}
	doc.bom = len(body) != len(src)
	return doc, nil
}

func parse(buf []byte) (*Document, error) {
	var root map[string]any
	if err := toml.Unmarshal(buf, &root); err != nil {
		return nil, newParseError(err)
	}
	if root == nil {
		root = map[string]any{}
	}

	stmts, err := scan(buf)
	if err != nil {
		return nil, err
	}
	return &Document{src: buf, root: root, stmts: stmts}, nil
}

// Bytes returns the current serialized form of the document.
func (d *Document) Bytes() []byte {
	if d.bom {
		return append(bytes.Clone(utf8BOM), d.src...)
	}
	return bytes.Clone(d.src)
}

// String returns the current serialized form of the document.
func (d *Document) String() string { return string(d.Bytes()) }

// Root returns the root table.
func (d *Document) Root() Node { return Node{value: d.root} }

// Get resolves path against the current document state.
func (d *Document) Get(path Path) (Node, bool) {
	var cur any = d.root
	for _, k := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return Node{}, false
		}
		if cur, ok = m[k]; !ok {
			return Node{}, false
		}
	}
	return newNode(path, cur), true
}

// Table resolves path to a table, failing with *SectionMissingError when the
// path is absent or not a table.
func (d *Document) Table(path Path) (Node, error) {
	n, ok := d.Get(path)
	if !ok {
		return Node{}, &SectionMissingError{Path: path, Want: KindTable}
	}
	if n.Kind() != KindTable {
		return Node{}, &SectionMissingError{Path: path, Want: KindTable, Found: n.Kind()}
	}
	return n, nil
}

// Value resolves path to any value. The enclosing table must exist
// (*SectionMissingError) and contain the key (*KeyMissingError).
func (d *Document) Value(path Path) (Node, error) {
	if len(path) == 0 {
		return d.Root(), nil
	}
	parent, err := d.Table(path.Parent())
	if err != nil {
		return Node{}, err
	}
	n, ok := parent.Child(path.Last())
	if !ok {
		return Node{}, &KeyMissingError{Table: path.Parent(), Key: path.Last()}
	}
	return n, nil
}

// Array resolves path to an array.
func (d *Document) Array(path Path) (Node, error) {
	n, err := d.Value(path)
	if err != nil {
		return Node{}, err
	}
	if n.Kind() != KindArray {
		return Node{}, &SectionMissingError{Path: path, Want: KindArray, Found: n.Kind()}
	}
	return n, nil
}

// Set creates or overwrites the key at path with v. The enclosing table must
// already exist. An existing value keeps its position; a new key is appended
// to the table where it is defined.
func (d *Document) Set(path Path, v any) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: cannot set the root table", ErrInvalidPath)
	}
	table := path.Parent()
	if _, err := d.Table(table); err != nil {
		return err
	}
	text, err := encodeValue(v)
	if err != nil {
		return err
	}

	if site := d.findValue(path); site != nil {
		return d.apply(edit{start: site.start, end: site.end, text: text})
	}
	return d.apply(d.insertion(table, path.Last(), text))
}

// Delete removes the key at path together with everything defined beneath it
// (table headers, sub-tables, dotted keys, inline-table entries). The parent
// table must exist and contain the key.
func (d *Document) Delete(path Path) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: cannot delete the root table", ErrInvalidPath)
	}
	parent, err := d.Table(path.Parent())
	if err != nil {
		return err
	}
	if !parent.Has(path.Last()) {
		return &KeyMissingError{Table: path.Parent(), Key: path.Last()}
	}

	saved := *d
	for {
		edits := d.removals(path)
		if len(edits) == 0 {
			break
		}
		if err := d.apply(edits...); err != nil {
			*d = saved
			return err
		}
	}
	if _, still := d.Get(path); still {
		*d = saved
		return fmt.Errorf("delete %s: definition could not be located", path)
	}
	return nil
}

// RemoveElement removes the element at index from the array at path.
func (d *Document) RemoveElement(path Path, index int) error {
	arr, err := d.Array(path)
	if err != nil {
		return err
	}
	if index < 0 || index >= arr.Len() {
		return fmt.Errorf("remove element %d of %s: index out of range [0, %d)", index, path, arr.Len())
	}
	site := d.findValue(path)
	if site == nil || site.kind != valueArray || len(site.items) != arr.Len() {
		return fmt.Errorf("remove element %d of %s: array definition could not be located", index, path)
	}
	return d.apply(d.itemRemoval(site, index))
}

// RemoveString removes the first element of the array at path that equals s.
// Unlike a filter, the removal is strict: *ElementMissingError is returned
// when no element matches.
func (d *Document) RemoveString(path Path, s string) error {
	arr, err := d.Array(path)
	if err != nil {
		return err
	}
	for i := range arr.Len() {
		if v, ok := arr.Index(i).String(); ok && v == s {
			return d.RemoveElement(path, i)
		}
	}
	return &ElementMissingError{Path: path, Value: s}
}

// findValue returns the span of the value stored at path. Values defined in
// array-of-tables sections resolve to the last definition.
func (d *Document) findValue(path Path) *value {
	var found *value
	for _, st := range d.stmts {
		if st.kind != stmtKeyValue {
			continue
		}
		abs := st.path()
		switch {
		case abs.Equal(path):
			found = st.value
		case path.HasPrefix(abs):
			if v := st.value.lookup(path[len(abs):]); v != nil {
				found = v
			}
		}
	}
	return found
}
