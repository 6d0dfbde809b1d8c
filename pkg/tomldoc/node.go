// SPDX-License-Identifier: MPL-2.0

package tomldoc

import "slices"

const (
	// KindInvalid is the zero Kind and marks an absent node.
	KindInvalid Kind = iota
	// KindTable is a mapping of keys to nodes (standard, inline or implicit table).
	KindTable
	// KindArray is an ordered sequence of nodes.
	KindArray
	// KindScalar is a string, number, boolean or date-time.
	KindScalar
)

type (
	// Kind tags the shape of a Node.
	Kind uint8

	// Node is a read-only view of one value of the decoded tree. The zero Node
	// has KindInvalid.
	//
	// Array elements have no key path: Index returns detached nodes, and so
	// does Child on a detached node.
	Node struct {
		path     Path
		value    any
		detached bool
	}
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindArray:
		return "array"
	case KindScalar:
		return "scalar"
	default:
		return "nothing"
	}
}

func (k Kind) article() string {
	switch k {
	case KindArray:
		return "an array"
	case KindInvalid:
		return "nothing"
	default:
		return "a " + k.String()
	}
}

func newNode(path Path, value any) Node {
	return Node{path: slices.Clone(path), value: value}
}

// Kind returns the shape of the node.
func (n Node) Kind() Kind {
	switch n.value.(type) {
	case nil:
		return KindInvalid
	case map[string]any:
		return KindTable
	case []any:
		return KindArray
	default:
		return KindScalar
	}
}

// Path returns the key path the node was resolved from, or nil for a
// detached node. The root table also has an empty path; use Addressable to
// tell the two apart.
func (n Node) Path() Path {
	if n.detached {
		return nil
	}
	return slices.Clone(n.path)
}

// Addressable reports whether Path names the node, that is, whether the node
// was not reached through an array element.
func (n Node) Addressable() bool { return n.Kind() != KindInvalid && !n.detached }

// Value returns the decoded Go value as produced by go-toml: map[string]any,
// []any, string, int64, float64, bool or one of the toml/time date types.
func (n Node) Value() any { return n.value }

// Has reports whether a table node contains key.
func (n Node) Has(key string) bool {
	m, ok := n.value.(map[string]any)
	if !ok {
		return false
	}
	_, ok = m[key]
	return ok
}

// Child returns the value stored under key in a table node.
func (n Node) Child(key string) (Node, bool) {
	m, ok := n.value.(map[string]any)
	if !ok {
		return Node{}, false
	}
	v, ok := m[key]
	if !ok {
		return Node{}, false
	}
	if n.detached {
		return Node{value: v, detached: true}, true
	}
	return newNode(append(n.Path(), key), v), true
}

// Len returns the number of elements of an array or entries of a table.
func (n Node) Len() int {
	switch v := n.value.(type) {
	case map[string]any:
		return len(v)
	case []any:
		return len(v)
	default:
		return 0
	}
}

// Index returns the i-th element of an array node as a detached node, or the
// zero Node.
func (n Node) Index(i int) Node {
	arr, ok := n.value.([]any)
	if !ok || i < 0 || i >= len(arr) {
		return Node{}
	}
	return Node{value: arr[i], detached: true}
}

// String returns the value of a string scalar.
func (n Node) String() (string, bool) {
	s, ok := n.value.(string)
	return s, ok
}

// Bool returns the value of a boolean scalar.
func (n Node) Bool() (bool, bool) {
	b, ok := n.value.(bool)
	return b, ok
}

// Strings returns the string elements of an array node in order. Elements of
// other types are skipped.
func (n Node) Strings() []string {
	arr, ok := n.value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
