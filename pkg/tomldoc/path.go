// SPDX-License-Identifier: MPL-2.0

package tomldoc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
)

// Path is a key path from the document root, one element per key segment.
// The empty Path addresses the root table.
type Path []string

// ParsePath parses a dotted TOML key such as `build-system.requires` or
// `tool."setuptools-git-versioning"`. Quoted segments follow TOML key rules.
func ParsePath(s string) (Path, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if strings.ContainsAny(s, "\r\n") {
		return nil, fmt.Errorf("%w: %q: line break in key", ErrInvalidPath, s)
	}

	// Parse `<s> = 0`; s is a key only when the value lands right after it.
	line := []byte(s + " = 0")
	var p unstable.Parser
	p.Reset(line)
	if !p.NextExpression() {
		if err := p.Error(); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPath, s, err)
		}
		return nil, fmt.Errorf("%w: %q: no key", ErrInvalidPath, s)
	}
	e := p.Expression()
	if e.Kind != unstable.KeyValue || int(e.Value().Raw.Offset) != len(s)+len(" = ") {
		return nil, fmt.Errorf("%w: %q: not a single key", ErrInvalidPath, s)
	}
	var key Path
	it := e.Key()
	for it.Next() {
		key = append(key, string(it.Node().Data))
	}
	if p.NextExpression() || p.Error() != nil {
		return nil, fmt.Errorf("%w: %q: not a single key", ErrInvalidPath, s)
	}
	return key, nil
}

// MustParsePath is like ParsePath but panics on error. Intended for constants.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String formats the path as a dotted TOML key, quoting segments that are not
// valid bare keys.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, k := range p {
		parts[i] = formatKey(k)
	}
	return strings.Join(parts, ".")
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return slices.Clone(p[:len(p)-1])
}

// Last returns the final segment, or "" for the root path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Child returns a new path with key appended.
func (p Path) Child(key string) Path {
	return append(slices.Clone(p), key)
}

// Equal reports whether both paths have the same segments.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// HasPrefix reports whether prefix is a (non-strict) prefix of p.
func (p Path) HasPrefix(prefix Path) bool {
	return len(p) >= len(prefix) && slices.Equal(p[:len(prefix)], prefix)
}

func formatKey(k string) string {
	if k != "" && isBareKey(k) {
		return k
	}
	return quoteBasic(k)
}

func isBareKey(k string) bool {
	for i := 0; i < len(k); i++ {
		if !isBareKeyChar(k[i]) {
			return false
		}
	}
	return true
}

func isBareKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}
