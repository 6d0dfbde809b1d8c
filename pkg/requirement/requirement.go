// SPDX-License-Identifier: MPL-2.0

// Package requirement parses Python package requirement strings such as
// `setuptools-git-versioning<2` or `requests[socks] >= 2.8; python_version > "3"`.
//
// Only the structure is parsed; versions and markers are kept verbatim.
package requirement

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is the sentinel error wrapped by SyntaxError.
var ErrSyntax = errors.New("invalid requirement")

// specifierOperators are ordered so that longer operators match first.
var specifierOperators = []string{"===", "~=", "==", "!=", "<=", ">=", "<", ">"}

type (
	// Requirement is a parsed requirement entry.
	Requirement struct {
		// Name is the package name exactly as written.
		Name string
		// Extras lists the optional features in brackets, in order.
		Extras []string
		// Specifier is the version constraint without parentheses (e.g. "<2").
		Specifier string
		// URL is set for direct references (`name @ url`).
		URL string
		// Marker is the environment marker after ';'.
		Marker string
	}

	// SyntaxError describes why a requirement string could not be parsed.
	SyntaxError struct {
		Input  string
		Offset int
		Reason string
	}
)

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid requirement %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}

// Unwrap returns ErrSyntax for errors.Is() compatibility.
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Parse parses a requirement string.
func Parse(s string) (Requirement, error) {
	p := &parser{input: s}
	return p.parse()
}

// Name returns the bare package name of a requirement string.
func Name(s string) (string, error) {
	r, err := Parse(s)
	if err != nil {
		return "", err
	}
	return r.Name, nil
}

// String renders the requirement in canonical spacing.
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[" + strings.Join(r.Extras, ",") + "]")
	}
	switch {
	case r.URL != "":
		b.WriteString(" @ " + r.URL)
	case r.Specifier != "":
		b.WriteString(r.Specifier)
	}
	if r.Marker != "" {
		if r.URL != "" {
			b.WriteString(" ")
		}
		b.WriteString("; " + r.Marker)
	}
	return b.String()
}

type parser struct {
	input string
	pos   int
}

func (p *parser) fail(reason string) error {
	return &SyntaxError{Input: p.input, Offset: p.pos, Reason: reason}
}

func (p *parser) eof() bool { return p.pos >= len(p.input) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSpaces() {
	for !p.eof() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) parse() (Requirement, error) {
	var r Requirement

	p.skipSpaces()
	name, err := p.identifier()
	if err != nil {
		return Requirement{}, err
	}
	r.Name = name

	p.skipSpaces()
	if p.peek() == '[' {
		if r.Extras, err = p.extras(); err != nil {
			return Requirement{}, err
		}
		p.skipSpaces()
	}

	switch p.peek() {
	case '@':
		p.pos++
		if r.URL, err = p.url(); err != nil {
			return Requirement{}, err
		}
	case '(':
		if r.Specifier, err = p.parenthesized(); err != nil {
			return Requirement{}, err
		}
	default:
		if r.Specifier, err = p.specifier(); err != nil {
			return Requirement{}, err
		}
	}

	p.skipSpaces()
	if p.peek() == ';' {
		p.pos++
		r.Marker = strings.TrimSpace(p.input[p.pos:])
		if r.Marker == "" {
			return Requirement{}, p.fail("empty environment marker")
		}
		p.pos = len(p.input)
	}

	if !p.eof() {
		return Requirement{}, p.fail(fmt.Sprintf("unexpected %q", p.peek()))
	}
	return r, nil
}

// identifier reads a name: letters and digits, with '.', '-' and '_'
// allowed in the middle.
func (p *parser) identifier() (string, error) {
	start := p.pos
	for !p.eof() && isNameChar(p.input[p.pos]) {
		p.pos++
	}
	name := p.input[start:p.pos]
	switch {
	case name == "":
		if p.eof() {
			return "", p.fail("missing package name")
		}
		return "", p.fail(fmt.Sprintf("expected package name, found %q", p.peek()))
	case !isAlnum(name[0]) || !isAlnum(name[len(name)-1]):
		p.pos = start
		return "", p.fail(fmt.Sprintf("name %q must start and end with a letter or digit", name))
	}
	return name, nil
}

func (p *parser) extras() ([]string, error) {
	p.pos++ // '['
	var extras []string
	for {
		p.skipSpaces()
		if p.peek() == ']' && len(extras) == 0 {
			p.pos++
			return extras, nil
		}
		extra, err := p.identifier()
		if err != nil {
			return nil, err
		}
		extras = append(extras, extra)
		p.skipSpaces()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return extras, nil
		default:
			return nil, p.fail("expected ',' or ']' in extras")
		}
	}
}

func (p *parser) url() (string, error) {
	p.skipSpaces()
	start := p.pos
	for !p.eof() && p.input[p.pos] != ' ' && p.input[p.pos] != '\t' && p.input[p.pos] != ';' {
		p.pos++
	}
	if p.pos == start {
		return "", p.fail("missing URL after '@'")
	}
	return p.input[start:p.pos], nil
}

func (p *parser) parenthesized() (string, error) {
	p.pos++ // '('
	end := strings.IndexByte(p.input[p.pos:], ')')
	if end < 0 {
		return "", p.fail("unterminated '('")
	}
	spec := strings.TrimSpace(p.input[p.pos : p.pos+end])
	if err := p.checkSpecifier(spec); err != nil {
		return "", err
	}
	p.pos += end + 1
	return spec, nil
}

func (p *parser) specifier() (string, error) {
	start := p.pos
	for !p.eof() && p.input[p.pos] != ';' {
		p.pos++
	}
	spec := strings.TrimSpace(p.input[start:p.pos])
	if err := p.checkSpecifier(spec); err != nil {
		p.pos = start
		return "", err
	}
	return spec, nil
}

// checkSpecifier verifies that every comma-separated clause starts with a
// comparison operator followed by a version.
func (p *parser) checkSpecifier(spec string) error {
	if spec == "" {
		return nil
	}
	for _, clause := range strings.Split(spec, ",") {
		clause = strings.TrimSpace(clause)
		op := operatorPrefix(clause)
		if op == "" {
			return p.fail(fmt.Sprintf("version clause %q has no comparison operator", clause))
		}
		if strings.TrimSpace(clause[len(op):]) == "" {
			return p.fail(fmt.Sprintf("version clause %q has no version", clause))
		}
	}
	return nil
}

func operatorPrefix(clause string) string {
	for _, op := range specifierOperators {
		if strings.HasPrefix(clause, op) {
			return op
		}
	}
	return ""
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isNameChar(c byte) bool {
	return isAlnum(c) || c == '.' || c == '-' || c == '_'
}
