// SPDX-License-Identifier: MPL-2.0

package tomldoc

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// encodeValue renders v as an inline TOML value. Strings use basic (double
// quoted) strings, matching the usual pyproject.toml convention; everything
// else goes through the go-toml encoder with inline tables.
func encodeValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return quoteBasic(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case nil:
		return "", fmt.Errorf("%w: nil", ErrUnsupportedValue)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf).SetTablesInline(true)
	if err := enc.Encode(map[string]any{"v": v}); err != nil {
		return "", fmt.Errorf("%w: %T: %w", ErrUnsupportedValue, v, err)
	}
	out := strings.TrimSpace(buf.String())
	rest, ok := strings.CutPrefix(out, "v = ")
	if !ok || strings.Contains(rest, "\n") {
		return "", fmt.Errorf("%w: %T has no inline form", ErrUnsupportedValue, v)
	}
	return rest, nil
}

// quoteBasic renders s as a TOML basic string.
func quoteBasic(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
