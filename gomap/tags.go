package gomap

import (
	"fmt"
	"strings"
)

// TagName is the struct tag key read by Encode and Decode.
const TagName = "node"

// ParseStructTag parses a struct tag string and returns a map of key-value
// pairs. Handles comma or space separated values:
// `node:"field=name,omitempty"`. Values may be quoted with single or double
// quotes. A bare flag maps to the empty string.
func ParseStructTag(tag string) (map[string]string, error) {
	result := make(map[string]string)
	if tag == "" {
		return result, nil
	}
	if tag == "-" {
		result["-"] = ""
		return result, nil
	}

	var parts []string
	var current strings.Builder
	var quote byte
	flush := func() {
		if part := strings.TrimSpace(current.String()); part != "" {
			parts = append(parts, part)
		}
		current.Reset()
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			current.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			current.WriteByte(c)
		case c == ',' || c == ' ':
			flush()
		default:
			current.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("invalid tag %q: unterminated quote", tag)
	}
	flush()

	for _, part := range parts {
		key, value, found := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid tag: empty key in %q", part)
		}
		if !found {
			result[key] = ""
			continue
		}
		result[key] = unquoteValue(strings.TrimSpace(value))
	}
	return result, nil
}

// unquoteValue removes surrounding single or double quotes from a value.
func unquoteValue(v string) string {
	if len(v) >= 2 {
		if (v[0] == '\'' && v[len(v)-1] == '\'') || (v[0] == '"' && v[len(v)-1] == '"') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
