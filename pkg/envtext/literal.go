// Package envtext prepares KEY=VALUE documents for godotenv so that values
// are read as plain text.
package envtext

import (
	"bytes"
	"strings"
)

// Literal escapes every "$" that godotenv would otherwise expand from the
// process environment or earlier bindings. Single-quoted values are already
// literal and left alone, as are comments and dollars that are escaped.
func Literal(data []byte) []byte {
	lines := bytes.SplitAfter(data, []byte("\n"))
	var out bytes.Buffer
	out.Grow(len(data))

	for _, line := range lines {
		out.WriteString(literalLine(string(line)))
	}
	return out.Bytes()
}

func literalLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return line
	}
	key, value, ok := strings.Cut(line, "=")
	if !ok || !strings.Contains(value, "$") {
		return line
	}
	if strings.HasPrefix(strings.TrimLeft(value, " \t"), "'") {
		return line
	}
	return key + "=" + escapeDollars(value)
}

func escapeDollars(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		if s[i] == '$' && (i == 0 || s[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
