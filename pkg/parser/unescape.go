package parser

import (
	"fmt"
	"strings"
)

// Unescape returns the value of a string token. Unquoted text is returned
// unchanged. Quoted text loses its surrounding quotes and has the escapes
// \" \\ and backslash-CR / backslash-LF collapsed in a single pass.
func Unescape(s string) (string, error) {
	if !strings.HasPrefix(s, `"`) {
		return s, nil
	}
	if len(s) < 2 || !strings.HasSuffix(s, `"`) {
		return "", fmt.Errorf("unterminated quoted string %s", s)
	}

	body := s[1 : len(s)-1]
	if !strings.Contains(body, `\`) {
		return body, nil
	}

	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(body) {
			return "", fmt.Errorf("dangling escape in %s", s)
		}
		switch next := body[i+1]; next {
		case '"', '\\', '\r', '\n':
			sb.WriteByte(next)
			i++
		default:
			return "", fmt.Errorf("invalid escape sequence \\%c in %s", next, s)
		}
	}
	return sb.String(), nil
}
