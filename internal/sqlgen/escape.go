package sqlgen

import (
	"bytes"
	"encoding/json"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE metacharacters of s so it matches literally
// under the default backslash escape.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// LikePattern builds a LIKE pattern for value, turning the leading and
// trailing wildcards of a value pattern match into '%'.
func LikePattern(value string, leading, trailing bool) string {
	pattern := EscapeLike(value)
	if leading {
		pattern = "%" + pattern
	}
	if trailing {
		pattern += "%"
	}
	return pattern
}

// jsonObject encodes a single-member JSON object such as {"natural":"tree"}
// for jsonb containment. HTML characters are kept as is.
func jsonObject(key, value string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]string{key: value}); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
