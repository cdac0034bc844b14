package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unquoted unchanged", `natural`, `natural`},
		{"quotes removed", `"addr:street"`, `addr:street`},
		{"empty", `""`, ``},
		{"escaped quote", `"na\"tural"`, `na"tural`},
		{"escaped backslash", `"a\\b"`, `a\b`},
		{"escaped backslash before quote", `"a\\\"b"`, `a\"b`},
		{"escaped line feed", "\"a\\\nb\"", "a\nb"},
		{"escaped carriage return", "\"a\\\rb\"", "a\rb"},
		{"sql and like characters kept", `"it's 50%_off"`, `it's 50%_off`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unescape(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnescape_Errors(t *testing.T) {
	for _, input := range []string{`"abc`, `"`, `"a\"`, `"a\qb"`} {
		t.Run(input, func(t *testing.T) {
			_, err := Unescape(input)
			assert.Error(t, err)
		})
	}
}
