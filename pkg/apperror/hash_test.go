package apperror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHashStability(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{
			name: "iso timestamps differ",
			a:    "boom at 2024-06-01T00:00:00Z",
			b:    "boom at 2024-07-14T11:22:33Z",
		},
		{
			name: "line numbers differ",
			a:    "SyntaxError on line 12 of App.tsx",
			b:    "SyntaxError on line 97 of App.tsx",
		},
		{
			name: "column numbers differ",
			a:    "unexpected token at line 3, column 18",
			b:    "unexpected token at line 9, column 2",
		},
		{
			name: "at-position markers differ",
			a:    "render error @12:44 in component",
			b:    "render error @3:7 in component",
		},
		{
			name: "file positions differ",
			a:    "TypeError: Cannot read property 'x' of undefined at /a/b.ts:17:4",
			b:    "TypeError: Cannot read property 'x' of undefined at /a/b.ts:42:9",
		},
		{
			name: "millisecond durations differ",
			a:    "request timed out after 1500 ms",
			b:    "request timed out after 30000 ms",
		},
		{
			name: "case and spacing differ",
			a:    "Build   Failed:  something",
			b:    "build failed: something",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ErrorHash(tt.a), ErrorHash(tt.b))
		})
	}
}

func TestErrorHashDistinguishesDifferentErrors(t *testing.T) {
	a := ErrorHash("Cannot find module 'axios'")
	b := ErrorHash("Cannot find module 'lodash'")
	assert.NotEqual(t, a, b)
}

func TestErrorHashFormat(t *testing.T) {
	hash := ErrorHash("anything")
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, ErrorHash("anything"))
}

func TestNormalizeError(t *testing.T) {
	got := normalizeError("TypeError: Cannot read property 'x' of undefined at /a/b.ts:17:4 at 2024-06-01T00:00:00Z")
	assert.Equal(t, "typeerror: cannot read property 'x' of undefined at /a/b.ts at", got)
}
