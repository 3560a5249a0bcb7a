package innerclass_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/innerfix/innerclass"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		fragment string
		expected innerclass.Classification
	}{
		{
			name:     "anonymous",
			prefix:   "Outer",
			fragment: "1",
			expected: innerclass.Classification{Kind: innerclass.Anonymous},
		},
		{
			name:     "anonymous multi digit",
			prefix:   "Outer",
			fragment: "12",
			expected: innerclass.Classification{Kind: innerclass.Anonymous},
		},
		{
			name:     "local",
			prefix:   "Outer",
			fragment: "1Local",
			expected: innerclass.Classification{Kind: innerclass.Local, SimpleName: "Local"},
		},
		{
			name:     "local with digits after letter",
			prefix:   "Outer",
			fragment: "23a1",
			expected: innerclass.Classification{Kind: innerclass.Local, SimpleName: "a1"},
		},
		{
			name:     "local with unicode name",
			prefix:   "Outer",
			fragment: "1Ärger",
			expected: innerclass.Classification{Kind: innerclass.Local, SimpleName: "Ärger"},
		},
		{
			name:     "local after underscore",
			prefix:   "Outer",
			fragment: "1_x",
			expected: innerclass.Classification{Kind: innerclass.Local, SimpleName: "x"},
		},
		{
			name:     "local with supplementary letter",
			prefix:   "Outer",
			fragment: "1𝒜x",
			expected: innerclass.Classification{Kind: innerclass.Local, SimpleName: "𝒜x"},
		},
		{
			name:     "local with modified utf-8 surrogate pair",
			prefix:   "Outer",
			fragment: "1\xed\xa0\xb5\xed\xb3\x9cx",
			expected: innerclass.Classification{Kind: innerclass.Local, SimpleName: "x"},
		},
		{
			name:     "nested",
			prefix:   "Outer",
			fragment: "Nested",
			expected: innerclass.Classification{Kind: innerclass.Nested, OuterName: "Outer", SimpleName: "Nested"},
		},
		{
			name:     "nested starting with underscore",
			prefix:   "a/b",
			fragment: "_1",
			expected: innerclass.Classification{Kind: innerclass.Nested, OuterName: "a/b", SimpleName: "_1"},
		},
		{
			name:     "empty fragment",
			prefix:   "Outer",
			fragment: "",
			expected: innerclass.Classification{Kind: innerclass.Anonymous},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, innerclass.Classify(tt.prefix, tt.fragment))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "nested", innerclass.Nested.String())
	assert.Equal(t, "local", innerclass.Local.String())
	assert.Equal(t, "anonymous", innerclass.Anonymous.String())
	assert.Equal(t, "unknown", innerclass.Kind(9).String())
}
