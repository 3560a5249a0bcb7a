package innerclass

import (
	"unicode"
	"unicode/utf8"
)

// Kind classifies how a type relates to its enclosing type
type Kind int

const (
	Nested Kind = iota
	Local
	Anonymous
)

func (k Kind) String() string {
	switch k {
	case Nested:
		return "nested"
	case Local:
		return "local"
	case Anonymous:
		return "anonymous"
	}
	return "unknown"
}

// Classification is the recovered (outer name, simple name) pair for one kind.
// Empty strings stand for names that cannot be recovered.
type Classification struct {
	Kind       Kind
	OuterName  string
	SimpleName string
}

// Classify inspects the fragment after the last separator. Compiler synthesized types start
// with a digit: local types carry a simple name after the digits, anonymous ones do not.
// Letters are tested per decoded rune. Surrogate halves of modified UTF-8 names decode as
// utf8.RuneError and are not letters.
func Classify(prefix, fragment string) Classification {
	if fragment == "" {
		return Classification{Kind: Anonymous}
	}
	first, _ := utf8.DecodeRuneInString(fragment)
	if !unicode.IsDigit(first) {
		return Classification{Kind: Nested, OuterName: prefix, SimpleName: fragment}
	}
	for i, r := range fragment {
		if unicode.IsLetter(r) {
			return Classification{Kind: Local, SimpleName: fragment[i:]}
		}
	}
	return Classification{Kind: Anonymous}
}
