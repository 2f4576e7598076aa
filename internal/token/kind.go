package token

import (
	"strconv"
	"strings"
)

// Kind represents the category of a token as seen by sniffs.
type Kind uint8

const (
	// Other covers every token the sniffs do not distinguish.
	Other Kind = iota
	// Function is the function declaration keyword.
	Function // function
	// Ident is a bare identifier (declared names, type hints).
	Ident
	// Variable is a sigil-prefixed variable.
	Variable // $name
	// Whitespace is a run of spaces, tabs and newlines.
	Whitespace
	// LParen is the opening parenthesis.
	LParen // (
	// RParen is the closing parenthesis.
	RParen // )
	// LBracket is the opening square bracket.
	LBracket // [
	// RBracket is the closing square bracket.
	RBracket // ]
	// Comma separates parameters.
	Comma // ,
	// Equal introduces a default value.
	Equal // =
	// Ampersand marks a by-reference parameter.
	Ampersand // &
	// Ellipsis marks a variadic parameter.
	Ellipsis // ...

	kindCount
)

var kindNames = [...]string{
	Other:      "Other",
	Function:   "Function",
	Ident:      "Ident",
	Variable:   "Variable",
	Whitespace: "Whitespace",
	LParen:     "LParen",
	RParen:     "RParen",
	LBracket:   "LBracket",
	RBracket:   "RBracket",
	Comma:      "Comma",
	Equal:      "Equal",
	Ampersand:  "Ampersand",
	Ellipsis:   "Ellipsis",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind is the inverse of Kind.String, case-insensitive.
func ParseKind(s string) (Kind, bool) {
	for k := Other; k < kindCount; k++ {
		if strings.EqualFold(kindNames[k], s) {
			return k, true
		}
	}
	return Other, false
}

// KindSet is a bitset of kinds used by the search primitives.
type KindSet uint32

// Kinds builds a KindSet from the listed kinds.
func Kinds(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// Has reports whether k belongs to the set.
func (s KindSet) Has(k Kind) bool {
	return s&(1<<k) != 0
}
