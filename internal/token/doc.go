// Package token defines the token model consumed by sniffs.
// Invariants:
//   - Whitespace is a first-class token, never trivia: sniffs measure gaps by
//     looking at whitespace tokens directly.
//   - A token's position is its index in the Stream; positions grow with source order.
//   - Token spans are contiguous: concatenating Text of all tokens yields the file content.
//   - Token.Line is 1-based and refers to the line the token starts on.
package token
