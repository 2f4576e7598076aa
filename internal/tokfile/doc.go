// Package tokfile reads and writes token dumps, the input format of sniffer.
//
// Three shapes are accepted:
//
//   - native JSON: {"path": "src/A.php", "tokens": [{"kind": "T_FUNCTION", "text": "function", "line": 3}, ...]}
//   - PHP token_get_all JSON: an array of one-character strings and [name, text, line] triples
//   - msgpack of the native document (.mp)
//
// Loading concatenates token texts into the file content registered in a
// source.FileSet, so every token span points into real text.
package tokfile
