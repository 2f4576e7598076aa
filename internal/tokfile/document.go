package tokfile

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned for dumps that match none of the known shapes.
var ErrUnknownFormat = errors.New("unknown token dump format")

// Format identifies a dump encoding.
type Format uint8

const (
	FormatAuto Format = iota
	FormatJSON
	FormatPHP
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatPHP:
		return "php"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "auto"
	}
}

// ParseFormat accepts auto|json|php|msgpack|mp.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "php":
		return FormatPHP, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	}
	return FormatAuto, ErrUnknownFormat
}

// FormatForPath guesses the encoding from the file extension. JSON covers
// both native and PHP shapes; the decoder tells them apart.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp", ".msgpack":
		return FormatMsgpack
	case ".json":
		return FormatJSON
	}
	return FormatAuto
}

// Document is the native dump.
type Document struct {
	Path   string  `json:"path" msgpack:"path"`
	Tokens []Entry `json:"tokens" msgpack:"tokens"`
}

// Entry is one token of a dump. Kind is a PHP token name (T_STRING), a
// literal single-character token ("(") or a sniffer kind name (LParen).
// Line is optional; zero means "derive from preceding newlines".
type Entry struct {
	Kind string `json:"kind" msgpack:"kind"`
	Text string `json:"text" msgpack:"text"`
	Line uint32 `json:"line,omitempty" msgpack:"line,omitempty"`
}

var dumpSuffixes = []string{".tokens.json", ".tokens.mp", ".tokens.msgpack", ".json", ".mp", ".msgpack"}

// SourcePathFor derives the source path of a dump without a "path" field:
// src/A.php.tokens.json -> src/A.php.
func SourcePathFor(dumpPath string) string {
	lower := strings.ToLower(dumpPath)
	for _, suf := range dumpSuffixes {
		if strings.HasSuffix(lower, suf) {
			return dumpPath[:len(dumpPath)-len(suf)]
		}
	}
	return dumpPath
}

// IsDump reports whether name ends with one of exts (case-insensitive).
func IsDump(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if ext != "" && strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
