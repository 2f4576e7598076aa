package tokfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// Decode parses data in the given format. FormatAuto and FormatJSON sniff
// the first JSON token to choose between the native and PHP shapes.
func Decode(data []byte, format Format) (*Document, Format, error) {
	switch format {
	case FormatMsgpack:
		doc, err := decodeMsgpack(bytes.NewReader(data))
		return doc, FormatMsgpack, err
	case FormatPHP:
		doc, err := decodePHP(data)
		return doc, FormatPHP, err
	case FormatJSON, FormatAuto:
	default:
		return nil, format, ErrUnknownFormat
	}

	switch firstByte(data) {
	case '{':
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, FormatJSON, fmt.Errorf("decode token dump: %w", err)
		}
		return &doc, FormatJSON, nil
	case '[':
		doc, err := decodePHP(data)
		return doc, FormatPHP, err
	}
	if format == FormatAuto {
		if doc, err := decodeMsgpack(bytes.NewReader(data)); err == nil {
			return doc, FormatMsgpack, nil
		}
	}
	return nil, format, ErrUnknownFormat
}

// ReadFile reads and decodes the dump at path, choosing the format by extension.
func ReadFile(path string) (*Document, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FormatAuto, err
	}
	doc, format, err := Decode(data, FormatForPath(path))
	if err != nil {
		return nil, format, fmt.Errorf("%s: %w", path, err)
	}
	return doc, format, nil
}

func decodeMsgpack(r io.Reader) (*Document, error) {
	var doc Document
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode msgpack token dump: %w", err)
	}
	return &doc, nil
}

// decodePHP handles json_encode(array_map(token_name..., token_get_all($src))):
// items are either plain strings or [name, text, line].
func decodePHP(data []byte) (*Document, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode php token dump: %w", err)
	}
	doc := &Document{Tokens: make([]Entry, 0, len(raw))}
	for i, item := range raw {
		switch firstByte(item) {
		case '"':
			var text string
			if err := json.Unmarshal(item, &text); err != nil {
				return nil, fmt.Errorf("token %d: %w", i, err)
			}
			doc.Tokens = append(doc.Tokens, Entry{Kind: text, Text: text})
		case '[':
			var triple []json.RawMessage
			if err := json.Unmarshal(item, &triple); err != nil {
				return nil, fmt.Errorf("token %d: %w", i, err)
			}
			if len(triple) < 2 {
				return nil, fmt.Errorf("token %d: expected [name, text, line], got %d items", i, len(triple))
			}
			var e Entry
			if err := json.Unmarshal(triple[0], &e.Kind); err != nil {
				return nil, fmt.Errorf("token %d name: %w", i, err)
			}
			if err := json.Unmarshal(triple[1], &e.Text); err != nil {
				return nil, fmt.Errorf("token %d text: %w", i, err)
			}
			if len(triple) > 2 {
				if err := json.Unmarshal(triple[2], &e.Line); err != nil {
					return nil, fmt.Errorf("token %d line: %w", i, err)
				}
			}
			doc.Tokens = append(doc.Tokens, e)
		default:
			return nil, fmt.Errorf("token %d: %w", i, ErrUnknownFormat)
		}
	}
	return doc, nil
}

func firstByte(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
