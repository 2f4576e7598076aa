package token

// NotFound is returned by the search primitives when nothing matches.
const NotFound = -1

// Stream is an ordered, read-only sequence of tokens of one file.
type Stream struct {
	toks []Token
}

// NewStream wraps toks. The slice must not be modified afterwards.
func NewStream(toks []Token) *Stream {
	return &Stream{toks: toks}
}

// Len returns the number of tokens.
func (s *Stream) Len() int {
	if s == nil {
		return 0
	}
	return len(s.toks)
}

// At returns the token at pos. Out of range positions yield the zero Token.
func (s *Stream) At(pos int) Token {
	if !s.Valid(pos) {
		return Token{}
	}
	return s.toks[pos]
}

// Valid reports whether pos addresses a token of the stream.
func (s *Stream) Valid(pos int) bool {
	return s != nil && pos >= 0 && pos < len(s.toks)
}

// Tokens returns the underlying tokens. Callers must not modify them.
func (s *Stream) Tokens() []Token {
	if s == nil {
		return nil
	}
	return s.toks
}

// Is reports whether the token at pos has kind k.
func (s *Stream) Is(pos int, k Kind) bool {
	return s.Valid(pos) && s.toks[pos].Kind == k
}

// FindNext returns the first position p with from <= p < until whose kind is
// in kinds, or, when exclude is set, whose kind is not in kinds.
// A negative until searches to the end of the stream.
func (s *Stream) FindNext(kinds KindSet, from, until int, exclude bool) int {
	n := s.Len()
	if until < 0 || until > n {
		until = n
	}
	if from < 0 {
		from = 0
	}
	for p := from; p < until; p++ {
		if kinds.Has(s.toks[p].Kind) != exclude {
			return p
		}
	}
	return NotFound
}

// FindPrevious scans backward from `from` down to until (inclusive) and returns
// the first matching position. A negative until searches to the start.
func (s *Stream) FindPrevious(kinds KindSet, from, until int, exclude bool) int {
	if until < 0 {
		until = 0
	}
	if from >= s.Len() {
		from = s.Len() - 1
	}
	for p := from; p >= until; p-- {
		if kinds.Has(s.toks[p].Kind) != exclude {
			return p
		}
	}
	return NotFound
}

// Text concatenates the text of tokens in [from, to).
func (s *Stream) Text(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > s.Len() {
		to = s.Len()
	}
	n := 0
	for p := from; p < to; p++ {
		n += len(s.toks[p].Text)
	}
	buf := make([]byte, 0, n)
	for p := from; p < to; p++ {
		buf = append(buf, s.toks[p].Text...)
	}
	return string(buf)
}
