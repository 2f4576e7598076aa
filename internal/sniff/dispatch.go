package sniff

import (
	"sniffer/internal/diag"
	"sniffer/internal/token"
)

// Dispatch walks stream once and invokes every sniff registered for the kind
// of each token. Sniffs listening to the same kind run in the given order.
func Dispatch(path string, stream *token.Stream, r diag.Reporter, sniffs ...Sniff) {
	if stream.Len() == 0 || len(sniffs) == 0 {
		return
	}
	var table [256][]Sniff
	var listened token.KindSet
	for _, s := range sniffs {
		for _, k := range s.Register() {
			table[k] = append(table[k], s)
			listened |= token.Kinds(k)
		}
	}
	f := NewFile(path, stream, r)
	for pos := stream.FindNext(listened, 0, -1, false); pos != token.NotFound; pos = stream.FindNext(listened, pos+1, -1, false) {
		for _, s := range table[stream.At(pos).Kind] {
			s.Process(f, pos)
		}
	}
}

// Check runs s on the single token at pos and returns what it reported,
// in emission order.
func Check(stream *token.Stream, pos int, s Sniff) []diag.Diagnostic {
	bag := diag.NewBag(0)
	s.Process(NewFile("", stream, diag.BagReporter{Bag: bag}), pos)
	return bag.Items()
}
