package sniff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sniffer/internal/diag"
	"sniffer/internal/source"
	"sniffer/internal/token"
)

type fakeSniff struct {
	name  string
	kinds []token.Kind
	seen  []int
}

func (f *fakeSniff) Name() string           { return f.name }
func (f *fakeSniff) Code() diag.Code        { return diag.StyInfo }
func (f *fakeSniff) Description() string    { return "fake" }
func (f *fakeSniff) Register() []token.Kind { return f.kinds }
func (f *fakeSniff) Process(file *File, pos int) {
	f.seen = append(f.seen, pos)
	diag.ReportWarning(file.Reporter, diag.StyInfo, file.Span(pos), file.Token(pos).Text).Emit()
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := &fakeSniff{name: "Std.Group.Beta"}
	b := &fakeSniff{name: "Std.Group.Alpha"}
	require.NoError(t, r.Register(a))
	require.NoError(t, r.Register(b))
	assert.Error(t, r.Register(&fakeSniff{name: "Std.Group.Beta"}))
	assert.Error(t, r.Register(nil))

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Std.Group.Alpha", all[0].Name())

	got, ok := r.Lookup("Std.Group.Beta")
	assert.True(t, ok)
	assert.Same(t, a, got)

	sel, err := r.Select([]string{"Beta"})
	require.NoError(t, err)
	require.Len(t, sel, 1)
	assert.Same(t, a, sel[0])

	sel, err = r.Select(nil)
	require.NoError(t, err)
	assert.Len(t, sel, 2)

	_, err = r.Select([]string{"Std.Group.Gamma"})
	assert.True(t, errors.Is(err, ErrUnknownSniff))

	assert.Panics(t, func() { r.MustRegister(a) })
}

func TestDispatch(t *testing.T) {
	toks := []token.Token{
		{Kind: token.Function, Text: "function", Span: source.Span{Start: 0, End: 8}},
		{Kind: token.Whitespace, Text: " ", Span: source.Span{Start: 8, End: 9}},
		{Kind: token.Ident, Text: "f", Span: source.Span{Start: 9, End: 10}},
		{Kind: token.Function, Text: "function", Span: source.Span{Start: 10, End: 18}},
	}
	stream := token.NewStream(toks)
	fn := &fakeSniff{name: "fn", kinds: []token.Kind{token.Function}}
	both := &fakeSniff{name: "both", kinds: []token.Kind{token.Function, token.Ident}}

	bag := diag.NewBag(0)
	Dispatch("x.php", stream, diag.BagReporter{Bag: bag}, fn, both)

	assert.Equal(t, []int{0, 3}, fn.seen)
	assert.Equal(t, []int{0, 2, 3}, both.seen)
	assert.Equal(t, 5, bag.Len())

	Dispatch("x.php", nil, nil, fn)
	assert.Equal(t, []int{0, 3}, fn.seen)
}

func TestCheckCollectsInOrder(t *testing.T) {
	stream := token.NewStream([]token.Token{{Kind: token.Ident, Text: "x"}})
	got := Check(stream, 0, &fakeSniff{name: "x"})
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].Message)
	assert.Equal(t, diag.SevWarning, got[0].Severity)
}

func TestNewFileNilReporter(t *testing.T) {
	f := NewFile("", token.NewStream(nil), nil)
	assert.NotNil(t, f.Reporter)
	assert.Equal(t, source.Span{}, f.Span(3))
}
