package filter

import (
	"testing"

	"rebuild/internal/scanner"
	"rebuild/internal/source"
	"rebuild/internal/testkit"
	"rebuild/internal/token"
)

func nl() *token.Token      { return &token.Token{Kind: token.Newline} }
func ws() *token.Token      { return &token.Token{Kind: token.Whitespace} }
func comment() *token.Token { return &token.Token{Kind: token.Comment} }
func colon() *token.Token   { return &token.Token{Kind: token.Colon} }
func comma() *token.Token   { return &token.Token{Kind: token.Comma} }
func semi() *token.Token    { return &token.Token{Kind: token.Semicolon} }
func bopen() *token.Token   { return &token.Token{Kind: token.BracketOpen} }
func bclose() *token.Token  { return &token.Token{Kind: token.BracketClose} }
func ident(text string) *token.Token {
	return &token.Token{Kind: token.Ident, Text: text}
}

func kindsOf(toks []*token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKindSeq(t *testing.T, got, want []token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("kind count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kind[%d] = %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestFilterLeadingNoiseStripped(t *testing.T) {
	cases := [][]*token.Token{
		{comment(), nl(), ident("x")},
		{nl(), comment(), nl(), ident("x")},
		{nl(), comment(), ws(), comment(), nl(), ident("x")},
		{nl(), nl(), ident("x")},
		{nl(), nl(), nl(), ident("x")},
	}
	for i, in := range cases {
		out := Run(in)
		assertKindSeq(t, kindsOf(out), []token.Kind{token.Newline, token.Ident})
		if !out[1].LeftSeparated || !out[1].RightSeparated {
			t.Fatalf("case %d: expected leading ident both-separated, got %+v", i, out[1])
		}
	}
}

func TestFilterTrailingNoiseDropped(t *testing.T) {
	cases := [][]*token.Token{
		{nl(), ident("x"), comment()},
		{nl(), ident("x"), ws()},
		{nl(), ident("x"), nl()},
	}
	for i, in := range cases {
		out := Run(in)
		assertKindSeq(t, kindsOf(out), []token.Kind{token.Newline, token.Ident})
		if !out[1].LeftSeparated || !out[1].RightSeparated {
			t.Fatalf("case %d: expected trailing ident both-separated, got %+v", i, out[1])
		}
	}
}

func TestFilterBlockStart(t *testing.T) {
	in := []*token.Token{nl(), ident("begin"), colon(), nl()}
	out := Run(in)
	assertKindSeq(t, kindsOf(out), []token.Kind{token.Newline, token.Ident, token.BlockStartColon})
	if out[1].Text != "begin" || !out[1].LeftSeparated || !out[1].RightSeparated {
		t.Fatalf("expected begin both-separated, got %+v", out[1])
	}
}

func TestFilterBlockStartWithComment(t *testing.T) {
	in := []*token.Token{ident("begin"), colon(), ws(), comment(), nl()}
	out := Run(in)
	assertKindSeq(t, kindsOf(out), []token.Kind{token.Newline, token.Ident, token.BlockStartColon})
	if !out[1].LeftSeparated || !out[1].RightSeparated {
		t.Fatalf("expected begin both-separated, got %+v", out[1])
	}
}

func TestFilterEmptyBlock(t *testing.T) {
	in := []*token.Token{nl(), colon(), nl(), ident("end"), nl()}
	out := Run(in)
	assertKindSeq(t, kindsOf(out), []token.Kind{token.Newline, token.BlockStartColon, token.BlockEndIdentifier})
}

func TestFilterNeighborsWithWhitespace(t *testing.T) {
	in := []*token.Token{
		ws(), ident("left"), ident("middle"), ident("right"), ws(), ident("free"), ws(),
	}
	out := Run(in)
	assertKindSeq(t, kindsOf(out), []token.Kind{
		token.Newline, token.Ident, token.Ident, token.Ident, token.Ident,
	})
	left, middle, right, free := out[1], out[2], out[3], out[4]
	if !left.LeftSeparated || left.RightSeparated {
		t.Fatalf("left: got %+v", left)
	}
	if middle.LeftSeparated || middle.RightSeparated {
		t.Fatalf("middle: got %+v", middle)
	}
	if right.LeftSeparated || !right.RightSeparated {
		t.Fatalf("right: got %+v", right)
	}
	if !free.LeftSeparated || !free.RightSeparated {
		t.Fatalf("free: got %+v", free)
	}
}

func TestFilterBorderCases(t *testing.T) {
	in := []*token.Token{ident("left"), ident("right")}
	out := Run(in)
	assertKindSeq(t, kindsOf(out), []token.Kind{token.Newline, token.Ident, token.Ident})
	if !out[1].LeftSeparated || out[1].RightSeparated {
		t.Fatalf("left: got %+v", out[1])
	}
	if out[2].LeftSeparated || !out[2].RightSeparated {
		t.Fatalf("right: got %+v", out[2])
	}
}

func TestFilterBrackets(t *testing.T) {
	in := []*token.Token{
		bopen(), ident("left"), ident("right"), bclose(), ident("stuck"), bopen(),
	}
	out := Run(in)
	assertKindSeq(t, kindsOf(out), []token.Kind{
		token.Newline, token.BracketOpen, token.Ident, token.Ident, token.BracketClose, token.Ident, token.BracketOpen,
	})
	left, right, stuck := out[2], out[3], out[5]
	if !left.LeftSeparated || left.RightSeparated {
		t.Fatalf("left: got %+v", left)
	}
	if right.LeftSeparated || !right.RightSeparated {
		t.Fatalf("right: got %+v", right)
	}
	if stuck.LeftSeparated || stuck.RightSeparated {
		t.Fatalf("stuck: got %+v", stuck)
	}
}

func TestFilterComma(t *testing.T) {
	in := []*token.Token{ws(), ident("left"), comma(), ident("right")}
	out := Run(in)
	assertKindSeq(t, kindsOf(out), []token.Kind{token.Newline, token.Ident, token.Comma, token.Ident})
	if !out[1].LeftSeparated || !out[1].RightSeparated {
		t.Fatalf("left: got %+v", out[1])
	}
	if !out[3].LeftSeparated || !out[3].RightSeparated {
		t.Fatalf("right: got %+v", out[3])
	}
}

func newScanFile(input string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rb", []byte(input))
	return fs.Get(id)
}

func scanAll(input string) []*token.Token {
	sc := scanner.New(newScanFile(input), scanner.Options{})
	var toks []*token.Token
	for {
		tok := sc.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func filterAll(input string) []*token.Token {
	flt := New(scanner.New(newScanFile(input), scanner.Options{}))
	var toks []*token.Token
	for {
		tok := flt.Next()
		if tok.Kind == token.EOF {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestFilterContainsOnlyScannedSpans(t *testing.T) {
	inputs := []string{
		"a : \n  b\n",
		"foo , bar ; baz\n",
		"  # comment\nfoo\n",
	}
	for _, input := range inputs {
		scanned := scanAll(input)
		filtered := filterAll(input)
		if err := testkit.CheckFilterContainment(scanned, filtered); err != nil {
			t.Fatalf("input %q: %v", input, err)
		}
	}
}

func TestFilterSemicolon(t *testing.T) {
	in := []*token.Token{ws(), ident("left"), semi(), ident("right")}
	out := Run(in)
	assertKindSeq(t, kindsOf(out), []token.Kind{token.Newline, token.Ident, token.Semicolon, token.Ident})
	if !out[1].LeftSeparated || !out[1].RightSeparated {
		t.Fatalf("left: got %+v", out[1])
	}
	if !out[3].LeftSeparated || !out[3].RightSeparated {
		t.Fatalf("right: got %+v", out[3])
	}
}
