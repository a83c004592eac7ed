package report_test

import (
	"testing"

	"rebuild/internal/diag"
	"rebuild/internal/report"
	"rebuild/internal/source"
	"rebuild/internal/testkit"
	"rebuild/internal/token"
)

type captureSink struct {
	diags []diag.Diagnostic
}

func (c *captureSink) Report(d diag.Diagnostic) bool {
	c.diags = append(c.diags, d)
	return true
}

func newFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rb", []byte(content))
	return fs.Get(id)
}

func sp(start, end uint32) source.Span { return source.Span{Start: start, End: end} }

func TestReportSingleUnexpectedCharacter(t *testing.T) {
	file := newFile("a @\n")

	identTok := &token.Token{Kind: token.Ident, Span: sp(0, 1)}
	badTok := &token.Token{
		Kind:   token.UnexpectedCharacter,
		Span:   sp(2, 3),
		Errors: []token.Error{{Kind: token.ErrUnexpectedCharacter, Span: sp(2, 3)}},
	}
	newlineTok := &token.Token{Kind: token.Newline, Span: sp(3, 4)}

	line := &token.BlockLine{
		Tokens:         []*token.Token{identTok, badTok},
		Insignificants: []*token.Token{newlineTok},
	}
	root := &token.BlockLiteralValue{Lines: []*token.BlockLine{line}}

	sink := &captureSink{}
	report.Run(file, root, sink)

	if len(sink.diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(sink.diags))
	}
	d := sink.diags[0]
	if d.Code != diag.UnexpectedCharacter {
		t.Fatalf("unexpected code: %v", d.Code)
	}
	if len(d.Parts) != 1 || len(d.Parts[0].Document) != 2 {
		t.Fatalf("unexpected document shape: %+v", d.Parts)
	}
	block := d.Parts[0].Document[1].SourceCodeBlock
	if block == nil {
		t.Fatalf("expected a source code block")
	}
	if block.Text != "a @" {
		t.Fatalf("unexpected excerpt text: %q", block.Text)
	}
	if len(block.Highlights) != 1 || block.Highlights[0].Span != (diag.TextSpan{Start: 2, Length: 1}) {
		t.Fatalf("unexpected highlights: %+v", block.Highlights)
	}
	if !badTok.Tainted {
		t.Fatalf("expected offending token to be tainted")
	}
	if identTok.Tainted {
		t.Fatalf("expected unrelated token to stay untainted")
	}
}

func TestReportAggregatesSameKindOnOneLine(t *testing.T) {
	file := newFile("@ #\n")

	tok1 := &token.Token{Kind: token.UnexpectedCharacter, Span: sp(0, 1), Errors: []token.Error{{Kind: token.ErrUnexpectedCharacter, Span: sp(0, 1)}}}
	tok2 := &token.Token{Kind: token.UnexpectedCharacter, Span: sp(2, 3), Errors: []token.Error{{Kind: token.ErrUnexpectedCharacter, Span: sp(2, 3)}}}
	newlineTok := &token.Token{Kind: token.Newline, Span: sp(3, 4)}

	line := &token.BlockLine{
		Tokens:         []*token.Token{tok1, tok2},
		Insignificants: []*token.Token{newlineTok},
	}
	root := &token.BlockLiteralValue{Lines: []*token.BlockLine{line}}

	sink := &captureSink{}
	report.Run(file, root, sink)

	if len(sink.diags) != 1 {
		t.Fatalf("expected exactly one diagnostic folding both markers, got %d", len(sink.diags))
	}
	block := sink.diags[0].Parts[0].Document[1].SourceCodeBlock
	if len(block.Highlights) != 2 {
		t.Fatalf("expected two highlights, got %d", len(block.Highlights))
	}
	if !tok1.Tainted || !tok2.Tainted {
		t.Fatalf("expected both tokens tainted")
	}
}

func TestReportSkipsTaintedTokens(t *testing.T) {
	file := newFile("@\n")

	badTok := &token.Token{
		Kind:    token.UnexpectedCharacter,
		Span:    sp(0, 1),
		Errors:  []token.Error{{Kind: token.ErrUnexpectedCharacter, Span: sp(0, 1)}},
		Tainted: true,
	}
	newlineTok := &token.Token{Kind: token.Newline, Span: sp(1, 2)}
	line := &token.BlockLine{Tokens: []*token.Token{badTok}, Insignificants: []*token.Token{newlineTok}}
	root := &token.BlockLiteralValue{Lines: []*token.BlockLine{line}}

	sink := &captureSink{}
	report.Run(file, root, sink)

	if len(sink.diags) != 0 {
		t.Fatalf("expected no diagnostics for an already-tainted token, got %d", len(sink.diags))
	}
}

func TestReportEscapesControlCharacterInExcerpt(t *testing.T) {
	file := newFile("a\x01b\n")

	strTok := &token.Token{
		Kind:   token.String,
		Span:   sp(1, 2),
		Errors: []token.Error{{Kind: token.ErrStringInvalidControl, Span: sp(1, 2)}},
	}
	aTok := &token.Token{Kind: token.Ident, Span: sp(0, 1)}
	bTok := &token.Token{Kind: token.Ident, Span: sp(2, 3)}
	newlineTok := &token.Token{Kind: token.Newline, Span: sp(3, 4)}

	line := &token.BlockLine{
		Tokens:         []*token.Token{aTok, strTok, bTok},
		Insignificants: []*token.Token{newlineTok},
	}
	root := &token.BlockLiteralValue{Lines: []*token.BlockLine{line}}

	sink := &captureSink{}
	report.Run(file, root, sink)

	if len(sink.diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(sink.diags))
	}
	block := sink.diags[0].Parts[0].Document[1].SourceCodeBlock
	if block.Text != `a\[01]b` {
		t.Fatalf("unexpected escaped excerpt: %q", block.Text)
	}
	if len(block.Highlights) != 1 {
		t.Fatalf("expected one highlight, got %d", len(block.Highlights))
	}
	if block.Highlights[0].Span.Start != 1 || block.Highlights[0].Span.Length != len(`\[01]`) {
		t.Fatalf("unexpected translated marker: %+v", block.Highlights[0].Span)
	}
}

func TestReportRecursesIntoNestedBlocks(t *testing.T) {
	file := newFile("@\n")

	inner := &token.Token{
		Kind:   token.UnexpectedCharacter,
		Span:   sp(0, 1),
		Errors: []token.Error{{Kind: token.ErrUnexpectedCharacter, Span: sp(0, 1)}},
	}
	innerLine := &token.BlockLine{Tokens: []*token.Token{inner}}
	innerBlock := &token.BlockLiteralValue{Lines: []*token.BlockLine{innerLine}}

	blockTok := &token.Token{Kind: token.BlockLiteral, Block: innerBlock}
	outerLine := &token.BlockLine{Tokens: []*token.Token{blockTok}}
	root := &token.BlockLiteralValue{Lines: []*token.BlockLine{outerLine}}

	sink := &captureSink{}
	report.Run(file, root, sink)

	if len(sink.diags) != 1 {
		t.Fatalf("expected the nested error to surface, got %d diagnostics", len(sink.diags))
	}
	if !inner.Tainted {
		t.Fatalf("expected nested token to be tainted")
	}
}

func TestReportIsTaintIdempotent(t *testing.T) {
	file := newFile("a @ #\n")

	tok1 := &token.Token{Kind: token.UnexpectedCharacter, Span: sp(2, 3), Errors: []token.Error{{Kind: token.ErrUnexpectedCharacter, Span: sp(2, 3)}}}
	tok2 := &token.Token{Kind: token.UnexpectedCharacter, Span: sp(4, 5), Errors: []token.Error{{Kind: token.ErrUnexpectedCharacter, Span: sp(4, 5)}}}
	identTok := &token.Token{Kind: token.Ident, Span: sp(0, 1)}
	newlineTok := &token.Token{Kind: token.Newline, Span: sp(5, 6)}

	line := &token.BlockLine{
		Tokens:         []*token.Token{identTok, tok1, tok2},
		Insignificants: []*token.Token{newlineTok},
	}
	root := &token.BlockLiteralValue{Lines: []*token.BlockLine{line}}

	if err := testkit.CheckTaintIdempotence(file, root, 200); err != nil {
		t.Fatalf("%v", err)
	}
}
