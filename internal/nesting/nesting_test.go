package nesting

import (
	"testing"

	"rebuild/internal/filter"
	"rebuild/internal/scanner"
	"rebuild/internal/source"
	"rebuild/internal/testkit"
	"rebuild/internal/token"
)

func nl(col uint32) *token.Token { return &token.Token{Kind: token.Newline, Column: col} }
func ident(text string) *token.Token {
	return &token.Token{Kind: token.Ident, Text: text}
}
func blockStart() *token.Token { return &token.Token{Kind: token.BlockStartColon} }
func blockEnd(col uint32) *token.Token {
	return &token.Token{Kind: token.BlockEndIdentifier, Column: col}
}

func findInsignificant(line *token.BlockLine, kind token.Kind) bool {
	for _, t := range line.Insignificants {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

func TestNestingImplicitDedentRecordsMissingBlockEnd(t *testing.T) {
	toks := []*token.Token{
		nl(0), ident("x"), blockStart(),
		nl(2), ident("y"),
		nl(0), ident("z"),
	}
	root := Run(toks)
	if len(root.Lines) != 2 {
		t.Fatalf("expected 2 root lines, got %d: %+v", len(root.Lines), root.Lines)
	}
	first := root.Lines[0]
	if len(first.Tokens) != 3 || first.Tokens[2].Kind != token.BlockLiteral {
		t.Fatalf("expected [x, BlockStartColon, BlockLiteral] on line 1, got %+v", first.Tokens)
	}
	if !findInsignificant(first, token.MissingBlockEnd) {
		t.Fatalf("expected MissingBlockEnd on line 1, got %+v", first.Insignificants)
	}
	child := first.Tokens[2].Block
	if len(child.Lines) != 1 || len(child.Lines[0].Tokens) != 1 || child.Lines[0].Tokens[0].Text != "y" {
		t.Fatalf("expected nested block with single line [y], got %+v", child.Lines)
	}
	second := root.Lines[1]
	if len(second.Tokens) != 1 || second.Tokens[0].Text != "z" {
		t.Fatalf("expected line 2 == [z], got %+v", second.Tokens)
	}
}

func TestNestingCleanExplicitClose(t *testing.T) {
	toks := []*token.Token{
		nl(0), ident("x"), blockStart(),
		nl(2), ident("y"),
		blockEnd(0),
	}
	root := Run(toks)
	if len(root.Lines) != 1 {
		t.Fatalf("expected 1 root line, got %d", len(root.Lines))
	}
	first := root.Lines[0]
	if findInsignificant(first, token.MisIndentedBlockEnd) {
		t.Fatalf("did not expect MisIndentedBlockEnd, got %+v", first.Insignificants)
	}
	if findInsignificant(first, token.MissingBlockEnd) {
		t.Fatalf("did not expect MissingBlockEnd, got %+v", first.Insignificants)
	}
	if len(first.Tokens) != 3 || first.Tokens[2].Kind != token.BlockLiteral {
		t.Fatalf("expected [x, BlockStartColon, BlockLiteral], got %+v", first.Tokens)
	}
}

// filterAllFromSource runs the real scanner and filter over input,
// producing the token stream nesting actually consumes, with real
// byte spans rather than the zero spans the synthetic nl/ident/
// blockStart/blockEnd helpers above carry.
func filterAllFromSource(input string) []*token.Token {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rb", []byte(input))
	flt := filter.New(scanner.New(fs.Get(id), scanner.Options{}))
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

func TestNestingCleanExplicitCloseCoversFullSpan(t *testing.T) {
	inputs := []string{
		"a:\n  b\nend\n",
		"a:\n  b\n  c\nend\n",
		"a:\nend\n",
	}
	for _, input := range inputs {
		toks := filterAllFromSource(input)
		root := Run(toks)
		if err := testkit.CheckBlockTreeSpanCoverage([]byte(input), root); err != nil {
			t.Fatalf("input %q: %v", input, err)
		}
	}
}

func TestNestingMisIndentedBlockEnd(t *testing.T) {
	toks := []*token.Token{
		nl(0), ident("x"), blockStart(),
		nl(2), ident("y"),
		blockEnd(1), // should have aligned with column 0, not 1
	}
	root := Run(toks)
	first := root.Lines[0]
	if !findInsignificant(first, token.MisIndentedBlockEnd) {
		t.Fatalf("expected MisIndentedBlockEnd, got %+v", first.Insignificants)
	}
}

func TestNestingEmptyBlockClosesCleanly(t *testing.T) {
	toks := []*token.Token{
		nl(0), blockStart(), blockEnd(0),
	}
	root := Run(toks)
	if len(root.Lines) != 1 {
		t.Fatalf("expected 1 root line, got %d", len(root.Lines))
	}
	first := root.Lines[0]
	if len(first.Tokens) != 2 || first.Tokens[1].Kind != token.BlockLiteral {
		t.Fatalf("expected [BlockStartColon, BlockLiteral], got %+v", first.Tokens)
	}
	if len(first.Tokens[1].Block.Lines) != 0 {
		t.Fatalf("expected empty nested block, got %+v", first.Tokens[1].Block.Lines)
	}
	if findInsignificant(first, token.MisIndentedBlockEnd) || findInsignificant(first, token.MissingBlockEnd) {
		t.Fatalf("did not expect any error marker, got %+v", first.Insignificants)
	}
}

func TestNestingUnexpectedBlockEnd(t *testing.T) {
	toks := []*token.Token{nl(0), blockEnd(0)}
	root := Run(toks)
	var found bool
	for _, line := range root.Lines {
		if findInsignificant(line, token.UnexpectedBlockEnd) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UnexpectedBlockEnd somewhere in root lines, got %+v", root.Lines)
	}
}

func TestNestingOverIndentWithoutBlockStart(t *testing.T) {
	toks := []*token.Token{
		nl(0), ident("x"),
		nl(4), ident("y"), // no colon before this — illegal jump in indentation
	}
	root := Run(toks)
	if len(root.Lines) != 2 {
		t.Fatalf("expected 2 root lines (over-indent does not open a block), got %d", len(root.Lines))
	}
	if !findInsignificant(root.Lines[1], token.UnexpectedIndent) {
		t.Fatalf("expected UnexpectedIndent on line 2, got %+v", root.Lines[1].Insignificants)
	}
	if len(root.Lines[1].Tokens) != 1 || root.Lines[1].Tokens[0].Text != "y" {
		t.Fatalf("expected line 2 tokens == [y], got %+v", root.Lines[1].Tokens)
	}
}

func TestNestingNeverLeaksBlockEndIdentifier(t *testing.T) {
	cases := [][]*token.Token{
		{nl(0), ident("x"), blockStart(), nl(2), ident("y"), blockEnd(0)},
		{nl(0), ident("x"), blockStart(), nl(2), ident("y"), nl(0), ident("z")},
		{nl(0), blockEnd(0)},
	}
	for i, toks := range cases {
		root := Run(toks)
		if err := testkit.CheckNoSurvivingBlockEnd(root); err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
	}
}
