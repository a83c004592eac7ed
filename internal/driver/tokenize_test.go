package driver

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"rebuild/internal/diag"
	"rebuild/internal/testkit"
	"rebuild/internal/token"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rebuild")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func tokenizeString(t *testing.T, content string) *TokenizeResult {
	t.Helper()
	res, err := Tokenize(writeTempFile(t, content), TokenizeOptions{MaxDiagnostics: 50})
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	return res
}

func hasCode(items []diag.Diagnostic, code diag.Code) bool {
	for _, d := range items {
		if d.Code == code {
			return true
		}
	}
	return false
}

// The following six tests exercise the end-to-end scenarios, running
// the real scan/filter/nest/report chain rather than any single
// stage in isolation, so a regression in how one stage's output feeds
// the next (e.g. a block-closing span losing coverage of its closing
// marker) shows up here even when every stage's own unit tests still
// pass individually.

func TestTokenizeScenarioCommentThenIdent(t *testing.T) {
	res := tokenizeString(t, "# comment\nfoo\n")
	if res.Bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %+v", res.Bag.Items())
	}
	if len(res.Root.Lines) != 1 {
		t.Fatalf("expected 1 root line, got %d", len(res.Root.Lines))
	}
	line := res.Root.Lines[0]
	if len(line.Tokens) != 1 || line.Tokens[0].Kind != token.Ident || line.Tokens[0].Text != "foo" {
		t.Fatalf("expected a single Ident(foo), got %+v", line.Tokens)
	}
	if !line.Tokens[0].BothSeparated() {
		t.Fatalf("expected foo to be both-separated, got %+v", line.Tokens[0])
	}
	if err := testkit.CheckBlockTreeSpanCoverage(res.File.Content, res.Root); err != nil {
		t.Fatalf("span coverage: %v", err)
	}
}

func TestTokenizeScenarioCleanBlock(t *testing.T) {
	res := tokenizeString(t, "a : \n  b\n")
	if res.Bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %+v", res.Bag.Items())
	}
	line := res.Root.Lines[0]
	if len(line.Tokens) != 3 ||
		line.Tokens[0].Text != "a" ||
		line.Tokens[1].Kind != token.BlockStartColon ||
		line.Tokens[2].Kind != token.BlockLiteral {
		t.Fatalf("expected [a, BlockStartColon, BlockLiteral], got %+v", line.Tokens)
	}
	child := line.Tokens[2].Block
	if len(child.Lines) != 1 || len(child.Lines[0].Tokens) != 1 || child.Lines[0].Tokens[0].Text != "b" {
		t.Fatalf("expected nested block [b], got %+v", child.Lines)
	}
	if err := testkit.CheckBlockTreeSpanCoverage(res.File.Content, res.Root); err != nil {
		t.Fatalf("span coverage: %v", err)
	}
}

func TestTokenizeScenarioIllFormedIndent(t *testing.T) {
	res := tokenizeString(t, "a\n  b\nend\n")
	if res.Bag.Len() != 0 {
		t.Fatalf("expected no diagnostics (structural markers carry no lexical error), got %+v", res.Bag.Items())
	}
	if len(res.Root.Lines) != 3 {
		t.Fatalf("expected 3 root lines, got %d: %+v", len(res.Root.Lines), res.Root.Lines)
	}

	second := res.Root.Lines[1]
	foundIndent := false
	for _, ins := range second.Insignificants {
		if ins.Kind == token.UnexpectedIndent {
			foundIndent = true
		}
	}
	if !foundIndent {
		t.Fatalf("expected UnexpectedIndent on line 2, got %+v", second.Insignificants)
	}

	third := res.Root.Lines[2]
	foundBlockEnd := false
	for _, ins := range third.Insignificants {
		if ins.Kind == token.UnexpectedBlockEnd {
			foundBlockEnd = true
		}
	}
	if !foundBlockEnd {
		t.Fatalf("expected UnexpectedBlockEnd on line 3, got %+v", third.Insignificants)
	}
	if err := testkit.CheckNoSurvivingBlockEnd(res.Root); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestTokenizeScenarioUnterminatedString(t *testing.T) {
	res := tokenizeString(t, "\"hi\n")
	if res.Bag.Len() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %+v", res.Bag.Items())
	}
	if res.Bag.Items()[0].Code != diag.StringUnterminated {
		t.Fatalf("expected StringUnterminated, got %v", res.Bag.Items()[0].Code)
	}
}

func TestTokenizeScenarioMixedIndentation(t *testing.T) {
	res := tokenizeString(t, "\t \tx\n \t y\n")
	items := res.Bag.Items()
	if !hasCode(items, diag.MixedIndentation) {
		t.Fatalf("expected a MixedIndentation diagnostic, got %+v", items)
	}
	for _, d := range items {
		if d.Code != diag.MixedIndentation {
			t.Fatalf("expected only MixedIndentation diagnostics, got %v", d.Code)
		}
	}
}

func TestTokenizeScenarioNumberMissingValue(t *testing.T) {
	res := tokenizeString(t, "0x\n")
	if res.Bag.Len() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %+v", res.Bag.Items())
	}
	if res.Bag.Items()[0].Code != diag.NumberMissingValue {
		t.Fatalf("expected NumberMissingValue, got %v", res.Bag.Items()[0].Code)
	}
}

// TestTokenizeSpanCoverageOverRandomSources is the driver-level
// property test named in spec.md's "Randomly generate UTF-8 sources;
// assert the span-coverage invariant" — run through the real pipeline
// rather than a single stage, over a fixed seed so failures reproduce.
func TestTokenizeSpanCoverageOverRandomSources(t *testing.T) {
	alphabet := []byte("ab01 \t:\n\"#,;()xyzend")
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		n := r.Intn(40)
		buf := make([]byte, n)
		for j := range buf {
			buf[j] = alphabet[r.Intn(len(alphabet))]
		}
		buf = append(buf, '\n')

		res := tokenizeString(t, string(buf))
		if err := testkit.CheckBlockTreeSpanCoverage(res.File.Content, res.Root); err != nil {
			t.Fatalf("input %q: %v", buf, err)
		}
	}
}

func TestCountTokensRecursesIntoNestedBlocks(t *testing.T) {
	res := tokenizeString(t, "a : \n  b\n  c\n")
	// a, BlockStartColon, BlockLiteral at the root; b and c inside it.
	if got, want := CountTokens(res.Root), 5; got != want {
		t.Fatalf("CountTokens() = %d, want %d", got, want)
	}
}
