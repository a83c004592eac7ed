package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"rebuild/internal/source"
	"rebuild/internal/token"
)

// TokenJSON is one token (significant or insignificant) in the block
// tree's JSON rendering. Block is populated only for BlockLiteral
// tokens, nesting the lines it contains.
type TokenJSON struct {
	Kind        string      `json:"kind"`
	Text        string      `json:"text,omitempty"`
	Span        source.Span `json:"span"`
	Column      uint32      `json:"column,omitempty"`
	Significant bool        `json:"significant"`
	Tainted     bool        `json:"tainted,omitempty"`
	Block       []LineJSON  `json:"block,omitempty"`
}

// LineJSON is one BlockLine's tokens, already merged into source order.
type LineJSON struct {
	Tokens []TokenJSON `json:"tokens"`
}

// FormatTokensPretty writes root's block tree as an indented, one-
// token-per-line listing, recursing into nested blocks with
// increasing indentation.
func FormatTokensPretty(w io.Writer, root *token.BlockLiteralValue, fs *source.FileSet) error {
	return writeBlockPretty(w, root, fs, 0)
}

func writeBlockPretty(w io.Writer, block *token.BlockLiteralValue, fs *source.FileSet, depth int) error {
	if block == nil {
		return nil
	}
	indent := strings.Repeat("  ", depth)
	for _, line := range block.Lines {
		var err error
		line.ForEach(func(tok *token.Token, significant bool) {
			if err != nil {
				return
			}
			if tok.Kind == token.BlockLiteral {
				fmt.Fprintf(w, "%sBlockLiteral {\n", indent)
				err = writeBlockPretty(w, tok.Block, fs, depth+1)
				fmt.Fprintf(w, "%s}\n", indent)
				return
			}
			startPos, endPos := fs.Resolve(tok.Span)
			marker := " "
			if !significant {
				marker = "."
			}
			fmt.Fprintf(w, "%s%s%-22s", indent, marker, tok.Kind.String())
			if tok.Text != "" {
				fmt.Fprintf(w, " %q", tok.Text)
			}
			fmt.Fprintf(w, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
			if tok.Tainted {
				fmt.Fprint(w, " [tainted]")
			}
			fmt.Fprintln(w)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON writes root's block tree as nested JSON.
func FormatTokensJSON(w io.Writer, root *token.BlockLiteralValue) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(blockToJSON(root))
}

func blockToJSON(block *token.BlockLiteralValue) []LineJSON {
	if block == nil {
		return nil
	}
	out := make([]LineJSON, 0, len(block.Lines))
	for _, line := range block.Lines {
		var lj LineJSON
		line.ForEach(func(tok *token.Token, significant bool) {
			tj := TokenJSON{
				Kind:        tok.Kind.String(),
				Text:        tok.Text,
				Span:        tok.Span,
				Column:      tok.Column,
				Significant: significant,
				Tainted:     tok.Tainted,
			}
			if tok.Kind == token.BlockLiteral {
				tj.Block = blockToJSON(tok.Block)
			}
			lj.Tokens = append(lj.Tokens, tj)
		})
		out = append(out, lj)
	}
	return out
}
