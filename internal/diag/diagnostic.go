package diag

import (
	"fmt"

	"rebuild/internal/source"
)

// Code identifies a diagnostic within a group. This pipeline owns exactly
// one group, "rebuild-lexer" (see codes.go); the ambient driver owns a
// second, "rebuild-driver", for operational diagnostics that are not
// lexical errors (§10.1).
type Code struct {
	Group  string
	Number uint16
}

func (c Code) String() string { return fmt.Sprintf("%s-%d", c.Group, c.Number) }

// TextSpan is an offset/length pair into the escaped text of a
// SourceCodeBlock, not into the original source buffer.
type TextSpan struct {
	Start  int
	Length int
}

// Marker highlights one TextSpan inside a SourceCodeBlock, with optional
// free-text notes attached to it.
type Marker struct {
	Span  TextSpan
	Notes []string
}

type Highlights []Marker

// Paragraph is a plain block of explanatory text.
type Paragraph struct {
	Text    string
	Inlines []string
}

// SourceCodeBlock renders one escaped source excerpt with highlighted
// markers. ExcerptSpan is the pre-escape span in the original file the
// excerpt was extracted from; it is not part of the rendered output, but
// lets the ambient layer (sorting, golden files, SARIF locations) find the
// excerpt's place in the source without re-deriving it from escaped
// offsets.
type SourceCodeBlock struct {
	Text        string
	Highlights  Highlights
	Caption     string
	Line        uint32
	ExcerptSpan source.Span
}

// DocumentPart is exactly one of Paragraph or SourceCodeBlock.
type DocumentPart struct {
	Paragraph       *Paragraph
	SourceCodeBlock *SourceCodeBlock
}

func Para(text string) DocumentPart { return DocumentPart{Paragraph: &Paragraph{Text: text}} }

func Block(b SourceCodeBlock) DocumentPart { return DocumentPart{SourceCodeBlock: &b} }

type Document []DocumentPart

// Explanation is one titled section of a Diagnostic's explanation.
type Explanation struct {
	Title    string
	Document Document
}

// Diagnostic is a structured, code-tagged, source-referenced explanation.
// It carries no message string or severity field of its own: both are
// derived — the message from its Parts' paragraphs, the severity from its
// Code's group (see Severity below) — because the reporter's output model
// is the original implementation's Document/Explanation shape, not a
// single-line message.
type Diagnostic struct {
	Code  Code
	Parts []Explanation
}

func New(code Code, parts ...Explanation) Diagnostic {
	return Diagnostic{Code: code, Parts: parts}
}

// PrimarySpan returns the ExcerptSpan of the first SourceCodeBlock found
// while walking Parts in order, used by the ambient layer for sorting and
// location reporting. ok is false for a Diagnostic with no source block at
// all (only the timing diagnostic in internal/driver has none).
func (d Diagnostic) PrimarySpan() (sp source.Span, ok bool) {
	for _, part := range d.Parts {
		for _, dp := range part.Document {
			if dp.SourceCodeBlock != nil {
				return dp.SourceCodeBlock.ExcerptSpan, true
			}
		}
	}
	return source.Span{}, false
}

// Summary returns the first paragraph's text across Parts, used wherever a
// single-line message is needed (golden files, short CLI output).
func (d Diagnostic) Summary() string {
	for _, part := range d.Parts {
		for _, dp := range part.Document {
			if dp.Paragraph != nil {
				return dp.Paragraph.Text
			}
		}
		if part.Title != "" {
			return part.Title
		}
	}
	return ""
}

// Severity is derived from the Code's group: every rebuild-lexer
// diagnostic is an error, since this pipeline has no warning-level lexical
// conditions; rebuild-driver diagnostics are informational.
func (d Diagnostic) Severity() Severity {
	if d.Code.Group == DriverGroup {
		return SevInfo
	}
	return SevError
}
