package diagfmt

import (
	"encoding/json"
	"io"

	"rebuild/internal/diag"
	"rebuild/internal/source"
)

// LocationJSON is a resolved position in a file.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// MarkerJSON is one highlighted sub-range of a SourceCodeBlock excerpt.
type MarkerJSON struct {
	Start int      `json:"start"`
	Length int     `json:"length"`
	Notes  []string `json:"notes,omitempty"`
}

// SourceBlockJSON renders one diag.SourceCodeBlock.
type SourceBlockJSON struct {
	Text       string       `json:"text"`
	Caption    string       `json:"caption,omitempty"`
	Line       uint32       `json:"line,omitempty"`
	Location   LocationJSON `json:"location"`
	Highlights []MarkerJSON `json:"highlights,omitempty"`
}

// ExplanationJSON renders one diag.Explanation.
type ExplanationJSON struct {
	Title      string            `json:"title"`
	Paragraphs []string          `json:"paragraphs,omitempty"`
	Blocks     []SourceBlockJSON `json:"blocks,omitempty"`
}

// DiagnosticJSON is one diag.Diagnostic rendered for JSON output.
type DiagnosticJSON struct {
	Severity string            `json:"severity"`
	Code     string            `json:"code"`
	Summary  string            `json:"summary"`
	Location LocationJSON      `json:"location,omitempty"`
	Parts    []ExplanationJSON `json:"parts"`
}

// DiagnosticsOutput is the top-level JSON document.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	f := fs.Get(span.File)

	var path string
	switch pathMode {
	case PathModeAbsolute:
		path = f.FormatPath("absolute", "")
	case PathModeRelative:
		path = f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		path = f.FormatPath("basename", "")
	case PathModeAuto:
		path = f.FormatPath("auto", "")
	default:
		path = f.Path
	}

	loc := LocationJSON{
		File:      path,
		StartByte: span.Start,
		EndByte:   span.End,
	}

	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}

	return loc
}

func explanationToJSON(e diag.Explanation, fs *source.FileSet, pathMode PathMode, includePositions bool) ExplanationJSON {
	out := ExplanationJSON{Title: e.Title}
	for _, part := range e.Document {
		switch {
		case part.Paragraph != nil:
			out.Paragraphs = append(out.Paragraphs, part.Paragraph.Text)
		case part.SourceCodeBlock != nil:
			b := *part.SourceCodeBlock
			block := SourceBlockJSON{
				Text:     b.Text,
				Caption:  b.Caption,
				Line:     b.Line,
				Location: makeLocation(b.ExcerptSpan, fs, pathMode, includePositions),
			}
			for _, m := range b.Highlights {
				block.Highlights = append(block.Highlights, MarkerJSON{
					Start:  m.Span.Start,
					Length: m.Span.Length,
					Notes:  m.Notes,
				})
			}
			out.Blocks = append(out.Blocks, block)
		}
	}
	return out
}

// BuildDiagnosticsOutput renders a Bag's diagnostics without serializing them.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := range maxItems {
		d := items[i]

		diagJSON := DiagnosticJSON{
			Severity: d.Severity().String(),
			Code:     d.Code.String(),
			Summary:  d.Summary(),
		}
		if sp, ok := d.PrimarySpan(); ok {
			diagJSON.Location = makeLocation(sp, fs, opts.PathMode, opts.IncludePositions)
		}
		for _, part := range d.Parts {
			diagJSON.Parts = append(diagJSON.Parts, explanationToJSON(part, fs, opts.PathMode, opts.IncludePositions))
		}

		diagnostics = append(diagnostics, diagJSON)
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

// JSON writes a Bag's diagnostics as a JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	output := BuildDiagnosticsOutput(bag, fs, opts)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
