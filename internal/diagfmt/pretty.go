package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"rebuild/internal/diag"
	"rebuild/internal/source"
)

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	infoColor   = color.New(color.FgCyan, color.Bold)
	pathColor   = color.New(color.FgWhite, color.Bold)
	gutterColor = color.New(color.FgHiBlack)
	markerColor = color.New(color.FgYellow, color.Bold)
	titleColor  = color.New(color.Bold)
)

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return markerColor
	default:
		return infoColor
	}
}

// Pretty writes bag's diagnostics in a human-readable form: a header
// line per diagnostic (path, position, severity and code), then each
// explanation's paragraphs and source excerpts, with the excerpt's
// highlighted spans underlined by a caret line below it. Callers should
// call bag.Sort() first for a deterministic, file-ordered listing.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	enableColor := opts.Color
	for _, c := range []*color.Color{errorColor, infoColor, pathColor, gutterColor, markerColor, titleColor} {
		if enableColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, d := range bag.Items() {
		writeDiagnosticHeader(w, d, fs, opts)
		for _, part := range d.Parts {
			writeExplanation(w, part, fs, opts)
		}
		fmt.Fprintln(w)
	}
}

func writeDiagnosticHeader(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := d.Severity()
	loc := ""
	if sp, ok := d.PrimarySpan(); ok {
		f := fs.Get(sp.File)
		path := f.FormatPath(pathModeName(opts.PathMode), fs.BaseDir())
		start, _ := fs.Resolve(sp)
		loc = fmt.Sprintf("%s:%d:%d: ", pathColor.Sprint(path), start.Line, start.Col)
	}
	fmt.Fprintf(w, "%s%s %s: %s\n", loc, severityColor(sev).Sprint(sev.String()), d.Code.String(), d.Summary())
}

func pathModeName(m PathMode) string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

func writeExplanation(w io.Writer, e diag.Explanation, fs *source.FileSet, opts PrettyOpts) {
	if e.Title != "" {
		fmt.Fprintf(w, "  %s\n", titleColor.Sprint(e.Title))
	}
	for _, part := range e.Document {
		switch {
		case part.Paragraph != nil:
			writeParagraph(w, *part.Paragraph, opts)
		case part.SourceCodeBlock != nil:
			writeSourceCodeBlock(w, *part.SourceCodeBlock, fs, opts)
		}
	}
}

func writeParagraph(w io.Writer, p diag.Paragraph, opts PrettyOpts) {
	text := p.Text
	if opts.Width > 0 {
		text = wrapText(text, int(opts.Width))
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	var b strings.Builder
	lineWidth := 0
	for i, word := range words {
		wWidth := runewidth.StringWidth(word)
		if i > 0 {
			if lineWidth+1+wWidth > width {
				b.WriteByte('\n')
				lineWidth = 0
			} else {
				b.WriteByte(' ')
				lineWidth++
			}
		}
		b.WriteString(word)
		lineWidth += wWidth
	}
	return b.String()
}

// writeSourceCodeBlock renders one escaped excerpt with a gutter showing
// its line number, followed directly by one caret line per highlighted
// marker, and optionally preceded and followed by opts.Context unescaped
// lines of surrounding source.
func writeSourceCodeBlock(w io.Writer, b diag.SourceCodeBlock, fs *source.FileSet, opts PrettyOpts) {
	gutter := fmt.Sprintf("%d", b.Line)
	gutterWidth := runewidth.StringWidth(gutter)

	if opts.Context > 0 {
		f := fs.Get(b.ExcerptSpan.File)
		start := int64(b.Line) - int64(opts.Context)
		if start < 1 {
			start = 1
		}
		for l := uint32(start); l < b.Line; l++ {
			writeContextLine(w, f, l, gutterWidth)
		}
	}

	fmt.Fprintf(w, "  %s %s %s\n", gutterColor.Sprint(gutter), gutterColor.Sprint("|"), b.Text)

	for _, m := range b.Highlights {
		writeCaretLine(w, b.Text, m, gutterWidth)
	}

	if opts.Context > 0 {
		f := fs.Get(b.ExcerptSpan.File)
		for l := b.Line + 1; l <= b.Line+uint32(opts.Context); l++ {
			writeContextLine(w, f, l, gutterWidth)
		}
	}
}

func writeContextLine(w io.Writer, f *source.File, lineNum uint32, gutterWidth int) {
	if lineNum == 0 {
		return
	}
	text := f.GetLine(lineNum)
	if text == "" {
		return
	}
	text = strings.TrimRight(text, "\r\n")
	gutter := fmt.Sprintf("%*d", gutterWidth, lineNum)
	fmt.Fprintf(w, "  %s %s %s\n", gutterColor.Sprint(gutter), gutterColor.Sprint("|"), text)
}

// writeCaretLine draws a line of carets under text's span [m.Span.Start,
// m.Span.Start+m.Span.Length), measuring display width rather than byte
// offsets so multi-width runes in the (already-escaped) excerpt line up.
func writeCaretLine(w io.Writer, text string, m diag.Marker, gutterWidth int) {
	start := m.Span.Start
	end := start + m.Span.Length
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if end < start {
		end = start
	}

	leadWidth := runewidth.StringWidth(text[:start])
	caretWidth := runewidth.StringWidth(text[start:end])
	if caretWidth < 1 {
		caretWidth = 1
	}

	pad := strings.Repeat(" ", gutterWidth) + "     " + strings.Repeat(" ", leadWidth)
	carets := strings.Repeat("^", caretWidth)
	fmt.Fprintf(w, "%s%s\n", pad, markerColor.Sprint(carets))

	for _, note := range m.Notes {
		fmt.Fprintf(w, "%s%s\n", pad, note)
	}
}
