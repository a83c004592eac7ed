// Package report implements the Diagnostic Reporter (component F of
// the lexical pipeline): it walks the block tree nesting produces,
// folds every token's untainted errors into Diagnostics, and latches
// Tainted on every token it reports so a second pass sees nothing
// left to report.
package report

import (
	"sort"

	"rebuild/internal/diag"
	"rebuild/internal/source"
	"rebuild/internal/token"
)

// Reporter walks a block tree and reports every error it finds to a
// diag.Sink. It holds no state of its own between lines: all grouping
// happens within a single BlockLine, which always corresponds to one
// physical source line, so there is no cross-line excerpt to track.
type Reporter struct {
	file *source.File
	sink diag.Sink
}

// New returns a Reporter over file, sending every Diagnostic it builds
// to sink.
func New(file *source.File, sink diag.Sink) *Reporter {
	return &Reporter{file: file, sink: sink}
}

// Run reports every error reachable from root, recursing into nested
// blocks depth-first in source order.
func Run(file *source.File, root *token.BlockLiteralValue, sink diag.Sink) {
	New(file, sink).Run(root)
}

// Run reports every error under block, recursing into nested
// BlockLiteral tokens.
func (r *Reporter) Run(block *token.BlockLiteralValue) {
	if block == nil {
		return
	}
	for _, line := range block.Lines {
		r.reportLine(line)
		for _, t := range line.Tokens {
			if t.Kind == token.BlockLiteral {
				r.Run(t.Block)
			}
		}
	}
}

// errorGroup collects every untainted error of one kind found on a
// single line, across both its significant tokens and its
// insignificants, so one Diagnostic can cover all of them at once.
type errorGroup struct {
	kind   token.ErrorKind
	owners []*token.Token
	spans  []source.Span
}

// reportLine groups every untainted error on line by kind, builds one
// excerpt for the whole line, and emits one Diagnostic per group.
func (r *Reporter) reportLine(line *token.BlockLine) {
	var groups []*errorGroup
	find := func(kind token.ErrorKind) *errorGroup {
		for _, g := range groups {
			if g.kind == kind {
				return g
			}
		}
		g := &errorGroup{kind: kind}
		groups = append(groups, g)
		return g
	}

	collect := func(t *token.Token) {
		if t.Tainted || !t.HasErrors() {
			return
		}
		for _, e := range t.Errors {
			g := find(e.Kind)
			g.owners = append(g.owners, t)
			g.spans = append(g.spans, e.Span)
		}
	}
	for _, t := range line.Tokens {
		collect(t)
	}
	for _, t := range line.Insignificants {
		collect(t)
	}
	if len(groups) == 0 {
		return
	}

	// Stable order keeps output deterministic regardless of map or
	// slice iteration elsewhere; groups is already built in first-seen
	// order, which already matches source order closely enough, but
	// sort explicitly by each group's first span for a reproducible
	// left-to-right diagnostic order on the line.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].spans[0].Start < groups[j].spans[0].Start
	})

	excerpt := trimTrailingBreak(r.file.Content, line.Span())
	for _, g := range groups {
		r.emit(excerpt, g)
		for _, owner := range g.owners {
			owner.Tainted = true
		}
	}
}

// trimTrailingBreak shrinks sp so it no longer includes a trailing
// line-break byte sequence. A BlockLine's span can include the Newline
// insignificant that ends it; the diagnostic excerpt should show only
// the visible content of the line.
func trimTrailingBreak(content []byte, sp source.Span) source.Span {
	for sp.End > sp.Start && (content[sp.End-1] == '\n' || content[sp.End-1] == '\r') {
		sp.End--
	}
	return sp
}

// emit builds and sends one Diagnostic covering every marker in g,
// escaping the excerpt once and translating every marker offset into
// the escaped text.
func (r *Reporter) emit(excerpt source.Span, g *errorGroup) {
	text, ok := explanations[g.kind]
	if !ok {
		return
	}

	raw := r.file.Content[excerpt.Start:excerpt.End]
	var escaped string
	var breakpoints []breakpoint
	if needsEscaping(raw) {
		escaped, breakpoints = escapeExcerpt(raw)
	} else {
		escaped = string(raw)
	}

	highlights := make(diag.Highlights, len(g.spans))
	for i, sp := range g.spans {
		rawStart := int(int64(sp.Start) - int64(excerpt.Start))
		rawEnd := int(int64(sp.End) - int64(excerpt.Start))
		if rawEnd < rawStart {
			rawEnd = rawStart
		}
		if rawStart < 0 {
			rawStart = 0
		}
		if rawEnd > len(raw) {
			rawEnd = len(raw)
		}
		var escStart, escEnd int
		if breakpoints != nil {
			escStart = translateOffset(breakpoints, rawStart)
			escEnd = translateOffset(breakpoints, rawEnd)
		} else {
			escStart, escEnd = rawStart, rawEnd
		}
		highlights[i] = diag.Marker{Span: diag.TextSpan{Start: escStart, Length: escEnd - escStart}}
	}

	body := text.single
	if len(g.spans) > 1 {
		body = text.plural
	}

	block := diag.SourceCodeBlock{
		Text:        escaped,
		Highlights:  highlights,
		Line:        r.lineOf(excerpt.Start),
		ExcerptSpan: excerpt,
	}

	d := diag.New(text.code, diag.Explanation{
		Title:    text.title,
		Document: diag.Document{diag.Para(body), diag.Block(block)},
	})
	r.sink.Report(d)
}

// lineOf returns the 1-based line number containing off, via the same
// binary search FileSet.Resolve uses internally.
func (r *Reporter) lineOf(off uint32) uint32 {
	idx := r.file.LineIdx
	if len(idx) == 0 {
		return 1
	}
	lo, hi := 0, len(idx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if idx[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return uint32(lo) + 1
}
