package diag

// OneMarkerHighlight builds a Highlights with a single unnoted marker, the
// common case for a diagnostic that flags exactly one excerpt span.
func OneMarkerHighlight(span TextSpan) Highlights {
	return Highlights{{Span: span}}
}
