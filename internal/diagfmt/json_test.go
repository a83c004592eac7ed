package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"rebuild/internal/diag"
	"rebuild/internal/source"
)

func unexpectedCharDiagnostic(span source.Span, text string) diag.Diagnostic {
	return diag.New(diag.UnexpectedCharacter, diag.Explanation{
		Title: "Unexpected characters",
		Document: diag.Document{
			diag.Para("found an unexpected character"),
			diag.Block(diag.SourceCodeBlock{
				Text:        text,
				Highlights:  diag.Highlights{{Span: diag.TextSpan{Start: 0, Length: len(text)}}},
				Line:        1,
				ExcerptSpan: span,
			}),
		},
	})
}

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("a @ b\n")
	fileID := fs.AddVirtual("test.rb", content)

	bag := diag.NewBag(10)
	bag.Add(unexpectedCharDiagnostic(source.Span{File: fileID, Start: 2, End: 3}, "@"))

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\noutput: %s", err, buf.String())
	}

	if output.Count != 1 {
		t.Errorf("expected count=1, got %d", output.Count)
	}
	if len(output.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(output.Diagnostics))
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" {
		t.Errorf("expected severity=ERROR, got %s", d.Severity)
	}
	if d.Code != "rebuild-lexer-2" {
		t.Errorf("expected code=rebuild-lexer-2, got %s", d.Code)
	}
	if d.Summary != "found an unexpected character" {
		t.Errorf("unexpected summary: %q", d.Summary)
	}
	if d.Location.File != "test.rb" {
		t.Errorf("expected file=test.rb, got %s", d.Location.File)
	}
	if d.Location.StartByte != 2 || d.Location.EndByte != 3 {
		t.Errorf("unexpected byte location: %+v", d.Location)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 3 {
		t.Errorf("unexpected line/col location: %+v", d.Location)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.rb", []byte("a @ b\n"))

	bag := diag.NewBag(10)
	bag.Add(unexpectedCharDiagnostic(source.Span{File: fileID, Start: 2, End: 3}, "@"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: false, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	d := output.Diagnostics[0]
	if d.Location.StartLine != 0 {
		t.Errorf("expected start_line to be omitted, got %d", d.Location.StartLine)
	}
	if d.Location.StartByte != 2 {
		t.Errorf("expected start_byte=2, got %d", d.Location.StartByte)
	}
}

func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.rb", []byte("@@@@@\n"))

	bag := diag.NewBag(10)
	for i := 0; i < 5; i++ {
		bag.Add(unexpectedCharDiagnostic(source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, "@"))
	}

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: false, PathMode: PathModeBasename, Max: 3}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if output.Count != 3 {
		t.Errorf("expected count=3, got %d", output.Count)
	}
	if len(output.Diagnostics) != 3 {
		t.Errorf("expected 3 diagnostics, got %d", len(output.Diagnostics))
	}
}

func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	fileID := fs.AddVirtual("/home/user/project/src/main.rb", []byte("a\n"))

	bag := diag.NewBag(10)
	bag.Add(unexpectedCharDiagnostic(source.Span{File: fileID, Start: 0, End: 1}, "a"))

	tests := []struct {
		name     string
		pathMode PathMode
		expected string
	}{
		{"Absolute", PathModeAbsolute, "/home/user/project/src/main.rb"},
		{"Relative", PathModeRelative, "src/main.rb"},
		{"Basename", PathModeBasename, "main.rb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := JSONOpts{IncludePositions: false, PathMode: tt.pathMode}
			if err := JSON(&buf, bag, fs, opts); err != nil {
				t.Fatalf("JSON() error: %v", err)
			}

			var output DiagnosticsOutput
			if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
				t.Fatalf("invalid JSON output: %v", err)
			}
			if output.Diagnostics[0].Location.File != tt.expected {
				t.Errorf("expected file=%s, got %s", tt.expected, output.Diagnostics[0].Location.File)
			}
		})
	}
}
