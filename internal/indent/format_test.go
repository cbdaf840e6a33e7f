package indent

import (
	"strings"
	"testing"
)

func TestFormatDocument(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		want        string
		wantChanged bool
	}{
		{
			name:        "already formatted is a no-op",
			in:          "If x\n    y()\nEndIf",
			want:        "If x\n    y()\nEndIf",
			wantChanged: false,
		},
		{
			name:        "body gets indented",
			in:          "If x\ny()\nEndIf",
			want:        "If x\n    y()\nEndIf",
			wantChanged: true,
		},
		{
			name:        "select construct",
			in:          "Select a\nCase 1\nfoo()\nDefault\nbar()\nEndSelect",
			want:        "Select a\n    Case 1\n        foo()\n    Default\n        bar()\nEndSelect",
			wantChanged: true,
		},
		{
			name:        "inline net-zero line does not shift followers",
			in:          "If a : b() : EndIf\nnext()",
			want:        "If a : b() : EndIf\nnext()",
			wantChanged: false,
		},
		{
			name:        "stray closer clamps and recovers",
			in:          "EndIf\nx = 1",
			want:        "EndIf\nx = 1",
			wantChanged: false,
		},
		{
			name:        "else aligns with opener",
			in:          "If a\nx()\nElse\ny()\nEndIf",
			want:        "If a\n    x()\nElse\n    y()\nEndIf",
			wantChanged: true,
		},
		{
			name:        "nested blocks",
			in:          "Procedure Foo()\nWhile busy\nPoll()\nWend\nEndProcedure",
			want:        "Procedure Foo()\n    While busy\n        Poll()\n    Wend\nEndProcedure",
			wantChanged: true,
		},
		{
			name:        "preprocessor blocks nest like runtime ones",
			in:          "CompilerIf #PB_Compiler_Debugger\ntrace()\nCompilerElse\nfast()\nCompilerEndIf",
			want:        "CompilerIf #PB_Compiler_Debugger\n    trace()\nCompilerElse\n    fast()\nCompilerEndIf",
			wantChanged: true,
		},
		{
			name:        "keywords inside strings and comments ignored",
			in:          "a$ = \"If\" ; EndIf note\nb = 1",
			want:        "a$ = \"If\" ; EndIf note\nb = 1",
			wantChanged: false,
		},
		{
			name:        "blank lines emitted empty",
			in:          "If a\n   \nx()\nEndIf",
			want:        "If a\n\n    x()\nEndIf",
			wantChanged: true,
		},
		{
			name:        "trailing newline preserved",
			in:          "If a\nx()\nEndIf\n",
			want:        "If a\n    x()\nEndIf\n",
			wantChanged: true,
		},
		{
			name:        "crlf line endings preserved",
			in:          "If a\r\nx()\r\nEndIf\r\n",
			want:        "If a\r\n    x()\r\nEndIf\r\n",
			wantChanged: true,
		},
		{
			name:        "empty input",
			in:          "",
			want:        "",
			wantChanged: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := FormatDocument(tt.in, DefaultOptions())
			if got != tt.want {
				t.Errorf("FormatDocument output:\n%q\nwant:\n%q", got, tt.want)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}

func TestFormatDocumentTwoSpaceConvention(t *testing.T) {
	in := "If x\n  y()\nEndIf"
	got, changed := FormatDocument(in, Options{TabSize: 2, InsertSpaces: true})
	if changed || got != in {
		t.Errorf("two-space doc with TabSize 2 changed: %q", got)
	}
}

func TestFormatDocumentTabs(t *testing.T) {
	got, _ := FormatDocument("If a\nx()\nEndIf", Options{TabSize: 4, InsertSpaces: false})
	want := "If a\n\tx()\nEndIf"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatDocumentIdempotent(t *testing.T) {
	in := "Procedure Run()\nSelect cmd\nCase 1\nIf ok\nstep()\nEndIf\nDefault\nother()\nEndSelect\nEndProcedure\n"
	once, changed := FormatDocument(in, DefaultOptions())
	if !changed {
		t.Fatal("expected first pass to change the input")
	}
	twice, changed := FormatDocument(once, DefaultOptions())
	if changed || twice != once {
		t.Errorf("second pass not a no-op:\n%q\nvs\n%q", once, twice)
	}
}

func TestFormatRange(t *testing.T) {
	doc := "If a\nx()\ny()\nEndIf"

	edit, changed := FormatRange(doc, 1, 2, DefaultOptions())
	if !changed {
		t.Fatal("expected a range edit")
	}
	if edit.StartLine != 1 || edit.EndLine != 2 {
		t.Errorf("edit spans lines %d..%d, want 1..2", edit.StartLine, edit.EndLine)
	}
	if edit.Text != "    x()\n    y()" {
		t.Errorf("edit text = %q", edit.Text)
	}
}

func TestFormatRangeNoChange(t *testing.T) {
	doc := "If a\n    x()\nEndIf"
	if _, changed := FormatRange(doc, 1, 1, DefaultOptions()); changed {
		t.Error("range over already-formatted lines produced an edit")
	}
}

func TestFormatRangeClampsBounds(t *testing.T) {
	doc := "If a\nx()\nEndIf"
	edit, changed := FormatRange(doc, -3, 99, DefaultOptions())
	if !changed {
		t.Fatal("expected a range edit")
	}
	if edit.StartLine != 0 || edit.EndLine != 2 {
		t.Errorf("edit spans lines %d..%d, want 0..2", edit.StartLine, edit.EndLine)
	}
}

func TestFormatRangeEmptyDoc(t *testing.T) {
	if _, changed := FormatRange("", 0, 0, DefaultOptions()); changed {
		t.Error("empty document produced an edit")
	}
}

// Formatting any line span of an already-formatted document must be a no-op,
// which is the range/full equivalence guarantee.
func TestFormatRangeFullEquivalence(t *testing.T) {
	raw := "Procedure Run()\nSelect cmd\nCase 1\nIf ok\nstep()\nEndIf\nDefault\nother()\nEndSelect\nEndProcedure"
	full, _ := FormatDocument(raw, DefaultOptions())
	lineCount := len(strings.Split(full, "\n"))

	for start := 0; start < lineCount; start++ {
		for end := start; end < lineCount; end++ {
			if edit, changed := FormatRange(full, start, end, DefaultOptions()); changed {
				t.Fatalf("range %d..%d of formatted doc produced edit %q", start, end, edit.Text)
			}
		}
	}
}
