package textunit

import (
	"strings"
	"testing"
)

func TestStatement(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		want   Span
	}{
		{name: "cursor inside middle statement", text: "a;b;c", offset: 2, want: Span{2, 3}},
		{name: "cursor on delimiter ends preceding statement", text: "a;b;c", offset: 1, want: Span{0, 1}},
		{name: "cursor between two delimiters is empty", text: ";;", offset: 1, want: Span{1, 1}},
		{name: "no delimiter covers whole document", text: "select 1", offset: 4, want: Span{0, 8}},
		{name: "cursor at document start", text: "a;b", offset: 0, want: Span{0, 1}},
		{name: "cursor at document end", text: "a;b", offset: 3, want: Span{2, 3}},
		{name: "trailing delimiter", text: "a;b;c", offset: 4, want: Span{4, 5}},
		{name: "empty document", text: "", offset: 0, want: Span{0, 0}},
		{name: "only delimiter", text: ";", offset: 0, want: Span{0, 0}},
		{name: "multi-line statement", text: "select 1\nfrom t;\nselect 2;", offset: 20, want: Span{16, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Statement(tt.text, tt.offset)
			if got != tt.want {
				t.Errorf("Statement(%q, %d) = %v, want %v", tt.text, tt.offset, got, tt.want)
			}
		})
	}
}

func TestStatementSpanBounds(t *testing.T) {
	docs := []string{"", ";", "a", "a;b;c", ";;;", "select 1;\n\nselect 2;", "no delimiters here"}

	for _, d := range docs {
		for o := 0; o <= len(d); o++ {
			got := Statement(d, o)
			if got.Start < 0 || got.Start > got.End || got.End > len(d) {
				t.Fatalf("Statement(%q, %d) = %v violates 0 <= start <= end <= len", d, o, got)
			}
			// Re-resolution at the same offset is stable
			if again := Statement(d, o); again != got {
				t.Fatalf("Statement(%q, %d) not idempotent: %v then %v", d, o, got, again)
			}
		}
	}
}

func TestParagraph(t *testing.T) {
	doc := "select 1\nfrom a;\n\nselect 2\nfrom b;\n\n\nselect 3;"

	tests := []struct {
		name   string
		offset int
		want   string
	}{
		{name: "first block start", offset: 0, want: "select 1\nfrom a;"},
		{name: "first block second line", offset: 12, want: "select 1\nfrom a;"},
		{name: "middle block", offset: 20, want: "select 2\nfrom b;"},
		{name: "last block", offset: len(doc) - 1, want: "select 3;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paragraph(doc, tt.offset)
			if got.Extract(doc) != tt.want {
				t.Errorf("Paragraph(doc, %d) = %v (%q), want %q", tt.offset, got, got.Extract(doc), tt.want)
			}
		})
	}
}

func TestParagraphOnBlankLine(t *testing.T) {
	doc := "select 1;\n\nselect 2;"

	got := Paragraph(doc, 10) // the blank separator line
	if !got.Empty() {
		t.Errorf("Paragraph on blank line = %v, want empty span", got)
	}
}

func TestParagraphWhitespaceOnlySeparator(t *testing.T) {
	doc := "select 1;\n   \nselect 2;"

	got := Paragraph(doc, 0)
	if got.Extract(doc) != "select 1;" {
		t.Errorf("whitespace-only line did not separate paragraphs: got %q", got.Extract(doc))
	}
}

func TestParagraphSingleBlock(t *testing.T) {
	doc := "select 1\nfrom t"

	got := Paragraph(doc, 3)
	if got != (Span{0, len(doc)}) {
		t.Errorf("Paragraph(%q, 3) = %v, want whole document", doc, got)
	}
}

func TestRegion(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		start, end int
		want       Span
	}{
		{name: "forward", text: "abcdef", start: 1, end: 4, want: Span{1, 4}},
		{name: "reversed is swapped", text: "abcdef", start: 4, end: 1, want: Span{1, 4}},
		{name: "clamped to document", text: "abc", start: -2, end: 99, want: Span{0, 3}},
		{name: "empty", text: "abc", start: 2, end: 2, want: Span{2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Region(tt.text, tt.start, tt.end)
			if got != tt.want {
				t.Errorf("Region(%q, %d, %d) = %v, want %v", tt.text, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestBuffer(t *testing.T) {
	doc := "select 1;\nselect 2;"
	for _, o := range []int{0, 5, len(doc)} {
		got, err := Resolve(Request{Kind: KindBuffer, Text: doc, Offset: o})
		if err != nil {
			t.Fatalf("Resolve(buffer) error: %v", err)
		}
		if got != (Span{0, len(doc)}) {
			t.Errorf("buffer span at offset %d = %v, want (0, %d)", o, got, len(doc))
		}
	}
}

func TestResolveValidation(t *testing.T) {
	if _, err := Resolve(Request{Kind: KindStatement, Text: "abc", Offset: 4}); err == nil {
		t.Error("expected error for offset beyond document end")
	}
	if _, err := Resolve(Request{Kind: KindStatement, Text: "abc", Offset: -1}); err == nil {
		t.Error("expected error for negative offset")
	}
	if _, err := Resolve(Request{Kind: Kind("word"), Text: "abc", Offset: 0}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"statement", "paragraph", "region", "buffer"} {
		k, err := ParseKind(s)
		if err != nil {
			t.Fatalf("ParseKind(%q) error: %v", s, err)
		}
		if string(k) != s {
			t.Errorf("ParseKind(%q) = %q", s, k)
		}
	}

	k, err := ParseKind("")
	if err != nil || k != KindStatement {
		t.Errorf("ParseKind(\"\") = %q, %v, want statement default", k, err)
	}

	if _, err := ParseKind("sentence"); err == nil {
		t.Error("expected error for unknown kind string")
	}
}

func TestStatementExtractTrims(t *testing.T) {
	doc := "  select 1  ;   \t\n ;"
	sp := Statement(doc, 3)
	if strings.TrimSpace(sp.Extract(doc)) != "select 1" {
		t.Errorf("extracted %q, want %q after trim", sp.Extract(doc), "select 1")
	}
}
