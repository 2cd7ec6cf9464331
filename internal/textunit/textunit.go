// Package textunit resolves execution-unit boundaries in a SQL text buffer.
//
// Given a document and a cursor offset it computes the span of text to send
// for execution: the surrounding statement, the surrounding paragraph, a
// caller-supplied region, or the whole buffer. Statement splitting is purely
// lexical (semicolon-delimited); there is no awareness of string literals or
// comments.
package textunit

import (
	"fmt"
	"strings"
)

// Kind identifies the granularity of text to execute.
type Kind string

const (
	// KindStatement is the semicolon-delimited statement around the cursor
	KindStatement Kind = "statement"
	// KindParagraph is the blank-line-delimited block around the cursor
	KindParagraph Kind = "paragraph"
	// KindRegion is an explicit caller-supplied range
	KindRegion Kind = "region"
	// KindBuffer is the whole document
	KindBuffer Kind = "buffer"
)

// ParseKind converts a string to a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindStatement, KindParagraph, KindRegion, KindBuffer:
		return Kind(s), nil
	case "":
		return KindStatement, nil
	default:
		return "", fmt.Errorf("unknown unit kind: %s", s)
	}
}

// Span is a half-open byte range [Start, End) into a document
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Extract returns the document text covered by the span
func (s Span) Extract(text string) string {
	return text[s.Start:s.End]
}

// Empty reports whether the span covers no text
func (s Span) Empty() bool {
	return s.Start == s.End
}

// Request describes a boundary resolution
type Request struct {
	Kind   Kind   // Unit granularity
	Text   string // Full document text
	Offset int    // Cursor byte offset, 0..len(Text)

	// Region bounds, used only when Kind is KindRegion
	RegionStart int
	RegionEnd   int
}

// Resolve computes the span for the requested unit. It is a pure function of
// the request: resolving the same request twice yields the same span.
func Resolve(req Request) (Span, error) {
	if req.Offset < 0 || req.Offset > len(req.Text) {
		return Span{}, fmt.Errorf("offset %d out of range [0, %d]", req.Offset, len(req.Text))
	}

	switch req.Kind {
	case KindStatement:
		return Statement(req.Text, req.Offset), nil
	case KindParagraph:
		return Paragraph(req.Text, req.Offset), nil
	case KindRegion:
		return Region(req.Text, req.RegionStart, req.RegionEnd), nil
	case KindBuffer:
		return Buffer(req.Text), nil
	default:
		return Span{}, fmt.Errorf("unknown unit kind: %s", req.Kind)
	}
}

// Statement returns the semicolon-delimited statement around the cursor.
//
// The backward scan searches text before the cursor for the previous
// semicolon; the forward scan searches at and after the cursor for the next
// one. Both scans are independent, and the delimiter found in either
// direction is excluded from the span, so a semicolon sitting exactly at the
// cursor terminates the preceding statement and a cursor between two
// semicolons yields an empty span.
func Statement(text string, offset int) Span {
	start := 0
	if i := strings.LastIndexByte(text[:offset], ';'); i >= 0 {
		start = i + 1
	}

	end := len(text)
	if i := strings.IndexByte(text[offset:], ';'); i >= 0 {
		end = offset + i
	}

	return Span{Start: start, End: end}
}

// Paragraph returns the maximal run of non-blank lines containing the
// cursor's line. Whitespace-only lines count as blank separators. A cursor
// sitting on a blank line yields an empty span at the start of that line.
func Paragraph(text string, offset int) Span {
	lineStart, lineEnd := lineAt(text, offset)

	if blank(text[lineStart:lineEnd]) {
		return Span{Start: lineStart, End: lineStart}
	}

	// Extend upward to the first line of the block
	start := lineStart
	for start > 0 {
		prevStart, prevEnd := lineAt(text, start-1)
		if blank(text[prevStart:prevEnd]) {
			break
		}
		start = prevStart
	}

	// Extend downward to the last line of the block
	end := lineEnd
	for end < len(text) {
		nextStart, nextEnd := lineAt(text, end+1)
		if blank(text[nextStart:nextEnd]) {
			break
		}
		end = nextEnd
	}

	return Span{Start: start, End: end}
}

// Region returns the caller-supplied range, swapped if reversed and clamped
// to the document bounds.
func Region(text string, start, end int) Span {
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start > len(text) {
		start = len(text)
	}
	if end < 0 {
		end = 0
	}
	return Span{Start: start, End: end}
}

// Buffer returns the whole document
func Buffer(text string) Span {
	return Span{Start: 0, End: len(text)}
}

// lineAt returns the bounds of the line containing offset. The returned end
// is the index of the line's newline, or len(text) for the last line.
func lineAt(text string, offset int) (start, end int) {
	if offset > len(text) {
		offset = len(text)
	}
	// A cursor on a newline belongs to the line the newline terminates
	if offset < len(text) && text[offset] == '\n' {
		end = offset
	} else if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		end = offset + i
	} else {
		end = len(text)
	}

	start = 0
	if i := strings.LastIndexByte(text[:end], '\n'); i >= 0 {
		start = i + 1
	}
	return start, end
}

func blank(line string) bool {
	return strings.TrimSpace(line) == ""
}
