package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	// FormatPretty represents human-readable output format
	FormatPretty OutputFormat = "pretty"
	// FormatJSON represents JSON output format
	FormatJSON OutputFormat = "json"
)

// ParseFormat converts a string to OutputFormat
func ParseFormat(s string) (OutputFormat, error) {
	switch s {
	case "pretty", "":
		return FormatPretty, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Formatter is the interface for output formatting
type Formatter interface {
	// Output formats and displays any data
	Output(data interface{}) error

	// OutputError formats and displays an error
	OutputError(err error) error

	// IsJSON returns true if this formatter outputs JSON
	IsJSON() bool
}

// GlobalFormatter is the formatter used by all commands; SetFormat replaces
// it before a command runs
var GlobalFormatter Formatter = NewPrettyFormatter()

// SetFormat configures the global formatter from a format string
func SetFormat(s string) error {
	format, err := ParseFormat(s)
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		GlobalFormatter = NewJSONFormatter(os.Stdout)
	default:
		GlobalFormatter = NewPrettyFormatter()
	}
	return nil
}

// prettyFormatter implements Formatter for human-readable output
type prettyFormatter struct{}

// NewPrettyFormatter creates a new pretty formatter
func NewPrettyFormatter() Formatter {
	return &prettyFormatter{}
}

func (f *prettyFormatter) Output(data interface{}) error {
	if str, ok := data.(string); ok {
		fmt.Print(str)
		return nil
	}
	fmt.Println(data)
	return nil
}

func (f *prettyFormatter) OutputError(err error) error {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorIcon, ErrorStyle.Render(err.Error()))
	return nil
}

func (f *prettyFormatter) IsJSON() bool {
	return false
}

// jsonFormatter implements Formatter for JSON output
type jsonFormatter struct {
	encoder *json.Encoder
}

// NewJSONFormatter creates a new JSON formatter writing to w
func NewJSONFormatter(w io.Writer) Formatter {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return &jsonFormatter{encoder: encoder}
}

func (f *jsonFormatter) Output(data interface{}) error {
	return f.encoder.Encode(data)
}

func (f *jsonFormatter) OutputError(err error) error {
	return f.encoder.Encode(map[string]string{"error": err.Error()})
}

func (f *jsonFormatter) IsJSON() bool {
	return true
}
