package ui

import (
	"fmt"
	"os"

	"github.com/aki/sqlmux/internal/dispatch"
)

// Print functions for consistent output

func Error(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorIcon, ErrorStyle.Render(fmt.Sprintf(format, args...)))
}

func Success(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", SuccessIcon, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

func Info(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", InfoIcon, InfoStyle.Render(fmt.Sprintf(format, args...)))
}

func Warning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", WarningIcon, WarningStyle.Render(fmt.Sprintf(format, args...)))
}

// OutputLine prints a formatted line to stdout
func OutputLine(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// Prompt prints a formatted prompt to stdout without a trailing newline
func Prompt(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// PrintExecution displays an execution result: a styled table for row sets,
// an affected-row count otherwise
func PrintExecution(res *dispatch.ExecutionResult) {
	if res == nil {
		return
	}

	if len(res.Columns) == 0 {
		Success("OK, %d row(s) affected", res.RowsAffected)
		return
	}

	headers := make([]interface{}, len(res.Columns))
	for i, c := range res.Columns {
		headers[i] = c
	}

	tbl := NewTable(headers...)
	for _, row := range res.Rows {
		vals := make([]interface{}, len(row))
		for i, v := range row {
			vals[i] = v
		}
		tbl.AddRow(vals...)
	}
	tbl.Print()

	OutputLine("%s", DimStyle.Render(fmt.Sprintf("(%d row(s))", len(res.Rows))))
}
