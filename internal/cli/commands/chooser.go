package commands

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aki/sqlmux/internal/cli/ui"
	"github.com/aki/sqlmux/internal/session"
)

// promptChooser implements session.Chooser with a numbered terminal prompt.
// An empty line or EOF cancels the selection.
type promptChooser struct {
	in io.Reader
}

func (p *promptChooser) Choose(labels []string) (int, error) {
	ui.OutputLine("Select a session:")
	for i, label := range labels {
		ui.OutputLine("  %d) %s", i+1, label)
	}
	ui.Prompt("Choice (1-%d, empty cancels): ", len(labels))

	scanner := bufio.NewScanner(p.in)
	if !scanner.Scan() {
		return 0, session.ErrCancelled
	}

	line := strings.TrimSpace(scanner.Text())
	if line == "" {
		return 0, session.ErrCancelled
	}

	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("invalid choice: %s", line)
	}
	return n - 1, nil
}
