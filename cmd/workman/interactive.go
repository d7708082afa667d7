package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/fbkclanna/workman/internal/ui"
)

// isTerminal reports whether stdin can drive an interactive prompt.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
}

var errNoTTY = errors.New("confirmation requires a TTY; pass --yes to proceed")

var errCanceled = errors.New("canceled")

// confirmModel asks whether to go ahead with a change to the listed files.
// The answer starts at no.
type confirmModel struct {
	question string
	files    []string
	st       ui.Styles

	answer   bool
	answered bool
	canceled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.canceled = true
		return m, tea.Quit
	case "y", "Y":
		m.answer, m.answered = true, true
		return m, tea.Quit
	case "n", "N":
		m.answer, m.answered = false, true
		return m, tea.Quit
	case "enter":
		m.answered = true
		return m, tea.Quit
	case "left", "right", "tab", "h", "l":
		m.answer = !m.answer
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered || m.canceled {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.st.Bold.Render(m.question) + "\n")
	for _, f := range m.files {
		b.WriteString("  " + m.st.Skipped.Render(f) + "\n")
	}
	choice := "No"
	if m.answer {
		choice = "Yes"
	}
	b.WriteString(fmt.Sprintf("[y/N] %s\n", m.st.Bold.Underline(true).Render(choice)))
	return b.String()
}

// confirm asks question about files on the terminal. assumeYes skips the
// prompt.
func confirm(out io.Writer, question string, files []string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !isTerminal() {
		return false, errNoTTY
	}

	m := confirmModel{question: question, files: files, st: ui.NewStyles(out)}
	result, err := tea.NewProgram(m, tea.WithOutput(out)).Run()
	if err != nil {
		return false, err
	}
	rm := result.(confirmModel)
	if rm.canceled {
		return false, errCanceled
	}
	return rm.answer, nil
}
