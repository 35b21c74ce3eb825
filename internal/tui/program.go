package tui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ProgramOptions returns the tea options for a full-screen viewer. When
// the document came in on stdin, keys are read from the terminal instead.
func ProgramOptions(ctx context.Context, mouse bool) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		opts = append(opts, tea.WithInputTTY())
	}
	return opts
}

// Run starts the viewer and blocks until the user quits or ctx ends.
// reloads delivers ReloadMsg and ReloadErrorMsg values while it runs.
func Run(ctx context.Context, m Model, reloads <-chan tea.Msg) error {
	p := tea.NewProgram(m, ProgramOptions(ctx, m.session.Config().View.Mouse)...)

	if reloads != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-reloads:
					if !ok {
						return
					}
					p.Send(msg)
				}
			}
		}()
	}

	_, err := p.Run()
	return err
}
