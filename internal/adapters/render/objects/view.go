package objects

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/nmoo-cli/internal/application"
	"github.com/bnema/nmoo-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Selected domain.VerbID
}

func renderView(view application.ObjectView, opts RenderOptions, s styles) string {
	lines := []string{
		s.header.Render(view.Header),
		s.meta.Render(fmt.Sprintf("verbs: %d", len(view.Verbs))),
	}

	if len(view.Verbs) == 0 {
		lines = append(lines, s.empty.Render("No verbs defined."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	width := len(fmt.Sprint(len(view.Verbs)))
	for i, entry := range view.Verbs {
		lines = append(lines, verbLine(i+1, width, entry, entry.ID == opts.Selected, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func verbLine(n int, width int, entry application.VerbEntry, selected bool, s styles) string {
	marker := " "
	name := s.verb.Render(string(entry.ID) + ":")
	if selected {
		marker = "*"
		name = s.selected.Render(string(entry.ID) + ":")
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.index.Render(fmt.Sprintf("%s%*d ", marker, width, n)),
		name,
		" ",
		s.names.Render(entry.Names),
	)
}

// RenderError formats a failure the way the editor's error panel shows it:
// status code on the first line, the server's message beneath.
func RenderError(err error) string {
	s := newStyles()

	var statusErr *domain.StatusError
	if errors.As(err, &statusErr) {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			s.errTitle.Render(fmt.Sprintf("Error: %d", statusErr.Code)),
			s.errBody.Render(strings.TrimSpace(statusErr.Body)),
		)
	}

	return s.errTitle.Render("Error: " + err.Error())
}

func RenderSource(code string) string {
	return newStyles().source.Render(code)
}
