package cmd

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/danielolaszy/orderboard/internal/color"
	"github.com/danielolaszy/orderboard/pkg/models"
)

var (
	colorPurple = lipgloss.Color("#7D56F4")
	colorGray   = lipgloss.Color("#626262")
	colorRed    = lipgloss.Color("#E05252")
	colorGreen  = lipgloss.Color("#25A065")
)

// styles renders for one output. Colors are dropped when the output is not a
// terminal.
type styles struct {
	renderer *lipgloss.Renderer
	title    lipgloss.Style
	header   lipgloss.Style
	dim      lipgloss.Style
	errText  lipgloss.Style
	okText   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		renderer: r,
		title:    r.NewStyle().Bold(true).Foreground(colorPurple),
		header:   r.NewStyle().Bold(true),
		dim:      r.NewStyle().Foreground(colorGray),
		errText:  r.NewStyle().Foreground(colorRed),
		okText:   r.NewStyle().Foreground(colorGreen),
	}
}

// assignee renders the assignee of a card on its user color.
func (s styles) assignee(card models.Card) string {
	if card.Assignee == "" {
		return ""
	}
	style := s.renderer.NewStyle().Padding(0, 1)
	if card.UserColor != "" {
		style = style.Background(lipgloss.Color(card.UserColor))
		if text := color.IdealTextColor(card.UserColor); text != "" {
			style = style.Foreground(lipgloss.Color(text))
		}
	}
	return style.Render(card.Assignee)
}
