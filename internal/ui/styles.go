package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Width(12)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	DocStyle = lipgloss.NewStyle().
			Margin(0, 1)
)

// Summary renders a titled block of label/value lines.
func Summary(title string, pairs ...[2]string) string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(title))
	for _, p := range pairs {
		sb.WriteString("\n")
		sb.WriteString(LabelStyle.Render(p[0]))
		sb.WriteString(p[1])
	}
	return DocStyle.Render(sb.String())
}

// Errorf renders a formatted error line.
func Errorf(format string, args ...any) string {
	return ErrorStyle.Render("error: " + fmt.Sprintf(format, args...))
}
