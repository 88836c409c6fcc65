package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary     = lipgloss.Color("#1E40AF")
	accent      = lipgloss.Color("#8BC34A")
	muted       = lipgloss.Color("#6B7280")
	border      = lipgloss.Color("#D1D5DB")
	destructive = lipgloss.Color("#E53935")
)

// Styles groups the lipgloss styles used by the views.
type Styles struct {
	Title        lipgloss.Style
	Help         lipgloss.Style
	Status       lipgloss.Style
	Error        lipgloss.Style
	Card         lipgloss.Style
	SelectedCard lipgloss.Style
	CardTitle    lipgloss.Style
	CardMeta     lipgloss.Style
	Price        lipgloss.Style
	Modal        lipgloss.Style
	ModalTitle   lipgloss.Style
	Label        lipgloss.Style
	Button       lipgloss.Style
	DangerButton lipgloss.Style
	Blurred      lipgloss.Style
}

func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(cardWidth)

	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(primary),
		Help:         lipgloss.NewStyle().Foreground(muted),
		Status:       lipgloss.NewStyle().Foreground(accent),
		Error:        lipgloss.NewStyle().Foreground(destructive),
		Card:         card,
		SelectedCard: card.BorderForeground(primary),
		CardTitle:    lipgloss.NewStyle().Bold(true),
		CardMeta:     lipgloss.NewStyle().Foreground(muted),
		Price:        lipgloss.NewStyle().Foreground(accent).Bold(true),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(primary).
			Padding(1, 2),
		ModalTitle:   lipgloss.NewStyle().Bold(true).Foreground(primary).MarginBottom(1),
		Label:        lipgloss.NewStyle().Width(labelWidth),
		Button:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(primary).Padding(0, 2),
		DangerButton: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(destructive).Padding(0, 2),
		Blurred:      lipgloss.NewStyle().Faint(true),
	}
}
