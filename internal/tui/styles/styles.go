// Package styles builds the console's lipgloss styles from the
// configured theme.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"postdeck/internal/config"
)

// Theme holds every style the console renders with.
type Theme struct {
	App       lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Help      lipgloss.Style
	StatusBar lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	SelectedRow lipgloss.Style

	BadgeDraft     lipgloss.Style
	BadgeScheduled lipgloss.Style
	BadgePublished lipgloss.Style
	BadgeFailed    lipgloss.Style

	ModalBox      lipgloss.Style
	ModalTitle    lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonBlurred lipgloss.Style

	InputLabel   lipgloss.Style
	InputFocused lipgloss.Style
	StatCard     lipgloss.Style
	StatValue    lipgloss.Style
	Empty        lipgloss.Style
}

// New derives the style set from the active configuration theme.
func New(cfg *config.Config) Theme {
	primary := lipgloss.Color(cfg.Theme.Primary)
	success := lipgloss.Color(cfg.Theme.Success)
	warning := lipgloss.Color(cfg.Theme.Warning)
	errCol := lipgloss.Color(cfg.Theme.Error)
	info := lipgloss.Color(cfg.Theme.Info)
	emphasis := lipgloss.Color(cfg.Theme.Emphasis)
	border := lipgloss.Color(cfg.Theme.Border)

	return Theme{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(emphasis),
		Help: lipgloss.NewStyle().
			Foreground(info),
		StatusBar: lipgloss.NewStyle().
			Foreground(emphasis),

		Success: lipgloss.NewStyle().Foreground(success),
		Warning: lipgloss.NewStyle().Foreground(warning),
		Error:   lipgloss.NewStyle().Foreground(errCol),
		Info:    lipgloss.NewStyle().Foreground(info),

		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(border),
		TableRow: lipgloss.NewStyle(),
		SelectedRow: lipgloss.NewStyle().
			Bold(true).
			Foreground(emphasis),

		BadgeDraft:     lipgloss.NewStyle().Foreground(info),
		BadgeScheduled: lipgloss.NewStyle().Foreground(warning),
		BadgePublished: lipgloss.NewStyle().Foreground(success),
		BadgeFailed:    lipgloss.NewStyle().Foreground(errCol),

		ModalBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		ButtonFocused: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(primary).
			Padding(0, 2),
		ButtonBlurred: lipgloss.NewStyle().
			Foreground(emphasis).
			Padding(0, 2),

		InputLabel: lipgloss.NewStyle().
			Foreground(emphasis),
		InputFocused: lipgloss.NewStyle().
			Foreground(primary),
		StatCard: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 2).
			MarginRight(1),
		StatValue: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Empty: lipgloss.NewStyle().
			Foreground(emphasis).
			Italic(true),
	}
}

// BadgeFor returns the style for a post status badge.
func (t Theme) BadgeFor(status string) lipgloss.Style {
	switch status {
	case "draft":
		return t.BadgeDraft
	case "scheduled":
		return t.BadgeScheduled
	case "published":
		return t.BadgePublished
	case "failed":
		return t.BadgeFailed
	}
	return t.TableRow
}
