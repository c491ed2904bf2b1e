// Package components holds the reusable render pieces the console's
// views are assembled from.
package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"postdeck/internal/tui/styles"
)

// StatusBar shows the current route, the signed-in user, and a
// spinner while a request is in flight.
type StatusBar struct {
	route   string
	user    string
	loading bool
	spinner spinner.Model
	theme   styles.Theme
}

// NewStatusBar creates a status bar styled by the theme.
func NewStatusBar(theme styles.Theme) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.StatusBar
	return &StatusBar{spinner: s, theme: theme}
}

// SetRoute records the current route title.
func (s *StatusBar) SetRoute(title string) {
	s.route = title
}

// SetUser records the signed-in username, empty when signed out.
func (s *StatusBar) SetUser(name string) {
	s.user = name
}

// SetLoading toggles the spinner.
func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
}

// Update advances the spinner animation.
func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if !s.loading {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// Tick starts the spinner animation.
func (s *StatusBar) Tick() tea.Cmd {
	return s.spinner.Tick
}

// View renders the bar.
func (s *StatusBar) View() string {
	line := s.route
	if s.user != "" {
		line += "  ·  " + s.user
	} else {
		line += "  ·  signed out"
	}
	if s.loading {
		line = s.spinner.View() + " " + line
	}
	return s.theme.StatusBar.Render(line)
}
