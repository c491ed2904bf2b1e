package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"postdeck/internal/notify"
	"postdeck/internal/tui/styles"
)

// Notifications renders the visible notification stack, oldest first.
type Notifications struct {
	theme styles.Theme
	items []notify.Notification
}

// NewNotifications creates an empty notification area.
func NewNotifications(theme styles.Theme) *Notifications {
	return &Notifications{theme: theme}
}

// SetItems replaces the visible set.
func (n *Notifications) SetItems(items []notify.Notification) {
	n.items = items
}

// Len returns the number of visible notifications.
func (n *Notifications) Len() int {
	return len(n.items)
}

// View renders the stack, one line per notification.
func (n *Notifications) View() string {
	if len(n.items) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, item := range n.items {
		sb.WriteString(n.styleFor(item.Severity).Render(prefixFor(item.Severity) + " " + item.Message))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (n *Notifications) styleFor(sev notify.Severity) lipgloss.Style {
	switch sev {
	case notify.Success:
		return n.theme.Success
	case notify.Error:
		return n.theme.Error
	case notify.Warning:
		return n.theme.Warning
	}
	return n.theme.Info
}

func prefixFor(sev notify.Severity) string {
	switch sev {
	case notify.Success:
		return "✓"
	case notify.Error:
		return "✗"
	case notify.Warning:
		return "!"
	}
	return "i"
}
