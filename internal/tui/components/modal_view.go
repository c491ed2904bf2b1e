package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"postdeck/internal/modal"
	"postdeck/internal/tui/styles"
)

// ModalView renders the top-of-stack modal as a bordered box with its
// buttons, highlighting the focused element.
type ModalView struct {
	theme styles.Theme
}

// NewModalView creates a modal renderer.
func NewModalView(theme styles.Theme) *ModalView {
	return &ModalView{theme: theme}
}

// View renders the modal with its focused element highlighted.
func (v *ModalView) View(md modal.Modal, focused string) string {
	var sb strings.Builder
	if md.Title != "" {
		sb.WriteString(v.theme.ModalTitle.Render(md.Title))
		sb.WriteString("\n\n")
	}
	if md.Body != "" {
		sb.WriteString(md.Body)
		sb.WriteString("\n")
	}
	if len(md.Buttons) > 0 {
		sb.WriteString("\n")
		buttons := make([]string, 0, len(md.Buttons))
		for _, b := range md.Buttons {
			if b.ID == focused {
				buttons = append(buttons, v.theme.ButtonFocused.Render(b.Label))
			} else {
				buttons = append(buttons, v.theme.ButtonBlurred.Render(b.Label))
			}
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	}
	return v.theme.ModalBox.Render(sb.String())
}
