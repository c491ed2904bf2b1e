package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"postdeck/internal/tui/styles"
	"postdeck/pkg/types"
)

const scheduledLayout = "2006-01-02 15:04"

// postForm backs the create/edit dialog. The modal manager owns the
// focus order; the form maps the focused target onto its widgets.
type postForm struct {
	postID    int
	title     textinput.Model
	content   textarea.Model
	scheduled textinput.Model
	statusIdx int
	focus     string
	theme     styles.Theme
}

func formFocusTargets() []string {
	return []string{"title", "content", "status", "scheduled", "cancel", "save"}
}

// newPostForm builds a form, seeded from an existing post when
// editing.
func newPostForm(theme styles.Theme, post *types.Post) *postForm {
	title := textinput.New()
	title.Placeholder = "Post title"
	title.CharLimit = 200
	title.Focus()

	content := textarea.New()
	content.Placeholder = "What do you want to say?"
	content.SetHeight(5)

	scheduled := textinput.New()
	scheduled.Placeholder = scheduledLayout

	f := &postForm{
		title:     title,
		content:   content,
		scheduled: scheduled,
		focus:     "title",
		theme:     theme,
	}

	if post != nil {
		f.postID = post.ID
		f.title.SetValue(post.Title)
		f.content.SetValue(post.Content)
		for i, s := range types.Statuses() {
			if s == post.Status {
				f.statusIdx = i
			}
		}
		if post.ScheduledTime != nil {
			f.scheduled.SetValue(post.ScheduledTime.Local().Format(scheduledLayout))
		}
	}
	return f
}

func (f *postForm) editing() bool {
	return f.postID != 0
}

func (f *postForm) status() types.Status {
	return types.Statuses()[f.statusIdx]
}

// SetFocus moves widget focus to the named target.
func (f *postForm) SetFocus(target string) {
	f.focus = target
	f.title.Blur()
	f.content.Blur()
	f.scheduled.Blur()
	switch target {
	case "title":
		f.title.Focus()
	case "content":
		f.content.Focus()
	case "scheduled":
		f.scheduled.Focus()
	}
}

// Update routes a key press into the focused widget. On the status
// selector, left/right cycle through the statuses.
func (f *postForm) Update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case "title":
		f.title, cmd = f.title.Update(msg)
	case "content":
		f.content, cmd = f.content.Update(msg)
	case "scheduled":
		f.scheduled, cmd = f.scheduled.Update(msg)
	case "status":
		n := len(types.Statuses())
		switch msg.String() {
		case "left", "h":
			f.statusIdx = (f.statusIdx + n - 1) % n
		case "right", "l", " ":
			f.statusIdx = (f.statusIdx + 1) % n
		}
	}
	return cmd
}

// createCommand builds the submission payload for a new post.
func (f *postForm) createCommand() (types.CreatePost, error) {
	cmd := types.CreatePost{
		Title:   strings.TrimSpace(f.title.Value()),
		Content: strings.TrimSpace(f.content.Value()),
		Status:  f.status(),
	}
	when, err := f.scheduledTime()
	if err != nil {
		return cmd, err
	}
	cmd.ScheduledTime = when
	return cmd, nil
}

// updateCommand builds the submission payload for an edit. All fields
// are sent; the form always carries the full post.
func (f *postForm) updateCommand() (types.UpdatePost, error) {
	title := strings.TrimSpace(f.title.Value())
	content := strings.TrimSpace(f.content.Value())
	status := f.status()
	cmd := types.UpdatePost{Title: &title, Content: &content, Status: &status}
	when, err := f.scheduledTime()
	if err != nil {
		return cmd, err
	}
	cmd.ScheduledTime = when
	return cmd, nil
}

func (f *postForm) scheduledTime() (*time.Time, error) {
	raw := strings.TrimSpace(f.scheduled.Value())
	if raw == "" {
		return nil, nil
	}
	when, err := time.ParseInLocation(scheduledLayout, raw, time.Local)
	if err != nil {
		return nil, err
	}
	return &when, nil
}

// View renders the form as the modal body.
func (f *postForm) View() string {
	var sb strings.Builder
	sb.WriteString(f.label("title", "Title"))
	sb.WriteString(f.title.View())
	sb.WriteString("\n\n")
	sb.WriteString(f.label("content", "Content"))
	sb.WriteString(f.content.View())
	sb.WriteString("\n\n")
	sb.WriteString(f.label("status", "Status"))
	sb.WriteString(f.statusSelector())
	sb.WriteString("\n\n")
	sb.WriteString(f.label("scheduled", "Scheduled"))
	sb.WriteString(f.scheduled.View())
	sb.WriteString("\n")
	return sb.String()
}

func (f *postForm) label(target, text string) string {
	if f.focus == target {
		return f.theme.InputFocused.Render("> "+text) + "\n"
	}
	return f.theme.InputLabel.Render("  "+text) + "\n"
}

func (f *postForm) statusSelector() string {
	parts := make([]string, 0, len(types.Statuses()))
	for i, s := range types.Statuses() {
		name := string(s)
		if i == f.statusIdx {
			parts = append(parts, f.theme.BadgeFor(name).Render("["+name+"]"))
		} else {
			parts = append(parts, f.theme.InputLabel.Render(" "+name+" "))
		}
	}
	return strings.Join(parts, " ")
}
