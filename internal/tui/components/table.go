package components

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"postdeck/internal/tui/styles"
	"postdeck/pkg/types"
)

// PostsTable renders one page of posts as a fixed-column table with a
// movable cursor row.
type PostsTable struct {
	theme  styles.Theme
	posts  []types.Post
	cursor int
}

// NewPostsTable creates an empty table.
func NewPostsTable(theme styles.Theme) *PostsTable {
	return &PostsTable{theme: theme}
}

// SetPosts replaces the rows, clamping the cursor.
func (t *PostsTable) SetPosts(posts []types.Post) {
	t.posts = posts
	if t.cursor >= len(posts) {
		t.cursor = len(posts) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// MoveCursor shifts the cursor by delta, clamped to the rows.
func (t *PostsTable) MoveCursor(delta int) {
	t.cursor += delta
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.cursor > len(t.posts)-1 {
		t.cursor = len(t.posts) - 1
	}
}

// Selected returns the post under the cursor.
func (t *PostsTable) Selected() (types.Post, bool) {
	if len(t.posts) == 0 {
		return types.Post{}, false
	}
	return t.posts[t.cursor], true
}

// Cursor returns the cursor row index.
func (t *PostsTable) Cursor() int {
	return t.cursor
}

const (
	colID     = 5
	colTitle  = 34
	colStatus = 11
	colWhen   = 17
	colEng    = 10
)

// View renders the table, or an empty-state line when there are no
// rows.
func (t *PostsTable) View() string {
	if len(t.posts) == 0 {
		return t.theme.Empty.Render("No posts found")
	}

	var sb strings.Builder
	header := pad("ID", colID) + pad("Title", colTitle) + pad("Status", colStatus) +
		pad("Scheduled", colWhen) + pad("Engagement", colEng)
	sb.WriteString(t.theme.TableHeader.Render(header))
	sb.WriteString("\n")

	for i, p := range t.posts {
		row := pad(fmt.Sprintf("%d", p.ID), colID) +
			pad(truncate(p.Title, colTitle-2), colTitle)

		badge := t.theme.BadgeFor(string(p.Status)).Render(string(p.Status))
		row += badge + strings.Repeat(" ", max(colStatus-len(p.Status), 1))

		when := ""
		if p.ScheduledTime != nil {
			when = p.ScheduledTime.Format("2006-01-02 15:04")
		}
		row += pad(when, colWhen)
		eng := 0
		if p.Engagement != nil {
			eng = p.Engagement.Total()
		}
		row += pad(fmt.Sprintf("%d", eng), colEng)

		if i == t.cursor {
			sb.WriteString(t.theme.SelectedRow.Render("> " + row))
		} else {
			sb.WriteString(t.theme.TableRow.Render("  " + row))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// pad sizes a cell by display width, so wide runes keep the columns
// aligned.
func pad(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return runewidth.Truncate(s, width-1, "") + " "
	}
	return runewidth.FillRight(s, width)
}

func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
