package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mattn/go-runewidth"

	"postdeck/internal/config"
	"postdeck/internal/tui/styles"
	"postdeck/pkg/types"
)

func TestPadAlignsByDisplayWidth(t *testing.T) {
	// Cells come out the same display width whether the content is
	// ASCII, CJK, or overlong.
	cells := []string{"launch", "週末活動預告", "a very long title that overflows the column"}
	for _, s := range cells {
		assert.Equal(t, 12, runewidth.StringWidth(pad(s, 12)), "cell %q", s)
	}

	// Overflowing cells keep a separating space.
	out := pad("abcdefghijklmnop", 8)
	assert.Equal(t, " ", out[len(out)-1:])
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	got := truncate("週末活動預告", 7)
	assert.LessOrEqual(t, runewidth.StringWidth(got), 7)
	// No rune is cut mid-sequence.
	for _, r := range got {
		assert.NotEqual(t, '�', r)
	}
}

func TestCursorClampedToRows(t *testing.T) {
	table := NewPostsTable(styles.New(config.NewTestConfig()))
	table.SetPosts([]types.Post{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}})

	table.MoveCursor(5)
	assert.Equal(t, 1, table.Cursor())
	table.MoveCursor(-5)
	assert.Equal(t, 0, table.Cursor())

	table.MoveCursor(1)
	table.SetPosts([]types.Post{{ID: 1, Title: "a"}})
	assert.Equal(t, 0, table.Cursor())

	_, ok := table.Selected()
	assert.True(t, ok)
	table.SetPosts(nil)
	_, ok = table.Selected()
	assert.False(t, ok)
}
