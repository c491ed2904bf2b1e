package modal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instant() *Manager {
	return NewManager(WithAnimationDuration(0))
}

func TestLifecyclePhases(t *testing.T) {
	m := NewManager(WithAnimationDuration(20 * time.Millisecond))
	id := m.Open(Spec{Title: "Edit Post"})

	assert.Equal(t, PhaseCreated, m.Phase(id))
	assert.Eventually(t, func() bool { return m.Phase(id) == PhaseVisible },
		time.Second, 5*time.Millisecond)

	require.True(t, m.Close(id))
	assert.Equal(t, PhaseClosing, m.Phase(id))
	assert.Eventually(t, func() bool { return m.Len() == 0 },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, PhaseDestroyed, m.Phase(id))
}

func TestCompleteTransitionShortCircuitsAnimation(t *testing.T) {
	m := NewManager(WithAnimationDuration(time.Minute))
	id := m.Open(Spec{Title: "Slow"})

	require.Equal(t, PhaseCreated, m.Phase(id))
	m.CompleteTransition(id)
	assert.Equal(t, PhaseVisible, m.Phase(id))

	require.True(t, m.Close(id))
	require.Equal(t, PhaseClosing, m.Phase(id))
	m.CompleteTransition(id)
	assert.Zero(t, m.Len())
}

func TestFocusTrapWrapsAround(t *testing.T) {
	m := instant()
	m.SetPageFocus("page-search")
	m.Open(Spec{FocusTargets: []string{"title", "content", "save"}})

	assert.Equal(t, "title", m.Focused())
	assert.Equal(t, "content", m.FocusNext())
	assert.Equal(t, "save", m.FocusNext())
	assert.Equal(t, "title", m.FocusNext())

	assert.Equal(t, "save", m.FocusPrev())
	assert.Equal(t, "content", m.FocusPrev())
	assert.Equal(t, "title", m.FocusPrev())
	assert.Equal(t, "save", m.FocusPrev())

	// Focus never lands outside the modal while it is open.
	assert.NotEqual(t, "page-search", m.Focused())
}

func TestFocusRestoredAfterClose(t *testing.T) {
	m := instant()
	m.SetPageFocus("page-search")

	id := m.Open(Spec{FocusTargets: []string{"ok"}})
	assert.Equal(t, "ok", m.Focused())

	require.True(t, m.Close(id))
	assert.Equal(t, "page-search", m.Focused())
}

func TestFocusFollowsTopOfStack(t *testing.T) {
	m := instant()
	m.Open(Spec{FocusTargets: []string{"bottom"}})
	top := m.Open(Spec{FocusTargets: []string{"top-a", "top-b"}})

	assert.Equal(t, "top-a", m.Focused())
	assert.Equal(t, "top-b", m.FocusNext())

	require.True(t, m.Close(top))
	assert.Equal(t, "bottom", m.Focused())
}

func TestEscapeClosesOnlyClosableTop(t *testing.T) {
	m := instant()
	bottom := m.Open(Spec{Title: "Bottom", Closable: true})
	m.Open(Spec{Title: "Top", Closable: true})

	require.True(t, m.Escape())
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, PhaseVisible, m.Phase(bottom))

	m.Open(Spec{Title: "Blocking", Closable: false})
	assert.False(t, m.Escape())
	assert.Equal(t, 2, m.Len())
}

func TestBackdropClickRespectsOptIn(t *testing.T) {
	m := instant()
	m.Open(Spec{Title: "Sticky", BackdropClose: false})
	assert.False(t, m.BackdropClick())
	assert.Equal(t, 1, m.Len())

	m.Open(Spec{Title: "Dismissible", BackdropClose: true})
	assert.True(t, m.BackdropClick())
	assert.Equal(t, 1, m.Len())
}

func TestButtonHandlerVetoesClose(t *testing.T) {
	m := instant()
	valid := false
	id := m.Open(Spec{
		Buttons: []Button{
			{ID: "save", Label: "Save", OnPress: func() bool { return valid }},
		},
	})

	require.True(t, m.PressButton(id, "save"))
	assert.Equal(t, 1, m.Len())

	valid = true
	require.True(t, m.PressButton(id, "save"))
	assert.Zero(t, m.Len())
}

func TestButtonWithoutHandlerCloses(t *testing.T) {
	m := instant()
	id := m.Open(Spec{Buttons: []Button{{ID: "ok", Label: "OK"}}})

	require.True(t, m.PressButton(id, "ok"))
	assert.Zero(t, m.Len())
}

func TestPressUnknownButton(t *testing.T) {
	m := instant()
	id := m.Open(Spec{Buttons: []Button{{ID: "ok", Label: "OK"}}})

	assert.False(t, m.PressButton(id, "missing"))
	assert.False(t, m.PressButton("missing", "ok"))
	assert.Equal(t, 1, m.Len())
}

func TestUpdateContent(t *testing.T) {
	m := instant()
	id := m.Open(Spec{Body: "loading"})

	require.True(t, m.UpdateContent(id, "loaded"))
	top, ok := m.Top()
	require.True(t, ok)
	assert.Equal(t, "loaded", top.Body)

	assert.False(t, m.UpdateContent("missing", "x"))
}

func TestCloseAll(t *testing.T) {
	m := instant()
	m.Open(Spec{Title: "a"})
	m.Open(Spec{Title: "b"})
	m.Open(Spec{Title: "c"})

	m.CloseAll()
	assert.Zero(t, m.Len())
}

func TestCloseAllDrainsStackWithAnimations(t *testing.T) {
	m := NewManager(WithAnimationDuration(20 * time.Millisecond))
	a := m.Open(Spec{Title: "a"})
	b := m.Open(Spec{Title: "b"})
	c := m.Open(Spec{Title: "c"})

	for _, id := range []string{a, b, c} {
		require.Eventually(t, func() bool { return m.Phase(id) == PhaseVisible },
			time.Second, 5*time.Millisecond)
	}

	m.CloseAll()
	assert.Eventually(t, func() bool { return m.Len() == 0 },
		time.Second, 5*time.Millisecond)
}

func TestCloseDefaultsToTop(t *testing.T) {
	m := instant()
	bottom := m.Open(Spec{Title: "bottom"})
	m.Open(Spec{Title: "top"})

	require.True(t, m.Close(""))
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, PhaseVisible, m.Phase(bottom))

	assert.False(t, m.Close("missing"))
}

func TestConfirmResolvesTrue(t *testing.T) {
	m := instant()
	ch := m.Confirm("Delete Post", "Delete \"Launch teaser\"?")

	top, ok := m.Top()
	require.True(t, ok)
	require.True(t, m.PressButton(top.ID, "confirm"))

	assert.True(t, <-ch)
	assert.Zero(t, m.Len())
}

func TestConfirmResolvesFalseOnCancel(t *testing.T) {
	m := instant()
	ch := m.Confirm("Delete Post", "Sure?")

	top, _ := m.Top()
	require.True(t, m.PressButton(top.ID, "cancel"))
	assert.False(t, <-ch)
}

func TestConfirmDismissalResolvesFalse(t *testing.T) {
	m := instant()
	ch := m.Confirm("Delete Post", "Sure?")

	require.True(t, m.Escape())
	assert.False(t, <-ch)
}

func TestAlertResolvesOnAcknowledge(t *testing.T) {
	m := instant()
	ch := m.Alert("Heads Up", "Post already published")

	top, _ := m.Top()
	require.True(t, m.PressButton(top.ID, "ok"))
	<-ch
	assert.Zero(t, m.Len())
}

func TestPromptReturnsEnteredValue(t *testing.T) {
	m := instant()
	id, ch := m.Prompt("Rename", "New title", "old title")

	assert.Equal(t, "old title", m.Value(id))
	require.True(t, m.SetValue(id, "new title"))
	require.True(t, m.PressButton(id, "ok"))

	result := <-ch
	assert.True(t, result.OK)
	assert.Equal(t, "new title", result.Value)
}

func TestPromptCancelReturnsNoValue(t *testing.T) {
	m := instant()
	id, ch := m.Prompt("Rename", "New title", "seed")

	require.True(t, m.PressButton(id, "cancel"))
	result := <-ch
	assert.False(t, result.OK)
	assert.Empty(t, result.Value)
}
