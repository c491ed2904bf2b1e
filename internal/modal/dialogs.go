package modal

import "sync"

// PromptResult carries the outcome of a Prompt dialog.
type PromptResult struct {
	Value string
	OK    bool
}

// Confirm opens a confirmation dialog and returns a channel that
// yields true when confirmed. Dismissing the dialog any other way,
// Escape included, yields false.
func (m *Manager) Confirm(title, message string) <-chan bool {
	ch := make(chan bool, 1)
	var once sync.Once
	resolve := func(v bool) {
		once.Do(func() { ch <- v })
	}

	m.Open(Spec{
		Title:    title,
		Body:     message,
		Closable: true,
		Buttons: []Button{
			{ID: "cancel", Label: "Cancel", OnPress: func() bool { resolve(false); return true }},
			{ID: "confirm", Label: "Confirm", OnPress: func() bool { resolve(true); return true }},
		},
		FocusTargets: []string{"cancel", "confirm"},
		OnClose:      func() { resolve(false) },
	})
	return ch
}

// Alert opens a single-button dialog and returns a channel that
// yields once it is acknowledged or dismissed.
func (m *Manager) Alert(title, message string) <-chan struct{} {
	ch := make(chan struct{}, 1)
	var once sync.Once
	resolve := func() {
		once.Do(func() { ch <- struct{}{} })
	}

	m.Open(Spec{
		Title:    title,
		Body:     message,
		Closable: true,
		Buttons: []Button{
			{ID: "ok", Label: "OK", OnPress: func() bool { resolve(); return true }},
		},
		FocusTargets: []string{"ok"},
		OnClose:      resolve,
	})
	return ch
}

// Prompt opens a dialog with a text input seeded with initial. The
// channel yields the entered value on OK, or OK=false on dismissal.
func (m *Manager) Prompt(title, message, initial string) (string, <-chan PromptResult) {
	ch := make(chan PromptResult, 1)
	var once sync.Once
	resolve := func(r PromptResult) {
		once.Do(func() { ch <- r })
	}

	var id string
	id = m.Open(Spec{
		Title:    title,
		Body:     message,
		Closable: true,
		Buttons: []Button{
			{ID: "cancel", Label: "Cancel", OnPress: func() bool {
				resolve(PromptResult{})
				return true
			}},
			{ID: "ok", Label: "OK", OnPress: func() bool {
				resolve(PromptResult{Value: m.Value(id), OK: true})
				return true
			}},
		},
		FocusTargets: []string{"input", "cancel", "ok"},
		OnClose:      func() { resolve(PromptResult{}) },
	})
	m.SetValue(id, initial)
	return id, ch
}
