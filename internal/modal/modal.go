// Package modal implements the stacked dialog manager: a modal stack
// with entrance/exit transitions, a keyboard focus trap scoped to the
// top dialog, veto-able button handlers, and confirm/alert/prompt
// conveniences that resolve over a channel.
package modal

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"postdeck/internal/log"
)

// Phase is a modal's position in its lifecycle. Transitions run
// strictly forward: Created, Visible, Closing, Destroyed.
type Phase int

const (
	PhaseCreated Phase = iota
	PhaseVisible
	PhaseClosing
	PhaseDestroyed
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseVisible:
		return "visible"
	case PhaseClosing:
		return "closing"
	case PhaseDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// Button is one action inside a modal. A handler returning false
// vetoes the auto-close, so validation can keep the dialog open.
type Button struct {
	ID      string
	Label   string
	OnPress func() bool
}

// Spec describes a modal to open.
type Spec struct {
	Title         string
	Body          string
	Buttons       []Button
	Closable      bool
	BackdropClose bool
	// FocusTargets names the focusable elements inside the modal in
	// tab order. The trap cycles through these and nothing else.
	FocusTargets []string
	// OnClose runs once, after the modal is destroyed.
	OnClose func()
}

// Modal is one stacked dialog. The manager owns it; callers observe
// it through snapshots.
type Modal struct {
	ID string
	Spec

	phase     Phase
	focusIdx  int
	prevFocus string
	value     string
	timer     *time.Timer
}

// Manager owns the modal stack. Transition timers fire on their own
// goroutines, so all state is guarded by a mutex; user callbacks run
// outside it.
type Manager struct {
	mu    sync.Mutex
	stack []*Modal

	animDur   time.Duration
	pageFocus string
	onChange  func()
}

// Option configures a Manager.
type Option func(*Manager)

// WithAnimationDuration sets the entrance/exit transition delay. Zero
// makes transitions complete synchronously.
func WithAnimationDuration(d time.Duration) Option {
	return func(m *Manager) {
		m.animDur = d
	}
}

// WithChangeFunc installs the render callback invoked after every
// stack mutation.
func WithChangeFunc(fn func()) Option {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// NewManager creates an empty modal stack.
func NewManager(opts ...Option) *Manager {
	m := &Manager{animDur: 150 * time.Millisecond}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open creates a modal, pushes it onto the stack, and starts its
// entrance transition. The previously focused element is recorded so
// focus can be restored when the modal is destroyed.
func (m *Manager) Open(spec Spec) string {
	id := uuid.NewString()

	m.mu.Lock()
	md := &Modal{ID: id, Spec: spec, phase: PhaseCreated, prevFocus: m.focusedLocked()}
	m.stack = append(m.stack, md)
	if m.animDur == 0 {
		md.phase = PhaseVisible
	} else {
		md.timer = time.AfterFunc(m.animDur, func() { m.CompleteTransition(id) })
	}
	m.mu.Unlock()

	log.LogWithFields(log.F("id", id), log.F("title", spec.Title)).Debug("modal opened")
	m.fireChange()
	return id
}

// CompleteTransition advances a modal out of its current animated
// transition immediately. The transition timers call it when they
// elapse; an animation system may call it early instead of waiting
// out the fixed delay.
func (m *Manager) CompleteTransition(id string) {
	m.mu.Lock()
	md := m.findLocked(id)
	if md == nil {
		m.mu.Unlock()
		return
	}
	var onClose func()
	switch md.phase {
	case PhaseCreated:
		md.stopTimer()
		md.phase = PhaseVisible
		md.focusIdx = 0
	case PhaseClosing:
		onClose = m.destroyLocked(md)
	default:
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	if onClose != nil {
		onClose()
	}
	m.fireChange()
}

// Close starts the exit transition for the given modal, or the top of
// the stack when id is empty. Closing an unknown or already-closing
// modal returns false.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	var md *Modal
	if id == "" {
		md = m.topLocked()
	} else {
		md = m.findLocked(id)
	}
	if md == nil || md.phase == PhaseClosing || md.phase == PhaseDestroyed {
		m.mu.Unlock()
		return false
	}

	md.stopTimer()
	md.phase = PhaseClosing
	var onClose func()
	if m.animDur == 0 {
		onClose = m.destroyLocked(md)
	} else {
		closingID := md.ID
		md.timer = time.AfterFunc(m.animDur, func() { m.CompleteTransition(closingID) })
	}
	m.mu.Unlock()

	if onClose != nil {
		onClose()
	}
	m.fireChange()
	return true
}

// CloseAll starts the exit transition for every modal on the stack,
// top first. Modals already closing keep their running transition.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.stack))
	for i := len(m.stack) - 1; i >= 0; i-- {
		ids = append(ids, m.stack[i].ID)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Close(id)
	}
}

// UpdateContent replaces a modal's body.
func (m *Manager) UpdateContent(id, body string) bool {
	m.mu.Lock()
	md := m.findLocked(id)
	if md == nil || md.phase == PhaseDestroyed {
		m.mu.Unlock()
		return false
	}
	md.Body = body
	m.mu.Unlock()

	m.fireChange()
	return true
}

// Escape closes the top-of-stack modal, if it allows closing.
func (m *Manager) Escape() bool {
	m.mu.Lock()
	md := m.topLocked()
	closable := md != nil && md.Closable
	m.mu.Unlock()
	if !closable {
		return false
	}
	return m.Close(md.ID)
}

// BackdropClick closes the top-of-stack modal only if it opted into
// backdrop dismissal.
func (m *Manager) BackdropClick() bool {
	m.mu.Lock()
	md := m.topLocked()
	allowed := md != nil && md.BackdropClose
	m.mu.Unlock()
	if !allowed {
		return false
	}
	return m.Close(md.ID)
}

// PressButton runs a button's handler. Unless the handler returns
// false, the modal closes afterwards.
func (m *Manager) PressButton(modalID, buttonID string) bool {
	m.mu.Lock()
	md := m.findLocked(modalID)
	if md == nil || md.phase != PhaseVisible {
		m.mu.Unlock()
		return false
	}
	var handler func() bool
	found := false
	for _, b := range md.Buttons {
		if b.ID == buttonID {
			handler = b.OnPress
			found = true
			break
		}
	}
	m.mu.Unlock()
	if !found {
		return false
	}

	if handler != nil && !handler() {
		return true
	}
	m.Close(modalID)
	return true
}

// FocusNext advances the focus trap within the top visible modal,
// wrapping from the last target to the first.
func (m *Manager) FocusNext() string {
	return m.moveFocus(1)
}

// FocusPrev moves the focus trap backwards, wrapping from the first
// target to the last.
func (m *Manager) FocusPrev() string {
	return m.moveFocus(-1)
}

func (m *Manager) moveFocus(delta int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	md := m.topVisibleLocked()
	if md == nil || len(md.FocusTargets) == 0 {
		return m.pageFocus
	}
	n := len(md.FocusTargets)
	md.focusIdx = (md.focusIdx + delta + n) % n
	return md.FocusTargets[md.focusIdx]
}

// Focused reports the element holding keyboard focus: a target inside
// the top visible modal, or the page-level focus when no modal is up.
func (m *Manager) Focused() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focusedLocked()
}

// SetPageFocus records the page-level focus used when no modal is
// open and restored after the stack empties.
func (m *Manager) SetPageFocus(target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageFocus = target
}

// SetValue stores a modal's input value, read back by Prompt.
func (m *Manager) SetValue(id, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	md := m.findLocked(id)
	if md == nil {
		return false
	}
	md.value = value
	return true
}

// Value returns a modal's input value.
func (m *Manager) Value(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if md := m.findLocked(id); md != nil {
		return md.value
	}
	return ""
}

// Len returns the stack depth, closing modals included.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stack)
}

// Top returns a snapshot of the top-of-stack modal.
func (m *Manager) Top() (Modal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	md := m.topLocked()
	if md == nil {
		return Modal{}, false
	}
	return *md, true
}

// Phase reports a modal's lifecycle phase; destroyed modals report
// PhaseDestroyed.
func (m *Manager) Phase(id string) Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	if md := m.findLocked(id); md != nil {
		return md.phase
	}
	return PhaseDestroyed
}

func (m *Manager) findLocked(id string) *Modal {
	for _, md := range m.stack {
		if md.ID == id {
			return md
		}
	}
	return nil
}

func (m *Manager) topLocked() *Modal {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

func (m *Manager) topVisibleLocked() *Modal {
	for i := len(m.stack) - 1; i >= 0; i-- {
		if m.stack[i].phase == PhaseVisible {
			return m.stack[i]
		}
	}
	return nil
}

func (m *Manager) focusedLocked() string {
	md := m.topVisibleLocked()
	if md == nil {
		return m.pageFocus
	}
	if len(md.FocusTargets) == 0 {
		return ""
	}
	return md.FocusTargets[md.focusIdx]
}

// destroyLocked removes the modal from the stack and returns its
// OnClose callback for the caller to run outside the lock.
func (m *Manager) destroyLocked(md *Modal) func() {
	md.stopTimer()
	md.phase = PhaseDestroyed
	for i, other := range m.stack {
		if other == md {
			m.stack = append(m.stack[:i], m.stack[i+1:]...)
			break
		}
	}
	if len(m.stack) == 0 && md.prevFocus != "" {
		m.pageFocus = md.prevFocus
	}
	log.LogWithFields(log.F("id", md.ID)).Debug("modal destroyed")
	return md.OnClose
}

func (m *Manager) fireChange() {
	if m.onChange != nil {
		m.onChange()
	}
}

func (md *Modal) stopTimer() {
	if md.timer != nil {
		md.timer.Stop()
		md.timer = nil
	}
}
