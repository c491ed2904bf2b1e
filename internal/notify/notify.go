// Package notify implements the shell's notification queue: capped,
// auto-dismissing status messages with per-entry pause/resume.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"postdeck/internal/log"
)

// Severity classifies a notification for styling and filtering.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

// Notification is one visible status message. The queue owns it; the
// UI renders snapshots and never mutates one.
type Notification struct {
	ID         string
	Severity   Severity
	Message    string
	Duration   time.Duration
	Persistent bool
	CreatedAt  time.Time
}

type item struct {
	Notification

	timer     *time.Timer
	deadline  time.Time
	remaining time.Duration
	paused    bool
}

// ChangeFunc receives a snapshot of the visible notifications, oldest
// first, after every mutation.
type ChangeFunc func([]Notification)

// Queue holds the visible notifications. Timers fire on their own
// goroutines, so all state is guarded by a mutex.
type Queue struct {
	mu    sync.Mutex
	items []*item

	cap        int
	defaultDur time.Duration
	onChange   ChangeFunc
	now        func() time.Time
}

// Option configures a Queue.
type Option func(*Queue)

// WithCap sets the maximum number of simultaneously visible
// notifications.
func WithCap(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.cap = n
		}
	}
}

// WithDefaultDuration sets the auto-dismiss delay used when Show is
// not given one.
func WithDefaultDuration(d time.Duration) Option {
	return func(q *Queue) {
		q.defaultDur = d
	}
}

// WithChangeFunc installs the render callback.
func WithChangeFunc(fn ChangeFunc) Option {
	return func(q *Queue) {
		q.onChange = fn
	}
}

// WithNowFunc overrides the clock used for pause bookkeeping.
func WithNowFunc(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

// NewQueue creates an empty queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		cap:        5,
		defaultDur: 4 * time.Second,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// ShowOption adjusts a single notification.
type ShowOption func(*Notification)

// WithDuration overrides the auto-dismiss delay.
func WithDuration(d time.Duration) ShowOption {
	return func(n *Notification) {
		n.Duration = d
	}
}

// Persistent disables auto-dismiss; the notification stays until
// hidden manually or evicted by the cap.
func Persistent() ShowOption {
	return func(n *Notification) {
		n.Persistent = true
	}
}

// Show enqueues a notification and returns its id. Enqueuing past the
// cap immediately evicts the oldest visible entry, so the visible set
// never exceeds the cap.
func (q *Queue) Show(severity Severity, message string, opts ...ShowOption) string {
	n := Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		Duration:  q.defaultDur,
		CreatedAt: q.now(),
	}
	for _, opt := range opts {
		opt(&n)
	}

	q.mu.Lock()
	for len(q.items) >= q.cap {
		evicted := q.items[0]
		evicted.stop()
		q.items = q.items[1:]
		log.LogWithFields(log.F("id", evicted.ID)).Debug("notification evicted")
	}

	it := &item{Notification: n}
	if !n.Persistent && n.Duration > 0 {
		it.deadline = n.CreatedAt.Add(n.Duration)
		it.timer = time.AfterFunc(n.Duration, func() { q.Hide(n.ID) })
	}
	q.items = append(q.items, it)
	snapshot := q.snapshotLocked()
	q.mu.Unlock()

	q.notify(snapshot)
	return n.ID
}

// Success shows a success notification.
func (q *Queue) Success(message string, opts ...ShowOption) string {
	return q.Show(Success, message, opts...)
}

// Error shows an error notification.
func (q *Queue) Error(message string, opts ...ShowOption) string {
	return q.Show(Error, message, opts...)
}

// Warning shows a warning notification.
func (q *Queue) Warning(message string, opts ...ShowOption) string {
	return q.Show(Warning, message, opts...)
}

// Info shows an info notification.
func (q *Queue) Info(message string, opts ...ShowOption) string {
	return q.Show(Info, message, opts...)
}

// Hide removes a notification. An unknown id is a no-op returning
// false; a manual dismiss may race the expiry timer.
func (q *Queue) Hide(id string) bool {
	q.mu.Lock()
	idx := -1
	for i, it := range q.items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return false
	}
	q.items[idx].stop()
	q.items = append(q.items[:idx], q.items[idx+1:]...)
	snapshot := q.snapshotLocked()
	q.mu.Unlock()

	q.notify(snapshot)
	return true
}

// HideAll removes every notification.
func (q *Queue) HideAll() {
	q.mu.Lock()
	for _, it := range q.items {
		it.stop()
	}
	q.items = nil
	snapshot := q.snapshotLocked()
	q.mu.Unlock()

	q.notify(snapshot)
}

// Pause suspends a notification's auto-dismiss timer, remembering the
// unexpired remainder of its duration.
func (q *Queue) Pause(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, it := range q.items {
		if it.ID != id {
			continue
		}
		if it.timer == nil || it.paused {
			return false
		}
		if it.timer.Stop() {
			it.remaining = it.deadline.Sub(q.now())
			if it.remaining < 0 {
				it.remaining = 0
			}
			it.paused = true
		}
		return it.paused
	}
	return false
}

// Resume restarts a paused notification's timer with the remaining
// time recorded by Pause.
func (q *Queue) Resume(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, it := range q.items {
		if it.ID != id {
			continue
		}
		if !it.paused {
			return false
		}
		it.paused = false
		it.deadline = q.now().Add(it.remaining)
		it.timer = time.AfterFunc(it.remaining, func() { q.Hide(id) })
		return true
	}
	return false
}

// Items returns the visible notifications, oldest first.
func (q *Queue) Items() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Len returns the number of visible notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Remaining reports the unexpired auto-dismiss time for a
// notification, valid while it is paused.
func (q *Queue) Remaining(id string) (time.Duration, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, it := range q.items {
		if it.ID == id {
			if it.paused {
				return it.remaining, true
			}
			if it.timer == nil {
				return 0, false
			}
			return it.deadline.Sub(q.now()), true
		}
	}
	return 0, false
}

func (q *Queue) snapshotLocked() []Notification {
	out := make([]Notification, len(q.items))
	for i, it := range q.items {
		out[i] = it.Notification
	}
	return out
}

func (q *Queue) notify(snapshot []Notification) {
	if q.onChange != nil {
		q.onChange(snapshot)
	}
}

func (it *item) stop() {
	if it.timer != nil {
		it.timer.Stop()
		it.timer = nil
	}
}
