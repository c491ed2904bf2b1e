// Package posts implements the resource manager that orchestrates
// CRUD, pagination, filtering, and list refresh against the remote
// posts collection. It owns its current page of posts exclusively;
// other components observe it through State snapshots.
package posts

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"postdeck/internal/api"
	apperrors "postdeck/internal/errors"
	"postdeck/internal/log"
	"postdeck/internal/notify"
	"postdeck/pkg/types"
)

// ErrCancelled reports that the user declined a confirmation dialog.
// The operation issued no remote call.
var ErrCancelled = apperrors.New("cancelled")

// Notifier is the slice of the notification queue the manager uses to
// surface operation outcomes.
type Notifier interface {
	Success(message string, opts ...notify.ShowOption) string
	Error(message string, opts ...notify.ShowOption) string
}

// Confirmer gates irreversible operations behind a user decision.
type Confirmer interface {
	Confirm(title, message string) <-chan bool
}

// State is a snapshot of the manager's list view. LoadErr carries the
// failure of the most recent applied list fetch, so observers can
// react to it (an expired session redirects to sign-in); it is nil
// while a fetch is in flight and after a successful one.
type State struct {
	Items      []types.Post
	Pagination types.Pagination
	Page       int
	Status     types.Status
	Search     string
	Loading    bool
	LoadErr    error
}

// Manager coordinates the posts list. List responses are applied in
// sequence order: every request carries a monotonically increasing
// sequence number, and a response is dropped unless its number is the
// highest applied so far, so a slow early response can never
// overwrite a fast later one.
type Manager struct {
	api       api.PostsAPI
	notifier  Notifier
	confirmer Confirmer
	onChange  func(State)
	now       func() time.Time

	seq atomic.Uint64

	mu         sync.Mutex
	applied    uint64
	page       int
	perPage    int
	status     types.Status
	search     string
	items      []types.Post
	pagination types.Pagination
	inflight   int
	loadErr    error

	debounce *Debouncer
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithPerPage sets the page size requested from the collection.
func WithPerPage(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.perPage = n
		}
	}
}

// WithSearchDebounce sets the idle window for search input. Zero
// disables coalescing.
func WithSearchDebounce(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.debounce = NewDebouncer(d)
	}
}

// WithChangeFunc installs the render callback invoked with a snapshot
// after every state change.
func WithChangeFunc(fn func(State)) ManagerOption {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// WithNowFunc overrides the clock used for client-side validation.
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a resource manager over the given collection.
func NewManager(collection api.PostsAPI, notifier Notifier, confirmer Confirmer, opts ...ManagerOption) *Manager {
	m := &Manager{
		api:       collection,
		notifier:  notifier,
		confirmer: confirmer,
		now:       time.Now,
		page:      1,
		perPage:   10,
		debounce:  NewDebouncer(300 * time.Millisecond),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a snapshot of the current list view.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Manager) stateLocked() State {
	items := make([]types.Post, len(m.items))
	copy(items, m.items)
	return State{
		Items:      items,
		Pagination: m.pagination,
		Page:       m.page,
		Status:     m.status,
		Search:     m.search,
		Loading:    m.inflight > 0,
		LoadErr:    m.loadErr,
	}
}

// LoadData fetches the current page honoring the active status filter
// and search text, then re-renders the list. The returned channel
// closes once the response has been applied or discarded as stale.
func (m *Manager) LoadData(ctx context.Context) <-chan struct{} {
	seq := m.seq.Add(1)

	m.mu.Lock()
	m.inflight++
	m.loadErr = nil
	params := api.ListParams{
		Page:    m.page,
		PerPage: m.perPage,
		Status:  m.status,
		Search:  m.search,
	}
	snapshot := m.stateLocked()
	m.mu.Unlock()
	m.fireChange(snapshot)

	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err := m.api.List(ctx, params)

		m.mu.Lock()
		m.inflight--
		if seq <= m.applied {
			snapshot := m.stateLocked()
			m.mu.Unlock()
			log.LogWithFields(log.F("seq", seq)).Debug("stale list response discarded")
			m.fireChange(snapshot)
			return
		}
		m.applied = seq
		if err == nil {
			m.items = result.Items
			m.pagination = result.Pagination
		} else {
			m.loadErr = err
		}
		snapshot := m.stateLocked()
		m.mu.Unlock()

		if err != nil {
			log.LogWithError(err).Error("failed to load posts")
			m.notifier.Error(apperrors.UserMessage(err))
		}
		m.fireChange(snapshot)
	}()
	return done
}

// SetSearch updates the search text. Reloads are coalesced so only
// the last change within the idle window triggers a request, and a
// search change always resets to the first page.
func (m *Manager) SetSearch(ctx context.Context, text string) {
	m.mu.Lock()
	m.search = text
	m.mu.Unlock()

	m.debounce.Trigger(func() {
		m.mu.Lock()
		m.page = 1
		m.mu.Unlock()
		m.LoadData(ctx)
	})
}

// SetStatusFilter updates the status filter and reloads from the
// first page.
func (m *Manager) SetStatusFilter(ctx context.Context, status types.Status) <-chan struct{} {
	m.mu.Lock()
	m.status = status
	m.page = 1
	m.mu.Unlock()
	return m.LoadData(ctx)
}

// SetPage moves to an explicit page without resetting filters.
func (m *Manager) SetPage(ctx context.Context, page int) <-chan struct{} {
	if page < 1 {
		page = 1
	}
	m.mu.Lock()
	m.page = page
	m.mu.Unlock()
	return m.LoadData(ctx)
}

// Create validates the command client-side and, only if it passes,
// issues the remote create. Success reloads the current page rather
// than patching the list in place.
func (m *Manager) Create(ctx context.Context, cmd types.CreatePost) error {
	if err := cmd.Validate(m.now()); err != nil {
		verr := apperrors.NewValidationError(err.Error(), "", apperrors.InvalidInput, nil)
		m.notifier.Error(apperrors.UserMessage(verr))
		return verr
	}
	if _, err := m.api.Create(ctx, cmd); err != nil {
		log.LogWithError(err).Error("create post failed")
		m.notifier.Error(apperrors.UserMessage(err))
		return err
	}
	m.notifier.Success("Post created")
	m.LoadData(ctx)
	return nil
}

// Update validates the changed fields client-side before issuing the
// remote update. Success reloads the current page.
func (m *Manager) Update(ctx context.Context, id int, cmd types.UpdatePost) error {
	if err := cmd.Validate(m.now()); err != nil {
		verr := apperrors.NewValidationError(err.Error(), "", apperrors.InvalidInput, nil)
		m.notifier.Error(apperrors.UserMessage(verr))
		return verr
	}
	if _, err := m.api.Update(ctx, id, cmd); err != nil {
		log.LogWithError(err).Error("update post failed")
		m.notifier.Error(apperrors.UserMessage(err))
		return err
	}
	m.notifier.Success("Post updated")
	m.LoadData(ctx)
	return nil
}

// Delete asks for confirmation before issuing the remote delete;
// declining leaves the list untouched with zero network calls. The
// channel yields ErrCancelled on decline, the remote error on
// failure, or nil once the delete succeeded and a reload started.
func (m *Manager) Delete(ctx context.Context, id int, title string) <-chan error {
	out := make(chan error, 1)
	confirmed := m.confirmer.Confirm("Delete Post", "Delete \""+title+"\"? This cannot be undone.")

	go func() {
		defer close(out)
		ok := <-confirmed
		if !ok {
			out <- ErrCancelled
			return
		}
		if err := m.api.Delete(ctx, id); err != nil {
			log.LogWithError(err).Error("delete post failed")
			m.notifier.Error(apperrors.UserMessage(err))
			out <- err
			return
		}
		m.notifier.Success("Post deleted")
		m.LoadData(ctx)
		out <- nil
	}()
	return out
}

// Publish transitions a post to published and reloads the list.
func (m *Manager) Publish(ctx context.Context, id int) error {
	if _, err := m.api.Publish(ctx, id); err != nil {
		log.LogWithError(err).Error("publish post failed")
		m.notifier.Error(apperrors.UserMessage(err))
		return err
	}
	m.notifier.Success("Post published")
	m.LoadData(ctx)
	return nil
}

// Get fetches a single post for the detail view.
func (m *Manager) Get(ctx context.Context, id int) (*types.Post, error) {
	post, err := m.api.Get(ctx, id)
	if err != nil {
		log.LogWithError(err).Error("load post failed")
		m.notifier.Error(apperrors.UserMessage(err))
		return nil, err
	}
	return post, nil
}

func (m *Manager) fireChange(s State) {
	if m.onChange != nil {
		m.onChange(s)
	}
}
