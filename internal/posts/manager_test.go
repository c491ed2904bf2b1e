package posts

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postdeck/internal/api"
	apperrors "postdeck/internal/errors"
	"postdeck/internal/notify"
	"postdeck/pkg/types"
)

type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (f *fakeNotifier) Success(message string, _ ...notify.ShowOption) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successes = append(f.successes, message)
	return message
}

func (f *fakeNotifier) Error(message string, _ ...notify.ShowOption) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, message)
	return message
}

func (f *fakeNotifier) errorMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.errors...)
}

func (f *fakeNotifier) successMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.successes...)
}

type fakeConfirmer struct {
	answer bool
	asked  int
}

func (f *fakeConfirmer) Confirm(string, string) <-chan bool {
	f.asked++
	ch := make(chan bool, 1)
	ch <- f.answer
	return ch
}

type fakeAPI struct {
	mu          sync.Mutex
	listCalls   []api.ListParams
	listResult  *api.ListResult
	listErr     error
	createCalls int
	createErr   error
	updateCalls int
	updateErr   error
	deleteCalls int
	deleteErr   error
	publishErr  error
}

func (f *fakeAPI) List(_ context.Context, params api.ListParams) (*api.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, params)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listResult != nil {
		return f.listResult, nil
	}
	return &api.ListResult{Pagination: types.Pagination{Page: params.Page, PerPage: params.PerPage}}, nil
}

func (f *fakeAPI) Get(context.Context, int) (*types.Post, error) {
	return &types.Post{ID: 1, Title: "stub"}, nil
}

func (f *fakeAPI) Create(context.Context, types.CreatePost) (*types.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &types.Post{ID: 99}, nil
}

func (f *fakeAPI) Update(context.Context, int, types.UpdatePost) (*types.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &types.Post{ID: 1}, nil
}

func (f *fakeAPI) Delete(context.Context, int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeAPI) Publish(context.Context, int) (*types.Post, error) {
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	return &types.Post{ID: 1, Status: types.StatusPublished}, nil
}

func (f *fakeAPI) StatsSummary(context.Context) (*api.StatsSummary, error) {
	return &api.StatsSummary{}, nil
}

func (f *fakeAPI) DashboardStats(context.Context) (*api.DashboardStats, error) {
	return &api.DashboardStats{}, nil
}

func (f *fakeAPI) calls() []api.ListParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.ListParams(nil), f.listCalls...)
}

// gatedAPI blocks each List call until the test releases it, so
// response ordering can be forced.
type gatedAPI struct {
	fakeAPI
	mu      sync.Mutex
	pending []chan *api.ListResult
	arrived chan struct{}
}

func newGatedAPI() *gatedAPI {
	return &gatedAPI{arrived: make(chan struct{}, 16)}
}

func (g *gatedAPI) List(_ context.Context, params api.ListParams) (*api.ListResult, error) {
	gate := make(chan *api.ListResult, 1)
	g.mu.Lock()
	g.pending = append(g.pending, gate)
	g.mu.Unlock()
	g.arrived <- struct{}{}
	return <-gate, nil
}

func (g *gatedAPI) waitForCall(t *testing.T) {
	t.Helper()
	select {
	case <-g.arrived:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for list call")
	}
}

func (g *gatedAPI) release(t *testing.T, call int, result *api.ListResult) {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	require.Less(t, call, len(g.pending))
	g.pending[call] <- result
}

func newTestManager(collection api.PostsAPI, opts ...ManagerOption) (*Manager, *fakeNotifier, *fakeConfirmer) {
	notifier := &fakeNotifier{}
	confirmer := &fakeConfirmer{answer: true}
	base := []ManagerOption{WithPerPage(10), WithSearchDebounce(0)}
	m := NewManager(collection, notifier, confirmer, append(base, opts...)...)
	return m, notifier, confirmer
}

func TestLoadDataAppliesResponse(t *testing.T) {
	backend := &fakeAPI{listResult: &api.ListResult{
		Items:      []types.Post{{ID: 1, Title: "first"}, {ID: 2, Title: "second"}},
		Pagination: types.Pagination{Page: 1, PerPage: 10, Total: 2, TotalPages: 1},
	}}
	m, _, _ := newTestManager(backend)

	<-m.LoadData(context.Background())

	state := m.State()
	assert.False(t, state.Loading)
	require.Len(t, state.Items, 2)
	assert.Equal(t, "first", state.Items[0].Title)
	assert.Equal(t, 2, state.Pagination.Total)

	calls := backend.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 1, calls[0].Page)
	assert.Equal(t, 10, calls[0].PerPage)
}

func TestStaleResponseDiscarded(t *testing.T) {
	backend := newGatedAPI()
	m, _, _ := newTestManager(backend)
	ctx := context.Background()

	done1 := m.LoadData(ctx)
	backend.waitForCall(t)
	done2 := m.SetPage(ctx, 2)
	backend.waitForCall(t)

	// The later request answers first; the earlier one limps in
	// afterwards and must be dropped.
	backend.release(t, 1, &api.ListResult{
		Items:      []types.Post{{ID: 2, Title: "fresh"}},
		Pagination: types.Pagination{Page: 2, PerPage: 10, Total: 11, TotalPages: 2},
	})
	<-done2
	backend.release(t, 0, &api.ListResult{
		Items:      []types.Post{{ID: 1, Title: "stale"}},
		Pagination: types.Pagination{Page: 1, PerPage: 10, Total: 11, TotalPages: 2},
	})
	<-done1

	state := m.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "fresh", state.Items[0].Title)
	assert.Equal(t, 2, state.Pagination.Page)
}

func TestSearchDebounceCoalesces(t *testing.T) {
	backend := &fakeAPI{}
	m, _, _ := newTestManager(backend, WithSearchDebounce(30*time.Millisecond))
	ctx := context.Background()

	m.SetSearch(ctx, "l")
	m.SetSearch(ctx, "la")
	m.SetSearch(ctx, "launch")

	assert.Eventually(t, func() bool { return len(backend.calls()) == 1 },
		2*time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	calls := backend.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "launch", calls[0].Search)
	assert.Equal(t, 1, calls[0].Page)
}

func TestSearchResetsToFirstPage(t *testing.T) {
	backend := &fakeAPI{}
	m, _, _ := newTestManager(backend)
	ctx := context.Background()

	<-m.SetPage(ctx, 3)
	m.SetSearch(ctx, "teaser")

	assert.Equal(t, 1, m.State().Page)
}

func TestStatusFilterResetsToFirstPage(t *testing.T) {
	backend := &fakeAPI{}
	m, _, _ := newTestManager(backend)
	ctx := context.Background()

	<-m.SetPage(ctx, 3)
	<-m.SetStatusFilter(ctx, types.StatusDraft)

	state := m.State()
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, types.StatusDraft, state.Status)

	calls := backend.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, types.StatusDraft, calls[1].Status)
	assert.Equal(t, 1, calls[1].Page)
}

func TestSetPageKeepsFilters(t *testing.T) {
	backend := &fakeAPI{}
	m, _, _ := newTestManager(backend)
	ctx := context.Background()

	<-m.SetStatusFilter(ctx, types.StatusScheduled)
	<-m.SetPage(ctx, 2)

	state := m.State()
	assert.Equal(t, 2, state.Page)
	assert.Equal(t, types.StatusScheduled, state.Status)
}

func TestCreateValidationFailureIssuesNoNetworkCall(t *testing.T) {
	backend := &fakeAPI{}
	m, notifier, _ := newTestManager(backend)

	err := m.Create(context.Background(), types.CreatePost{
		Title:   "Launch teaser",
		Content: "Coming soon",
		Status:  types.StatusScheduled,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, backend.createCalls)
	assert.Empty(t, backend.calls())
	assert.Equal(t, []string{"scheduled posts require a scheduled time"}, notifier.errorMessages())
}

func TestCreateSuccessNotifiesAndReloads(t *testing.T) {
	backend := &fakeAPI{}
	m, notifier, _ := newTestManager(backend)

	err := m.Create(context.Background(), types.CreatePost{
		Title:   "Launch teaser",
		Content: "Coming soon",
		Status:  types.StatusDraft,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, backend.createCalls)
	assert.Equal(t, []string{"Post created"}, notifier.successMessages())
	assert.Eventually(t, func() bool { return len(backend.calls()) == 1 },
		2*time.Second, 5*time.Millisecond)
}

func TestCreateSurfacesServerMessageOnce(t *testing.T) {
	backend := &fakeAPI{createErr: apperrors.NewRemoteError(
		"create post", "Title and content are required", apperrors.RemoteFailed, nil)}
	m, notifier, _ := newTestManager(backend)

	err := m.Create(context.Background(), types.CreatePost{
		Title:   "x",
		Content: "y",
		Status:  types.StatusDraft,
	})

	require.Error(t, err)
	assert.Equal(t, []string{"Title and content are required"}, notifier.errorMessages())
	assert.Empty(t, notifier.successMessages())
}

func TestUpdateValidationFailureIssuesNoNetworkCall(t *testing.T) {
	backend := &fakeAPI{}
	m, notifier, _ := newTestManager(backend)

	empty := ""
	err := m.Update(context.Background(), 1, types.UpdatePost{Title: &empty})

	require.Error(t, err)
	assert.Zero(t, backend.updateCalls)
	require.Len(t, notifier.errorMessages(), 1)
}

func TestDeleteDeclinedIssuesNoNetworkCall(t *testing.T) {
	backend := &fakeAPI{}
	m, notifier, confirmer := newTestManager(backend)
	confirmer.answer = false

	err := <-m.Delete(context.Background(), 3, "Marketing strategy notes")

	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 1, confirmer.asked)
	assert.Zero(t, backend.deleteCalls)
	assert.Empty(t, notifier.errorMessages())
	assert.Empty(t, notifier.successMessages())
}

func TestDeleteConfirmedIssuesRemoteCall(t *testing.T) {
	backend := &fakeAPI{}
	m, notifier, confirmer := newTestManager(backend)

	err := <-m.Delete(context.Background(), 3, "Marketing strategy notes")

	require.NoError(t, err)
	assert.Equal(t, 1, confirmer.asked)
	assert.Equal(t, 1, backend.deleteCalls)
	assert.Equal(t, []string{"Post deleted"}, notifier.successMessages())
}

func TestDeleteFailureSurfacesError(t *testing.T) {
	backend := &fakeAPI{deleteErr: apperrors.NewRemoteError(
		"delete post", "Post not found", apperrors.NotFound, nil)}
	m, notifier, _ := newTestManager(backend)

	err := <-m.Delete(context.Background(), 42, "gone")

	require.Error(t, err)
	assert.Equal(t, []string{"Post not found"}, notifier.errorMessages())
}

func TestPublishSuccessNotifies(t *testing.T) {
	backend := &fakeAPI{}
	m, notifier, _ := newTestManager(backend)

	require.NoError(t, m.Publish(context.Background(), 1))
	assert.Equal(t, []string{"Post published"}, notifier.successMessages())
}

func TestPublishFailureSurfacesServerMessage(t *testing.T) {
	backend := &fakeAPI{publishErr: apperrors.NewRemoteError(
		"publish post", "post already published", apperrors.RemoteFailed, nil)}
	m, notifier, _ := newTestManager(backend)

	require.Error(t, m.Publish(context.Background(), 1))
	assert.Equal(t, []string{"post already published"}, notifier.errorMessages())
}

func TestListFailureSurfacesErrorOnce(t *testing.T) {
	backend := &fakeAPI{listErr: apperrors.NewRemoteError(
		"list posts", "", apperrors.RemoteUnavailable, nil)}
	m, notifier, _ := newTestManager(backend)

	<-m.LoadData(context.Background())

	assert.Equal(t, []string{"request failed"}, notifier.errorMessages())
	assert.Empty(t, m.State().Items)
}

func TestListFailureCarriedInSnapshot(t *testing.T) {
	backend := &fakeAPI{listErr: apperrors.ErrUnauthorized}
	m, _, _ := newTestManager(backend)

	<-m.LoadData(context.Background())
	require.Error(t, m.State().LoadErr)
	assert.True(t, apperrors.IsUnauthorized(m.State().LoadErr))

	// A recovered fetch clears the carried failure.
	backend.mu.Lock()
	backend.listErr = nil
	backend.mu.Unlock()
	<-m.LoadData(context.Background())
	assert.NoError(t, m.State().LoadErr)
}
