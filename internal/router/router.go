// Package router implements hash-style navigation for the console: an
// ordered route registry, an auth gate, history with back/forward
// replay, and fire-and-forget before/after navigation events.
//
// A Router is owned by the UI goroutine; like the rest of the shell it
// is single-writer and its methods are not safe for concurrent use.
package router

import (
	"fmt"

	apperrors "postdeck/internal/errors"
	"postdeck/internal/log"
)

// Params carries query-string style key/value pairs into a route.
type Params map[string]string

func cloneParams(p Params) Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Route maps a path to a render function and an auth requirement.
// Routes are registered once at startup and never mutated.
type Route struct {
	Path         string
	Title        string
	RequiresAuth bool
	Render       func(Params) error
}

// NavigationState mirrors the current history entry. It is mutated
// only by the Router on successful navigation.
type NavigationState struct {
	CurrentPath string
	Params      Params
}

// Event describes one navigation for before/after listeners.
// Listeners are fire-and-forget; they cannot cancel the navigation.
type Event struct {
	From   string
	To     string
	Params Params
}

// Listener receives navigation events.
type Listener func(Event)

// Op names how the last completed navigation touched history.
type Op string

const (
	// OpNone means no navigation has completed yet.
	OpNone Op = ""
	// OpPush appended a new history entry.
	OpPush Op = "push"
	// OpReplace overwrote the current history entry.
	OpReplace Op = "replace"
	// OpPop replayed an existing entry (back/forward).
	OpPop Op = "pop"
)

type entry struct {
	path   string
	params Params
}

type listener struct {
	id int
	fn Listener
}

// Router dispatches navigation through registered routes.
type Router struct {
	routes map[string]*Route
	order  []string

	state   NavigationState
	history []entry
	idx     int
	lastOp  Op

	authFn    func() bool
	authPath  string
	startPath string
	onFailure func(path string, err error)

	before []listener
	after  []listener
	nextID int
}

// Option configures a Router.
type Option func(*Router)

// WithAuthCheck installs the authentication boundary consulted by the
// gate. Without it every route is reachable.
func WithAuthCheck(fn func() bool) Option {
	return func(r *Router) {
		r.authFn = fn
	}
}

// WithAuthRoute names the route that gated navigations redirect to.
func WithAuthRoute(path string) Option {
	return func(r *Router) {
		r.authPath = path
	}
}

// WithStartRoute names the landing route used when Start is given an
// empty path.
func WithStartRoute(path string) Option {
	return func(r *Router) {
		r.startPath = path
	}
}

// WithFailureHandler installs the callback invoked when a route's
// render function fails; the handler renders the generic failure
// panel.
func WithFailureHandler(fn func(path string, err error)) Option {
	return func(r *Router) {
		r.onFailure = fn
	}
}

// New creates an empty Router.
func New(opts ...Option) *Router {
	r := &Router{
		routes:    make(map[string]*Route),
		idx:       -1,
		authPath:  "auth",
		startPath: "dashboard",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a route. Paths must be unique.
func (r *Router) Register(route Route) error {
	if route.Path == "" {
		return apperrors.New("route path is required")
	}
	if _, exists := r.routes[route.Path]; exists {
		return apperrors.Newf("route already registered: %s", route.Path)
	}
	copied := route
	r.routes[route.Path] = &copied
	r.order = append(r.order, route.Path)
	return nil
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []Route {
	out := make([]Route, 0, len(r.order))
	for _, path := range r.order {
		out = append(out, *r.routes[path])
	}
	return out
}

// State returns the current navigation state.
func (r *Router) State() NavigationState {
	return NavigationState{
		CurrentPath: r.state.CurrentPath,
		Params:      cloneParams(r.state.Params),
	}
}

// AuthRoute returns the path gated navigations redirect to.
func (r *Router) AuthRoute() string {
	return r.authPath
}

// LastOp reports how the most recent completed navigation touched
// history.
func (r *Router) LastOp() Op {
	return r.lastOp
}

// HistoryLen returns the number of history entries.
func (r *Router) HistoryLen() int {
	return len(r.history)
}

// CanBack reports whether a back navigation is possible.
func (r *Router) CanBack() bool {
	return r.idx > 0
}

// CanForward reports whether a forward navigation is possible.
func (r *Router) CanForward() bool {
	return r.idx >= 0 && r.idx < len(r.history)-1
}

// OnBefore registers a listener fired before each render. The
// returned function unsubscribes it; callers tie that to their own
// lifetime to avoid duplicate bindings across re-renders.
func (r *Router) OnBefore(fn Listener) func() {
	return r.subscribe(&r.before, fn)
}

// OnAfter registers a listener fired once rendering completes.
func (r *Router) OnAfter(fn Listener) func() {
	return r.subscribe(&r.after, fn)
}

func (r *Router) subscribe(list *[]listener, fn Listener) func() {
	r.nextID++
	id := r.nextID
	*list = append(*list, listener{id: id, fn: fn})
	return func() {
		for i, l := range *list {
			if l.id == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

func emit(listeners []listener, ev Event) {
	// Iterate a snapshot so listeners may unsubscribe mid-emit.
	snapshot := make([]listener, len(listeners))
	copy(snapshot, listeners)
	for _, l := range snapshot {
		l.fn(ev)
	}
}

// Start performs the initial navigation: the given path if non-empty,
// otherwise the configured landing route.
func (r *Router) Start(path string, params Params) bool {
	if path == "" {
		path = r.startPath
	}
	return r.dispatch(path, params, OpPush)
}

// Navigate transitions to a route, pushing (or with replace,
// overwriting) one history entry. Navigating to the already-current
// path is a no-op.
func (r *Router) Navigate(path string, params Params, replace bool) bool {
	if path == r.state.CurrentPath {
		log.LogWithFields(log.F("path", path)).Debug("navigation ignored: already current")
		return false
	}
	op := OpPush
	if replace {
		op = OpReplace
	}
	return r.dispatch(path, params, op)
}

// Back replays the previous history entry through the same gate and
// render logic. It never pushes.
func (r *Router) Back() bool {
	if !r.CanBack() {
		return false
	}
	r.idx--
	e := r.history[r.idx]
	return r.dispatch(e.path, e.params, OpPop)
}

// Forward replays the next history entry. It never pushes.
func (r *Router) Forward() bool {
	if !r.CanForward() {
		return false
	}
	r.idx++
	e := r.history[r.idx]
	return r.dispatch(e.path, e.params, OpPop)
}

func (r *Router) authenticated() bool {
	return r.authFn == nil || r.authFn()
}

func (r *Router) dispatch(path string, params Params, op Op) bool {
	return r.dispatchOp(path, params, op, op)
}

// dispatchOp separates the history effect from the reported
// operation: a gate redirect keeps the original effect (the blocked
// path's slot is overwritten, the prior page stays beneath it) but is
// always observed as a replace.
func (r *Router) dispatchOp(path string, params Params, histOp, reported Op) bool {
	route, ok := r.routes[path]
	if !ok {
		log.LogWithError(apperrors.NewNavigationError("route not registered", path, apperrors.RouteNotFound, nil)).
			Error("navigation aborted")
		return false
	}

	if route.RequiresAuth && !r.authenticated() {
		log.LogWithFields(log.F("path", path), log.F("redirect", r.authPath)).
			Info("unauthenticated navigation redirected")
		redirect := Params{"redirect": path}
		return r.dispatchOp(r.authPath, redirect, histOp, OpReplace)
	}

	params = cloneParams(params)
	ev := Event{From: r.state.CurrentPath, To: path, Params: cloneParams(params)}
	emit(r.before, ev)

	r.applyHistory(entry{path: path, params: params}, histOp)
	r.state = NavigationState{CurrentPath: path, Params: params}
	r.lastOp = reported

	if err := r.render(route, params); err != nil {
		log.LogWithError(err).Error("page failed to load")
		if r.onFailure != nil {
			r.onFailure(path, err)
		}
	}

	emit(r.after, ev)
	return true
}

func (r *Router) applyHistory(e entry, op Op) {
	switch op {
	case OpPush:
		r.history = append(r.history[:r.idx+1], e)
		r.idx = len(r.history) - 1
	case OpReplace:
		if r.idx < 0 {
			r.history = append(r.history, e)
			r.idx = 0
		} else {
			r.history[r.idx] = e
		}
	case OpPop:
		// Replaying an existing entry; a gate redirect rewrites the
		// slot in place.
		r.history[r.idx] = e
	}
}

// render invokes the route's render function, converting a panic into
// an error so no navigation failure can corrupt the shell.
func (r *Router) render(route *Route, params Params) (err error) {
	if route.Render == nil {
		return nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = apperrors.NewNavigationError("render failed", route.Path, apperrors.RenderFailed,
				fmt.Errorf("panic: %v", rec))
		}
	}()
	if renderErr := route.Render(params); renderErr != nil {
		return apperrors.NewNavigationError("render failed", route.Path, apperrors.RenderFailed, renderErr)
	}
	return nil
}
