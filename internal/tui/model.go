// Package tui assembles the console: the router, modal stack,
// notification queue, and posts resource manager wired into one
// bubbletea program.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"postdeck/internal/api"
	"postdeck/internal/config"
	apperrors "postdeck/internal/errors"
	"postdeck/internal/log"
	"postdeck/internal/modal"
	"postdeck/internal/notify"
	"postdeck/internal/posts"
	"postdeck/internal/router"
	"postdeck/internal/tui/components"
	"postdeck/internal/tui/messages"
	"postdeck/internal/tui/styles"
	"postdeck/internal/tui/views"
	"postdeck/pkg/types"
)

// Model is the root bubbletea model. All shell components push their
// changes through the events channel so every mutation surfaces as a
// message on the UI loop.
type Model struct {
	cfg     *config.Config
	theme   styles.Theme
	backend api.Backend
	ctx     context.Context

	router  *router.Router
	modals  *modal.Manager
	notices *notify.Queue
	manager *posts.Manager

	events chan tea.Msg

	statusBar  *components.StatusBar
	table      *components.PostsTable
	noticeView *components.Notifications
	modalView  *components.ModalView

	postsState posts.State
	dashboard  *api.DashboardStats
	summary    *api.StatsSummary

	emailInput    textinput.Model
	passwordInput textinput.Model
	authFocus     string
	submitting    bool

	form        *postForm
	formModalID string

	searching   bool
	searchInput textinput.Model

	failedRoute string
	width       int
	height      int
}

// New wires a console over the given backend. Animation and debounce
// delays come from the configuration, so tests can zero them.
func New(cfg *config.Config, backend api.Backend) *Model {
	theme := styles.New(cfg)

	m := &Model{
		cfg:     cfg,
		theme:   theme,
		backend: backend,
		ctx:     context.Background(),
		events:  make(chan tea.Msg, 64),
	}

	m.notices = notify.NewQueue(
		notify.WithCap(cfg.UI.NotificationCap),
		notify.WithDefaultDuration(time.Duration(cfg.UI.NotificationSeconds)*time.Second),
		notify.WithChangeFunc(func(items []notify.Notification) {
			m.push(messages.NotificationsChangedMsg{Items: items})
		}),
	)
	m.modals = modal.NewManager(
		modal.WithAnimationDuration(time.Duration(cfg.UI.AnimationMillis)*time.Millisecond),
		modal.WithChangeFunc(func() {
			m.push(messages.ModalsChangedMsg{})
		}),
	)
	m.manager = posts.NewManager(backend, m.notices, m.modals,
		posts.WithPerPage(cfg.API.PerPage),
		posts.WithSearchDebounce(time.Duration(cfg.UI.DebounceMillis)*time.Millisecond),
		posts.WithChangeFunc(func(s posts.State) {
			m.push(messages.PostsChangedMsg{State: s})
		}),
	)
	m.router = router.New(
		router.WithAuthCheck(backend.Authenticated),
		router.WithAuthRoute("auth"),
		router.WithStartRoute(cfg.UI.StartRoute),
		router.WithFailureHandler(func(path string, err error) {
			m.failedRoute = path
		}),
	)
	m.registerRoutes()
	// Each navigation gets a fresh shot at rendering; the failure
	// handler re-arms the panel if the render fails again.
	m.router.OnBefore(func(router.Event) {
		m.failedRoute = ""
	})

	m.statusBar = components.NewStatusBar(theme)
	m.table = components.NewPostsTable(theme)
	m.noticeView = components.NewNotifications(theme)
	m.modalView = components.NewModalView(theme)

	m.emailInput = textinput.New()
	m.emailInput.Placeholder = "you@example.com"
	m.emailInput.Focus()
	m.passwordInput = textinput.New()
	m.passwordInput.Placeholder = "password"
	m.passwordInput.EchoMode = textinput.EchoPassword
	m.authFocus = "email"

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "search posts"

	return m
}

func (m *Model) registerRoutes() {
	routes := []router.Route{
		{Path: "auth", Title: "Sign In"},
		{Path: "dashboard", Title: "Dashboard", RequiresAuth: true, Render: m.renderDashboard},
		{Path: "posts", Title: "Posts", RequiresAuth: true, Render: m.renderPosts},
		{Path: "settings", Title: "Settings", RequiresAuth: true},
	}
	for _, r := range routes {
		if err := m.router.Register(r); err != nil {
			log.LogWithError(err).Error("route registration failed")
		}
	}
}

func (m *Model) renderDashboard(router.Params) error {
	go func() {
		stats, err := m.backend.DashboardStats(m.ctx)
		if err != nil {
			m.push(messages.StatsLoadedMsg{Err: err})
			return
		}
		summary, err := m.backend.StatsSummary(m.ctx)
		m.push(messages.StatsLoadedMsg{Dashboard: stats, Summary: summary, Err: err})
	}()
	return nil
}

func (m *Model) renderPosts(params router.Params) error {
	if page, ok := params["page"]; ok && page != "" {
		m.manager.SetPage(m.ctx, atoiOr(page, 1))
		return nil
	}
	m.manager.LoadData(m.ctx)
	return nil
}

// push delivers a message to the UI loop without blocking; a full
// queue drops the message, the next snapshot supersedes it anyway.
func (m *Model) push(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Router exposes navigation to command-level callers and tests.
func (m *Model) Router() *router.Router {
	return m.router
}

// Notices exposes the notification queue.
func (m *Model) Notices() *notify.Queue {
	return m.notices
}

// Modals exposes the modal stack.
func (m *Model) Modals() *modal.Manager {
	return m.modals
}

// Posts exposes the resource manager.
func (m *Model) Posts() *posts.Manager {
	return m.manager
}

// Init starts the event pump and performs the initial auth-gated
// navigation to the configured landing route.
func (m *Model) Init() tea.Cmd {
	m.router.Start("", nil)
	return tea.Batch(m.listen(), m.statusBar.Tick())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case messages.PostsChangedMsg:
		m.postsState = msg.State
		m.table.SetPosts(msg.State.Items)
		m.statusBar.SetLoading(msg.State.Loading)
		m.redirectOnAuthError(msg.State.LoadErr)
		return m, m.listen()

	case messages.NotificationsChangedMsg:
		m.noticeView.SetItems(msg.Items)
		return m, m.listen()

	case messages.ModalsChangedMsg:
		if _, open := m.modals.Top(); !open {
			m.form = nil
			m.formModalID = ""
		}
		return m, m.listen()

	case messages.StatsLoadedMsg:
		if msg.Err != nil {
			m.redirectOnAuthError(msg.Err)
		} else {
			m.dashboard = msg.Dashboard
			m.summary = msg.Summary
		}
		return m, m.listen()

	case messages.LoginResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.notices.Error(apperrors.UserMessage(msg.Err))
			return m, m.listen()
		}
		m.notices.Success("Signed in")
		target := m.router.State().Params["redirect"]
		if target == "" || target == "auth" {
			target = m.cfg.UI.StartRoute
		}
		m.passwordInput.SetValue("")
		m.router.Navigate(target, nil, true)
		return m, m.listen()

	case messages.MutationDoneMsg:
		m.redirectOnAuthError(msg.Err)
		return m, m.listen()

	case messages.ConfigUpdateMsg:
		m.cfg = msg.Config
		m.theme = styles.New(msg.Config)
		m.notices.Info("Configuration reloaded")
		return m, m.listen()

	case messages.ErrorMsg:
		m.notices.Error(apperrors.UserMessage(msg.Err))
		return m, m.listen()
	}

	if cmd := m.statusBar.Update(msg); cmd != nil {
		return m, cmd
	}
	return m, nil
}

func (m *Model) redirectOnAuthError(err error) {
	if err == nil {
		return
	}
	if apperrors.IsUnauthorized(err) {
		// Pending dialogs and notifications belong to the expired
		// session; drop them before landing on the sign-in page.
		m.modals.CloseAll()
		m.notices.HideAll()
		m.router.Navigate("auth", nil, true)
		return
	}
	if apperrors.KindOf(err) != apperrors.StaleResponse {
		log.LogWithError(err).Debug("background operation failed")
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modals.Len() > 0 {
		return m.handleModalKey(msg)
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	path := m.router.State().CurrentPath
	if path == "auth" {
		return m.handleAuthKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1":
		m.router.Navigate("dashboard", nil, false)
	case "2":
		m.router.Navigate("posts", nil, false)
	case "3":
		m.router.Navigate("settings", nil, false)
	case "backspace":
		m.router.Back()
	case "f":
		m.router.Forward()
	}

	if path == "posts" {
		return m.handlePostsKey(msg)
	}
	if path == "settings" && msg.String() == "x" {
		return m, m.signOut()
	}
	return m, nil
}

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	top, ok := m.modals.Top()
	if !ok {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.modals.Escape()
		return m, nil
	case "tab":
		target := m.modals.FocusNext()
		if m.form != nil {
			m.form.SetFocus(target)
		}
		return m, nil
	case "shift+tab":
		target := m.modals.FocusPrev()
		if m.form != nil {
			m.form.SetFocus(target)
		}
		return m, nil
	case "enter":
		focused := m.modals.Focused()
		for _, b := range top.Buttons {
			if b.ID == focused {
				m.modals.PressButton(top.ID, b.ID)
				return m, nil
			}
		}
	}

	if m.form != nil && top.ID == m.formModalID {
		return m, m.form.Update(msg)
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.manager.SetSearch(m.ctx, m.searchInput.Value())
	return m, cmd
}

func (m *Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "down":
		m.cycleAuthFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.cycleAuthFocus(-1)
		return m, nil
	case "enter":
		if m.authFocus == "submit" || m.authFocus == "password" {
			return m, m.submitLogin()
		}
		m.cycleAuthFocus(1)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.authFocus {
	case "email":
		m.emailInput, cmd = m.emailInput.Update(msg)
	case "password":
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) cycleAuthFocus(delta int) {
	order := []string{"email", "password", "submit"}
	idx := 0
	for i, t := range order {
		if t == m.authFocus {
			idx = i
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	m.authFocus = order[idx]
	m.emailInput.Blur()
	m.passwordInput.Blur()
	switch m.authFocus {
	case "email":
		m.emailInput.Focus()
	case "password":
		m.passwordInput.Focus()
	}
}

func (m *Model) submitLogin() tea.Cmd {
	if m.submitting {
		return nil
	}
	m.submitting = true
	email := m.emailInput.Value()
	password := m.passwordInput.Value()
	go func() {
		err := m.backend.Login(m.ctx, email, password)
		m.push(messages.LoginResultMsg{Err: err})
	}()
	return nil
}

func (m *Model) signOut() tea.Cmd {
	go func() {
		if err := m.backend.Logout(m.ctx); err != nil {
			log.LogWithError(err).Warn("logout failed")
		}
		m.push(messages.LoginResultMsg{Err: apperrors.ErrUnauthorized})
	}()
	return nil
}

func (m *Model) handlePostsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.table.MoveCursor(1)
	case "k", "up":
		m.table.MoveCursor(-1)
	case "n", "right":
		if m.postsState.Page < m.postsState.Pagination.TotalPages {
			m.manager.SetPage(m.ctx, m.postsState.Page+1)
		}
	case "p", "left":
		if m.postsState.Page > 1 {
			m.manager.SetPage(m.ctx, m.postsState.Page-1)
		}
	case "/":
		m.searching = true
		m.searchInput.Focus()
	case "s":
		m.manager.SetStatusFilter(m.ctx, nextStatusFilter(m.postsState.Status))
	case "r":
		m.manager.LoadData(m.ctx)
	case "c":
		m.openPostForm(nil)
	case "e":
		if post, ok := m.table.Selected(); ok {
			m.openPostForm(&post)
		}
	case "enter":
		if post, ok := m.table.Selected(); ok {
			m.openPostDetail(post)
		}
	case "d":
		if post, ok := m.table.Selected(); ok {
			return m, m.deletePost(post)
		}
	case "P":
		if post, ok := m.table.Selected(); ok {
			return m, m.publishPost(post)
		}
	}
	return m, nil
}

func (m *Model) deletePost(post types.Post) tea.Cmd {
	go func() {
		err := <-m.manager.Delete(m.ctx, post.ID, post.Title)
		if err != nil && err != posts.ErrCancelled {
			m.push(messages.MutationDoneMsg{Err: err})
		}
	}()
	return nil
}

func (m *Model) publishPost(post types.Post) tea.Cmd {
	go func() {
		err := m.manager.Publish(m.ctx, post.ID)
		m.push(messages.MutationDoneMsg{Err: err})
	}()
	return nil
}

func (m *Model) openPostDetail(post types.Post) {
	m.modals.Open(modal.Spec{
		Title:         post.Title,
		Body:          views.PostDetail(m.theme, post),
		Closable:      true,
		BackdropClose: true,
		Buttons:       []modal.Button{{ID: "close", Label: "Close"}},
		FocusTargets:  []string{"close"},
	})
}

func (m *Model) openPostForm(post *types.Post) {
	form := newPostForm(m.theme, post)
	m.form = form

	title := "New Post"
	if form.editing() {
		title = "Edit Post"
	}

	var modalID string
	modalID = m.modals.Open(modal.Spec{
		Title:    title,
		Closable: true,
		Buttons: []modal.Button{
			{ID: "cancel", Label: "Cancel"},
			{ID: "save", Label: "Save", OnPress: func() bool {
				m.submitPostForm(form, modalID)
				return false
			}},
		},
		FocusTargets: formFocusTargets(),
	})
	m.formModalID = modalID
}

// submitPostForm validates locally and, only when the payload parses,
// issues the mutation. The dialog stays open until the remote call
// succeeds.
func (m *Model) submitPostForm(form *postForm, modalID string) {
	if form.editing() {
		cmd, err := form.updateCommand()
		if err != nil {
			m.notices.Error("scheduled time must look like " + scheduledLayout)
			return
		}
		go func() {
			if err := m.manager.Update(m.ctx, form.postID, cmd); err == nil {
				m.modals.Close(modalID)
			}
			m.push(messages.MutationDoneMsg{})
		}()
		return
	}

	cmd, err := form.createCommand()
	if err != nil {
		m.notices.Error("scheduled time must look like " + scheduledLayout)
		return
	}
	go func() {
		if err := m.manager.Create(m.ctx, cmd); err == nil {
			m.modals.Close(modalID)
		}
		m.push(messages.MutationDoneMsg{})
	}()
}

// View implements tea.Model.
func (m *Model) View() string {
	var sb []string

	state := m.router.State()
	route := state.CurrentPath
	m.statusBar.SetRoute(routeTitle(route))
	if u := m.backend.CurrentUser(); u != nil {
		m.statusBar.SetUser(u.Username)
	} else {
		m.statusBar.SetUser("")
	}

	sb = append(sb, m.statusBar.View())
	if notices := m.noticeView.View(); notices != "" {
		sb = append(sb, notices)
	}

	if m.failedRoute == route && route != "" {
		sb = append(sb, views.FailurePage(m.theme, route))
	} else {
		sb = append(sb, m.pageView(route))
	}

	if top, ok := m.modals.Top(); ok {
		body := top.Body
		if m.form != nil && top.ID == m.formModalID {
			body = m.form.View()
			top.Body = body
		}
		sb = append(sb, m.modalView.View(top, m.modals.Focused()))
	}

	sb = append(sb, m.helpView(route))
	return m.theme.App.Render(joinLines(sb))
}

func (m *Model) pageView(route string) string {
	switch route {
	case "auth":
		return views.Auth(m.theme, m.emailInput.View(), m.passwordInput.View(), m.authFocus, m.submitting)
	case "dashboard":
		return views.Dashboard(m.theme, m.dashboard, m.summary)
	case "posts":
		page := views.Posts(m.theme, m.postsState, m.table)
		if m.searching {
			page += "\n" + m.theme.InputFocused.Render("/ ") + m.searchInput.View()
		}
		return page
	case "settings":
		return views.Settings(m.theme, m.cfg.API.BaseURL, m.cfg.Theme.Name,
			m.cfg.API.PerPage, config.ListThemes())
	}
	return ""
}

func (m *Model) helpView(route string) string {
	switch route {
	case "auth":
		return m.theme.Help.Render("[tab] next field  [enter] sign in  [ctrl+c] quit")
	case "posts":
		return m.theme.Help.Render("[j/k] move  [n/p] page  [/] search  [s] filter  [c] new  [e] edit  [enter] view  [P] publish  [d] delete  [q] quit")
	}
	return m.theme.Help.Render("[1] dashboard  [2] posts  [3] settings  [backspace] back  [q] quit")
}

func routeTitle(path string) string {
	switch path {
	case "auth":
		return "Sign In"
	case "dashboard":
		return "Dashboard"
	case "posts":
		return "Posts"
	case "settings":
		return "Settings"
	}
	return path
}

func nextStatusFilter(current types.Status) types.Status {
	order := []types.Status{"", "draft", "scheduled", "published", "failed"}
	for i, s := range order {
		if s == current {
			return order[(i+1)%len(order)]
		}
	}
	return ""
}

func atoiOr(s string, fallback int) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return fallback
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return fallback
	}
	return n
}

func joinLines(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n"
		}
		out += p
	}
	return out
}
