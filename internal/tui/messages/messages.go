// Package messages defines the bubbletea messages exchanged between
// the console's background work and the root model.
package messages

import (
	"postdeck/internal/api"
	"postdeck/internal/config"
	"postdeck/internal/notify"
	"postdeck/internal/posts"
)

// PostsChangedMsg carries a fresh resource-manager snapshot.
type PostsChangedMsg struct {
	State posts.State
}

// NotificationsChangedMsg carries the visible notification set.
type NotificationsChangedMsg struct {
	Items []notify.Notification
}

// ModalsChangedMsg signals that the modal stack mutated.
type ModalsChangedMsg struct{}

// LoginResultMsg reports the outcome of an authentication attempt.
type LoginResultMsg struct {
	Err error
}

// StatsLoadedMsg carries the dashboard figures.
type StatsLoadedMsg struct {
	Dashboard *api.DashboardStats
	Summary   *api.StatsSummary
	Err       error
}

// MutationDoneMsg reports a completed create, update, publish, or
// delete.
type MutationDoneMsg struct {
	Err error
}

// ConfigUpdateMsg delivers a hot-reloaded configuration.
type ConfigUpdateMsg struct {
	Config *config.Config
}

// ErrorMsg wraps an asynchronous failure with no more specific home.
type ErrorMsg struct {
	Err error
}
