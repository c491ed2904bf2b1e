// Package views renders the console's pages. Views are pure: they
// take a theme plus page data and return a string, with all state
// owned by the root model.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"postdeck/internal/api"
	"postdeck/internal/posts"
	"postdeck/internal/tui/components"
	"postdeck/internal/tui/styles"
	"postdeck/pkg/types"
)

// Dashboard renders the headline figures and the per-status summary.
func Dashboard(theme styles.Theme, stats *api.DashboardStats, summary *api.StatsSummary) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Dashboard"))
	sb.WriteString("\n")

	if stats == nil {
		sb.WriteString(theme.Empty.Render("Loading stats..."))
		return sb.String()
	}

	cards := []string{
		statCard(theme, "Posts", stats.TotalPosts),
		statCard(theme, "Today", stats.TodayPosts),
		statCard(theme, "Views", stats.TotalViews),
		statCard(theme, "Engagement", stats.TotalEngagement),
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	sb.WriteString("\n")

	if summary != nil {
		sb.WriteString("\n")
		sb.WriteString(theme.Subtitle.Render("By status"))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  %s %d   %s %d   %s %d   %s %d\n",
			theme.BadgeDraft.Render("draft"), summary.DraftPosts,
			theme.BadgeScheduled.Render("scheduled"), summary.ScheduledPosts,
			theme.BadgePublished.Render("published"), summary.PublishedPosts,
			theme.BadgeFailed.Render("failed"), summary.FailedPosts,
		))
	}
	return sb.String()
}

func statCard(theme styles.Theme, label string, value int) string {
	return theme.StatCard.Render(
		theme.StatValue.Render(fmt.Sprintf("%d", value)) + "\n" + label)
}

// Posts renders the list page: filter line, table, and pagination.
func Posts(theme styles.Theme, state posts.State, table *components.PostsTable) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Posts"))
	sb.WriteString("\n")

	filter := "status: "
	if state.Status == "" {
		filter += "all"
	} else {
		filter += string(state.Status)
	}
	if state.Search != "" {
		filter += "   search: " + state.Search
	}
	sb.WriteString(theme.Subtitle.Render(filter))
	sb.WriteString("\n\n")

	sb.WriteString(table.View())

	p := state.Pagination
	if p.TotalPages > 1 {
		sb.WriteString("\n")
		sb.WriteString(theme.Help.Render(
			fmt.Sprintf("page %d/%d  (%d posts)  [n] next  [p] prev", p.Page, p.TotalPages, p.Total)))
	}
	return sb.String()
}

// Auth renders the sign-in form around the already-rendered input
// widgets.
func Auth(theme styles.Theme, emailView, passwordView string, focused string, submitting bool) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Sign In"))
	sb.WriteString("\n")

	sb.WriteString(field(theme, "Email", emailView, focused == "email"))
	sb.WriteString(field(theme, "Password", passwordView, focused == "password"))
	sb.WriteString("\n")

	if submitting {
		sb.WriteString(theme.Help.Render("Signing in..."))
	} else if focused == "submit" {
		sb.WriteString(theme.ButtonFocused.Render("Sign In"))
	} else {
		sb.WriteString(theme.ButtonBlurred.Render("Sign In"))
	}
	return sb.String()
}

func field(theme styles.Theme, label, view string, focused bool) string {
	marker := "  "
	if focused {
		marker = theme.InputFocused.Render("> ")
	}
	return marker + theme.InputLabel.Render(label) + "\n  " + view + "\n"
}

// Settings renders the active configuration.
func Settings(theme styles.Theme, baseURL, themeName string, perPage int, themes []string) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Settings"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  API endpoint:  %s\n", baseURL))
	sb.WriteString(fmt.Sprintf("  Page size:     %d\n", perPage))
	sb.WriteString(fmt.Sprintf("  Theme:         %s\n", themeName))
	sb.WriteString("\n")
	sb.WriteString(theme.Help.Render("available themes: " + strings.Join(themes, ", ")))
	return sb.String()
}

// PostDetail renders a single post for the view dialog body.
func PostDetail(theme styles.Theme, post types.Post) string {
	var sb strings.Builder
	sb.WriteString(theme.BadgeFor(string(post.Status)).Render(string(post.Status)))
	sb.WriteString("\n\n")
	sb.WriteString(post.Content)
	sb.WriteString("\n")
	if post.ScheduledTime != nil {
		sb.WriteString("\nScheduled: " + post.ScheduledTime.Format("2006-01-02 15:04"))
	}
	if post.Engagement != nil {
		sb.WriteString(fmt.Sprintf("\nEngagement: %d likes, %d comments, %d shares, %d views",
			post.Engagement.Likes, post.Engagement.Comments,
			post.Engagement.Shares, post.Engagement.Views))
	}
	return sb.String()
}

// FailurePage renders the generic page-load failure panel.
func FailurePage(theme styles.Theme, path string) string {
	return theme.Error.Render("Page failed to load") + "\n" +
		theme.Help.Render("route: "+path)
}
