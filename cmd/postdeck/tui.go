package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"postdeck/cmd/postdeck/cli"
	"postdeck/internal/api"
	"postdeck/internal/config"
	"postdeck/internal/log"
	"postdeck/internal/memory"
	"postdeck/internal/tui"
	"postdeck/internal/tui/messages"
)

func tuiCmd() *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive console",
		Long:  `Launch the full-screen console for browsing, editing, and publishing posts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			var backend api.Backend
			if demo {
				fmt.Println(cli.InfoText("Demo mode: using an in-memory backend with sample posts"))
				backend = memory.NewSeeded()
			} else {
				backend = newClient(cfg)
			}

			model := tui.New(cfg, backend)
			program := tea.NewProgram(model, tea.WithAltScreen())

			// Hot-reload theme and UI settings while the console runs.
			path := configPath
			if path == "" {
				if p, err := config.DefaultPath(); err == nil {
					path = p
				}
			}
			if path != "" {
				if watcher, err := config.NewWatcher(path); err == nil {
					watcher.Start()
					defer watcher.Stop()
					go func() {
						for updated := range watcher.Changes() {
							program.Send(messages.ConfigUpdateMsg{Config: updated})
						}
					}()
				} else {
					log.LogWithError(err).Debug("config watcher unavailable")
				}
			}

			_, err := program.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Run against an in-memory backend with sample data")
	return cmd
}
