package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"postdeck/cmd/postdeck/cli"
	"postdeck/internal/config"
)

func setupCmd() *cobra.Command {
	var (
		theme string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}

			if _, err := os.Stat(path); err == nil && !force {
				fmt.Println(cli.WarningText("Configuration already exists at " + path))
				fmt.Println("Use --force to overwrite it.")
				return nil
			}

			cfg := config.New()
			if theme != "" {
				known := config.ListThemes()
				found := false
				for _, name := range known {
					if name == theme {
						found = true
						break
					}
				}
				if !found {
					return fmt.Errorf("unknown theme %q (available: %s)", theme, strings.Join(known, ", "))
				}
				cfg.ApplyTheme(theme)
			}

			if err := config.SaveConfig(cfg, path); err != nil {
				return fmt.Errorf("failed to write configuration: %w", err)
			}

			fmt.Println(cli.SuccessText("Configuration written to " + path))
			cli.PrintKV("API base URL", cfg.API.BaseURL)
			cli.PrintKV("Theme", cfg.Theme.Name)
			cli.PrintKV("Posts per page", fmt.Sprintf("%d", cfg.API.PerPage))
			return nil
		},
	}

	cmd.Flags().StringVarP(&theme, "theme", "t", "", "Color theme to apply")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")

	return cmd
}
