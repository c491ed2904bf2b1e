package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"postdeck/cmd/postdeck/cli"
	"postdeck/internal/api"
	"postdeck/internal/config"
	"postdeck/internal/log"
)

var version = "dev"

// configPath overrides the default config location when --config is set.
var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:     "postdeck",
		Short:   "A management console for social posts",
		Long:    `Postdeck drafts, schedules, and publishes social-media posts from your terminal.`,
		Version: version,
	}

	var debug bool
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		log.SetDebug(debug)
	}

	helpTemplate := cli.DrawLogo() + "\n\n" + rootCmd.UsageTemplate()
	rootCmd.SetUsageTemplate(helpTemplate)
	rootCmd.SetHelpTemplate(helpTemplate)

	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(postsCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(setupCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(cli.ErrorText(err.Error()))
		os.Exit(1)
	}
}

// loadConfig loads the user configuration, falling back to defaults
// when no file exists yet.
func loadConfig() *config.Config {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfigFile(configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		fmt.Println(cli.WarningText("Could not load config, using defaults: " + err.Error()))
		return config.New()
	}
	return cfg
}

// sessionPath returns where the bearer token is persisted between
// invocations.
func sessionPath() string {
	dir, err := config.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "session.yaml")
}

// newClient builds the HTTP backend from the configuration, reusing
// any persisted session.
func newClient(cfg *config.Config) *api.Client {
	opts := []api.ClientOption{
		api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds) * time.Second),
	}
	if path := sessionPath(); path != "" {
		opts = append(opts, api.WithSessionFile(path))
	}
	return api.NewClient(cfg.API.BaseURL, opts...)
}
