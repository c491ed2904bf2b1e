package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"postdeck/cmd/postdeck/cli"
	"postdeck/internal/memory"
	"postdeck/internal/server"
)

func serveCmd() *cobra.Command {
	var addr string
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the posts API server",
		Long:  `Run the HTTP API the console talks to, backed by an in-memory store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var store *memory.Store
			if seed {
				store = memory.NewSeeded()
				fmt.Println(cli.InfoText("Seeded sample posts (accounts: admin@example.com / admin123, test@example.com / test123)"))
			} else {
				store = memory.New()
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Println(cli.HeaderText("postdeck API listening on " + addr))
			return server.New(store, addr).Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	cmd.Flags().BoolVar(&seed, "seed", true, "Seed the store with sample posts")
	return cmd
}
