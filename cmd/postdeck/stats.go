package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"postdeck/cmd/postdeck/cli"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show post and engagement totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			client := newClient(cfg)

			summary, err := client.StatsSummary(cmd.Context())
			if err != nil {
				return err
			}
			dashboard, err := client.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println(cli.HeaderText("Posts"))
			cli.PrintKV("Total", fmt.Sprintf("%d", summary.TotalPosts))
			cli.PrintKV("Draft", fmt.Sprintf("%d", summary.DraftPosts))
			cli.PrintKV("Scheduled", fmt.Sprintf("%d", summary.ScheduledPosts))
			cli.PrintKV("Published", fmt.Sprintf("%d", summary.PublishedPosts))
			cli.PrintKV("Failed", fmt.Sprintf("%d", summary.FailedPosts))
			cli.PrintKV("Today", fmt.Sprintf("%d", summary.TodayPosts))

			fmt.Println(cli.HeaderText("Engagement"))
			cli.PrintKV("Views", fmt.Sprintf("%d", dashboard.TotalViews))
			cli.PrintKV("Total", fmt.Sprintf("%d", dashboard.TotalEngagement))
			return nil
		},
	}
}
