package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"postdeck/cmd/postdeck/cli"
	"postdeck/internal/api"
	"postdeck/pkg/types"
)

func postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Manage posts from the command line",
	}
	cmd.AddCommand(postsListCmd())
	cmd.AddCommand(postsShowCmd())
	cmd.AddCommand(postsCreateCmd())
	cmd.AddCommand(postsPublishCmd())
	cmd.AddCommand(postsDeleteCmd())
	return cmd
}

func postsListCmd() *cobra.Command {
	var page int
	var status string
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			client := newClient(cfg)

			result, err := client.List(cmd.Context(), api.ListParams{
				Page:    page,
				PerPage: cfg.API.PerPage,
				Status:  types.Status(status),
				Search:  search,
			})
			if err != nil {
				return err
			}

			if len(result.Items) == 0 {
				fmt.Println(cli.InfoText("No posts found."))
				return nil
			}

			fmt.Println(cli.HeaderText(fmt.Sprintf("%-5s %-36s %-11s %s", "ID", "TITLE", "STATUS", "UPDATED")))
			for _, p := range result.Items {
				title := p.Title
				if len(title) > 34 {
					title = title[:31] + "..."
				}
				fmt.Printf("%-5d %-36s %-11s %s\n",
					p.ID, title, statusText(p.Status), p.UpdatedTime.Local().Format("2006-01-02 15:04"))
			}
			fmt.Println(cli.InfoText(fmt.Sprintf("page %d/%d (%d posts)",
				result.Pagination.Page, result.Pagination.TotalPages, result.Pagination.Total)))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page to fetch")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (draft, scheduled, published, failed)")
	cmd.Flags().StringVar(&search, "search", "", "Search in title and content")
	return cmd
}

func postsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id: %s", args[0])
			}

			cfg := loadConfig()
			post, err := newClient(cfg).Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Println(cli.HeaderText(post.Title))
			cli.PrintKV("Status", statusText(post.Status))
			cli.PrintKV("Created", post.CreatedTime.Local().Format(time.RFC1123))
			if post.ScheduledTime != nil {
				cli.PrintKV("Scheduled", post.ScheduledTime.Local().Format(time.RFC1123))
			}
			if post.RemotePostID != "" {
				cli.PrintKV("Remote ID", post.RemotePostID)
			}
			if post.Engagement != nil {
				cli.PrintKV("Engagement", fmt.Sprintf("%d likes, %d comments, %d shares, %d views",
					post.Engagement.Likes, post.Engagement.Comments,
					post.Engagement.Shares, post.Engagement.Views))
			}
			fmt.Println()
			fmt.Println(post.Content)
			return nil
		},
	}
}

func postsCreateCmd() *cobra.Command {
	var title string
	var content string
	var status string
	var scheduled string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			create := types.CreatePost{
				Title:   title,
				Content: content,
				Status:  types.Status(status),
			}
			if scheduled != "" {
				when, err := time.ParseInLocation("2006-01-02 15:04", scheduled, time.Local)
				if err != nil {
					return fmt.Errorf("invalid scheduled time, expected 2006-01-02 15:04: %w", err)
				}
				create.ScheduledTime = &when
			}
			if err := create.Validate(time.Now()); err != nil {
				return err
			}

			cfg := loadConfig()
			post, err := newClient(cfg).Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			fmt.Println(cli.SuccessText(fmt.Sprintf("Created post %d: %s", post.ID, post.Title)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Post title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "Post content")
	cmd.Flags().StringVarP(&status, "status", "s", "draft", "Post status")
	cmd.Flags().StringVar(&scheduled, "at", "", "Scheduled time (2006-01-02 15:04, local)")
	return cmd
}

func postsPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a post now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id: %s", args[0])
			}

			cfg := loadConfig()
			post, err := newClient(cfg).Publish(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Println(cli.SuccessText(fmt.Sprintf("Published post %d (remote id %s)", post.ID, post.RemotePostID)))
			return nil
		},
	}
}

func postsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id: %s", args[0])
			}
			if !force {
				fmt.Print(cli.WarningText(fmt.Sprintf("Delete post %d? This cannot be undone. [y/N] ", id)))
				var answer string
				fmt.Scanln(&answer)
				if answer != "y" && answer != "Y" {
					fmt.Println(cli.InfoText("Aborted."))
					return nil
				}
			}

			cfg := loadConfig()
			if err := newClient(cfg).Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println(cli.SuccessText(fmt.Sprintf("Deleted post %d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

func statusText(s types.Status) string {
	switch s {
	case types.StatusPublished:
		return cli.SuccessText(string(s))
	case types.StatusScheduled:
		return cli.WarningText(string(s))
	case types.StatusFailed:
		return cli.ErrorText(string(s))
	}
	return string(s)
}
