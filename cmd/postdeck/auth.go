package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"postdeck/cmd/postdeck/cli"
)

func loginCmd() *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the posts API",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)
			if email == "" {
				fmt.Print("Email: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				email = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Print("Password: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimSpace(line)
			}

			cfg := loadConfig()
			client := newClient(cfg)
			if err := client.Login(cmd.Context(), email, password); err != nil {
				return err
			}

			user := client.CurrentUser()
			if user != nil {
				fmt.Println(cli.SuccessText("Signed in as " + user.Username))
			} else {
				fmt.Println(cli.SuccessText("Signed in"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	return cmd
}

func registerCmd() *cobra.Command {
	var username string
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)
			prompt := func(label string, dest *string) error {
				if *dest != "" {
					return nil
				}
				fmt.Print(label + ": ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				*dest = strings.TrimSpace(line)
				return nil
			}
			if err := prompt("Username", &username); err != nil {
				return err
			}
			if err := prompt("Email", &email); err != nil {
				return err
			}

			// The confirmation round trip only makes sense when the
			// password is typed, not passed as a flag.
			confirm := password
			if password == "" {
				if err := prompt("Password", &password); err != nil {
					return err
				}
				if err := prompt("Confirm password", &confirm); err != nil {
					return err
				}
			}

			cfg := loadConfig()
			client := newClient(cfg)
			if err := client.Register(cmd.Context(), username, email, password, confirm); err != nil {
				return err
			}

			fmt.Println(cli.SuccessText("Account created. Sign in with: postdeck login -e " + email))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			client := newClient(cfg)
			if err := client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(cli.SuccessText("Signed out"))
			return nil
		},
	}
}
