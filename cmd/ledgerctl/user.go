package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"freelance-ledger/internal/models"
)

func newUserCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage ledger users",
	}
	cmd.AddCommand(newUserAddCmd(c), newUserShowCmd(c))
	return cmd
}

func newUserAddCmd(c *cli) *cobra.Command {
	var who models.Identity
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user ahead of their first sign-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			existing, err := c.app.Service.CurrentUser(ctx, who)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("user %s already exists", who.Subject)
			}

			if who.Email == "" {
				fmt.Fprint(c.stdout, "Email: ")
				email, err := readLine(c.stdin)
				if err != nil {
					return fmt.Errorf("failed to read email: %w", err)
				}
				fmt.Fprintln(c.stdout)
				who.Email = email
			}
			if who.Email == "" {
				return errors.New("email cannot be empty")
			}

			user, err := c.app.Service.UpsertUser(ctx, who)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			fmt.Fprintf(c.stdout, "User %s created successfully with ID %d\n", user.ExternalID, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&who.Subject, "subject", "", "identity provider subject")
	cmd.Flags().StringVar(&who.Email, "email", "", "email address (prompted when omitted)")
	cmd.Flags().StringVar(&who.Name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newUserShowCmd(c *cli) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.app.Service.CurrentUser(cmd.Context(), identity(subject))
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("user %s not found", subject)
			}
			fmt.Fprintf(c.stdout, "id:      %d\nsubject: %s\nemail:   %s\nname:    %s\ncreated: %s\n",
				user.ID, user.ExternalID, user.Email, user.Name, user.CreatedAt.Format("2006-01-02"))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "identity provider subject")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
