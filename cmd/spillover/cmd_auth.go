package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Verify the credential against the Jira instance",
	RunE:  runAuth,
}

func runAuth(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	user, err := client.Myself(cmd.Context())
	if err != nil {
		return fmt.Errorf("auth check: %w", err)
	}

	out := cmd.OutOrStdout()
	name := user.DisplayName
	if name == "" {
		name = user.Name
	}
	if user.EmailAddress != "" {
		fmt.Fprintf(out, "Authenticated as %s (%s)\n", name, user.EmailAddress)
	} else {
		fmt.Fprintf(out, "Authenticated as %s\n", name)
	}
	return nil
}
