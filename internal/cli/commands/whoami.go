package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account the stored token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := env.Client()
			if err != nil {
				return err
			}

			user, err := apiClient.Me(cmd.Context())
			if err != nil {
				return unauthorizedHint(err)
			}

			fmt.Fprintf(env.Out, "%s (id %d)\n", user.Email, user.ID)
			return nil
		},
	}
}
