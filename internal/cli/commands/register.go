package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd(env *Env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the music school API",
		Long: `Create an account on the music school API.

Registering does not sign you in; run 'msctl login' afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := resolveCredentials(env, email, password)
			if err != nil {
				return err
			}

			apiClient, err := env.Client()
			if err != nil {
				return err
			}

			user, err := apiClient.Register(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			fmt.Fprintf(env.Out, "✓ Registered %s (id %d)\n", user.Email, user.ID)
			fmt.Fprintln(env.Out, "\nSign in with: msctl login --email", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set MSCTL_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set MSCTL_PASSWORD, will prompt if not provided)")

	return cmd
}
