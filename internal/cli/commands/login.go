package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCmd creates the login command
func NewLoginCmd(env *Env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the music school API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, env, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set MSCTL_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set MSCTL_PASSWORD, will prompt if not provided)")

	return cmd
}

// stdinIsTerminal reports whether a password prompt can be shown
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

func runLogin(cmd *cobra.Command, env *Env, email, password string) error {
	email, password, err := resolveCredentials(env, email, password)
	if err != nil {
		return err
	}

	apiClient, err := env.Client()
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "Logging in to %s...\n", apiClient.BaseURL())

	if _, err := apiClient.Login(cmd.Context(), email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintln(env.Out, "✓ Login successful!")
	fmt.Fprintf(env.Out, "  User: %s\n", email)

	return nil
}

// resolveCredentials fills missing flags from the environment (useful for CI/CD)
// and prompts for the password on a terminal
func resolveCredentials(env *Env, email, password string) (string, string, error) {
	if email == "" {
		email = os.Getenv("MSCTL_EMAIL")
	}
	if password == "" {
		password = os.Getenv("MSCTL_PASSWORD")
	}

	if email == "" {
		return "", "", fmt.Errorf("email is required (use --email flag or MSCTL_EMAIL env var)")
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		// Check if stdin is a terminal (not piped)
		if !stdinIsTerminal() {
			return "", "", fmt.Errorf("password is required in non-interactive mode (use --password flag or MSCTL_PASSWORD env var)")
		}

		fmt.Fprint(env.Out, "Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		password = string(bytePassword)
		fmt.Fprintln(env.Out) // New line after password input
	}

	if err := validateCredentials(email, password); err != nil {
		return "", "", err
	}

	return email, password, nil
}
