package commands

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command
func NewStatusCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session token is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(env)
		},
	}
}

func runStatus(env *Env) error {
	apiClient, err := env.Client()
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "API:           %s\n", apiClient.BaseURL())

	if !apiClient.IsAuthenticated() {
		fmt.Fprintln(env.Out, "Authenticated: no")
		fmt.Fprintln(env.Out, "\nSign in with: msctl login")
		return nil
	}
	fmt.Fprintln(env.Out, "Authenticated: yes")

	token, err := apiClient.Session().Token()
	if err != nil {
		return err
	}

	// Display only: the server is the one that decides whether the token is still good.
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		fmt.Fprintln(env.Out, "Token:         opaque")
		return nil
	}

	if claims.Subject != "" {
		fmt.Fprintf(env.Out, "User ID:       %s\n", claims.Subject)
	}
	if claims.ExpiresAt != nil {
		expires := claims.ExpiresAt.Time
		suffix := ""
		if time.Now().After(expires) {
			suffix = " (expired)"
		}
		fmt.Fprintf(env.Out, "Expires:       %s%s\n", expires.Local().Format(time.RFC3339), suffix)
	}

	return nil
}
