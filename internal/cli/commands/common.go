package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/manifoldco/promptui"

	"github.com/msctl-dev/msctl/internal/cli/config"
	"github.com/msctl-dev/msctl/internal/client"
	"github.com/msctl-dev/msctl/internal/logger"
	"github.com/msctl-dev/msctl/internal/session"
)

// Env carries what every command needs. The root command fills Config before any
// subcommand runs; tests build an Env directly.
type Env struct {
	Version string
	Config  *config.Config

	Out io.Writer
	Err io.Writer

	// Store overrides the token store selected by Config.Session
	Store session.TokenStore
	// Confirm asks a yes/no question; defaults to a promptui confirmation
	Confirm func(label string) (bool, error)

	apiClient *client.Client
}

// NewEnv creates an Env writing to the process stdout/stderr
func NewEnv(version string) *Env {
	return &Env{
		Version: version,
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
}

// Client returns the API client for the configured API URL, building it once
func (e *Env) Client() (*client.Client, error) {
	if e.apiClient != nil {
		return e.apiClient, nil
	}
	if e.Config == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	store := e.Store
	if store == nil {
		var err error
		store, err = session.NewStore(e.Config.Session.Store, e.Config.API.URL, e.Config.Session.TokenFile)
		if err != nil {
			return nil, err
		}
	}

	e.apiClient = client.New(
		e.Config.API.URL,
		session.NewManager(store),
		client.WithHTTPClient(&http.Client{Timeout: e.Config.API.Timeout}),
		client.WithLogger(logger.GetLogger()),
		client.WithUserAgent(fmt.Sprintf("msctl/%s", e.Version)),
		client.WithLoginRedirect(e.loginRedirect),
	)
	return e.apiClient, nil
}

// loginRedirect is the CLI's stand-in for sending a browser to the login page
func (e *Env) loginRedirect(_ context.Context, reason client.RedirectReason) {
	loginURL := e.Config.API.LoginURL()

	switch reason {
	case client.RedirectUnauthorized:
		fmt.Fprintf(e.Err, "Not authenticated or session expired. Run 'msctl login' (web: %s)\n", loginURL)
	case client.RedirectLogout:
		fmt.Fprintf(e.Err, "Signed out. Run 'msctl login' to sign in again (web: %s)\n", loginURL)
	}
}

func (e *Env) confirm(label string) (bool, error) {
	if e.Confirm != nil {
		return e.Confirm(label)
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// unauthorizedHint turns the client's sentinel into a command error. The redirect has
// already told the user what to do, so the message stays short.
func unauthorizedHint(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return fmt.Errorf("not authenticated")
	}
	return err
}

var validate = validator.New()

// credentialsInput is validated before any request is sent
type credentialsInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func validateCredentials(email, password string) error {
	err := validate.Struct(credentialsInput{Email: email, Password: password})
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fe := range validationErrs {
			switch fe.Field() {
			case "Email":
				return fmt.Errorf("invalid email address: %s", email)
			case "Password":
				return fmt.Errorf("password is required")
			}
		}
	}
	return err
}
