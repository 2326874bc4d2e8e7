package commands

import (
	"fmt"
	"net/url"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/msctl-dev/msctl/internal/cli/userconfig"
)

// NewUseCmd creates the use command
func NewUseCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use [api-url]",
		Short: "Select the API the other commands talk to",
		Long: `Select the API the other commands talk to.

If no URL is provided, an interactive prompt lists the APIs used before.
MSCTL_API_URL and --api-url still take precedence over the selection.

Examples:
  $ msctl use                                # Interactive selection
  $ msctl use http://localhost:8000/api      # Select by URL`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var apiURL string
			if len(args) > 0 {
				apiURL = args[0]
			}
			return runUse(env, apiURL)
		},
	}

	return cmd
}

func runUse(env *Env, apiURL string) error {
	if apiURL == "" {
		known, err := userconfig.GetKnownAPIURLs()
		if err != nil {
			return fmt.Errorf("failed to load user config: %w", err)
		}
		apiURL, err = promptAPISelection(known)
		if err != nil {
			return err
		}
	}

	parsed, err := url.Parse(apiURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid API URL '%s', expected something like http://localhost:8000/api", apiURL)
	}

	if err := userconfig.SetSelectedAPIURL(apiURL); err != nil {
		return fmt.Errorf("failed to save selected API: %w", err)
	}

	fmt.Fprintf(env.Out, "Selected API: %s\n", apiURL)
	return nil
}

// promptAPISelection shows an interactive prompt for the user to select an API URL
func promptAPISelection(known []string) (string, error) {
	if len(known) == 0 {
		return "", fmt.Errorf("no API selected before. Run 'msctl use <api-url>'")
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "{{ . | green }}",
	}

	prompt := promptui.Select{
		Label:     "Select an API",
		Items:     known,
		Templates: templates,
		Size:      10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("API selection cancelled: %w", err)
	}

	return known[index], nil
}
