package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
)

// NewDashCmd creates the dash command
func NewDashCmd(env *Env) *cobra.Command {
	var login bool

	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the web front end in a browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := env.Config.API.WebURL
			if login {
				target = env.Config.API.LoginURL()
			}
			return runDash(env, target, openBrowser)
		},
	}

	cmd.Flags().BoolVar(&login, "login", false, "Open the login page")

	return cmd
}

func runDash(env *Env, target string, open func(string) error) error {
	fmt.Fprintf(env.Out, "Opening %s...\n", target)

	if err := open(target); err != nil {
		return fmt.Errorf("failed to open browser: %w\nPlease visit: %s", err, target)
	}

	return nil
}

// openBrowser opens the URL in the default browser
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
