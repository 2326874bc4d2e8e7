package commands

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/msctl-dev/msctl/internal/apitest"
	"github.com/msctl-dev/msctl/internal/cli/config"
	"github.com/msctl-dev/msctl/internal/session"
)

const (
	testEmail    = "admin@school.test"
	testPassword = "secret123"
)

type testEnv struct {
	*Env
	srv   *apitest.Server
	store *session.MemoryStore
	out   *bytes.Buffer
	err   *bytes.Buffer
}

// newTestEnv wires an Env to a fresh stub backend with one known user
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	t.Setenv("MSCTL_EMAIL", "")
	t.Setenv("MSCTL_PASSWORD", "")

	isTerminal := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = isTerminal })

	srv := apitest.NewServer(t)
	require.NoError(t, srv.AddUser(testEmail, testPassword))

	te := &testEnv{
		srv:   srv,
		store: session.NewMemoryStore(),
		out:   &bytes.Buffer{},
		err:   &bytes.Buffer{},
	}
	te.Env = &Env{
		Version: "test",
		Config: &config.Config{
			API: config.APIConfig{
				URL:       srv.APIURL(),
				WebURL:    "http://web.test",
				LoginPage: "/login.html",
				Timeout:   5 * time.Second,
			},
			Session: config.SessionConfig{Store: "memory"},
			Logging: config.LoggingConfig{Level: "disabled", Format: "console"},
		},
		Out:   te.out,
		Err:   te.err,
		Store: te.store,
		Confirm: func(string) (bool, error) {
			t.Fatal("unexpected confirmation prompt")
			return false, nil
		},
	}

	return te
}

// signIn stores a valid token for the test user
func (te *testEnv) signIn(t *testing.T) {
	t.Helper()
	token, err := te.srv.IssueToken(testEmail)
	require.NoError(t, err)
	require.NoError(t, te.store.SaveToken(token))
}

func (te *testEnv) storedToken() string {
	token, err := te.store.LoadToken()
	if err != nil {
		return ""
	}
	return token
}

func execute(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}
