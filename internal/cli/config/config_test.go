package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msctl-dev/msctl/internal/cli/userconfig"
)

// isolate points HOME and the working directory at empty temp dirs and clears MSCTL_* vars
func isolate(t *testing.T) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"MSCTL_API_URL", "MSCTL_WEB_URL", "MSCTL_LOGIN_PAGE", "MSCTL_TIMEOUT",
		"MSCTL_TOKEN_STORE", "MSCTL_TOKEN_FILE", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(originalDir) })
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.API.URL)
	assert.Equal(t, "http://localhost:3000/login.html", cfg.API.LoginURL())
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "keyring", cfg.Session.Store)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("MSCTL_API_URL", "https://school.example/api/")
	t.Setenv("MSCTL_WEB_URL", "https://school.example/")
	t.Setenv("MSCTL_LOGIN_PAGE", "signin.html")
	t.Setenv("MSCTL_TIMEOUT", "5s")
	t.Setenv("MSCTL_TOKEN_STORE", "file")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://school.example/api", cfg.API.URL)
	assert.Equal(t, "https://school.example/signin.html", cfg.API.LoginURL())
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "file", cfg.Session.Store)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("MSCTL_TIMEOUT=12s\n"), 0644))
	// godotenv does not override variables that are already set, even to ""
	os.Unsetenv("MSCTL_TIMEOUT")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, cfg.API.Timeout)
}

func TestLoad_SelectedAPIURL(t *testing.T) {
	isolate(t)
	require.NoError(t, userconfig.SetSelectedAPIURL("http://selected/api"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://selected/api", cfg.API.URL)

	t.Setenv("MSCTL_API_URL", "http://env/api")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env/api", cfg.API.URL)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("MSCTL_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid MSCTL_TIMEOUT")
}
