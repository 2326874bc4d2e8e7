package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	te := newTestEnv(t)

	err := execute(NewLoginCmd(te.Env), "--email", testEmail, "--password", testPassword)
	require.NoError(t, err)

	assert.Contains(t, te.out.String(), "✓ Login successful!")
	assert.Contains(t, te.out.String(), "User: "+testEmail)
	assert.NotEmpty(t, te.storedToken())

	req, ok := te.srv.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/api/auth/login", req.Path)
	assert.Empty(t, req.Authorization)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	te := newTestEnv(t)

	err := execute(NewLoginCmd(te.Env), "--email", testEmail, "--password", "wrong")
	require.Error(t, err)

	assert.Equal(t, "login failed: Invalid credentials", err.Error())
	assert.Empty(t, te.storedToken())
	assert.Empty(t, te.err.String(), "a failed login is not a session expiry")
}

func TestLogin_CredentialsFromEnvironment(t *testing.T) {
	te := newTestEnv(t)
	t.Setenv("MSCTL_EMAIL", testEmail)
	t.Setenv("MSCTL_PASSWORD", testPassword)

	require.NoError(t, execute(NewLoginCmd(te.Env)))
	assert.NotEmpty(t, te.storedToken())
}

func TestLogin_InputValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing email",
			args:    []string{"--password", testPassword},
			wantErr: "email is required (use --email flag or MSCTL_EMAIL env var)",
		},
		{
			name:    "malformed email",
			args:    []string{"--email", "not-an-email", "--password", testPassword},
			wantErr: "invalid email address: not-an-email",
		},
		{
			name:    "missing password without a terminal",
			args:    []string{"--email", testEmail},
			wantErr: "password is required in non-interactive mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEnv(t)

			err := execute(NewLoginCmd(te.Env), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, te.srv.Requests(), "nothing is sent when input is invalid")
		})
	}
}

func TestRegister(t *testing.T) {
	te := newTestEnv(t)

	err := execute(NewRegisterCmd(te.Env), "--email", "new@school.test", "--password", "hunter22")
	require.NoError(t, err)

	assert.Contains(t, te.out.String(), "✓ Registered new@school.test (id 2)")
	assert.Empty(t, te.storedToken(), "registering does not sign in")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	te := newTestEnv(t)

	err := execute(NewRegisterCmd(te.Env), "--email", testEmail, "--password", "hunter22")
	require.Error(t, err)
	assert.Equal(t, "registration failed: Email already registered", err.Error())
}

func TestLogout(t *testing.T) {
	te := newTestEnv(t)
	te.signIn(t)

	require.NoError(t, execute(NewLogoutCmd(te.Env)))

	assert.Empty(t, te.storedToken())
	assert.Contains(t, te.err.String(), "Signed out")
	assert.Contains(t, te.err.String(), "http://web.test/login.html")
	assert.Empty(t, te.srv.Requests(), "logout is local only")
}
