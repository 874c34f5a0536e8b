package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/agentbridge/internal/version"
)

// clearEnvOverrides blanks the env vars the config loader consults so
// the surrounding environment cannot leak into assertions.
func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AGENT_ID", "AGENT_ALIAS_ID", "AWS_REGION",
		"KNOWLEDGE_BASE_ID", "DATA_SOURCE_ID", "AMQP_URL",
		"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_FROM_NUMBER", "ACTION_GROUP",
	} {
		t.Setenv(key, "")
	}
}

// runCommand executes the root command with args, capturing stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	runErr := cmd.Execute()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), runErr
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version.Version)
}

func TestStatusCommandWithoutConfig(t *testing.T) {
	clearEnvOverrides(t)
	home := t.TempDir()
	t.Setenv("AGENTBRIDGE_HOME", home)

	out, err := runCommand(t, "status")
	require.NoError(t, err)

	// All resolved paths are reported, config file or not.
	assert.Contains(t, out, filepath.Join(home, "config.yaml"))
	assert.Contains(t, out, filepath.Join(home, "logs"))
	assert.Contains(t, out, filepath.Join(home, "data"))
	assert.Contains(t, out, "not configured")
}

func TestStatusCommandWithConfig(t *testing.T) {
	clearEnvOverrides(t)
	home := t.TempDir()
	t.Setenv("AGENTBRIDGE_HOME", home)

	cfg := "agent:\n  id: AGENT123\n  aliasId: ALIAS456\n  region: us-east-1\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(cfg), 0o600))

	out, err := runCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "id=AGENT123")
	assert.Contains(t, out, "alias=ALIAS456")
	assert.Contains(t, out, "region=us-east-1")
}

func TestStatusCommandNeverPrintsCredentials(t *testing.T) {
	clearEnvOverrides(t)
	home := t.TempDir()
	t.Setenv("AGENTBRIDGE_HOME", home)

	cfg := "notify:\n  accountSid: AC000\n  authToken: supersecret\n  from: \"+15550000000\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(cfg), 0o600))

	out, err := runCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "provider=twilio")
	assert.NotContains(t, out, "supersecret")
	assert.NotContains(t, out, "AC000")
}
