package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")

	// Flag wins over env var.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "TEST_CONFIG_KEY", "default"))

	// Env var wins over default.
	assert.Equal(t, "from-env", getConfigValue("", "TEST_CONFIG_KEY", "default"))

	// Default when nothing else is set.
	assert.Equal(t, "default", getConfigValue("", "TEST_CONFIG_UNSET", "default"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := `# comment line
TEST_ENVFILE_A=hello

TEST_ENVFILE_B="quoted value"
`
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("TEST_ENVFILE_A")
		os.Unsetenv("TEST_ENVFILE_B")
	})

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "hello", os.Getenv("TEST_ENVFILE_A"))
	assert.Equal(t, "quoted value", os.Getenv("TEST_ENVFILE_B"))
}

func TestLoadEnvFile_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("TEST_ENVFILE_C=from-file\n"), 0o600))

	t.Setenv("TEST_ENVFILE_C", "from-env")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "from-env", os.Getenv("TEST_ENVFILE_C"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("not a key value pair\n"), 0o600))

	err := loadEnvFile(envPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format at line 1")
}

func TestValidate(t *testing.T) {
	valid := &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{Path: "/tmp/librarian"},
		Auth:   AuthConfig{AccessTokenDuration: 24 * time.Hour},
	}
	assert.NoError(t, valid.Validate())

	badEnv := *valid
	badEnv.App.Environment = "prod"
	assert.Error(t, badEnv.Validate())

	badLevel := *valid
	badLevel.Logger.Level = "verbose"
	assert.Error(t, badLevel.Validate())

	noData := *valid
	noData.Data.Path = ""
	assert.Error(t, noData.Validate())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := expandPath("~/librarian/data", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "librarian", "data"), expanded)

	// Empty path falls back to the default.
	expanded, err = expandPath("", "/var/lib/librarian")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/librarian", expanded)

	// Relative paths become absolute.
	expanded, err = expandPath("data", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(expanded))
}
