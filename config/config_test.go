package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"BITRISE_IO", "LLM_PROVIDER", "LLM_MODEL", "AZURE_OPENAI_DEPLOYMENT",
	"AZURE_OPENAI_API_KEY", "LLM_API_KEY", "AZURE_OPENAI_ENDPOINT", "LLM_ENDPOINT",
	"AZURE_OPENAI_API_VERSION", "TESTGEN_ROOT", "TESTGEN_PATTERN", "TESTGEN_TRUNCATE",
	"TESTGEN_OUTPUT_DIR", "TESTGEN_OUTPUT_FILE", "TESTGEN_SETTINGS",
	"TESTGEN_LOG_LEVEL", "TESTGEN_LOG_FILE",
}

// isolate runs the test in an empty directory with no configuration in the
// environment
func isolate(t *testing.T) string {
	t.Helper()

	for _, name := range envVars {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	return dir
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("provider", DefaultConfig.Provider, "")
	flags.String("endpoint", "", "")
	flags.Float32("temperature", DefaultConfig.Temperature, "")
	flags.Int("truncate", 0, "")
	flags.String("output-dir", DefaultConfig.OutputDir, "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "azure", cfg.Provider)
	// Each provider falls back to its own default model
	assert.Empty(t, cfg.Model)
	assert.Equal(t, "gpt4o", cfg.Deployment)
	assert.Equal(t, "2024-08-01-preview", cfg.APIVersion)
	assert.InDelta(t, 0.1, cfg.Temperature, 1e-6)
	assert.Equal(t, 2500, cfg.MaxTokens)
	assert.Equal(t, 120, cfg.APITimeout)
	assert.Equal(t, ".", cfg.Root)
	assert.Empty(t, cfg.Pattern)
	assert.Zero(t, cfg.Truncate)
	assert.Empty(t, cfg.APIKey)
	assert.Empty(t, cfg.Endpoint)
	assert.Equal(t, filepath.Join("generated_tests", "test_generated.py"), cfg.OutputPath())
	assert.Equal(t, "test-output.log", cfg.LogFile)
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("AZURE_OPENAI_API_KEY", "azure-key")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("TESTGEN_TRUNCATE", "12000")
	t.Setenv("TESTGEN_PATTERN", "src/**/*.py")

	cfg, err := Load(newFlags())
	require.NoError(t, err)

	assert.Equal(t, "azure-key", cfg.APIKey)
	assert.Equal(t, "https://example.openai.azure.com", cfg.Endpoint)
	assert.Equal(t, 12000, cfg.Truncate)
	assert.Equal(t, "src/**/*.py", cfg.Pattern)
}

func TestLoad_FallbackEnvironmentNames(t *testing.T) {
	isolate(t)
	t.Setenv("LLM_API_KEY", "generic-key")
	t.Setenv("LLM_ENDPOINT", "https://llm.example.com")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "generic-key", cfg.APIKey)
	assert.Equal(t, "https://llm.example.com", cfg.Endpoint)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://env.example.com")
	t.Setenv("TESTGEN_OUTPUT_DIR", "from-env")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{
		"--endpoint", "https://flag.example.com",
		"--temperature", "0.5",
		"--provider", "openai",
	}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example.com", cfg.Endpoint)
	assert.Equal(t, "openai", cfg.Provider)
	assert.InDelta(t, 0.5, cfg.Temperature, 1e-6)
	// Unchanged flags keep the environment value
	assert.Equal(t, "from-env", cfg.OutputDir)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AZURE_OPENAI_API_KEY=dotenv-key\n"), 0644))
	// godotenv sets variables on the process, remove it again afterwards
	t.Cleanup(func() { _ = os.Unsetenv("AZURE_OPENAI_API_KEY") })

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "dotenv-key", cfg.APIKey)
}

func TestLoad_BitriseSourceDir(t *testing.T) {
	isolate(t)
	t.Setenv("BITRISE_IO", "true")
	t.Setenv("BITRISE_SOURCE_DIR", "/bitrise/src")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "/bitrise/src", cfg.Root)
}
