package config

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/bitrise-plugins-ai-testgen/ci"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the runtime configuration of a generation run
type Config struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	Deployment  string  `mapstructure:"deployment"`
	APIKey      string  `mapstructure:"api_key"`
	Endpoint    string  `mapstructure:"endpoint"`
	APIVersion  string  `mapstructure:"api_version"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	APITimeout  int     `mapstructure:"api_timeout"`

	Root     string `mapstructure:"root"`
	Pattern  string `mapstructure:"pattern"`
	Truncate int    `mapstructure:"truncate"`

	OutputDir  string `mapstructure:"output_dir"`
	OutputFile string `mapstructure:"output_file"`

	Settings string `mapstructure:"settings"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// OutputPath is the file the generated tests are written to
func (c Config) OutputPath() string {
	return filepath.Join(c.OutputDir, c.OutputFile)
}

// DefaultConfig values
var DefaultConfig = Config{
	Provider:    "azure",
	Deployment:  "gpt4o",
	APIVersion:  "2024-08-01-preview",
	Temperature: 0.1,
	MaxTokens:   2500,
	APITimeout:  120,
	Root:        ".",
	OutputDir:   "generated_tests",
	OutputFile:  "test_generated.py",
	LogLevel:    "info",
	LogFile:     "test-output.log",
}

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"provider":    "provider",
	"model":       "model",
	"deployment":  "deployment",
	"endpoint":    "endpoint",
	"api-version": "api_version",
	"temperature": "temperature",
	"max-tokens":  "max_tokens",
	"api-timeout": "api_timeout",
	"root":        "root",
	"pattern":     "pattern",
	"truncate":    "truncate",
	"output-dir":  "output_dir",
	"output-file": "output_file",
	"settings":    "settings",
	"log-level":   "log_level",
	"log-file":    "log_file",
}

// Load builds the configuration from defaults, a .env file in the working
// directory, environment variables and the given flags, in increasing order of
// precedence. Only flags explicitly set on the command line override the
// environment.
func Load(flags *pflag.FlagSet) (Config, error) {
	// A missing .env is the normal case outside local development
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	if err := bindEnv(v); err != nil {
		return Config{}, err
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", DefaultConfig.Provider)
	v.SetDefault("model", "")
	v.SetDefault("deployment", DefaultConfig.Deployment)
	v.SetDefault("api_key", "")
	v.SetDefault("endpoint", "")
	v.SetDefault("api_version", DefaultConfig.APIVersion)
	v.SetDefault("temperature", DefaultConfig.Temperature)
	v.SetDefault("max_tokens", DefaultConfig.MaxTokens)
	v.SetDefault("api_timeout", DefaultConfig.APITimeout)
	v.SetDefault("root", ci.GetSourceDir())
	v.SetDefault("pattern", "")
	v.SetDefault("truncate", 0)
	v.SetDefault("output_dir", DefaultConfig.OutputDir)
	v.SetDefault("output_file", DefaultConfig.OutputFile)
	v.SetDefault("settings", "")
	v.SetDefault("log_level", DefaultConfig.LogLevel)
	v.SetDefault("log_file", DefaultConfig.LogFile)
}

// bindEnv binds environment variables to configuration keys. When several
// variables are listed the first non-empty one wins.
func bindEnv(v *viper.Viper) error {
	bindings := [][]string{
		{"provider", "LLM_PROVIDER"},
		{"model", "LLM_MODEL"},
		{"deployment", "AZURE_OPENAI_DEPLOYMENT"},
		{"api_key", "AZURE_OPENAI_API_KEY", "LLM_API_KEY"},
		{"endpoint", "AZURE_OPENAI_ENDPOINT", "LLM_ENDPOINT"},
		{"api_version", "AZURE_OPENAI_API_VERSION"},
		{"root", "TESTGEN_ROOT"},
		{"pattern", "TESTGEN_PATTERN"},
		{"truncate", "TESTGEN_TRUNCATE"},
		{"output_dir", "TESTGEN_OUTPUT_DIR"},
		{"output_file", "TESTGEN_OUTPUT_FILE"},
		{"settings", "TESTGEN_SETTINGS"},
		{"log_level", "TESTGEN_LOG_LEVEL"},
		{"log_file", "TESTGEN_LOG_FILE"},
	}

	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", b[0], err)
		}
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}
