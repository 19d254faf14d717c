package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/bitrise-io/bitrise-plugins-ai-testgen/ci"
	"github.com/bitrise-io/bitrise-plugins-ai-testgen/common"
	"github.com/bitrise-io/bitrise-plugins-ai-testgen/config"
	"github.com/bitrise-io/bitrise-plugins-ai-testgen/generator"
	"github.com/bitrise-io/bitrise-plugins-ai-testgen/git"
	"github.com/bitrise-io/bitrise-plugins-ai-testgen/llm"
	"github.com/bitrise-io/bitrise-plugins-ai-testgen/logger"
	"github.com/bitrise-io/bitrise-plugins-ai-testgen/output"
	"github.com/bitrise-io/bitrise-plugins-ai-testgen/source"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var successStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("42")).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("42")).
	Padding(0, 1)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate tests for a codebase using AI",
	Long: `Collect the source files below the root directory, ask the configured LLM provider
to write tests for them and store the answer in the output file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		log := logger.New(logger.Config{
			Level:   cfg.LogLevel,
			File:    cfg.LogFile,
			Console: cmd.OutOrStdout(),
		})
		defer log.Sync()

		return runGenerate(cmd, cfg, log)
	},
}

func runGenerate(cmd *cobra.Command, cfg config.Config, log *logger.Logger) error {
	log.Debugf("Log level set to: %s", cfg.LogLevel)

	settings := common.WithYamlFile(cfg.Settings, log.SugaredLogger)

	// The client is built first so missing credentials abort before any file is read
	client, err := llm.NewLLM(cfg.Provider, cfg.Model,
		llm.WithAPIKey(cfg.APIKey),
		llm.WithBaseURL(cfg.Endpoint),
		llm.WithAPIVersion(cfg.APIVersion),
		llm.WithDeployment(cfg.Deployment),
		llm.WithTemperature(cfg.Temperature),
		llm.WithMaxTokens(cfg.MaxTokens),
		llm.WithAPITimeout(cfg.APITimeout),
	)
	if err != nil {
		log.Errorf("Failed to create client for LLM provider %s: %v", cfg.Provider, err)
		return err
	}
	if cfg.Model != "" {
		log.Infof("Using LLM provider %s with model %s", cfg.Provider, cfg.Model)
	} else {
		log.Infof("Using LLM provider %s with its default model", cfg.Provider)
	}

	opts := source.Options{
		Extensions: settings.Source.Extensions,
		Ignore:     settings.Source.Ignore,
		Pattern:    cfg.Pattern,
		GitTracked: settings.Source.GitTracked,
	}
	collector := source.NewCollector(log.SugaredLogger, os.DirFS(cfg.Root), opts)
	if opts.GitTracked {
		collector.WithGit(git.NewClient(git.NewDefaultRunner(cfg.Root)))
	}

	writer := output.NewWriter(log.SugaredLogger, cfg.OutputDir, cfg.OutputFile)
	log.Debugf("Generated tests will be written to %s", cfg.OutputPath())

	start := time.Now()
	gen := generator.New(log.SugaredLogger, collector, client, writer, settings, generator.Options{
		Truncate: cfg.Truncate,
	})
	result, err := gen.Run(cmd.Context())
	if err != nil {
		return err
	}

	if deployDir := ci.GetDeployDir(); deployDir != "" {
		artifact := output.NewWriter(log.SugaredLogger, deployDir, cfg.OutputFile)
		if _, err := artifact.Write(result.Content); err != nil {
			log.Warnf("Failed to export generated tests to the deploy dir: %v", err)
		}
	}

	log.Infow("Test generation finished",
		"files", result.Files,
		"source_length", result.SourceLength,
		"truncated", result.Truncated,
		"prompt_hash", fmt.Sprintf("%016x", result.PromptHash),
		"duration", time.Since(start),
	)
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Tests written to %s", result.OutputPath)))
	return nil
}

func init() {
	rootCmd.AddCommand(generateCmd)

	d := config.DefaultConfig
	generateCmd.Flags().StringP("provider", "p", d.Provider, "LLM provider to use (azure, openai, anthropic)")
	generateCmd.Flags().StringP("model", "m", d.Model, "LLM model to use for test generation, defaults per provider")
	generateCmd.Flags().String("deployment", d.Deployment, "Azure OpenAI deployment name")
	generateCmd.Flags().String("endpoint", "", "Endpoint of the LLM provider (required for azure)")
	generateCmd.Flags().String("api-version", d.APIVersion, "Azure OpenAI API version")
	generateCmd.Flags().Float32("temperature", d.Temperature, "Sampling temperature, 0 is the most deterministic")
	generateCmd.Flags().Int("max-tokens", d.MaxTokens, "Maximum number of tokens in the completion")
	generateCmd.Flags().Int("api-timeout", d.APITimeout, "Timeout of the completion request in seconds")
	generateCmd.Flags().StringP("root", "r", d.Root, "Directory to collect source files from")
	generateCmd.Flags().String("pattern", "", "Glob pattern relative to the root, supports **")
	generateCmd.Flags().Int("truncate", 0, "Limit the collected source to this many characters, 0 disables it")
	generateCmd.Flags().String("output-dir", d.OutputDir, "Directory of the generated test file")
	generateCmd.Flags().String("output-file", d.OutputFile, "Name of the generated test file")
	generateCmd.Flags().String("settings", "", "Path of the settings file, defaults to testgen.bitrise.yml")
}
