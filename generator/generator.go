package generator

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/bitrise-io/bitrise-plugins-ai-testgen/common"
	"github.com/bitrise-io/bitrise-plugins-ai-testgen/llm"
	"github.com/bitrise-io/bitrise-plugins-ai-testgen/prompt"
	"github.com/bitrise-io/bitrise-plugins-ai-testgen/source"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
)

// Collector produces the source files embedded in the prompt
type Collector interface {
	Collect() ([]source.File, error)
}

// Writer persists the completion
type Writer interface {
	Write(content string) (string, error)
}

// Options tunes a generation run
type Options struct {
	// Truncate limits the collected source to this many characters, zero disables it
	Truncate int
}

// Result describes a successful run
type Result struct {
	Files        int
	SourceLength int
	Truncated    bool
	PromptHash   uint64
	OutputPath   string
	Content      string
}

// Generator runs collect, prompt, complete and write in sequence
type Generator struct {
	log       *zap.SugaredLogger
	collector Collector
	client    llm.LLM
	writer    Writer
	settings  common.Settings
	opts      Options
}

func New(log *zap.SugaredLogger, collector Collector, client llm.LLM, writer Writer, settings common.Settings, opts Options) *Generator {
	return &Generator{
		log:       log,
		collector: collector,
		client:    client,
		writer:    writer,
		settings:  settings,
		opts:      opts,
	}
}

// Run executes one generation. Any failure aborts the run before the output
// file is touched.
func (g *Generator) Run(ctx context.Context) (Result, error) {
	g.log.Info("Starting test generation process...")

	files, err := g.collector.Collect()
	if err != nil {
		g.log.Errorf("Error reading files: %v", err)
		return Result{}, fmt.Errorf("collect source files: %w", err)
	}
	if len(files) == 0 {
		g.log.Warn("No source files matched, the prompt contains no code")
	}

	code := source.Concatenate(files)
	result := Result{
		Files:        len(files),
		SourceLength: utf8.RuneCountInString(code),
		Truncated:    common.IsTruncated(code, g.opts.Truncate),
	}
	if result.Truncated {
		g.log.Warnf("Source truncated from %d to %d characters", result.SourceLength, g.opts.Truncate)
		code = common.Truncate(code, g.opts.Truncate)
	}

	req := llm.Request{
		SystemPrompt: prompt.GetSystemPrompt(g.settings),
		UserPrompt:   prompt.GetTestPrompt(g.settings, code),
	}
	result.PromptHash = xxh3.HashString(req.UserPrompt)
	g.log.Debugf("Prompt fingerprint %016x, %d characters", result.PromptHash, utf8.RuneCountInString(req.UserPrompt))

	g.log.Info("Sending request to the completion API...")
	resp := g.client.Prompt(ctx, req)
	if resp.Error != nil {
		g.log.Errorf("Test generation failed: %v", resp.Error)
		return Result{}, fmt.Errorf("request completion: %w", resp.Error)
	}
	g.log.Info("Successfully received response from the completion API")
	g.log.Debugf("Generated Test Code:\n%s", resp.Content)

	path, err := g.writer.Write(resp.Content)
	if err != nil {
		g.log.Errorf("Test generation failed: %v", err)
		return Result{}, fmt.Errorf("write generated tests: %w", err)
	}

	result.OutputPath = path
	result.Content = resp.Content
	return result, nil
}
