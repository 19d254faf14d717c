package prompt

import (
	"fmt"

	"github.com/bitrise-io/bitrise-plugins-ai-testgen/common"
)

const defaultRole = "You are a Python expert specializing in code quality and test case generation. Your reviews are constructive, specific, and educational."

func GetSystemPrompt(settings common.Settings) string {
	basePrompt := defaultRole
	if settings.Tone != "" {
		basePrompt = settings.Tone
	}

	if settings.Language != "" && settings.Language != "en-US" {
		basePrompt += fmt.Sprintf("\nWrite comments and log messages in %s language.", settings.Language)
	}

	return basePrompt
}
