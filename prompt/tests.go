package prompt

import (
	"strings"

	"github.com/bitrise-io/bitrise-plugins-ai-testgen/common"
)

const seleniumTemplate = `Generate comprehensive Selenium test cases in Python using pytest format.
Follow this exact structure:

from selenium import webdriver
import pytest

class TestGeneratedCases:
    @pytest.fixture(scope='class')
    def setup(self):
        logger.info("Initializing browser")
        driver = webdriver.Chrome()
        yield driver
        driver.quit()

    # Add test methods here with detailed logging

Include:
- Detailed logging using Python's logging module
- Assertions for proper validation
- Error handling with try/except blocks
- Page interaction best practices
- Comments explaining test logic`

const pytestTemplate = `Generate comprehensive unit tests in Python using pytest format.
Follow this exact structure:

import pytest

def test_<behaviour_under_test>():
    # Arrange
    # Act
    # Assert

Include:
- One test function per behaviour, named after what it verifies
- Edge cases and error paths using pytest.raises
- Fixtures for shared setup
- Comments explaining test logic`

// GetTestPrompt returns the user prompt asking for a test suite of the given code
func GetTestPrompt(settings common.Settings, code string) string {
	var b strings.Builder

	b.WriteString(template(settings.Tests.Template))
	b.WriteString("\n")

	if instructions := strings.TrimSpace(settings.Tests.Instructions); instructions != "" {
		b.WriteString("\nAdditional instructions:\n")
		b.WriteString(instructions)
		b.WriteString("\n")
	}

	b.WriteString("\nTarget codebase:\n")
	b.WriteString(code)

	return b.String()
}

func template(name string) string {
	switch name {
	case common.TemplatePytest:
		return pytestTemplate
	default:
		return seleniumTemplate
	}
}
