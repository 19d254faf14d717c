package common

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	TemplateSelenium = "selenium"
	TemplatePytest   = "pytest"
)

// SettingsFileNames are the file names looked up when no explicit path is given
var SettingsFileNames = []string{"testgen.bitrise.yml", "testgen.bitrise.yaml"}

type Source struct {
	Extensions []string `yaml:"extensions"`
	Ignore     []string `yaml:"ignore"`
	GitTracked bool     `yaml:"git_tracked"`
}

type Tests struct {
	Template     string `yaml:"template"`
	Instructions string `yaml:"instructions"`
}

type Settings struct {
	Language string `yaml:"language"`
	Tone     string `yaml:"tone_instructions"`
	Source   Source `yaml:"source"`
	Tests    Tests  `yaml:"tests"`
}

func WithDefaultSettings() Settings {
	return Settings{
		Language: "en-US",
		Source: Source{
			Extensions: []string{".py", ".js", ".html"},
			Ignore:     []string{".git", "node_modules", ".venv", "__pycache__"},
		},
		Tests: Tests{
			Template: TemplateSelenium,
		},
	}
}

// WithYamlFile loads settings from path. When path is empty the settings file is
// searched in the current directory and its subdirectories. Missing or invalid
// files leave the defaults in place.
func WithYamlFile(path string, log *zap.SugaredLogger) Settings {
	settings := WithDefaultSettings()

	filePath := path
	if filePath == "" {
		filePath = findSettingsFile()
	}

	if filePath == "" {
		log.Infof("No settings file found in the current directory or subdirectories. Using default settings.")
		return settings
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Warnf("Failed to read settings file %s: %v", filePath, err)
		return settings
	}

	parsed := settings
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		log.Warnf("Failed to parse YAML file %s: %v", filePath, err)
		return settings
	}

	log.Infof("Using settings from YAML file: %s", filePath)
	return parsed
}

func findSettingsFile() string {
	for _, name := range SettingsFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	var filePath string
	_ = filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if filePath != "" {
			return filepath.SkipAll
		}
		if d.IsDir() {
			return nil
		}
		for _, name := range SettingsFileNames {
			if d.Name() == name {
				filePath = path
				return filepath.SkipAll
			}
		}
		return nil
	})

	return filePath
}
