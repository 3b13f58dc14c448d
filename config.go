package main

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".linkedin-journey/"

// Embedded configuration files
//
//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/writer-system-prompt.md
var writerSystemPrompt string

//go:embed config/writer-user-prompt.md
var writerUserPrompt string

//go:embed config/editor-system-prompt.md
var editorSystemPrompt string

//go:embed config/draft-output-schema.json
var draftSchema string

// ConfigOverrides holds file path overrides for embedded configurations
type ConfigOverrides struct {
	WriterPromptPath *string
	EditorPromptPath *string
	SettingsPath     *string
}

// LLMSettings configures the generative backend.
type LLMSettings struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// LinkedInSettings configures the social API surface.
type LinkedInSettings struct {
	APIVersion string `yaml:"api_version"`
	BaseURL    string `yaml:"base_url"`
}

// Settings represents the YAML configuration structure
type Settings struct {
	PersonaName string           `yaml:"persona_name"`
	Hashtags    string           `yaml:"hashtags"`
	StateFile   string           `yaml:"state_file"`
	DraftFile   string           `yaml:"draft_file"`
	ImageFolder string           `yaml:"image_folder"`
	QualityGate string           `yaml:"quality_gate"`
	LLM         LLMSettings      `yaml:"llm"`
	LinkedIn    LinkedInSettings `yaml:"linkedin"`
}

// Config bundles settings, overrides, and secrets. Components receive it at
// construction; none of them read the process environment directly.
type Config struct {
	Settings  *Settings
	Overrides *ConfigOverrides

	// Secrets, read from the environment once in main.
	GenerativeAPIKey string
	LinkedInToken    string
}

// NewConfig creates a Config from the settings file (or embedded defaults)
// plus any overrides.
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	if err := ensureConfigExists(); err != nil {
		return nil, fmt.Errorf("ensuring config files exist: %w", err)
	}

	var settings *Settings
	var err error
	if overrides != nil && overrides.SettingsPath != nil {
		settings, err = loadSettingsRequired(*overrides.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("settings file missing: %s: %w", *overrides.SettingsPath, err)
		}
	} else {
		settings, err = loadSettings(filepath.Join(defaultConfigDir, "settings.yaml"))
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
	}

	return &Config{
		Settings:  settings,
		Overrides: overrides,
	}, nil
}

// GetWriterSystemPrompt returns the writer system prompt (from override file or embedded)
func (c *Config) GetWriterSystemPrompt() string {
	if c.Overrides != nil && c.Overrides.WriterPromptPath != nil {
		if content, err := os.ReadFile(*c.Overrides.WriterPromptPath); err == nil {
			return string(content)
		}
	}
	return writerSystemPrompt
}

// GetWriterUserPrompt returns the writer user prompt template (embedded only)
func (c *Config) GetWriterUserPrompt() string {
	return writerUserPrompt
}

// GetEditorSystemPrompt returns the editor rubric (from override file or embedded)
func (c *Config) GetEditorSystemPrompt() string {
	if c.Overrides != nil && c.Overrides.EditorPromptPath != nil {
		if content, err := os.ReadFile(*c.Overrides.EditorPromptPath); err == nil {
			return string(content)
		}
	}
	return editorSystemPrompt
}

// GetDraftSchema returns the structured-output schema for the writer call
func (c *Config) GetDraftSchema() string {
	return draftSchema
}

// PermissiveGate reports whether a draft that fails editorial review twice
// may still be published. Strict is the default; permissive is an explicit
// opt-in via settings.
func (c *Config) PermissiveGate() bool {
	return c.Settings.QualityGate == "permissive"
}

// loadSettings loads settings from YAML file with fallback to defaults
func loadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return defaultSettingsValues(), nil
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	applySettingsDefaults(&settings)

	return &settings, nil
}

// loadSettingsRequired loads settings from YAML file, failing if file doesn't exist
func loadSettingsRequired(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	applySettingsDefaults(&settings)

	return &settings, nil
}

func defaultSettingsValues() *Settings {
	s := &Settings{}
	applySettingsDefaults(s)
	return s
}

// applySettingsDefaults fills in anything the settings file left blank.
func applySettingsDefaults(s *Settings) {
	if s.PersonaName == "" {
		s.PersonaName = "Pankaj Kumar"
	}
	if s.Hashtags == "" {
		s.Hashtags = "#backend #engineering #software #java"
	}
	if s.StateFile == "" {
		s.StateFile = "story_state.json"
	}
	if s.DraftFile == "" {
		s.DraftFile = "current_draft.json"
	}
	if s.ImageFolder == "" {
		s.ImageFolder = "images"
	}
	if s.QualityGate == "" {
		s.QualityGate = "strict"
	}
	if s.LLM.Provider == "" {
		s.LLM.Provider = "anthropic"
	}
	if s.LLM.Model == "" {
		s.LLM.Model = "claude-sonnet-4-20250514"
	}
	if s.LLM.MaxTokens == 0 {
		s.LLM.MaxTokens = 2000
	}
	if s.LinkedIn.APIVersion == "" {
		s.LinkedIn.APIVersion = "202411"
	}
	if s.LinkedIn.BaseURL == "" {
		s.LinkedIn.BaseURL = "https://api.linkedin.com"
	}
}

// ensureConfigExists creates config directory and writes settings.yaml if needed
func ensureConfigExists() error {
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write settings.yaml - this should be customized by users
	settingsFile := filepath.Join(defaultConfigDir, "settings.yaml")
	if _, err := os.Stat(settingsFile); os.IsNotExist(err) {
		if err := os.WriteFile(settingsFile, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("writing settings.yaml: %w", err)
		}
	}

	return nil
}

var debugEnabled bool

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}
