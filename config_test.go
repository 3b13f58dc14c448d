package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSettingsMissingFileFallsBack(t *testing.T) {
	settings, err := loadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}

	if settings.StateFile != "story_state.json" {
		t.Errorf("StateFile = %q, want default", settings.StateFile)
	}
	if settings.QualityGate != "strict" {
		t.Errorf("QualityGate = %q, want strict default", settings.QualityGate)
	}
	if settings.LLM.Provider != "anthropic" {
		t.Errorf("LLM.Provider = %q, want anthropic default", settings.LLM.Provider)
	}
}

func TestLoadSettingsPartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `persona_name: "Jane Doe"
llm:
  provider: openai
  model: gpt-4o
`
	os.WriteFile(path, []byte(content), 0644)

	settings, err := loadSettings(path)
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}

	if settings.PersonaName != "Jane Doe" {
		t.Errorf("PersonaName = %q", settings.PersonaName)
	}
	if settings.LLM.Provider != "openai" || settings.LLM.Model != "gpt-4o" {
		t.Errorf("LLM = %+v", settings.LLM)
	}
	// Unset fields pick up defaults.
	if settings.Hashtags == "" {
		t.Error("Hashtags default not applied")
	}
	if settings.LinkedIn.APIVersion != "202411" {
		t.Errorf("APIVersion = %q, want 202411 default", settings.LinkedIn.APIVersion)
	}
	if settings.LinkedIn.BaseURL != "https://api.linkedin.com" {
		t.Errorf("BaseURL = %q, want production default", settings.LinkedIn.BaseURL)
	}
}

func TestLoadSettingsRequiredMissingFile(t *testing.T) {
	if _, err := loadSettingsRequired(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing required settings file")
	}
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	os.WriteFile(path, []byte(":\n  - bad: ["), 0644)

	if _, err := loadSettings(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestPermissiveGate(t *testing.T) {
	tests := []struct {
		name string
		gate string
		want bool
	}{
		{"strict", "strict", false},
		{"permissive", "permissive", true},
		{"default empty after load", "", false},
		{"unknown value", "lenient", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Settings: &Settings{QualityGate: tt.gate}}
			if got := config.PermissiveGate(); got != tt.want {
				t.Errorf("PermissiveGate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPromptOverrides(t *testing.T) {
	dir := t.TempDir()
	writerPath := filepath.Join(dir, "writer.md")
	os.WriteFile(writerPath, []byte("custom writer prompt"), 0644)

	config := &Config{
		Settings:  defaultSettingsValues(),
		Overrides: &ConfigOverrides{WriterPromptPath: &writerPath},
	}

	if got := config.GetWriterSystemPrompt(); got != "custom writer prompt" {
		t.Errorf("GetWriterSystemPrompt() = %q, want override content", got)
	}

	// Editor prompt was not overridden; embedded rubric applies.
	if !strings.Contains(config.GetEditorSystemPrompt(), "PASS_9_PLUS") {
		t.Error("embedded editor prompt missing verdict token")
	}
}

func TestEmbeddedDefaults(t *testing.T) {
	config := &Config{Settings: defaultSettingsValues()}

	if !strings.Contains(config.GetWriterSystemPrompt(), "post_text") {
		t.Error("embedded writer prompt missing output contract")
	}
	if !strings.Contains(config.GetDraftSchema(), "lesson_extracted") {
		t.Error("embedded draft schema missing lesson_extracted")
	}
	if !strings.Contains(defaultSettings, "quality_gate: strict") {
		t.Error("embedded settings should default to the strict gate")
	}
}
