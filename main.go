package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	settingsPath     string
	writerPromptPath string
	editorPromptPath string
	debugMode        bool
)

var rootCmd = &cobra.Command{
	Use:   "linkedin-journey",
	Short: "Scheduled engineering war story bot for LinkedIn",
	Long: `Generates short engineering war story posts with an AI writer and a
self-review quality gate, then publishes them to LinkedIn. The story arc
advances across invocations: run "draft" to produce the next reviewed post
and "publish" to push the pending draft and move the arc forward.`,
}

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Generate and review the next war story draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig()
		if err != nil {
			return err
		}
		config.GenerativeAPIKey = generativeKeyFromEnv(config.Settings.LLM.Provider)

		gen, err := newTextGenerator(config)
		if err != nil {
			return fmt.Errorf("creating generator: %w", err)
		}

		return runDraft(context.Background(), config, gen, nil)
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the pending draft to LinkedIn",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig()
		if err != nil {
			return err
		}
		config.LinkedInToken = os.Getenv("LINKEDIN_ACCESS_TOKEN")

		client := NewLinkedInClient(config, nil)
		publisher := NewPublisher(config, client)
		return publisher.Publish(context.Background())
	},
}

func buildConfig() (*Config, error) {
	overrides := &ConfigOverrides{}
	if settingsPath != "" {
		overrides.SettingsPath = &settingsPath
	}
	if writerPromptPath != "" {
		overrides.WriterPromptPath = &writerPromptPath
	}
	if editorPromptPath != "" {
		overrides.EditorPromptPath = &editorPromptPath
	}

	config, err := NewConfig(overrides)
	if err != nil {
		return nil, err
	}

	if debugMode {
		SetDebugMode(true)
	}

	return config, nil
}

// generativeKeyFromEnv picks the secret matching the configured provider.
// A missing key surfaces as an authentication failure at first use.
func generativeKeyFromEnv(provider string) string {
	if provider == "openai" {
		return os.Getenv("OPENAI_API_KEY")
	}
	return os.Getenv("ANTHROPIC_API_KEY")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to a settings YAML file")
	rootCmd.PersistentFlags().StringVar(&writerPromptPath, "writer-prompt", "", "Path to a custom writer system prompt file")
	rootCmd.PersistentFlags().StringVar(&editorPromptPath, "editor-prompt", "", "Path to a custom editor rubric file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(publishCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("✗ %v", err)
		os.Exit(1)
	}
}
