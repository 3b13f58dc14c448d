package main

import (
	"context"
	"fmt"
	"log"
)

// runDraft executes the draft phase: pick the next act/theme/tech, generate
// a reviewed story, and persist it for a later publish run. Rotation state is
// read-only here; it advances only when the publish is confirmed.
func runDraft(ctx context.Context, config *Config, gen TextGenerator, choose chooser) error {
	stateStore := NewStateStore(config.Settings.StateFile)
	draftStore := NewDraftStore(config.Settings.DraftFile)

	state := stateStore.Load()
	act := state.currentAct()
	theme, tech := selectThemeAndTech(state, choose)

	log.Printf("→ Act:   %s (episode %d)", act.Name, state.Episode)
	log.Printf("→ Theme: %s", theme.Type)
	log.Printf("→ Tech:  %s", tech)

	prompt, err := buildWriterPrompt(config.GetWriterUserPrompt(), act, state.Episode, theme, tech, state.PreviousLessons)
	if err != nil {
		return fmt.Errorf("building writer prompt: %w", err)
	}

	// The narrative labels are context for the model only; they must never
	// appear verbatim in the published text.
	forbidden := []string{act.Name, theme.Type}

	storyGen := NewStoryGenerator(gen, config)
	draft, err := storyGen.GenerateWithReview(ctx, prompt, forbidden)
	if err != nil {
		return err
	}

	draft.MetaTheme = theme.Type
	draft.MetaTech = tech

	if err := draftStore.Save(draft); err != nil {
		return err
	}

	log.Printf("✓ Draft saved: %s", preview(draft.PostText, 150))
	return nil
}

// preview returns the first n runes of text with an ellipsis when cut.
func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
