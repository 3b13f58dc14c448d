// statectl is a small maintenance tool for the bot's local files: inspect
// the rotation state, reset the arc, or throw away a stale draft.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

type rotationState struct {
	ActIndex        int      `json:"act_index"`
	Episode         int      `json:"episode"`
	PreviousLessons []string `json:"previous_lessons"`
	LastThemes      []string `json:"last_themes"`
	LastTech        []string `json:"last_tech"`
}

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: statectl <show|reset|clear-draft> <file>")
	}

	command := os.Args[1]
	path := os.Args[2]

	switch command {
	case "show":
		if err := show(path); err != nil {
			log.Fatal(err)
		}
	case "reset":
		if err := reset(path); err != nil {
			log.Fatal(err)
		}
	case "clear-draft":
		if err := clearDraft(path); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("Unknown command %q", command)
	}
}

func show(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading state file %s: %w", path, err)
	}

	var state rotationState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("parsing state file: %w", err)
	}

	fmt.Printf("act_index: %d\n", state.ActIndex)
	fmt.Printf("episode:   %d\n", state.Episode)
	fmt.Printf("lessons:   %d recorded\n", len(state.PreviousLessons))
	fmt.Printf("themes:    %v\n", state.LastThemes)
	fmt.Printf("tech:      %v\n", state.LastTech)
	return nil
}

func reset(path string) error {
	state := rotationState{
		ActIndex:        0,
		Episode:         1,
		PreviousLessons: []string{},
		LastThemes:      []string{},
		LastTech:        []string{},
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	log.Printf("Resetting %s to act 1, episode 1", path)
	return os.WriteFile(path, data, 0644)
}

func clearDraft(path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			log.Printf("No draft at %s, nothing to do", path)
			return nil
		}
		return fmt.Errorf("removing draft %s: %w", path, err)
	}
	log.Printf("Removed draft %s", path)
	return nil
}
