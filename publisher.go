package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// maxPostLength is the hard ceiling on a composed post.
const maxPostLength = 2800

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Publisher consumes the pending draft and pushes it to LinkedIn. Rotation
// state advances only after the remote publish is confirmed; any failure
// before that leaves state, draft file, and image untouched so a later run
// can retry.
type Publisher struct {
	client     *LinkedInClient
	stateStore *StateStore
	draftStore *DraftStore
	config     *Config

	pollInterval time.Duration
	pollDeadline time.Duration
	retryBase    time.Duration
	postRetries  int
}

// NewPublisher creates a publisher with default poll and retry policy
func NewPublisher(config *Config, client *LinkedInClient) *Publisher {
	return &Publisher{
		client:       client,
		stateStore:   NewStateStore(config.Settings.StateFile),
		draftStore:   NewDraftStore(config.Settings.DraftFile),
		config:       config,
		pollInterval: 2 * time.Second,
		pollDeadline: 60 * time.Second,
		retryBase:    time.Second,
		postRetries:  2,
	}
}

// Publish runs the publish phase end to end. A missing draft is reported and
// the run exits cleanly; everything else is ordered so that no local mutation
// happens before the post creation is confirmed.
func (p *Publisher) Publish(ctx context.Context) error {
	draft, err := p.draftStore.Load()
	if err != nil {
		return err
	}
	if draft == nil {
		log.Printf("⚠ No draft found. Run the draft phase first.")
		return nil
	}

	memberID, err := p.client.Whoami(ctx)
	if err != nil {
		return fmt.Errorf("resolving member identity: %w", err)
	}
	debugLog("authenticated as member %s", memberID)

	imagePath := findCandidateImage(p.config.Settings.ImageFolder)
	imageURN := ""
	if imagePath != "" {
		log.Printf("→ Found image: %s", imagePath)
		urn, err := p.uploadImage(ctx, memberID, imagePath)
		if err != nil {
			log.Printf("⚠ Image upload failed, posting text only: %v", err)
		} else if p.waitForImage(ctx, urn) {
			log.Printf("✓ Image ready")
			imageURN = urn
		} else {
			log.Printf("⚠ Image never became available, posting text only")
		}
	}

	text := composePost(draft.PostText, p.fixedCTA(), p.config.Settings.Hashtags)

	if err := p.createPostWithRetry(ctx, memberID, text, imageURN); err != nil {
		return err
	}

	// Publish confirmed; only now does local state move.
	state := p.stateStore.Load()
	state.recordPublish(draft)
	if err := p.stateStore.Save(state); err != nil {
		return fmt.Errorf("saving rotation state: %w", err)
	}

	if err := p.draftStore.Delete(); err != nil {
		return err
	}
	if imagePath != "" && imageURN != "" {
		if err := os.Remove(imagePath); err != nil {
			log.Printf("⚠ Could not remove used image %s: %v", imagePath, err)
		}
	}

	log.Printf("✓ Published successfully (act %d, next episode %d)", state.ActIndex+1, state.Episode)
	return nil
}

// fixedCTA is the call-to-action block appended to every post.
func (p *Publisher) fixedCTA() string {
	return fmt.Sprintf("♻️ Found this useful? Repost to save a teammate from debugging hell.\n\n➕ Follow %s for more Backend Engineering war stories.", p.config.Settings.PersonaName)
}

// composePost appends the fixed CTA and hashtag suffix to the story and
// enforces the length ceiling. When over the ceiling only the story portion
// is cut, with an ellipsis marker; the fixed suffix always survives verbatim.
func composePost(story, cta, hashtags string) string {
	story = strings.TrimSpace(story)
	suffix := "\n\n" + cta + "\n\n" + hashtags

	full := story + suffix
	if utf8.RuneCountInString(full) <= maxPostLength {
		return full
	}

	marker := "..."
	available := maxPostLength - utf8.RuneCountInString(suffix) - utf8.RuneCountInString(marker)
	if available < 0 {
		available = 0
	}
	runes := []rune(story)
	if available < len(runes) {
		runes = runes[:available]
	}
	return string(runes) + marker + suffix
}

// findCandidateImage returns the first image file in the folder, in sorted
// name order, or "" when there is none. os.ReadDir sorts by filename, which
// keeps the choice deterministic across platforms.
func findCandidateImage(folder string) string {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if imageExtensions[ext] {
			return filepath.Join(folder, entry.Name())
		}
	}
	return ""
}

// uploadImage opens an upload session and PUTs the image bytes.
func (p *Publisher) uploadImage(ctx context.Context, memberID, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	uploadURL, imageURN, err := p.client.InitializeUpload(ctx, memberID)
	if err != nil {
		return "", fmt.Errorf("initializing upload: %w", err)
	}

	if err := p.client.UploadBytes(ctx, uploadURL, data); err != nil {
		return "", fmt.Errorf("uploading image bytes: %w", err)
	}

	return imageURN, nil
}

// waitForImage polls the image status until it is AVAILABLE, terminally
// failed, or the deadline passes. Poll errors are treated the same as a
// still-processing response. False never aborts a publish; the post simply
// goes out text-only.
func (p *Publisher) waitForImage(ctx context.Context, imageURN string) bool {
	deadline := time.Now().Add(p.pollDeadline)
	for time.Now().Before(deadline) {
		status, err := p.client.ImageStatus(ctx, imageURN)
		if err == nil {
			switch status {
			case imageStateAvailable:
				return true
			case imageStateFailed, imageStateError:
				return false
			}
		} else {
			debugLog("image status poll: %v", err)
		}
		time.Sleep(p.pollInterval)
	}
	return false
}

// createPostWithRetry submits the post. 4xx responses are permanent and
// returned immediately; 5xx and transport errors are retried with
// exponential backoff before giving up.
func (p *Publisher) createPostWithRetry(ctx context.Context, memberID, text, imageURN string) error {
	var lastErr error
	for attempt := 0; attempt <= p.postRetries; attempt++ {
		if attempt > 0 {
			delay := p.retryBase << (attempt - 1)
			log.Printf("→ Retrying post in %s", delay)
			time.Sleep(delay)
		}

		err := p.client.CreatePost(ctx, memberID, text, imageURN)
		if err == nil {
			return nil
		}

		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.Permanent() {
			return fmt.Errorf("post rejected: %w", err)
		}

		lastErr = err
		log.Printf("✗ Post attempt %d failed: %v", attempt+1, err)
	}
	return fmt.Errorf("creating post: %w", lastErr)
}
