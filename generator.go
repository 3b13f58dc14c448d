package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/aktagon/llmkit/anthropic/agents"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// verdictPass is the only editor response that lets a draft through. Anything
// else counts as a rejection.
const verdictPass = "PASS_9_PLUS"

// maxAttempts bounds the generate→review loop.
const maxAttempts = 2

// TextGenerator abstracts the generative backend so the quality gate can be
// exercised with stubs. A non-empty schema asks for structured JSON output.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt, schema string) (string, error)
}

// AnthropicGenerator is the default backend, using llmkit chat agents.
type AnthropicGenerator struct {
	agent    *agents.ChatAgent
	settings LLMSettings
}

// NewAnthropicGenerator creates the llmkit-backed generator
func NewAnthropicGenerator(apiKey string, settings LLMSettings) (*AnthropicGenerator, error) {
	agent, err := agents.New(apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating chat agent: %w", err)
	}
	return &AnthropicGenerator{agent: agent, settings: settings}, nil
}

func (g *AnthropicGenerator) Generate(_ context.Context, systemPrompt, userPrompt, schema string) (string, error) {
	response, err := g.agent.Chat(userPrompt, &agents.ChatOptions{
		SystemPrompt: systemPrompt,
		Schema:       schema,
		MaxTokens:    g.settings.MaxTokens,
		Temperature:  g.settings.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic chat: %w", err)
	}
	return response.Text, nil
}

// OpenAIGenerator is the alternate backend, selected with llm.provider: openai.
type OpenAIGenerator struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAIGenerator creates the openai-go backed generator
func NewOpenAIGenerator(apiKey string, settings LLMSettings) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key missing")
	}
	if settings.Model == "" {
		return nil, fmt.Errorf("llm model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if settings.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.BaseURL))
	}
	return &OpenAIGenerator{model: settings.Model, opts: opts}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, systemPrompt, userPrompt, schema string) (string, error) {
	client := openai.NewClient(g.opts...)

	if schema != "" {
		systemPrompt = systemPrompt + "\n\nRespond with a single JSON object only, no surrounding text."
	}

	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(userPrompt),
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(g.model),
		Messages: msgs,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// newTextGenerator picks the backend configured in settings.
func newTextGenerator(config *Config) (TextGenerator, error) {
	switch config.Settings.LLM.Provider {
	case "openai":
		return NewOpenAIGenerator(config.GenerativeAPIKey, config.Settings.LLM)
	case "anthropic", "":
		return NewAnthropicGenerator(config.GenerativeAPIKey, config.Settings.LLM)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", config.Settings.LLM.Provider)
	}
}

// StoryGenerator produces drafts that have passed editorial review.
type StoryGenerator struct {
	gen    TextGenerator
	config *Config
}

// NewStoryGenerator creates a quality-gated generator
func NewStoryGenerator(gen TextGenerator, config *Config) *StoryGenerator {
	return &StoryGenerator{gen: gen, config: config}
}

// GenerateWithReview runs the bounded generate→sanitize→review loop.
//
// Each attempt makes two calls: the writer call (structured JSON, parsed into
// post_text/lesson_extracted; parse failure is fatal with no retry) and the
// editor call, whose response must be exactly PASS_9_PLUS to accept. After a
// rejection the rewrite directive is appended and the extended prompt is used
// for the next attempt. Two rejections end the run unless the permissive gate
// is enabled in settings, in which case the last draft is kept with a warning.
func (sg *StoryGenerator) GenerateWithReview(ctx context.Context, userPrompt string, forbiddenPhrases []string) (*Draft, error) {
	systemPrompt := sg.config.GetWriterSystemPrompt()
	editorPrompt := sg.config.GetEditorSystemPrompt()
	schema := sg.config.GetDraftSchema()

	prompt := userPrompt
	var lastRejected *Draft

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		log.Printf("→ Generation attempt %d/%d", attempt, maxAttempts)

		raw, err := sg.gen.Generate(ctx, systemPrompt, prompt, schema)
		if err != nil {
			return nil, fmt.Errorf("writer call: %w", err)
		}

		var out generated
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, fmt.Errorf("parsing writer response: %w", err)
		}

		post := sanitizePost(out.PostText, forbiddenPhrases)
		debugLog("sanitized post (%d chars)", len(post))

		verdict, err := sg.gen.Generate(ctx, editorPrompt, buildEditorPrompt(post), "")
		if err != nil {
			return nil, fmt.Errorf("editor call: %w", err)
		}
		verdict = strings.TrimSpace(verdict)
		log.Printf("  Editor verdict: %s", verdict)

		draft := &Draft{PostText: post, LessonExtracted: out.LessonExtracted}
		if verdict == verdictPass {
			return draft, nil
		}

		lastRejected = draft
		prompt = prompt + rewriteDirective
	}

	if sg.config.PermissiveGate() && lastRejected != nil {
		log.Printf("✗ Failed editorial review %d times; keeping last draft (permissive gate)", maxAttempts)
		return lastRejected, nil
	}

	return nil, fmt.Errorf("draft failed editorial review after %d attempts", maxAttempts)
}
