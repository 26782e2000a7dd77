// Package ai provides sentiment analysis and smart-reply generation through
// an OpenAI-compatible chat-completions endpoint (Groq by default).
//
// The client is deliberately failure-tolerant: when no API key is configured,
// or when a live call errors, it answers from rule-based heuristics instead
// of surfacing the failure. The widget renders either way.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"salescopilot/pkg/config"

	osdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama3-8b-8192"
	defaultAPIKey  = "GROQ_API_KEY"

	sentimentPrompt = "Analyze the sentiment of the following customer message. Return ONLY a JSON object with 'score' (-1 to 1) and 'label' (Positive, Neutral, Negative)."
)

// Sentiment is the analyzed mood of one customer message.
type Sentiment struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// ReplyContext gives the reply generator the customer state it should write
// suggestions against.
type ReplyContext struct {
	Email       string `json:"email,omitempty"`
	OrderStatus string `json:"order_status,omitempty"`
}

// Client wraps the completion endpoint plus the heuristic fallback.
type Client struct {
	client         osdk.Client
	model          string
	enabled        bool
	requestTimeout time.Duration
	log            *slog.Logger
}

// NewClient builds an AI client from configuration. A missing API key yields
// a heuristic-only client rather than an error.
func NewClient(cfg config.AIConfig, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "ai.client")

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	requestTimeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	apiKey := resolveAPIKey(cfg)
	if apiKey == "" {
		log.Info("AI key not configured, using heuristic responses")
		return &Client{model: model, requestTimeout: requestTimeout, log: log}
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	}
	if requestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(requestTimeout))
	}

	return &Client{
		client:         osdk.NewClient(opts...),
		model:          model,
		enabled:        true,
		requestTimeout: requestTimeout,
		log:            log,
	}
}

// Enabled reports whether live completions are configured.
func (c *Client) Enabled() bool { return c.enabled }

// Health verifies the completion endpoint is reachable. Heuristic-only
// clients are always healthy.
func (c *Client) Health(ctx context.Context) error {
	if !c.enabled {
		return nil
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if _, err := c.client.Models.List(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	return nil
}

// AnalyzeSentiment scores one customer message. Empty input and any live
// failure fall back to keyword heuristics.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error) {
	if strings.TrimSpace(text) == "" || !c.enabled {
		return heuristicSentiment(text), nil
	}

	content, err := c.complete(ctx, sentimentPrompt, text, 0.1)
	if err != nil {
		c.log.Warn("Sentiment analysis failed, using heuristic", "error", err)
		return heuristicSentiment(text), nil
	}

	var result Sentiment
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		c.log.Warn("Sentiment response was not valid JSON, using heuristic", "error", err)
		return heuristicSentiment(text), nil
	}
	if result.Label == "" {
		result.Label = "Neutral"
	}
	result.Label = cleanLabel(result.Label)

	return result, nil
}

// SmartReplies generates three short reply suggestions for the operator.
func (c *Client) SmartReplies(ctx context.Context, text string, replyCtx ReplyContext) ([]string, error) {
	if strings.TrimSpace(text) == "" || !c.enabled {
		return heuristicReplies(replyCtx), nil
	}

	contextJSON, err := json.Marshal(replyCtx)
	if err != nil {
		return heuristicReplies(replyCtx), nil
	}
	systemPrompt := fmt.Sprintf(
		"You are a helpful e-commerce support agent. Context: %s. Generate 3 short, professional reply suggestions for the operator to send. Return ONLY a JSON object with a key 'replies' containing an array of 3 strings.",
		contextJSON,
	)

	content, err := c.complete(ctx, systemPrompt, text, 0.3)
	if err != nil {
		c.log.Warn("Smart reply generation failed, using heuristic", "error", err)
		return heuristicReplies(replyCtx), nil
	}

	var result struct {
		Replies []string `json:"replies"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil || len(result.Replies) == 0 {
		c.log.Warn("Smart reply response was not valid JSON, using heuristic", "error", err)
		return heuristicReplies(replyCtx), nil
	}

	return result.Replies, nil
}

// complete runs one JSON-mode chat completion and returns the raw content.
func (c *Client) complete(ctx context.Context, systemPrompt, userText string, temperature float64) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	startedAt := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, osdk.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []osdk.ChatCompletionMessageParamUnion{
			osdk.SystemMessage(systemPrompt),
			osdk.UserMessage(userText),
		},
		Temperature: osdk.Float(temperature),
		ResponseFormat: osdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	c.log.Debug("Completion finished", "model", c.model, "duration_ms", time.Since(startedAt).Milliseconds())

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("chat completion returned empty content")
	}

	return content, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requestTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.requestTimeout)
}

func resolveAPIKey(cfg config.AIConfig) string {
	apiKeyEnv := strings.TrimSpace(cfg.APIKeyEnv)
	if apiKeyEnv == "" {
		apiKeyEnv = defaultAPIKey
	}

	return strings.TrimSpace(os.Getenv(apiKeyEnv))
}

// heuristicSentiment is the offline safety net: coarse keyword scoring so the
// widget still shows a mood when the model is unreachable.
func heuristicSentiment(text string) Sentiment {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "angry", "late", "bad", "refund", "broken"):
		return Sentiment{Score: -0.8, Label: "Negative"}
	case containsAny(lower, "love", "great", "thanks", "perfect"):
		return Sentiment{Score: 0.9, Label: "Positive"}
	default:
		return Sentiment{Score: 0, Label: "Neutral"}
	}
}

func heuristicReplies(replyCtx ReplyContext) []string {
	if replyCtx.OrderStatus == "unfulfilled" {
		return []string{
			"I can check the status of your shipment right now.",
			"It looks like your order is being packed.",
			"Would you like me to expedite this for you?",
		}
	}

	return []string{
		"Hello! How can I help you with your order today?",
		"Could you please confirm your order number?",
		"I can certainly help you with that request.",
	}
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}

	return false
}

// cleanLabel strips emoji and symbol runes some models prepend to labels; the
// widget metric layout renders plain text only.
func cleanLabel(label string) string {
	var b strings.Builder
	for _, r := range label {
		if (r >= 0x2011 && r <= 0x27BF) || (r >= 0xE000 && r <= 0xF8FF) || r >= 0x1F000 {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}
