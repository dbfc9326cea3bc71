// Package openai generates topic trees and course recommendations with the
// OpenAI chat completions API.
package openai

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicmap/pkg/cache"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/integrations"
)

// Defaults match the model settings the generation prompt was tuned for.
const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultModel     = "gpt-4o"
	DefaultMaxTokens = 3000

	// recommendMaxTokens and recommendTemperature favour variety over
	// reproducibility for suggestions.
	recommendMaxTokens   = 1500
	recommendTemperature = 0.7
)

// Config configures a Client. Zero values select the defaults.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	// MaxDocumentRunes bounds the text sent per document; zero sends it all.
	MaxDocumentRunes int
	Logger           *log.Logger
}

// Client talks to the chat completions endpoint. It is safe for concurrent
// use.
type Client struct {
	*integrations.Client
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	maxRunes  int
	logger    *log.Logger
}

// NewClient creates a client that caches completions in backend for
// cacheTTL. A nil backend disables caching.
func NewClient(backend cache.Cache, cacheTTL time.Duration, cfg Config) *Client {
	c := &Client{
		Client:    integrations.NewClient(backend, "openai:", cacheTTL, nil),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		maxRunes:  cfg.MaxDocumentRunes,
		logger:    cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	return c
}

// Model returns the model used for generation.
func (c *Client) Model() string { return c.model }

// MaxTokens returns the completion token limit used for generation.
func (c *Client) MaxTokens() int { return c.maxTokens }

// =============================================================================
// Chat Completions
// =============================================================================

// Message is a chat message. Content is either a string or a slice of
// [Part].
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// Part is one element of a multi-part message.
type Part struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// complete sends one chat request and returns the first choice's text.
// Responses are cached by request content.
func (c *Client) complete(ctx context.Context, req chatRequest, refresh bool) (string, error) {
	if c.apiKey == "" {
		return "", errors.New(errors.ErrCodeUnauthorized, "OpenAI API key is not configured (set OPENAI_API_KEY)")
	}
	key, err := cache.HashJSON(req)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash request")
	}

	var content string
	err = c.Cached(ctx, key, refresh, &content, func() error {
		var resp chatResponse
		headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
		if err := c.PostJSON(ctx, c.baseURL+"/chat/completions", headers, req, &resp); err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New(errors.ErrCodeGenerationFailed, "response contains no choices")
		}
		if resp.Choices[0].FinishReason == "length" {
			c.logger.Warn("completion truncated at token limit", "model", req.Model, "max_tokens", req.MaxTokens)
		}
		content = resp.Choices[0].Message.Content
		if strings.TrimSpace(content) == "" {
			return errors.New(errors.ErrCodeGenerationFailed, "response content is empty")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}
