package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/docvault-ai/docvault/internal/model"
)

// extraction instruction sent as the system message with every per-document
// completion. The response must be a JSON array of strings.
const systemInstruction = `You are given one document, base64-encoded, together with its MIME type.
Split the document into chunks that maintain semantic coherence, each a complete and meaningful
unit of information no longer than 1000 characters, without splitting key ideas across chunks.
Do not modify the document text. Match the query case-insensitively.
Return ONLY a JSON array of strings containing the verbatim chunks relevant to the query.
Return an empty JSON array if nothing in the document answers the query.`

// Config holds the settings for an OpenAI-compatible completion endpoint.
type Config struct {
	// BaseURL overrides the API endpoint for OpenAI-compatible providers.
	// Empty means the default OpenAI endpoint.
	BaseURL string
	APIKey  string
	Model   string
	// Timeout bounds each completion request. Zero means no client timeout;
	// the request context still applies.
	Timeout time.Duration
}

// Client implements Provider on top of an OpenAI-compatible chat API.
type Client struct {
	api   *openai.Client
	model string
}

var _ Provider = (*Client)(nil)

// NewClient creates a completion client from cfg.
func NewClient(cfg Config) *Client {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		c.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{api: openai.NewClientWithConfig(c), model: cfg.Model}
}

// ExtractExcerpts sends one chat completion carrying the document and the
// query, and parses the response as a JSON array of strings.
func (c *Client) ExtractExcerpts(ctx context.Context, doc Document, query string) ([]string, error) {
	userContent := fmt.Sprintf("Query: %s\n\nDocument %q (%s), base64:\n%s",
		query, doc.Name, doc.ContentType, base64.StdEncoding.EncodeToString(doc.Data))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: userContent},
		},
	})
	if err != nil {
		return nil, model.NewUpstreamError("completion request failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, model.NewUpstreamError("completion returned no choices", nil)
	}

	return parseExcerpts(resp.Choices[0].Message.Content)
}

// parseExcerpts decodes the model output as a JSON array of strings,
// tolerating a markdown code fence around the array.
func parseExcerpts(text string) ([]string, error) {
	cleaned := cleanJSONBlock(text)
	var out []string
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, model.NewUpstreamError("completion output is not a JSON string array", err)
	}
	return out, nil
}

// cleanJSONBlock strips a markdown code fence that models often wrap JSON in.
func cleanJSONBlock(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
