// Package llm talks to an OpenAI-compatible chat-completions endpoint
// (Groq by default) for text and vision prompts.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	DefaultBaseURL   = "https://api.groq.com/openai/v1/"
	DefaultChatModel = "llama3-8b-8192"
	DefaultTimeout   = 10 * time.Second

	// PlaceholderAPIKey is the value shipped in sample env files. It counts as unset.
	PlaceholderAPIKey = "your_groq_api_key_here"
)

// DefaultVisionModels are tried in order for image analysis.
var DefaultVisionModels = []string{
	"meta-llama/llama-4-scout-17b-16e-instruct",
	"claude-3-opus-20240229",
	"claude-3-5-sonnet-20240620",
	"claude-3-haiku-20240307",
}

var (
	ErrNotConfigured = errors.New("llm: api key not configured")
	ErrEmptyResponse = errors.New("llm: empty completion")
)

// Settings is passed into every operation that may reach the remote model.
type Settings struct {
	APIKey       string
	BaseURL      string
	ChatModel    string
	VisionModels []string
	Timeout      time.Duration

	GeminiAPIKey string
	GeminiModel  string
}

// Enabled reports whether remote calls should be attempted at all.
func (s Settings) Enabled() bool {
	key := strings.TrimSpace(s.APIKey)
	return key != "" && key != PlaceholderAPIKey
}

func (s Settings) chatModel() string {
	if s.ChatModel == "" {
		return DefaultChatModel
	}
	return s.ChatModel
}

func (s Settings) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return s.Timeout
}

type Image struct {
	MediaType string
	Data      []byte
}

func (i Image) DataURL() string {
	return "data:" + i.MediaType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ChatRequest is a single system+user exchange. Zero sampling values are omitted.
type ChatRequest struct {
	Model  string
	System string
	User   string
	Image  *Image

	MaxTokens        int64
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

type Client struct {
	api      openai.Client
	settings Settings
}

// NewClient returns ErrNotConfigured when the settings carry no usable key.
func NewClient(s Settings, opts ...option.RequestOption) (*Client, error) {
	if !s.Enabled() {
		return nil, ErrNotConfigured
	}
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(s.APIKey)),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	reqOpts = append(reqOpts, opts...)
	return &Client{api: openai.NewClient(reqOpts...), settings: s}, nil
}

// Complete sends req and returns the trimmed text of the first choice.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.settings.chatModel()
	}

	var user openai.ChatCompletionMessageParamUnion
	if req.Image != nil {
		user = openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(req.User),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: req.Image.DataURL(),
			}),
		})
	} else {
		user = openai.UserMessage(req.User)
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			user,
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.TopP > 0 {
		params.TopP = openai.Float(req.TopP)
	}
	if req.FrequencyPenalty != 0 {
		params.FrequencyPenalty = openai.Float(req.FrequencyPenalty)
	}
	if req.PresencePenalty != 0 {
		params.PresencePenalty = openai.Float(req.PresencePenalty)
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// CompleteWithin races Complete against the settings timeout; whichever
// finishes first wins and a timeout is reported as context.DeadlineExceeded.
func (c *Client) CompleteWithin(ctx context.Context, req ChatRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.settings.timeout())
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := c.Complete(ctx, req)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() != nil {
			return "", ctx.Err()
		}
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// StatusCode extracts the HTTP status from an API error, or 0.
func StatusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
