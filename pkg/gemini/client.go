package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.0-flash-001"

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)

	// Set response MIME type to JSON
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(800)

	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// DescribeImage sends the instruction and the inline image and returns the
// concatenated text parts of the first candidate.
func (c *Client) DescribeImage(ctx context.Context, instruction, mediaType string, data []byte) (string, error) {
	format := strings.TrimPrefix(mediaType, "image/")
	resp, err := c.model.GenerateContent(ctx, genai.Text(instruction), genai.ImageData(format, data))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("unexpected response type")
	}
	return sb.String(), nil
}
