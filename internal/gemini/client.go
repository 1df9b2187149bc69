package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/dvloznov/expense-assistant/internal/assistant"
)

// Client answers prompts through the Gemini text-generation API. It
// implements assistant.Completer. The API key is picked up from the
// environment by the genai SDK (GEMINI_API_KEY / GOOGLE_API_KEY).
type Client struct {
	Model string
}

// NewClient creates a completion client for the given model name.
func NewClient(model string) *Client {
	return &Client{Model: model}
}

// Complete sends the prompt and returns the model's answer text.
// API failures are classified onto the assistant sentinels so the
// orchestrator can decide whether to retry with a reduced payload.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("complete: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, c.Model, contents, nil)
	if err != nil {
		return "", classifyAPIError(err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("complete: empty response from model")
	}

	return text, nil
}

// classifyAPIError maps the Gemini API's status codes onto the
// assistant sentinels. Oversized prompts surface as 400 INVALID_ARGUMENT
// (token limit) or 413 depending on the transport.
func classifyAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", assistant.ErrAuth, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", assistant.ErrRateLimited, err)
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
			return fmt.Errorf("%w: %v", assistant.ErrPayloadTooLarge, err)
		}
	}
	return fmt.Errorf("complete: generate content: %w", err)
}
