// Package ollama is a chat-completion client pinned to deterministic
// sampling parameters so the same prompt always produces the same text.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultURL   = "http://localhost:11434/api/chat"
	DefaultModel = "llama3.1"

	// DefaultPersona is the system message sent ahead of every prompt.
	DefaultPersona = "You are an Avante Garde philosopher, Gilles Deleuze. Write only in Haiku."
)

type Client struct {
	url        string
	model      string
	httpClient *http.Client
}

func NewClient(url, model string) *Client {
	if url == "" {
		url = DefaultURL
	}

	if model == "" {
		model = DefaultModel
	}

	return &Client{
		url:        url,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatOptions pins every sampling parameter. Changing any of these breaks
// reproducibility of previously generated tokens.
type chatOptions struct {
	Temperature float64 `json:"temperature"`
	TopK        int     `json:"top_k"`
	TopP        float64 `json:"top_p"`
	MinP        float64 `json:"min_p"`
	NumCtx      int     `json:"num_ctx"`
	NumPredict  int     `json:"num_predict"`
	Seed        int     `json:"seed"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Options  chatOptions   `json:"options"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error"`
}

// requestBody builds the wire-exact request for a persona and prompt.
func (c *Client) requestBody(persona, prompt string) ([]byte, error) {
	return json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: persona},
			{Role: "user", Content: prompt},
		},
		Options: chatOptions{
			Temperature: 0.0,
			TopK:        1,
			TopP:        0.1,
			MinP:        0.0,
			NumCtx:      4096,
			NumPredict:  75,
			Seed:        42,
		},
		Stream: false,
	})
}

// Generate sends the system persona and user prompt and returns the
// plain-text completion. Each call is independent and stateless.
func (c *Client) Generate(ctx context.Context, persona, prompt string) (string, error) {
	body, err := c.requestBody(persona, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API error: status %d - %s", resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w (body: %s)", err, respBody)
	}

	if parsed.Error != "" {
		return "", fmt.Errorf("chat API error: %s", parsed.Error)
	}

	if parsed.Message.Content == "" {
		return "", fmt.Errorf("chat response carries no content (body: %s)", respBody)
	}

	return parsed.Message.Content, nil
}
