// Package diffusion is a text-to-image client pinned to deterministic
// generation parameters so the same prompt always reproduces the same image.
package diffusion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultURL = "http://localhost:7860/sdapi/v1/txt2img"

type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client for an image-synthesis endpoint. The bearer
// credential is optional; the service may be unauthenticated.
func NewClient(url, apiKey string) *Client {
	if url == "" {
		url = DefaultURL
	}

	return &Client{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 300 * time.Second},
	}
}

// txt2imgRequest fixes every synthesis parameter. All fields are chosen
// once and never varied.
type txt2imgRequest struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	Seed           int64   `json:"seed"`
	Steps          uint32  `json:"steps"`
	CfgScale       float32 `json:"cfg_scale"`
	Width          uint32  `json:"width"`
	Height         uint32  `json:"height"`
	SamplerName    string  `json:"sampler_name"`
	Model          string  `json:"model"`
}

type txt2imgResponse struct {
	Images     []string        `json:"images"`
	Parameters json.RawMessage `json:"parameters"`
}

// Image is a generated PNG carried as its base64 payload.
type Image struct {
	Base64 string
}

func (i Image) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(i.Base64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image base64: %w", err)
	}

	return data, nil
}

func (i Image) DataURI() string {
	return "data:image/png;base64," + i.Base64
}

func (c *Client) requestBody(prompt string) ([]byte, error) {
	return json.Marshal(txt2imgRequest{
		Prompt:         prompt,
		NegativePrompt: "blurry, bad quality, distorted",
		Seed:           42,
		Steps:          30,
		CfgScale:       7.0,
		Width:          512,
		Height:         512,
		SamplerName:    "DPM++ 2M Karras",
		Model:          "v1-5-pruned-emaonly",
	})
}

// Generate synthesizes one image for the prompt. On a non-200 status the
// error body is surfaced verbatim and no extraction is attempted.
func (c *Client) Generate(ctx context.Context, prompt string) (Image, error) {
	body, err := c.requestBody(prompt)
	if err != nil {
		return Image{}, fmt.Errorf("failed to encode txt2img request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Image{}, fmt.Errorf("failed to create txt2img request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("txt2img request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read txt2img response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Image{}, fmt.Errorf("image API error: status %d - %s", resp.StatusCode, respBody)
	}

	b64, err := extractImage(respBody)
	if err != nil {
		return Image{}, err
	}

	return Image{Base64: b64}, nil
}

// extractImage pulls the first image out of the response body. The typed
// parse runs first; on failure a generic lookup of the "images" array is
// attempted before giving up. A placeholder image is never substituted.
func extractImage(body []byte) (string, error) {
	var typed txt2imgResponse
	if err := json.Unmarshal(body, &typed); err == nil {
		if len(typed.Images) == 0 {
			return "", errors.New("no image generated")
		}

		return typed.Images[0], nil
	}

	var generic map[string]any
	if err := json.Unmarshal(body, &generic); err != nil {
		return "", fmt.Errorf("failed to parse txt2img response as JSON: %w", err)
	}

	images, ok := generic["images"].([]any)
	if !ok || len(images) == 0 {
		return "", errors.New("no images array found in response")
	}

	first, ok := images[0].(string)
	if !ok {
		return "", errors.New("could not extract image from response")
	}

	return first, nil
}
