// Package ipfs uploads content to a pinning service and resolves the
// content identifiers it assigns. The service's response schema is not
// stable across providers, so response parsing is deliberately tiered.
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrMissingAPIKey is returned before any network call is attempted when
// the store credential is absent.
var ErrMissingAPIKey = errors.New("ipfs api key is not configured")

const (
	MetadataFilename  = "nft_metadata.json"
	imageFilenameStem = "nft_image"
)

type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(url, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger.With("module", "ipfs"),
	}
}

// uploadResult is the normalized shape of a successful upload. Only the
// hash is carried forward; everything else is discarded after extraction.
type uploadResult struct {
	Hash string
	Name string
	Size string
}

// pinResponse is the typed first-tier schema (capitalized keys).
type pinResponse struct {
	Hash string `json:"Hash"`
	Name string `json:"Name"`
	Size string `json:"Size"`
}

// extensionFor maps a content type to the staged-file extension.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/gif":
		return "gif"
	case "image/svg+xml":
		return "svg"
	}

	return "bin"
}

// UploadContent uploads JSON metadata or binary content and returns its
// ipfs:// URI. JSON is staged under a fixed metadata filename; anything
// else is staged as an image file with an extension chosen from the
// content type.
func (c *Client) UploadContent(ctx context.Context, contentType string, content []byte) (string, error) {
	var filename string

	if contentType == "application/json" || strings.Contains(contentType, "json") {
		if !utf8.Valid(content) {
			return "", errors.New("json content is not valid UTF-8")
		}

		filename = MetadataFilename
	} else {
		filename = fmt.Sprintf("%s.%s", imageFilenameStem, extensionFor(contentType))
	}

	result, err := c.uploadFile(ctx, filename, content)
	if err != nil {
		return "", err
	}

	c.logger.Info("Uploaded content", "filename", filename, "hash", result.Hash)

	return URI(result.Hash, filename), nil
}

// uploadFile stages the content to a scratch file and sends it as a
// multipart single-file transfer. The scratch file is removed on the
// success path; early error paths leave it behind, which is an accepted
// gap rather than a contract.
func (c *Client) uploadFile(ctx context.Context, filename string, content []byte) (uploadResult, error) {
	if c.apiKey == "" {
		return uploadResult{}, ErrMissingAPIKey
	}

	stagePath := filepath.Join(os.TempDir(), filename)
	if err := os.WriteFile(stagePath, content, 0o600); err != nil {
		return uploadResult{}, fmt.Errorf("failed to stage upload file: %w", err)
	}

	staged, err := os.ReadFile(stagePath)
	if err != nil {
		return uploadResult{}, fmt.Errorf("failed to read staged file: %w", err)
	}

	var body bytes.Buffer

	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return uploadResult{}, fmt.Errorf("failed to create multipart part: %w", err)
	}

	if _, err := part.Write(staged); err != nil {
		return uploadResult{}, fmt.Errorf("failed to write multipart body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return uploadResult{}, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return uploadResult{}, fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return uploadResult{}, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return uploadResult{}, fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return uploadResult{}, fmt.Errorf("failed to upload to IPFS: status %d, body: %s", resp.StatusCode, respBody)
	}

	result, err := parseUploadResponse(respBody, filename)
	if err != nil {
		return uploadResult{}, err
	}

	if err := os.Remove(stagePath); err != nil {
		c.logger.Warn("Failed to remove staged file", "path", stagePath, "error", err)
	}

	return result, nil
}

// parseUploadResponse recovers the content hash from a success response.
// The field casing varies between providers, so the parse is an ordered
// chain: typed capitalized schema, then a raw scan for "Hash", then a raw
// scan for "hash", then an error carrying the body. The chain order is a
// resilience policy; keep it intact.
func parseUploadResponse(body []byte, filename string) (uploadResult, error) {
	var typed pinResponse
	if err := json.Unmarshal(body, &typed); err == nil && typed.Hash != "" {
		return uploadResult{Hash: typed.Hash, Name: typed.Name, Size: typed.Size}, nil
	}

	if hash, ok := scanQuotedValue(string(body), `"Hash":"`); ok {
		return uploadResult{Hash: hash, Name: filename, Size: "0"}, nil
	}

	if hash, ok := scanQuotedValue(string(body), `"hash":"`); ok {
		return uploadResult{Hash: hash, Name: filename, Size: "0"}, nil
	}

	return uploadResult{}, fmt.Errorf("could not extract hash from response: %s", body)
}

// scanQuotedValue finds marker in text and returns the string up to the
// next double quote.
func scanQuotedValue(text, marker string) (string, bool) {
	start := strings.Index(text, marker)
	if start < 0 {
		return "", false
	}

	rest := text[start+len(marker):]

	end := strings.Index(rest, `"`)
	if end < 0 {
		return "", false
	}

	return rest[:end], true
}
