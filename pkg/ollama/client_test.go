package ollama

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The request body is part of the determinism contract: identical prompts
// must serialize to byte-identical requests.
func TestRequestBodyIsPinned(t *testing.T) {
	client := NewClient("", "")

	body, err := client.requestBody("You are a test persona.", "a red fox")
	require.NoError(t, err)

	expected := `{"model":"llama3.1","messages":[{"role":"system","content":"You are a test persona."},{"role":"user","content":"a red fox"}],"options":{"temperature":0,"top_k":1,"top_p":0.1,"min_p":0,"num_ctx":4096,"num_predict":75,"seed":42},"stream":false}`
	assert.Equal(t, expected, string(body))

	again, err := client.requestBody("You are a test persona.", "a red fox")
	require.NoError(t, err)
	assert.Equal(t, body, again)
}

func TestGenerate(t *testing.T) {
	var captured []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"the fox runs"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3.1")

	content, err := client.Generate(context.Background(), DefaultPersona, "a red fox")
	require.NoError(t, err)
	assert.Equal(t, "the fox runs", content)
	assert.Contains(t, string(captured), `"seed":42`)
	assert.Contains(t, string(captured), `"stream":false`)
}

func TestGenerateErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3.1")

	_, err := client.Generate(context.Background(), DefaultPersona, "a red fox")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestGenerateSurfacesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("backend on fire"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3.1")

	_, err := client.Generate(context.Background(), DefaultPersona, "a red fox")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "backend on fire")
}

func TestGenerateRejectsUnparsableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3.1")

	_, err := client.Generate(context.Background(), DefaultPersona, "a red fox")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse chat response")
	assert.Contains(t, err.Error(), "not json")
}

func TestGenerateRejectsEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3.1")

	_, err := client.Generate(context.Background(), DefaultPersona, "a red fox")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content")
}
