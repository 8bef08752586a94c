package ipfs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUploadContentRequiresAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("no network call may happen without a credential")
	}))
	defer server.Close()

	client := NewClient(server.URL, "", discardLogger())

	_, err := client.UploadContent(context.Background(), "application/json", []byte(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestUploadContentJSON(t *testing.T) {
	var (
		filename string
		content  []byte
		auth     string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		filename = header.Filename
		content, _ = io.ReadAll(file)

		_, _ = w.Write([]byte(`{"Name":"nft_metadata.json","Hash":"bafy123","Size":"42"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", discardLogger())

	uri, err := client.UploadContent(context.Background(), "application/json", []byte(`{"name":"x"}`))
	require.NoError(t, err)

	assert.Equal(t, "ipfs://bafy123/nft_metadata.json", uri)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "nft_metadata.json", filename)
	assert.Equal(t, `{"name":"x"}`, string(content))
}

func TestUploadContentBinaryExtensions(t *testing.T) {
	tests := []struct {
		contentType string
		filename    string
	}{
		{"image/png", "nft_image.png"},
		{"image/jpeg", "nft_image.jpg"},
		{"image/gif", "nft_image.gif"},
		{"image/svg+xml", "nft_image.svg"},
		{"application/octet-stream", "nft_image.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			var uploaded string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, header, err := r.FormFile("file")
				require.NoError(t, err)

				uploaded = header.Filename

				_, _ = w.Write([]byte(`{"Hash":"bafyimg"}`))
			}))
			defer server.Close()

			client := NewClient(server.URL, "secret", discardLogger())

			uri, err := client.UploadContent(context.Background(), tt.contentType, []byte{0x01})
			require.NoError(t, err)

			assert.Equal(t, tt.filename, uploaded)
			assert.Equal(t, "ipfs://bafyimg/"+tt.filename, uri)
		})
	}
}

func TestUploadContentRejectsInvalidUTF8JSON(t *testing.T) {
	client := NewClient("http://unused.example", "secret", discardLogger())

	_, err := client.UploadContent(context.Background(), "application/json", []byte{0xff, 0xfe})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid UTF-8")
}

func TestUploadContentSurfacesErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("disk full"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", discardLogger())

	_, err := client.UploadContent(context.Background(), "application/json", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "disk full")
}

// The response field casing is provider-dependent; the parse chain must
// recover the hash through each tier in order.
func TestParseUploadResponseTiers(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantHash string
		wantErr  string
	}{
		{
			name:     "typed capitalized schema",
			body:     `{"Name":"f.json","Hash":"bafytyped","Size":"10"}`,
			wantHash: "bafytyped",
		},
		{
			name:     "capitalized hash inside unexpected structure",
			body:     `data: {"Hash":"bafyscan"} trailing garbage`,
			wantHash: "bafyscan",
		},
		{
			name:     "lowercase hash inside unexpected structure",
			body:     `data: {"hash":"bafylower"} trailing garbage`,
			wantHash: "bafylower",
		},
		{
			name:    "no hash anywhere",
			body:    `{"status":"pinned"}`,
			wantErr: "could not extract hash from response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseUploadResponse([]byte(tt.body), "f.json")

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Contains(t, err.Error(), tt.body)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantHash, result.Hash)
		})
	}
}

// Round trip: a store that assigns the locally computed identifier must
// yield a URI referencing exactly that identifier.
func TestUploadRoundTripMatchesComputeCID(t *testing.T) {
	payload := []byte(`{"name":"AI Generated NFT"}`)

	expected, err := ComputeCID(payload)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		require.NoError(t, err)

		uploaded, _ := io.ReadAll(file)

		contentID, err := ComputeCID(uploaded)
		require.NoError(t, err)

		_, _ = w.Write([]byte(`{"Hash":"` + contentID + `"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", discardLogger())

	uri, err := client.UploadContent(context.Background(), "application/json", payload)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://"+expected+"/nft_metadata.json", uri)
}
