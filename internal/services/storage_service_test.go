package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupabaseStorageUploadAndSign(t *testing.T) {
	var uploadedBody string
	var uploadedType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/storage/v1/object/imports/imports/3/players.csv":
			body, _ := io.ReadAll(r.Body)
			uploadedBody = string(body)
			uploadedType = r.Header.Get("Content-Type")
			w.WriteHeader(http.StatusOK)
		case "/storage/v1/object/sign/imports/imports/3/players.csv":
			var payload map[string]int
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, signedURLExpirySeconds, payload["expiresIn"])
			_ = json.NewEncoder(w).Encode(map[string]string{"signedURL": "/object/sign/imports/imports/3/players.csv?token=abc"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	storage := NewSupabaseStorageService(server.URL+"/", "imports", "service-key", server.Client())

	fileURL, err := storage.UploadFile(context.Background(), []byte("first_name\n"), "text/csv", "/imports/3/players.csv")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/storage/v1/object/public/imports/imports/3/players.csv", fileURL)
	assert.Equal(t, "first_name\n", uploadedBody)
	assert.Equal(t, "text/csv", uploadedType)

	signed, err := storage.GetSignedURL(context.Background(), fileURL)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/storage/v1/object/sign/imports/imports/3/players.csv?token=abc", signed)
}

func TestSupabaseStorageRejectsForeignURLs(t *testing.T) {
	storage := NewSupabaseStorageService("https://example.supabase.co", "imports", "key", nil)

	_, err := storage.GetSignedURL(context.Background(), "https://example.supabase.co/storage/v1/object/public/other/file.csv")
	assert.Error(t, err)

	_, err = storage.UploadFile(context.Background(), []byte("x"), "", "../escape.csv")
	assert.Error(t, err)
}

func TestSupabaseStorageDeleteIgnoresMissingObjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	storage := NewSupabaseStorageService(server.URL, "imports", "key", server.Client())
	assert.NoError(t, storage.DeleteFile(context.Background(), server.URL+"/storage/v1/object/imports/gone.csv"))
}
