// Copyright (c) 2026 BookVault. All rights reserved.

package metadata

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookvault/api/internal/platform/apperr"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLookupByISBN13_Found(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if strings.HasSuffix(r.URL.Path, "/abc123") {
			_, _ = w.Write([]byte(`{
				"id": "abc123",
				"volumeInfo": {
					"title": "The C Programming Language",
					"authors": ["Brian W. Kernighan", "Dennis M. Ritchie"],
					"publisher": "Prentice Hall",
					"publishedDate": "1988-04-01",
					"description": "<p>A classic.</p>",
					"industryIdentifiers": [
						{"type": "ISBN_10", "identifier": "0131103628"},
						{"type": "ISBN_13", "identifier": "9780134190440"}
					]
				}
			}`))
			return
		}

		assert.Equal(t, "isbn:9780134190440", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"items": [{"id": "abc123"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "your-google-books-api-key", discardLogger())

	volume, err := client.LookupByISBN13(context.Background(), "9780134190440")
	require.NoError(t, err)
	require.NotNil(t, volume)

	assert.Equal(t, "abc123", volume.GoogleID)
	assert.Equal(t, "The C Programming Language", volume.Title)
	assert.Equal(t, "9780134190440", volume.ISBN13)
	assert.Equal(t, []string{"Brian W. Kernighan", "Dennis M. Ritchie"}, volume.Authors)
	assert.Equal(t, "Prentice Hall", volume.Publisher)
	assert.Equal(t, "1988-04-01", volume.PublishedDate)
	assert.Equal(t, "<p>A classic.</p>", volume.Description)
}

func TestLookupByISBN13_UpstreamErrorIncludesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "your-google-books-api-key", discardLogger())

	volume, err := client.LookupByISBN13(context.Background(), "9780134190440")
	require.Error(t, err)
	assert.Nil(t, volume)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UPSTREAM_ERROR", appError.Code)
	assert.Contains(t, appError.Message, "500")
}

func TestLookupByISBN13_EmptyItemsIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "your-google-books-api-key", discardLogger())

	volume, err := client.LookupByISBN13(context.Background(), "9780134190440")
	require.NoError(t, err)
	assert.Nil(t, volume)
}

func TestLookupByISBN13_UnparseableBodyIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`this is not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "your-google-books-api-key", discardLogger())

	volume, err := client.LookupByISBN13(context.Background(), "9780134190440")
	require.NoError(t, err)
	assert.Nil(t, volume)
}

func TestLookupByISBN13_RealKeyIsSent(t *testing.T) {
	var sawKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawKey = r.URL.Query().Get("key")
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "real-api-key", discardLogger())

	_, err := client.LookupByISBN13(context.Background(), "9780134190440")
	require.NoError(t, err)
	assert.Equal(t, "real-api-key", sawKey)
}

func TestLookupByISBN13_PlaceholderKeyIsOmitted(t *testing.T) {
	var sawKey bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawKey = r.URL.Query().Has("key")
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "your-google-books-api-key", discardLogger())

	_, err := client.LookupByISBN13(context.Background(), "9780134190440")
	require.NoError(t, err)
	assert.False(t, sawKey)
}

func TestCoverURL(t *testing.T) {
	assert.Equal(t,
		"https://books.google.com/books/content?id=abc123&printsec=frontcover&img=1&zoom=1&source=gbs_api",
		CoverURL("abc123"),
	)
	assert.Empty(t, CoverURL(""))
}
