// Copyright (c) 2026 BookVault. All rights reserved.

/*
Package metadata implements the external book-metadata lookup client.

Lookups run against the Google Books volumes API in two sequential steps:
a search by ISBN, then a fetch of the matched volume's detail record. The
partial, optional-heavy upstream schema is mapped to a normalized internal
record for the intake flow.

Failure taxonomy matters here: a non-2xx upstream response is a hard
UPSTREAM_ERROR, while a well-formed response that simply does not match the
ISBN is "not found" (a nil result, no error). The two must never be conflated.
*/
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/bookvault/api/internal/platform/apperr"
	"github.com/bookvault/api/internal/platform/constants"
)

// Volume is the normalized metadata record produced by a successful lookup.
//
// Title and GoogleID are always present; everything else is optional in the
// upstream schema and defaults to its zero value.
type Volume struct {
	GoogleID      string   `json:"googleId"`
	ISBN13        string   `json:"isbn13,omitempty"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// CoverURL derives the cover-image URL for an external volume identifier.
//
// It is a pure function of the identifier, no network call is made. An empty
// identifier yields an empty URL.
func CoverURL(googleID string) string {
	if googleID == "" {
		return ""
	}
	return "https://books.google.com/books/content?id=" + url.QueryEscape(googleID) +
		"&printsec=frontcover&img=1&zoom=1&source=gbs_api"
}

// searchResponse mirrors the subset of the search endpoint's payload we read.
type searchResponse struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
}

// volumeResponse mirrors the subset of the volume-detail payload we read.
// Every field under volumeInfo except the title is optional upstream.
type volumeResponse struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		Publisher           string   `json:"publisher"`
		PublishedDate       string   `json:"publishedDate"`
		Description         string   `json:"description"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
	} `json:"volumeInfo"`
}

// Client looks up book metadata from the Google Books API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// NewClient constructs a metadata client.
//
// An apiKey equal to the placeholder sentinel disables key-authenticated
// calls; lookups then run against the unauthenticated quota.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: constants.MetadataClientTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// LookupByISBN13 performs the two-step lookup for a single ISBN.
//
// It returns (nil, nil) when the ISBN is not indexed upstream. It returns an
// UPSTREAM_ERROR when either endpoint answers with a non-2xx status; the
// status code is included in the error message.
func (c *Client) LookupByISBN13(ctx context.Context, isbn string) (*Volume, error) {

	// Step 1: search by ISBN to obtain the volume identifier.
	volumeID, err := c.search(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if volumeID == "" {
		c.logger.DebugContext(ctx, "metadata_lookup_not_indexed", slog.String("isbn", isbn))
		return nil, nil
	}

	// Step 2: fetch the volume detail record.
	volume, err := c.fetchVolume(ctx, volumeID)
	if err != nil {
		return nil, err
	}

	return volume, nil
}

// search queries the search endpoint and returns the first matched volume id,
// or "" when the response carries no usable match.
func (c *Client) search(ctx context.Context, isbn string) (string, error) {
	query := url.Values{}
	query.Set("q", "isbn:"+isbn)
	if c.keyed() {
		query.Set("key", c.apiKey)
	}

	body, err := c.get(ctx, c.baseURL+"?"+query.Encode())
	if err != nil {
		return "", err
	}

	var parsed searchResponse
	// A schema mismatch means "not indexed", not an upstream failure.
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", nil
	}
	if len(parsed.Items) == 0 || parsed.Items[0].ID == "" {
		return "", nil
	}

	return parsed.Items[0].ID, nil
}

// fetchVolume retrieves and normalizes a single volume-detail record.
func (c *Client) fetchVolume(ctx context.Context, volumeID string) (*Volume, error) {
	detailURL := c.baseURL + "/" + url.PathEscape(volumeID)
	if c.keyed() {
		detailURL += "?key=" + url.QueryEscape(c.apiKey)
	}

	body, err := c.get(ctx, detailURL)
	if err != nil {
		return nil, err
	}

	var parsed volumeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, nil
	}
	// Title is the one required field of the detail schema.
	if parsed.VolumeInfo.Title == "" {
		return nil, nil
	}

	volume := &Volume{
		GoogleID:      parsed.ID,
		Title:         parsed.VolumeInfo.Title,
		Authors:       parsed.VolumeInfo.Authors,
		Publisher:     parsed.VolumeInfo.Publisher,
		PublishedDate: parsed.VolumeInfo.PublishedDate,
		Description:   parsed.VolumeInfo.Description,
	}
	if volume.Authors == nil {
		volume.Authors = []string{}
	}

	// Locate the ISBN-13 in the identifier list, if present.
	for _, identifier := range parsed.VolumeInfo.IndustryIdentifiers {
		if identifier.Type == "ISBN_13" {
			volume.ISBN13 = identifier.Identifier
			break
		}
	}

	return volume, nil
}

// get performs one upstream round-trip and enforces the non-2xx policy.
func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		// Timeouts and transport failures are upstream failures too.
		return nil, apperr.Upstream("Book metadata service is unreachable")
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		c.logger.WarnContext(ctx, "metadata_upstream_error",
			slog.Int("status", response.StatusCode),
		)
		return nil, apperr.Upstream(fmt.Sprintf("Book metadata service returned status %d", response.StatusCode))
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, apperr.Upstream("Book metadata service response could not be read")
	}

	return body, nil
}

// keyed reports whether a real (non-placeholder) API key is configured.
func (c *Client) keyed() bool {
	return c.apiKey != "" && c.apiKey != constants.GoogleBooksKeyPlaceholder
}
