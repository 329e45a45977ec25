package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// LyricsClient fetches plain or LRC-synced lyrics from a configurable
// endpoint (SPEC_FULL.md's AppConfig.Enrichment.LyricsEndpoint).
type LyricsClient struct {
	client *resty.Client
}

// NewLyricsClient returns a client targeting endpoint.
func NewLyricsClient(endpoint string) *LyricsClient {
	c := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(artLookupTimeout).
		SetRetryCount(artRetryCount).
		SetRetryWaitTime(500 * time.Millisecond)
	return &LyricsClient{client: c}
}

// FetchLyrics returns the raw lyrics document (plain text or LRC) for
// (artist, title); internal/lyrics.Parse handles the LRC case.
func (c *LyricsClient) FetchLyrics(ctx context.Context, artist, title string) (string, error) {
	if artist == "" || title == "" {
		return "", fmt.Errorf("enrich: artist and title required for lyrics lookup")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("artist", escapeSearchTerm(artist)).
		SetQueryParam("title", escapeSearchTerm(title)).
		Get("/lyrics")
	if err != nil {
		return "", fmt.Errorf("enrich: lyrics lookup: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("enrich: lyrics lookup returned %s", resp.Status())
	}
	return string(resp.Body()), nil
}
