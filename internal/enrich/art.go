package enrich

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// artLookupTimeout is the 10s per-request budget; artRetryCount is
// resty's retry count, so one lookup makes up to four requests (the
// first plus three retries).
const (
	artLookupTimeout = 10 * time.Second
	artRetryCount    = 3
)

// CoverArtFetcher queries the Cover Art Archive's release-group art
// endpoint, the standard free album-art source most open music
// taggers and players target.
type CoverArtFetcher struct {
	client *resty.Client
}

// NewCoverArtFetcher returns a fetcher using baseURL (override in
// tests; production uses the real Cover Art Archive host).
func NewCoverArtFetcher(baseURL string) *CoverArtFetcher {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(artLookupTimeout).
		SetRetryCount(artRetryCount).
		SetRetryWaitTime(500 * time.Millisecond)
	return &CoverArtFetcher{client: c}
}

// FetchArt looks up front-cover art for (artist, album) and returns
// the raw image bytes.
func (f *CoverArtFetcher) FetchArt(ctx context.Context, artist, album string) ([]byte, error) {
	if artist == "" || album == "" {
		return nil, fmt.Errorf("enrich: artist and album required for art lookup")
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("artist", artist).
		SetQueryParam("release", album).
		Get("/release-group/front")
	if err != nil {
		return nil, fmt.Errorf("enrich: art lookup: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("enrich: art lookup returned %s", resp.Status())
	}
	return resp.Body(), nil
}

// escapeSearchTerm query-escapes a search term; lyrics_fetch.go uses it
// for its artist and title parameters.
func escapeSearchTerm(s string) string {
	return url.QueryEscape(s)
}
