package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLyricsClientReturnsDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lyrics", r.URL.Path)
		w.Write([]byte("[00:01.00] hello\n[00:05.00] world\n"))
	}))
	defer srv.Close()

	c := NewLyricsClient(srv.URL)
	body, err := c.FetchLyrics(context.Background(), "Artist", "Title")
	require.NoError(t, err)
	assert.Contains(t, body, "hello")
}

func TestLyricsClientRequiresArtistAndTitle(t *testing.T) {
	c := NewLyricsClient("http://example.invalid")
	_, err := c.FetchLyrics(context.Background(), "Artist", "")
	assert.Error(t, err)
}
