package library

// SearchResult groups fast_search's three result sets, each capped
// independently per spec.md §4.8.
type SearchResult struct {
	Tracks  []Track
	Albums  []string
	Artists []string
}

const (
	maxTrackResults  = 50
	maxAlbumResults  = 20
	maxArtistResults = 20
)

// FastSearch runs an FTS5 bm25-ranked match against title/artist/album
// for Tracks, ordered by rank with ties broken by recency (added_at
// descending), and prefix matches against distinct album/artist names,
// which are ordered alphabetically rather than by rank or recency.
// Each group is capped.
func (s *Store) FastSearch(query string) (SearchResult, error) {
	if query == "" {
		return SearchResult{}, nil
	}

	var tracks []Track
	err := s.db.Raw(`
		SELECT tracks.* FROM tracks
		JOIN tracks_fts ON tracks_fts.rowid = tracks.id
		WHERE tracks_fts MATCH ?
		ORDER BY bm25(tracks_fts), tracks.added_at DESC
		LIMIT ?`, ftsQuery(query), maxTrackResults).Scan(&tracks).Error
	if err != nil {
		return SearchResult{}, err
	}

	var albums []string
	err = s.db.Raw(`
		SELECT DISTINCT album FROM tracks
		WHERE album LIKE ? AND album != ''
		ORDER BY album
		LIMIT ?`, query+"%", maxAlbumResults).Scan(&albums).Error
	if err != nil {
		return SearchResult{}, err
	}

	var artists []string
	err = s.db.Raw(`
		SELECT DISTINCT artist FROM tracks
		WHERE artist LIKE ? AND artist != ''
		ORDER BY artist
		LIMIT ?`, query+"%", maxArtistResults).Scan(&artists).Error
	if err != nil {
		return SearchResult{}, err
	}

	return SearchResult{Tracks: tracks, Albums: albums, Artists: artists}, nil
}

// ftsQuery wraps the raw search term as an FTS5 prefix query so
// partial words ("beeth" -> "Beethoven") still match.
func ftsQuery(q string) string {
	return `"` + escapeFTS(q) + `"*`
}

func escapeFTS(q string) string {
	out := make([]rune, 0, len(q))
	for _, r := range q {
		if r == '"' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
