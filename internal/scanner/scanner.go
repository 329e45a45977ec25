package scanner

import (
	"io/fs"
	"path/filepath"

	"github.com/aurelia-audio/aurelia/internal/decode"
	"github.com/aurelia-audio/aurelia/internal/library"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// EnqueueFunc is called once per successfully cataloged track so the
// caller (internal/enrich) can schedule art/lyrics lookups. Scanner
// takes this as a plain function rather than importing internal/enrich
// directly, so it carries no dependency on the enrichment worker;
// cmd/aurelia wires the two together.
type EnqueueFunc func(path string)

// Scanner walks one or more music roots and upserts every recognized
// audio file into the library store.
type Scanner struct {
	store       *library.Store
	art         *library.ArtCache
	enqueue     EnqueueFunc
	concurrency int
	log         zerolog.Logger
}

// New returns a Scanner bounded to concurrency simultaneous file
// tasks (library.Store transactions serialize writes regardless).
func New(store *library.Store, art *library.ArtCache, enqueue EnqueueFunc, concurrency int, log zerolog.Logger) *Scanner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scanner{
		store:       store,
		art:         art,
		enqueue:     enqueue,
		concurrency: concurrency,
		log:         log.With().Str("component", "scanner").Logger(),
	}
}

// ScanResult tallies a single root's outcome. Added/Updated back the
// library-changed event's path lists. There is no removed list, since
// ScanRoot only ever adds or refreshes rows (Watcher reports removals
// separately).
type ScanResult struct {
	Scanned   int
	Corrupted int
	Added     []string
	Updated   []string
}

// ScanRoot walks root, dispatching one task per audio file to a
// bounded conc pool; task failures (decode errors) are caught and the
// row is stored with Corrupted = true rather than aborting the walk.
func (s *Scanner) ScanRoot(root string) (ScanResult, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isAudioFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return ScanResult{}, err
	}

	outcomes := make([]fileOutcome, len(paths))
	p := pool.New().WithMaxGoroutines(s.concurrency)
	for i, path := range paths {
		i, path := i, path
		p.Go(func() {
			outcomes[i] = s.scanOne(path)
		})
	}
	p.Wait()

	res := ScanResult{Scanned: len(paths)}
	for i, o := range outcomes {
		if o.corrupted {
			res.Corrupted++
		}
		if o.created {
			res.Added = append(res.Added, paths[i])
		} else {
			res.Updated = append(res.Updated, paths[i])
		}
	}
	return res, nil
}

type fileOutcome struct {
	corrupted bool
	created   bool
}

// scanOne catalogs a single file.
func (s *Scanner) scanOne(path string) fileOutcome {
	_, existedErr := s.store.GetTrack(path)
	created := existedErr != nil

	dec, err := decode.Open(path)
	if err != nil {
		s.log.Warn().Str("path", path).Err(err).Msg("decode failed, marking corrupted")
		if _, serr := s.store.SaveTrack(library.Track{Path: path, Corrupted: true}); serr != nil {
			s.log.Error().Str("path", path).Err(serr).Msg("save corrupted row failed")
		}
		return fileOutcome{corrupted: true, created: created}
	}
	defer dec.Close()
	meta := dec.Metadata()

	title, artist := meta.Title, meta.Artist
	if title == "" {
		fpArtist, fpTitle := fingerprintFromPath(path)
		title = fpTitle
		if artist == "" {
			artist = fpArtist
		}
	}

	var artURL string
	if len(meta.ArtBytes) > 0 && !s.art.Has(path) {
		if url, aerr := s.art.Store(path, meta.ArtBytes); aerr == nil {
			artURL = url
		} else {
			s.log.Warn().Str("path", path).Err(aerr).Msg("art cache store failed")
		}
	} else if s.art.Has(path) {
		key, _ := s.art.KeyFor(path)
		artURL = "asset://art/" + key + ".jpg"
	}

	_, err = s.store.SaveTrack(library.Track{
		Path:            path,
		Title:           title,
		Artist:          artist,
		Album:           meta.Album,
		DurationSeconds: meta.DurationSecs,
		SampleRate:      meta.SampleRate,
		Channels:        meta.Channels,
		ArtURL:          artURL,
	})
	if err != nil {
		s.log.Error().Str("path", path).Err(err).Msg("save track failed")
		return fileOutcome{created: created}
	}

	if s.enqueue != nil {
		s.enqueue(path)
	}
	return fileOutcome{created: created}
}
