// Package enrich runs a bounded background worker pool that fetches
// album art and lyrics for cataloged tracks. Fetched art is written to
// the art cache and recorded on the track and album rows; fetched
// lyrics are discarded, neither written to disk nor stored.
package enrich

import (
	"context"
	"time"

	"github.com/aurelia-audio/aurelia/internal/library"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// TaskKind distinguishes the two lookup kinds spec.md §3's Enrichment
// Task carries.
type TaskKind int

const (
	ArtLookup TaskKind = iota
	LyricsLookup
)

// Task is never persisted: a restart simply lets the next scan
// re-enqueue whatever remains unresolved.
type Task struct {
	Path      string
	Kind      TaskKind
	Attempts  int
	LastError string
}

const (
	queueCapacity = 1024
	maxAttempts   = 3
	workerCount   = 2 // deliberately smaller/lower priority than the scanner's pool
)

// Worker drains a bounded queue of enrichment tasks with a small conc
// pool, keeping HTTP fetches off the scanner's and engine's critical
// paths.
type Worker struct {
	store    *library.Store
	artCache *library.ArtCache
	art      ArtFetcher
	lyrics   LyricsFetcher

	queue chan Task
	stop  chan struct{}
	done  chan struct{}
	log   zerolog.Logger
}

// ArtFetcher looks up remote album art for a track; art.go's
// resty-backed implementation is the production one.
type ArtFetcher interface {
	FetchArt(ctx context.Context, artist, album string) ([]byte, error)
}

// LyricsFetcher looks up a synced or plain lyrics document for a track.
type LyricsFetcher interface {
	FetchLyrics(ctx context.Context, artist, title string) (string, error)
}

// NewWorker returns a Worker ready to Start; art or lyrics may be nil,
// in which case tasks of that kind complete without doing anything.
func NewWorker(store *library.Store, artCache *library.ArtCache, art ArtFetcher, lyrics LyricsFetcher, log zerolog.Logger) *Worker {
	return &Worker{
		store:    store,
		artCache: artCache,
		art:      art,
		lyrics:   lyrics,
		queue:    make(chan Task, queueCapacity),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      log.With().Str("component", "enrich").Logger(),
	}
}

// Enqueue schedules t, dropping it (and logging) if the queue is full
// rather than blocking the scanner that called it.
func (w *Worker) Enqueue(t Task) {
	select {
	case w.queue <- t:
	default:
		w.log.Warn().Str("path", t.Path).Msg("enrichment queue full, dropping task")
	}
}

// Start launches the worker pool; call Stop to drain and join.
func (w *Worker) Start() {
	go w.run()
}

// Stop signals the run loop to exit and waits for in-flight tasks to
// finish; tasks still waiting in the queue are not processed.
func (w *Worker) Stop() {
	close(w.stop)
	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)
	p := pool.New().WithMaxGoroutines(workerCount)

	for {
		select {
		case <-w.stop:
			p.Wait()
			return
		case task := <-w.queue:
			task := task
			p.Go(func() { w.process(task) })
		}
	}
}

func (w *Worker) process(t Task) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tr, err := w.store.GetTrack(t.Path)
	if err != nil {
		w.log.Warn().Str("path", t.Path).Err(err).Msg("track vanished before enrichment")
		return
	}

	var fetchErr error
	switch t.Kind {
	case ArtLookup:
		fetchErr = w.processArt(ctx, tr)
	case LyricsLookup:
		fetchErr = w.processLyrics(ctx, tr)
	}

	if fetchErr != nil && t.Attempts+1 < maxAttempts {
		t.Attempts++
		t.LastError = fetchErr.Error()
		w.Enqueue(t)
	} else if fetchErr != nil {
		w.log.Warn().Str("path", t.Path).Err(fetchErr).Int("attempts", t.Attempts+1).Msg("enrichment exhausted retries")
	}
}

func (w *Worker) processArt(ctx context.Context, tr library.Track) error {
	if w.art == nil || tr.ArtURL != "" {
		return nil
	}
	raw, err := w.art.FetchArt(ctx, tr.Artist, tr.Album)
	if err != nil {
		return err
	}
	url, err := w.artCache.Store(tr.Path, raw)
	if err != nil {
		return err
	}
	tr.ArtURL = url
	if _, err := w.store.SaveTrack(tr); err != nil {
		return err
	}
	return w.store.UpsertAlbum(library.Album{Name: tr.Album, Artist: tr.Artist, ArtURL: url})
}

func (w *Worker) processLyrics(ctx context.Context, tr library.Track) error {
	if w.lyrics == nil {
		return nil
	}
	_, err := w.lyrics.FetchLyrics(ctx, tr.Artist, tr.Title)
	return err
}
