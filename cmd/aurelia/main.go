// Package main is the entry point for the Aurelia terminal demo
// harness: it wires the engine, catalog, scanner, and enrichment
// worker behind one Control Surface and hands that Surface to the
// Bubbletea UI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aurelia-audio/aurelia/internal/applog"
	"github.com/aurelia-audio/aurelia/internal/config"
	"github.com/aurelia-audio/aurelia/internal/control"
	"github.com/aurelia-audio/aurelia/internal/engine"
	"github.com/aurelia-audio/aurelia/internal/enrich"
	"github.com/aurelia-audio/aurelia/internal/library"
	"github.com/aurelia-audio/aurelia/internal/scanner"
	"github.com/aurelia-audio/aurelia/ui"
)

const sampleRate = 44100

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	autoPlay := flag.Bool("autoplay", false, "start playing the first track immediately")
	mini := flag.Bool("mini", false, "compact minimal UI with less width")
	dbPath := flag.String("db", filepath.Join(cfg.DataDir, "library.db"), "path to the library catalog database")
	artDir := flag.String("art-dir", filepath.Join(cfg.CacheDir, "art"), "directory for cached cover art thumbnails")
	coverArtURL := flag.String("cover-art-url", "", "base URL for cover art lookups (enrichment runs only if enabled in config and this, lyrics-url or lastfm_api_key is set)")
	lyricsURL := flag.String("lyrics-url", cfg.Enrichment.LyricsEndpoint, "base URL for lyrics lookups (enrichment runs only if enabled in config and this, cover-art-url or lastfm_api_key is set)")
	scanConcurrency := flag.Int("scan-concurrency", cfg.WorkerPoolSize, "number of files scanned in parallel")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: aurelia [flags] [directory or file.flac ...]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := applog.For("main")

	eng, err := engine.New(sampleRate, log)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	store, err := library.Open(*dbPath, log)
	if err != nil {
		return fmt.Errorf("library: %w", err)
	}

	artCache, err := library.NewArtCache(*artDir)
	if err != nil {
		return fmt.Errorf("art cache: %w", err)
	}

	var worker *enrich.Worker
	enrichmentEnabled := cfg.Enrichment.Enabled && (*coverArtURL != "" || cfg.Enrichment.LastfmAPIKey != "" || *lyricsURL != "")
	if enrichmentEnabled {
		worker = enrich.NewWorker(store, artCache, enrich.NewCoverArtFetcher(*coverArtURL), enrich.NewLyricsClient(*lyricsURL), log)
	}

	sc := scanner.New(store, artCache, func(path string) {
		if worker == nil {
			return
		}
		worker.Enqueue(enrich.Task{Path: path, Kind: enrich.ArtLookup})
		worker.Enqueue(enrich.Task{Path: path, Kind: enrich.LyricsLookup})
	}, *scanConcurrency, log)

	surface := control.NewSurface(eng, store, artCache, sc, worker, log)
	defer surface.Close()

	if err := surface.RefreshPlaylist(); err != nil {
		log.Warn().Err(err).Msg("initial playlist load failed")
	}

	roots := flag.Args()
	if len(roots) == 0 {
		roots = cfg.MusicRoots
	}
	for _, arg := range roots {
		root, err := filepath.Abs(arg)
		if err != nil {
			continue
		}
		ack := surface.ScanLibrary(root)
		if !ack.Started {
			return errors.New("scan_library did not start: no scanner configured")
		}
		log.Info().Str("root", root).Str("scan_id", ack.ScanID).Msg("scan started")
	}

	m := ui.NewModel(surface, *autoPlay, *mini)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
