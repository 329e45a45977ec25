package library

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// poolSize bounds the connection pool; SQLite under WAL tolerates one
// writer and several concurrent readers, so 4-8 handles is plenty and
// matches SPEC_FULL's §4.8 sizing.
const poolSize = 6

// Store owns the database handle and every query the rest of the
// application issues against the catalog.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open creates or migrates the database at path and returns a ready
// Store. Schema creation is idempotent: AutoMigrate handles
// tracks/albums/settings, and the FTS5 virtual table plus its mirror
// triggers are created with `IF NOT EXISTS` raw SQL, since GORM has no
// FTS5 abstraction.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("library: open %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("library: underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(poolSize)
	sqlDB.SetMaxIdleConns(poolSize)

	if err := db.AutoMigrate(&Track{}, &Album{}, &Setting{}); err != nil {
		return nil, fmt.Errorf("library: automigrate: %w", err)
	}
	if err := createFTS(db); err != nil {
		return nil, fmt.Errorf("library: fts setup: %w", err)
	}

	return &Store{db: db, log: log.With().Str("component", "library").Logger()}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func createFTS(db *gorm.DB) error {
	stmts := []string{
		`CREATE VIRTUAL TABLE IF NOT EXISTS tracks_fts USING fts5(
			title, artist, album, content='tracks', content_rowid='id'
		)`,
		`CREATE TRIGGER IF NOT EXISTS tracks_ai AFTER INSERT ON tracks BEGIN
			INSERT INTO tracks_fts(rowid, title, artist, album)
			VALUES (new.id, new.title, new.artist, new.album);
		END`,
		`CREATE TRIGGER IF NOT EXISTS tracks_ad AFTER DELETE ON tracks BEGIN
			INSERT INTO tracks_fts(tracks_fts, rowid, title, artist, album)
			VALUES ('delete', old.id, old.title, old.artist, old.album);
		END`,
		`CREATE TRIGGER IF NOT EXISTS tracks_au AFTER UPDATE ON tracks BEGIN
			INSERT INTO tracks_fts(tracks_fts, rowid, title, artist, album)
			VALUES ('delete', old.id, old.title, old.artist, old.album);
			INSERT INTO tracks_fts(rowid, title, artist, album)
			VALUES (new.id, new.title, new.artist, new.album);
		END`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// SaveTrack upserts a Track keyed on Path, leaving AddedAt untouched
// on update and only bumping UpdatedAt when a tag field actually
// changed (TestSaveTrackUnchangedRescanLeavesUpdatedAtAlone in
// store_test.go pins this).
func (s *Store) SaveTrack(t Track) (Track, error) {
	var out Track
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing Track
		err := tx.Where("path = ?", t.Path).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			t.AddedAt = time.Now().UTC().Round(0)
			t.UpdatedAt = t.AddedAt
			if err := tx.Create(&t).Error; err != nil {
				return err
			}
			out = t
			return nil
		case err != nil:
			return err
		}

		changed := existing.Title != t.Title || existing.Artist != t.Artist ||
			existing.Album != t.Album || existing.Genre != t.Genre ||
			existing.Corrupted != t.Corrupted || existing.ArtURL != t.ArtURL

		existing.Title, existing.Artist, existing.Album, existing.Genre = t.Title, t.Artist, t.Album, t.Genre
		existing.DurationSeconds, existing.SampleRate, existing.Channels = t.DurationSeconds, t.SampleRate, t.Channels
		existing.ArtURL, existing.Corrupted = t.ArtURL, t.Corrupted

		columns := map[string]any{
			"title": existing.Title, "artist": existing.Artist,
			"album": existing.Album, "genre": existing.Genre,
			"duration_seconds": existing.DurationSeconds, "sample_rate": existing.SampleRate,
			"channels": existing.Channels, "art_url": existing.ArtURL, "corrupted": existing.Corrupted,
		}
		if changed {
			// Updates stamps updated_at via GORM's auto-update-time
			// convention (schema.go's Track.UpdatedAt field).
			existing.UpdatedAt = time.Now()
			columns["updated_at"] = existing.UpdatedAt
			if err := tx.Model(&existing).Updates(columns).Error; err != nil {
				return err
			}
		} else {
			// UpdateColumns bypasses GORM's auto-update-time hook, so
			// a re-scan of an unchanged file never bumps updated_at.
			if err := tx.Model(&existing).UpdateColumns(columns).Error; err != nil {
				return err
			}
		}
		out = existing
		return nil
	})
	return out, err
}

// DeleteTrack removes the row at path, cascading through the FTS
// mirror trigger.
func (s *Store) DeleteTrack(path string) error {
	return s.db.Where("path = ?", path).Delete(&Track{}).Error
}

// GetTrack returns the row at path.
func (s *Store) GetTrack(path string) (Track, error) {
	var t Track
	err := s.db.Where("path = ?", path).First(&t).Error
	return t, err
}

// ListTracks returns every catalog row, ordered by artist then title.
func (s *Store) ListTracks() ([]Track, error) {
	var tracks []Track
	err := s.db.Order("artist, title").Find(&tracks).Error
	return tracks, err
}

// UpsertAlbum keyed on (name, artist); used by the scanner and
// enrichment worker to keep album art current.
func (s *Store) UpsertAlbum(a Album) error {
	return s.db.Clauses().Where("name = ? AND artist = ?", a.Name, a.Artist).
		Assign(Album{ArtURL: a.ArtURL}).FirstOrCreate(&a).Error
}

// SetSetting upserts a single preference key.
func (s *Store) SetSetting(key, value string) error {
	return s.db.Save(&Setting{Key: key, Value: value}).Error
}

// GetSetting returns the stored value, or ok=false if unset.
func (s *Store) GetSetting(key string) (string, bool) {
	var row Setting
	if err := s.db.Where("key = ?", key).First(&row).Error; err != nil {
		return "", false
	}
	return row.Value, true
}

