package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vidstash/pkg/models"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// ErrPlaylistNotFound is returned when a referenced playlist is absent.
// Conditional writes (rename, delete, append) report precondition failure
// as ErrPlaylistNotFound rather than creating a new record.
var ErrPlaylistNotFound = errors.New("playlist not found")

// Store is a single-table document store for playlists: one row per
// playlist, videos embedded as a JSON document in the row. It is safe for
// concurrent use because the underlying *sql.DB is concurrency-safe.
type Store struct {
	conn   *sql.DB
	logger *logrus.Logger

	// Prepared statements for the hot paths
	getStmt         *sql.Stmt
	queryByNameStmt *sql.Stmt
	appendVideoStmt *sql.Stmt
	replaceStmt     *sql.Stmt
	renameStmt      *sql.Stmt
	deleteStmt      *sql.Stmt
}

// NewStore opens (or creates) a SQLite database at the provided path and
// ensures the playlists table and its name index exist. Caller should
// Close() it when finished.
func NewStore(dbPath string, maxConns int, logger *logrus.Logger) (*Store, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// SQLite works better with fewer connections
	conn.SetMaxOpenConns(maxConns)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(15 * time.Minute)

	// Enable WAL mode for better concurrency
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA temp_store=memory;",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			logger.WithError(err).WithField("pragma", pragma).Warn("Failed to set pragma")
		}
	}

	s := &Store{
		conn:   conn,
		logger: logger,
	}

	if err := s.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := s.prepareStatements(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	logger.WithField("store_path", dbPath).Info("Playlist store initialized")
	return s, nil
}

// createTables creates the playlists table and indices if they do not
// already exist. Idempotent and safe to call multiple times.
func (s *Store) createTables() error {
	playlistsTable := `
	CREATE TABLE IF NOT EXISTS playlists (
		playlist_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		videos TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`

	if _, err := s.conn.Exec(playlistsTable); err != nil {
		return err
	}

	// Secondary index for lookup-by-name (the add-video path)
	if _, err := s.conn.Exec("CREATE INDEX IF NOT EXISTS idx_playlists_name ON playlists(name);"); err != nil {
		return err
	}

	return nil
}

// prepareStatements prepares commonly used SQL statements
func (s *Store) prepareStatements() error {
	var err error

	s.getStmt, err = s.conn.Prepare(`
		SELECT playlist_id, name, videos, created_at, updated_at
		FROM playlists WHERE playlist_id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	// Oldest match wins when duplicate names coexist
	s.queryByNameStmt, err = s.conn.Prepare(`
		SELECT playlist_id, name, videos, created_at, updated_at
		FROM playlists WHERE name = ?
		ORDER BY created_at LIMIT 1`)
	if err != nil {
		return fmt.Errorf("failed to prepare query-by-name statement: %w", err)
	}

	// Atomic append: one conditional statement, so concurrent appends to the
	// same playlist cannot clobber each other. coalesce covers rows written
	// before the videos column had a default.
	s.appendVideoStmt, err = s.conn.Prepare(`
		UPDATE playlists
		SET videos = json_insert(coalesce(videos, '[]'), '$[#]', json(?)),
		    updated_at = ?
		WHERE playlist_id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare append-video statement: %w", err)
	}

	s.replaceStmt, err = s.conn.Prepare(`
		UPDATE playlists SET videos = ?, updated_at = ?
		WHERE playlist_id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare replace-videos statement: %w", err)
	}

	s.renameStmt, err = s.conn.Prepare(`
		UPDATE playlists SET name = ?, updated_at = ?
		WHERE playlist_id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare rename statement: %w", err)
	}

	s.deleteStmt, err = s.conn.Prepare(`
		DELETE FROM playlists WHERE playlist_id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	return nil
}

// Create inserts a new playlist record with a fresh ID and the given videos
// (nil means an empty playlist). Name uniqueness is not enforced here:
// duplicate names may coexist, disambiguated only by ID.
func (s *Store) Create(ctx context.Context, name string, videos []models.Video) (models.Playlist, error) {
	if videos == nil {
		videos = []models.Video{}
	}
	now := time.Now().UTC()
	playlist := models.Playlist{
		PlaylistID: uuid.New().String(),
		Name:       name,
		Videos:     videos,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	doc, err := json.Marshal(playlist.Videos)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("failed to encode videos: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO playlists (playlist_id, name, videos, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		playlist.PlaylistID, playlist.Name, string(doc),
		formatTime(playlist.CreatedAt), formatTime(playlist.UpdatedAt))
	if err != nil {
		s.logger.WithError(err).WithField("name", name).Error("Failed to create playlist")
		return models.Playlist{}, err
	}

	return playlist, nil
}

// Scan returns all playlists ordered by creation time. The result is never
// nil: callers (and the wire contract) rely on an empty slice when no
// playlists exist.
func (s *Store) Scan(ctx context.Context) ([]models.Playlist, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT playlist_id, name, videos, created_at, updated_at
		FROM playlists ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := []models.Playlist{}
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	return playlists, rows.Err()
}

// Get returns a single playlist by its ID.
func (s *Store) Get(ctx context.Context, playlistID string) (models.Playlist, error) {
	row := s.getStmt.QueryRowContext(ctx, playlistID)
	playlist, err := scanPlaylist(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Playlist{}, ErrPlaylistNotFound
		}
		s.logger.WithError(err).WithField("playlist_id", playlistID).Error("Failed to get playlist")
		return models.Playlist{}, err
	}
	return playlist, nil
}

// QueryByName looks up a playlist by exact name via the name index. The
// second return value reports whether a match exists; an absent name is an
// ordinary outcome, not an error.
func (s *Store) QueryByName(ctx context.Context, name string) (models.Playlist, bool, error) {
	row := s.queryByNameStmt.QueryRowContext(ctx, name)
	playlist, err := scanPlaylist(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Playlist{}, false, nil
		}
		s.logger.WithError(err).WithField("name", name).Error("Failed to query playlist by name")
		return models.Playlist{}, false, err
	}
	return playlist, true, nil
}

// AppendVideo atomically appends one video to an existing playlist's
// sequence and refreshes updated_at. Returns ErrPlaylistNotFound if the
// playlist does not exist (the append never creates a record).
func (s *Store) AppendVideo(ctx context.Context, playlistID string, video models.Video) error {
	doc, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("failed to encode video: %w", err)
	}

	result, err := s.appendVideoStmt.ExecContext(ctx, string(doc), formatTime(time.Now().UTC()), playlistID)
	if err != nil {
		s.logger.WithError(err).WithField("playlist_id", playlistID).Error("Failed to append video")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// ReplaceVideos persists a full replacement of a playlist's video sequence
// and refreshes updated_at. Used for element removal and title updates,
// where the embedded sequence is rewritten wholesale.
func (s *Store) ReplaceVideos(ctx context.Context, playlistID string, videos []models.Video) error {
	if videos == nil {
		videos = []models.Video{}
	}
	doc, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("failed to encode videos: %w", err)
	}

	result, err := s.replaceStmt.ExecContext(ctx, string(doc), formatTime(time.Now().UTC()), playlistID)
	if err != nil {
		s.logger.WithError(err).WithField("playlist_id", playlistID).Error("Failed to replace videos")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// Rename changes a playlist's display name, requiring the record to already
// exist, and returns the full updated record.
func (s *Store) Rename(ctx context.Context, playlistID, newName string) (models.Playlist, error) {
	result, err := s.renameStmt.ExecContext(ctx, newName, formatTime(time.Now().UTC()), playlistID)
	if err != nil {
		s.logger.WithError(err).WithField("playlist_id", playlistID).Error("Failed to rename playlist")
		return models.Playlist{}, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.Playlist{}, err
	}
	if affected == 0 {
		return models.Playlist{}, ErrPlaylistNotFound
	}

	return s.Get(ctx, playlistID)
}

// Delete removes a playlist and, with it, every embedded video. Deleting an
// absent playlist returns ErrPlaylistNotFound rather than succeeding
// silently.
func (s *Store) Delete(ctx context.Context, playlistID string) error {
	result, err := s.deleteStmt.ExecContext(ctx, playlistID)
	if err != nil {
		s.logger.WithError(err).WithField("playlist_id", playlistID).Error("Failed to delete playlist")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// Count returns the number of stored playlists.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM playlists").Scan(&count)
	return count, err
}

// Ping verifies store connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Close closes the underlying database connection and prepared statements.
func (s *Store) Close() error {
	statements := []*sql.Stmt{
		s.getStmt,
		s.queryByNameStmt,
		s.appendVideoStmt,
		s.replaceStmt,
		s.renameStmt,
		s.deleteStmt,
	}

	for _, stmt := range statements {
		if stmt != nil {
			if err := stmt.Close(); err != nil {
				s.logger.WithError(err).Error("Failed to close prepared statement")
			}
		}
	}

	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanPlaylist decodes one playlists row, unmarshaling the embedded videos
// document and parsing the stored timestamps.
func scanPlaylist(row rowScanner) (models.Playlist, error) {
	var playlist models.Playlist
	var videosDoc string
	var createdAt, updatedAt string

	if err := row.Scan(&playlist.PlaylistID, &playlist.Name, &videosDoc, &createdAt, &updatedAt); err != nil {
		return models.Playlist{}, err
	}

	playlist.Videos = []models.Video{}
	if videosDoc != "" {
		if err := json.Unmarshal([]byte(videosDoc), &playlist.Videos); err != nil {
			return models.Playlist{}, fmt.Errorf("corrupt videos document for playlist %s: %w", playlist.PlaylistID, err)
		}
	}
	if playlist.Videos == nil {
		playlist.Videos = []models.Video{}
	}

	var err error
	if playlist.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Playlist{}, err
	}
	if playlist.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Playlist{}, err
	}

	return playlist, nil
}

// timeLayout is fixed-width (no trimmed fractional zeros) so that
// lexicographic ordering of the stored text matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
