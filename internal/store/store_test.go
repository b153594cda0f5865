package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"vidstash/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath, 5, logger)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func testVideo(title string) models.Video {
	return models.Video{
		VideoID:      uuid.New().String(),
		URL:          "https://youtu.be/dQw4w9WgXcQ",
		Title:        title,
		ThumbnailURL: "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		AddedAt:      time.Now().UTC(),
	}
}

func TestScanEmptyStore(t *testing.T) {
	s := newTestStore(t)

	playlists, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if playlists == nil {
		t.Fatal("Scan returned nil, want empty slice")
	}
	if len(playlists) != 0 {
		t.Errorf("Scan returned %d playlists, want 0", len(playlists))
	}
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "Favorites", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.PlaylistID == "" {
		t.Error("Create assigned no playlist ID")
	}
	if created.Videos == nil || len(created.Videos) != 0 {
		t.Errorf("Create videos = %v, want empty slice", created.Videos)
	}

	got, err := s.Get(ctx, created.PlaylistID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Favorites" {
		t.Errorf("Get name = %q, want %q", got.Name, "Favorites")
	}
	if got.Videos == nil || len(got.Videos) != 0 {
		t.Errorf("Get videos = %v, want empty slice", got.Videos)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("Get returned zero timestamps")
	}
}

func TestCreateWithInitialVideo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	video := testVideo("first")
	created, err := s.Create(ctx, "Watch Later", []models.Video{video})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := s.Get(ctx, created.PlaylistID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Videos) != 1 {
		t.Fatalf("Got %d videos, want 1", len(got.Videos))
	}
	if got.Videos[0].VideoID != video.VideoID {
		t.Errorf("Video ID = %q, want %q", got.Videos[0].VideoID, video.VideoID)
	}
	if got.Videos[0].ThumbnailURL != video.ThumbnailURL {
		t.Errorf("Thumbnail = %q, want %q", got.Videos[0].ThumbnailURL, video.ThumbnailURL)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "no-such-id")
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Errorf("Get error = %v, want ErrPlaylistNotFound", err)
	}
}

func TestQueryByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "Music", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, found, err := s.QueryByName(ctx, "Music")
	if err != nil {
		t.Fatalf("QueryByName failed: %v", err)
	}
	if !found {
		t.Fatal("QueryByName found = false, want true")
	}
	if got.PlaylistID != created.PlaylistID {
		t.Errorf("QueryByName ID = %q, want %q", got.PlaylistID, created.PlaylistID)
	}

	_, found, err = s.QueryByName(ctx, "Nope")
	if err != nil {
		t.Fatalf("QueryByName failed: %v", err)
	}
	if found {
		t.Error("QueryByName found = true for absent name")
	}
}

func TestQueryByNameDuplicatesReturnsOldest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Create(ctx, "Dupes", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// Duplicate names are allowed; lookup must deterministically pick the
	// earliest-created record.
	time.Sleep(5 * time.Millisecond)
	if _, err := s.Create(ctx, "Dupes", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, found, err := s.QueryByName(ctx, "Dupes")
	if err != nil || !found {
		t.Fatalf("QueryByName = (%v, %v), want found", err, found)
	}
	if got.PlaylistID != first.PlaylistID {
		t.Errorf("QueryByName returned %q, want oldest %q", got.PlaylistID, first.PlaylistID)
	}
}

func TestAppendVideo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "Queue", []models.Video{testVideo("one")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	second := testVideo("two")
	if err := s.AppendVideo(ctx, created.PlaylistID, second); err != nil {
		t.Fatalf("AppendVideo failed: %v", err)
	}

	got, err := s.Get(ctx, created.PlaylistID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Videos) != 2 {
		t.Fatalf("Got %d videos, want 2", len(got.Videos))
	}
	// Insertion order is display order
	if got.Videos[0].Title != "one" || got.Videos[1].Title != "two" {
		t.Errorf("Video order = [%q, %q], want [one, two]", got.Videos[0].Title, got.Videos[1].Title)
	}
	if !got.UpdatedAt.After(created.UpdatedAt) {
		t.Error("AppendVideo did not refresh updatedAt")
	}
}

func TestAppendVideoMissingPlaylist(t *testing.T) {
	s := newTestStore(t)

	err := s.AppendVideo(context.Background(), "no-such-id", testVideo("x"))
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Errorf("AppendVideo error = %v, want ErrPlaylistNotFound", err)
	}
}

func TestReplaceVideos(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "Mix", []models.Video{testVideo("a"), testVideo("b")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Removing the only remaining entries keeps the playlist itself
	if err := s.ReplaceVideos(ctx, created.PlaylistID, nil); err != nil {
		t.Fatalf("ReplaceVideos failed: %v", err)
	}

	got, err := s.Get(ctx, created.PlaylistID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Videos == nil || len(got.Videos) != 0 {
		t.Errorf("Videos after replace = %v, want empty slice", got.Videos)
	}

	if err := s.ReplaceVideos(ctx, "no-such-id", nil); !errors.Is(err, ErrPlaylistNotFound) {
		t.Errorf("ReplaceVideos error = %v, want ErrPlaylistNotFound", err)
	}
}

func TestRename(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "Old Name", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	renamed, err := s.Rename(ctx, created.PlaylistID, "New Name")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if renamed.Name != "New Name" {
		t.Errorf("Renamed name = %q, want %q", renamed.Name, "New Name")
	}

	// Repeating the rename is idempotent on the stored name
	again, err := s.Rename(ctx, created.PlaylistID, "New Name")
	if err != nil {
		t.Fatalf("Second rename failed: %v", err)
	}
	if again.Name != "New Name" {
		t.Errorf("Second rename name = %q, want %q", again.Name, "New Name")
	}

	if _, err := s.Rename(ctx, "no-such-id", "X"); !errors.Is(err, ErrPlaylistNotFound) {
		t.Errorf("Rename error = %v, want ErrPlaylistNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "Doomed", []models.Video{testVideo("gone")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := s.Delete(ctx, created.PlaylistID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := s.Get(ctx, created.PlaylistID); !errors.Is(err, ErrPlaylistNotFound) {
		t.Errorf("Get after delete = %v, want ErrPlaylistNotFound", err)
	}

	// Deleting again reports not-found instead of silently succeeding
	if err := s.Delete(ctx, created.PlaylistID); !errors.Is(err, ErrPlaylistNotFound) {
		t.Errorf("Second delete error = %v, want ErrPlaylistNotFound", err)
	}
}

func TestCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if _, err := s.Create(ctx, name, nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}
}
