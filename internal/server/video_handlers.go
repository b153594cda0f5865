package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vidstash/internal/store"
	"vidstash/internal/youtube"
	"vidstash/pkg/models"

	"github.com/google/uuid"
)

// handleAddVideo saves a YouTube link into a playlist (POST /videos). The
// target playlist is addressed by ID or by name; an unseen name implicitly
// creates the playlist with the submitted video as its only entry.
func (s *Server) handleAddVideo(w http.ResponseWriter, r *http.Request, _ []string) {
	var req struct {
		PlaylistID   string `json:"playlistId"`
		PlaylistName string `json:"playlistName"`
		VideoURL     string `json:"videoUrl"`
		VideoTitle   string `json:"videoTitle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	if req.VideoURL == "" || (req.PlaylistID == "" && strings.TrimSpace(req.PlaylistName) == "") {
		s.respondError(w, r, http.StatusBadRequest, "playlistName (or playlistId) and videoUrl are required", nil)
		return
	}

	youtubeID, ok := youtube.ExtractVideoID(req.VideoURL)
	if !ok {
		s.respondError(w, r, http.StatusBadRequest, "Could not extract a valid YouTube video ID from videoUrl", nil)
		return
	}

	title := req.VideoTitle
	if strings.TrimSpace(title) == "" {
		title = youtube.DefaultTitle(youtubeID)
	}

	video := models.Video{
		VideoID:      uuid.New().String(),
		URL:          req.VideoURL,
		Title:        title,
		ThumbnailURL: youtube.ThumbnailURL(youtubeID),
		AddedAt:      time.Now().UTC(),
	}

	// Addressing by ID appends to exactly that playlist; no implicit create.
	if req.PlaylistID != "" {
		s.appendToPlaylist(w, r, req.PlaylistID, video)
		return
	}

	// Addressing by name: append when the name exists, otherwise create the
	// playlist with this video as its first entry.
	existing, found, err := s.store.QueryByName(r.Context(), req.PlaylistName)
	if err != nil {
		s.respondFault(w, r, err)
		return
	}

	if found {
		s.appendToPlaylist(w, r, existing.PlaylistID, video)
		return
	}

	playlist, err := s.store.Create(r.Context(), req.PlaylistName, []models.Video{video})
	if err != nil {
		s.respondFault(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Playlist created and video added",
		"playlistId": playlist.PlaylistID,
		"video":      video,
	})
}

// appendToPlaylist runs the append branch of the add-video operation. The
// store append is a single atomic step, so concurrent adds against the same
// playlist cannot lose entries.
func (s *Server) appendToPlaylist(w http.ResponseWriter, r *http.Request, playlistID string, video models.Video) {
	if err := s.store.AppendVideo(r.Context(), playlistID, video); err != nil {
		if errors.Is(err, store.ErrPlaylistNotFound) {
			s.respondError(w, r, http.StatusNotFound, "Playlist not found", nil)
			return
		}
		s.respondFault(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Video added to playlist",
		"playlistId": playlistID,
		"video":      video,
	})
}

// handleRemoveVideo removes one video from a playlist
// (DELETE /playlists/{id}/videos/{videoId}). The embedded sequence is
// rewritten wholesale; removing the last video leaves an empty playlist.
func (s *Server) handleRemoveVideo(w http.ResponseWriter, r *http.Request, params []string) {
	playlistID, videoID := params[0], params[1]

	playlist, err := s.store.Get(r.Context(), playlistID)
	if err != nil {
		if errors.Is(err, store.ErrPlaylistNotFound) {
			s.respondError(w, r, http.StatusNotFound, "Playlist or videos not found", nil)
			return
		}
		s.respondFault(w, r, err)
		return
	}

	remaining := make([]models.Video, 0, len(playlist.Videos))
	for _, v := range playlist.Videos {
		if v.VideoID != videoID {
			remaining = append(remaining, v)
		}
	}

	if len(remaining) == len(playlist.Videos) {
		s.respondError(w, r, http.StatusNotFound, "Video ID not found in playlist", nil)
		return
	}

	if err := s.store.ReplaceVideos(r.Context(), playlistID, remaining); err != nil {
		if errors.Is(err, store.ErrPlaylistNotFound) {
			s.respondError(w, r, http.StatusNotFound, "Playlist or videos not found", nil)
			return
		}
		s.respondFault(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Video deleted successfully"})
}

// handleUpdateVideoTitle changes one video's display title
// (PUT /playlists/{id}/videos/{videoId}/title, json newTitle).
func (s *Server) handleUpdateVideoTitle(w http.ResponseWriter, r *http.Request, params []string) {
	playlistID, videoID := params[0], params[1]

	var req struct {
		NewTitle string `json:"newTitle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	if strings.TrimSpace(req.NewTitle) == "" {
		s.respondError(w, r, http.StatusBadRequest, "newTitle is required", nil)
		return
	}

	playlist, err := s.store.Get(r.Context(), playlistID)
	if err != nil {
		if errors.Is(err, store.ErrPlaylistNotFound) {
			s.respondError(w, r, http.StatusNotFound, "Playlist not found", nil)
			return
		}
		s.respondFault(w, r, err)
		return
	}

	var updated *models.Video
	videos := make([]models.Video, len(playlist.Videos))
	for i, v := range playlist.Videos {
		if v.VideoID == videoID {
			v.Title = req.NewTitle
			updated = &v
		}
		videos[i] = v
	}

	if updated == nil {
		s.respondError(w, r, http.StatusNotFound, "Video ID not found in playlist", nil)
		return
	}

	if err := s.store.ReplaceVideos(r.Context(), playlistID, videos); err != nil {
		if errors.Is(err, store.ErrPlaylistNotFound) {
			s.respondError(w, r, http.StatusNotFound, "Playlist not found", nil)
			return
		}
		s.respondFault(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Video title updated successfully",
		"video":   *updated,
	})
}
