package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"vidstash/internal/store"
	"vidstash/pkg/models"
)

// handleListPlaylists returns all playlists as a JSON array (empty array,
// never null, when none exist).
func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request, _ []string) {
	playlists, err := s.store.Scan(r.Context())
	if err != nil {
		s.respondFault(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, playlists)
}

// handleCreatePlaylist explicitly creates an empty playlist (POST json name).
// Name uniqueness is not enforced: duplicate names may coexist,
// disambiguated by ID.
func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request, _ []string) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		s.respondError(w, r, http.StatusBadRequest, "Playlist name is required", nil)
		return
	}

	playlist, err := s.store.Create(r.Context(), req.Name, []models.Video{})
	if err != nil {
		s.respondFault(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, playlist)
}

// handleDeletePlaylist deletes a playlist and every embedded video
// (DELETE /playlists/{id}). Deleting an absent playlist reports not-found
// rather than silently succeeding.
func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request, params []string) {
	playlistID := params[0]

	if err := s.store.Delete(r.Context(), playlistID); err != nil {
		if errors.Is(err, store.ErrPlaylistNotFound) {
			s.respondError(w, r, http.StatusNotFound, "Playlist not found or already deleted", nil)
			return
		}
		s.respondFault(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Playlist deleted successfully"})
}

// handleRenamePlaylist updates a playlist's display name
// (PUT /playlists/{id}/name). The rename requires the record to already
// exist; it never creates one.
func (s *Server) handleRenamePlaylist(w http.ResponseWriter, r *http.Request, params []string) {
	playlistID := params[0]

	var req struct {
		NewName string `json:"newName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	if strings.TrimSpace(req.NewName) == "" {
		s.respondError(w, r, http.StatusBadRequest, "newName is required", nil)
		return
	}

	playlist, err := s.store.Rename(r.Context(), playlistID, req.NewName)
	if err != nil {
		if errors.Is(err, store.ErrPlaylistNotFound) {
			s.respondError(w, r, http.StatusNotFound, "Playlist not found", nil)
			return
		}
		s.respondFault(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Playlist renamed successfully",
		"playlist": playlist,
	})
}
