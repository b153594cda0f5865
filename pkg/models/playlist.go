package models

import "time"

// Playlist is a named, ordered collection of saved videos. Field names are
// part of the wire contract; the mobile client deserializes them directly.
type Playlist struct {
	PlaylistID string    `json:"playlistId"`
	Name       string    `json:"name"`
	Videos     []Video   `json:"videos"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Video is one saved link inside a playlist. VideoID is an internal key
// generated at append time, not the YouTube ID, so the same YouTube video
// can appear more than once in a playlist.
type Video struct {
	VideoID      string    `json:"videoId"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	AddedAt      time.Time `json:"addedAt"`
}
