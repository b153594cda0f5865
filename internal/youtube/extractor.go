// Package youtube extracts canonical video identifiers from the URL shapes
// YouTube hands out (watch links, short links, embeds, shorts, live pages).
package youtube

import (
	"fmt"
	"net/url"
	"regexp"
)

// videoIDLength is the fixed length of a YouTube video identifier.
const videoIDLength = 11

// idPatterns are tried in order; the first pattern whose capture group is a
// well-formed 11-character ID wins.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/(?:watch\?v=|embed/|v/|shorts/|live/|playlist\?list=.*&v=)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtu\.be/([a-zA-Z0-9_-]{11})(?:\?.*)?`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?m\.youtube\.com/(?:watch\?v=|embed/|v/|shorts/|live/)([a-zA-Z0-9_-]{11})`),
}

var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractVideoID pulls the 11-character video ID out of an arbitrary string.
// Malformed or non-YouTube input returns ok=false, never an error or panic.
func ExtractVideoID(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	for _, pattern := range idPatterns {
		match := pattern.FindStringSubmatch(raw)
		if len(match) == 2 && len(match[1]) == videoIDLength {
			return match[1], true
		}
	}

	// Fallback for URLs that carry the ID in a "v" query parameter but don't
	// match any of the patterns above.
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if id := parsed.Query().Get("v"); validID.MatchString(id) {
		return id, true
	}

	return "", false
}

// ThumbnailURL returns the high-quality default thumbnail for a video ID.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID)
}

// DefaultTitle synthesizes a display title for videos submitted without one.
func DefaultTitle(videoID string) string {
	return fmt.Sprintf("video - %s", videoID)
}
