package youtube

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{
			name:   "standard watch URL",
			url:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "watch URL without scheme",
			url:    "youtube.com/watch?v=dQw4w9WgXcQ",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "short link",
			url:    "https://youtu.be/dQw4w9WgXcQ",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "short link with query params",
			url:    "https://youtu.be/dQw4w9WgXcQ?t=42",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "embed URL",
			url:    "https://www.youtube.com/embed/dQw4w9WgXcQ",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "legacy v path",
			url:    "https://www.youtube.com/v/dQw4w9WgXcQ",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "shorts URL",
			url:    "https://www.youtube.com/shorts/aBcDeFgHiJk",
			wantID: "aBcDeFgHiJk",
			wantOK: true,
		},
		{
			name:   "live URL",
			url:    "https://www.youtube.com/live/aBcDeFgHiJk",
			wantID: "aBcDeFgHiJk",
			wantOK: true,
		},
		{
			name:   "mobile subdomain",
			url:    "https://m.youtube.com/watch?v=dQw4w9WgXcQ",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "watch URL with extra query params",
			url:    "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ&t=10",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "empty string",
			url:    "",
			wantOK: false,
		},
		{
			name:   "non-YouTube URL",
			url:    "https://vimeo.com/123456789",
			wantOK: false,
		},
		{
			name:   "YouTube channel URL",
			url:    "https://www.youtube.com/@somechannel",
			wantOK: false,
		},
		{
			name:   "ID too short",
			url:    "https://youtu.be/short",
			wantOK: false,
		},
		{
			name:   "garbage input",
			url:    "not a url at all %%%",
			wantOK: false,
		},
		{
			name:   "v param with invalid characters",
			url:    "https://example.com/page?v=dQw4w9WgXc!",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractVideoID(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ExtractVideoID(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, id, tt.wantID)
			}
		})
	}
}

func TestThumbnailURL(t *testing.T) {
	got := ThumbnailURL("dQw4w9WgXcQ")
	want := "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg"
	if got != want {
		t.Errorf("ThumbnailURL() = %q, want %q", got, want)
	}
}

func TestDefaultTitle(t *testing.T) {
	if got := DefaultTitle("dQw4w9WgXcQ"); got != "video - dQw4w9WgXcQ" {
		t.Errorf("DefaultTitle() = %q", got)
	}
}
