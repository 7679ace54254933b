package mediaurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeYouTube(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"mobile watch url", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short url", "https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ"},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1", "dQw4w9WgXcQ"},
		{"shorts url", "youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"padded", "  dQw4w9WgXcQ ", "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(YouTube, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		raw      string
	}{
		{"empty", YouTube, ""},
		{"youtube search term", YouTube, "never gonna give you up"},
		{"youtube watch without v", YouTube, "https://www.youtube.com/watch?list=abc"},
		{"youtube other host", YouTube, "https://example.com/watch?v=dQw4w9WgXcQ"},
		{"vimeo without id", Vimeo, "https://vimeo.com/channels/staffpicks"},
		{"vimeo other host", Vimeo, "https://example.com/123"},
		{"url with bad scheme", URL, "ftp://example.com/movie.mp4"},
		{"file with newline", File, "movie\n.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.platform, tt.raw)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}

	_, err := Normalize("dailymotion", "x8abc")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestNormalizeVimeo(t *testing.T) {
	for _, raw := range []string{
		"76979871",
		"https://vimeo.com/76979871",
		"https://player.vimeo.com/video/76979871?autoplay=1",
		"https://vimeo.com/channels/staffpicks/76979871",
	} {
		got, err := Normalize(Vimeo, raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "76979871", got)
	}
}

func TestNormalizeURLAndFile(t *testing.T) {
	got, err := Normalize(URL, "cdn.example.com/movie.mp4")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/movie.mp4", got)

	got, err = Normalize(File, "holiday.mp4")
	require.NoError(t, err)
	assert.Equal(t, "holiday.mp4", got)
}

func TestDetect(t *testing.T) {
	tests := map[string]Platform{
		"dQw4w9WgXcQ":                       YouTube,
		"https://youtu.be/dQw4w9WgXcQ":      YouTube,
		"https://www.youtube.com/watch?v=x": YouTube,
		"https://vimeo.com/76979871":        Vimeo,
		"https://cdn.example.com/movie.mp4": URL,
	}

	for raw, want := range tests {
		got, err := Detect(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := Detect("ftp://example.com")
	assert.ErrorIs(t, err, ErrInvalidURL)
}
