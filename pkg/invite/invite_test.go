package invite

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomId(t *testing.T) {
	g := NewGenerator()
	re := regexp.MustCompile(`^[A-Z0-9]{6}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := g.RoomId()
		require.NoError(t, err)
		assert.Regexp(t, re, id)
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 90)
}

func TestLink(t *testing.T) {
	assert.Equal(t, "https://tt.example/watch/ABC123?guest=true", Link("https://tt.example/", "ABC123"))

	qr, err := url.Parse(QRImageURL("https://tt.example/watch/ABC123?guest=true"))
	require.NoError(t, err)
	assert.Equal(t, "api.qrserver.com", qr.Host)
	assert.Equal(t, "https://tt.example/watch/ABC123?guest=true", qr.Query().Get("data"))
	assert.Equal(t, "200x200", qr.Query().Get("size"))
}
