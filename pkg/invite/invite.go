// Package invite generates room ids and the share links built from them.
package invite

import (
	"crypto/rand"
	"math/big"
	"net/url"
	"strings"
)

const (
	RoomIdLength   = 6
	roomIdAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	qrServiceURL   = "https://api.qrserver.com/v1/create-qr-code/"
)

type Generator struct {
	alphabet []byte
	length   int
}

func NewGenerator() *Generator {
	return &Generator{
		alphabet: []byte(roomIdAlphabet),
		length:   RoomIdLength,
	}
}

func (g *Generator) RoomId() (string, error) {
	max := big.NewInt(int64(len(g.alphabet)))
	b := make([]byte, g.length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = g.alphabet[n.Int64()]
	}

	return string(b), nil
}

// Link returns the guest invite link for roomId under publicURL.
func Link(publicURL, roomId string) string {
	return strings.TrimRight(publicURL, "/") + "/watch/" + url.PathEscape(roomId) + "?guest=true"
}

// QRImageURL returns an image url encoding link. The image is rendered by an
// external service on demand.
func QRImageURL(link string) string {
	q := url.Values{}
	q.Set("size", "200x200")
	q.Set("margin", "10")
	q.Set("data", link)
	return qrServiceURL + "?" + q.Encode()
}
