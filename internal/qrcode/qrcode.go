// Package qrcode renders the join link shown on the table screen.
package qrcode

import (
	"fmt"
	"net/url"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 256

// JoinURL is the link a phone opens to take a seat in matchID.
func JoinURL(host, matchID string) string {
	q := url.Values{"game": {matchID}, "type": {"player"}}
	return fmt.Sprintf("http://%s/?%s", host, q.Encode())
}

// Generate creates a QR code PNG image for the given URL.
func Generate(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	return qr.Encode(link, qr.Medium, size)
}

// JoinPNG renders the join link for matchID.
func JoinPNG(host, matchID string) ([]byte, error) {
	return Generate(JoinURL(host, matchID), DefaultSize)
}
