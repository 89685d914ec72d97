// Package qr renders redemption links as QR PNG images.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 512

// EncodePNG renders the URL as a QR code PNG at the given pixel size
// (0 means the default 512).
func EncodePNG(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultSize
	}
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
