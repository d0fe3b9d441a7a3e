package qrcode

import (
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// PNG encodes content as a square PNG of size pixels with medium error
// recovery. A non-positive size falls back to DefaultSize.
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qrcode: empty content")
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := goqrcode.Encode(content, goqrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode failed: %w", err)
	}
	return png, nil
}

// FileName is the download name of a portfolio's QR image.
func FileName(portfolioID string) string {
	return fmt.Sprintf("portfolio-%s-qr.png", portfolioID)
}
