package qrcode

import (
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

const pngSize = 256

// Renderer draws the QR bitmap that points at the public viewer page.
type Renderer struct {
	BaseURL string
}

func NewRenderer(baseURL string) *Renderer {
	return &Renderer{BaseURL: baseURL}
}

func (r *Renderer) ViewerURL(shortCode string) string {
	return fmt.Sprintf("%s/q/%s", r.BaseURL, shortCode)
}

func (r *Renderer) PNG(shortCode string) ([]byte, error) {
	return goqrcode.Encode(r.ViewerURL(shortCode), goqrcode.Medium, pngSize)
}
