package payload

import (
	"encoding/base64"
	"fmt"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultImageSize is the rendered QR width and height in pixels.
const DefaultImageSize = 300

// RenderOptions controls QR image rendering.
type RenderOptions struct {
	Size       int
	Foreground color.Color
	Background color.Color
}

// DefaultRenderOptions returns black-on-white 300px rendering.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Size:       DefaultImageSize,
		Foreground: color.Black,
		Background: color.White,
	}
}

// Renderer turns content into a PNG barcode image.
type Renderer interface {
	Render(content string) ([]byte, error)
}

type qrRenderer struct {
	opts RenderOptions
}

// NewQRRenderer returns a renderer using the highest error-correction level
// so damaged or partially covered codes still scan.
func NewQRRenderer(opts RenderOptions) Renderer {
	if opts.Size <= 0 {
		opts.Size = DefaultImageSize
	}
	if opts.Foreground == nil {
		opts.Foreground = color.Black
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	return &qrRenderer{opts: opts}
}

func (r *qrRenderer) Render(content string) ([]byte, error) {
	code, err := qrcode.New(content, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("failed to build qr code: %w", err)
	}
	code.ForegroundColor = r.opts.Foreground
	code.BackgroundColor = r.opts.Background

	png, err := code.PNG(r.opts.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}

// DataURL returns png as an inline data URL.
func DataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
