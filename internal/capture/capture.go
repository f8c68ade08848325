// Package capture writes page screenshots to disk.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"

	"github.com/nfnt/resize"
)

// Screenshotter is the slice of the browser session capture needs.
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// Save captures the current viewport and writes it as PNG.
func Save(ctx context.Context, src Screenshotter, path string) error {
	data, err := src.Screenshot(ctx)
	if err != nil {
		return fmt.Errorf("capturing page: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// SaveThumbnail captures the current viewport and writes a scaled-down PNG,
// width pixels wide with the aspect ratio kept.
func SaveThumbnail(ctx context.Context, src Screenshotter, path string, width uint) error {
	data, err := src.Screenshot(ctx)
	if err != nil {
		return fmt.Errorf("capturing page: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding screenshot: %w", err)
	}
	thumb := resize.Resize(width, 0, img, resize.Lanczos3)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, thumb); err != nil {
		return fmt.Errorf("encoding thumbnail: %w", err)
	}
	return nil
}
