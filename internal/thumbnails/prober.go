// Package thumbnails measures cover image dimensions without downloading
// whole files: a byte-range request fetches the start of the image and
// image.DecodeConfig reads the declared size out of the header.
package thumbnails

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	// Header decoders for the formats cover hosts actually serve.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/mrlokans/booksread/internal/config"
)

// Prober fetches a bounded prefix of an image and reads its dimensions.
type Prober struct {
	httpClient *http.Client
	maxBytes   int64
}

// NewProber creates a prober with the configured byte cap and per-call timeout.
func NewProber(cfg config.Thumbnails) *Prober {
	timeout := cfg.FetchTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultThumbnailRangeBytes
	}
	return &Prober{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
	}
}

// ProbeDimensions returns the width and height declared in the image header
// at imageURL. Only the first maxBytes are requested and only as much as the
// header needs is consumed. A slow host is cut off by the client timeout.
func (p *Prober) ProbeDimensions(ctx context.Context, imageURL string) (width, height int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", p.maxBytes-1))
	req.Header.Set("User-Agent", "BooksRead/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return 0, 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	// Hosts that ignore Range send the full file; the limit keeps the read
	// bounded either way.
	cfg, _, err := image.DecodeConfig(io.LimitReader(resp.Body, p.maxBytes))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image header: %w", err)
	}

	return cfg.Width, cfg.Height, nil
}
