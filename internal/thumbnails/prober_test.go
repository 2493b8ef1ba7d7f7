package thumbnails

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booksread/internal/config"
)

// encodePNG renders a blank image of the given size to real PNG bytes.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestProber() *Prober {
	return NewProber(config.Thumbnails{
		MaxBytes:     2_000_000,
		FetchTimeout: 5 * time.Second,
	})
}

func TestProbeDimensions(t *testing.T) {
	t.Run("reads dimensions from image header", func(t *testing.T) {
		var gotRange string
		imgBytes := encodePNG(t, 128, 192)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRange = r.Header.Get("Range")
			_, _ = w.Write(imgBytes)
		}))
		defer server.Close()

		width, height, err := newTestProber().ProbeDimensions(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, 128, width)
		assert.Equal(t, 192, height)
		assert.Equal(t, "bytes=0-1999999", gotRange)
	})

	t.Run("accepts partial content responses", func(t *testing.T) {
		imgBytes := encodePNG(t, 64, 64)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPartialContent)
			_, _ = w.Write(imgBytes)
		}))
		defer server.Close()

		width, height, err := newTestProber().ProbeDimensions(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, 64, width)
		assert.Equal(t, 64, height)
	})

	t.Run("truncated header still yields dimensions", func(t *testing.T) {
		// PNG stores width and height in the first 33 bytes; serving only
		// those must be enough for a successful probe.
		imgBytes := encodePNG(t, 300, 450)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPartialContent)
			_, _ = w.Write(imgBytes[:33])
		}))
		defer server.Close()

		width, height, err := newTestProber().ProbeDimensions(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, 300, width)
		assert.Equal(t, 450, height)
	})

	t.Run("non-image body fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>not an image</html>"))
		}))
		defer server.Close()

		_, _, err := newTestProber().ProbeDimensions(context.Background(), server.URL)
		assert.Error(t, err)
	})

	t.Run("error status fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, _, err := newTestProber().ProbeDimensions(context.Background(), server.URL)
		assert.Error(t, err)
	})

	t.Run("slow host is cut off by the timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		defer server.Close()

		prober := NewProber(config.Thumbnails{
			MaxBytes:     2_000_000,
			FetchTimeout: 50 * time.Millisecond,
		})
		_, _, err := prober.ProbeDimensions(context.Background(), server.URL)
		assert.Error(t, err)
	})
}
