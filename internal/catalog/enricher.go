package catalog

import (
	"context"
	"log"

	"github.com/mrlokans/booksread/internal/entities"
	"github.com/mrlokans/booksread/internal/googlebooks"
)

// Enricher fills in a resolved Book's secondary fields from the raw volume
// record. Every field is persisted independently: one missing or failing
// sub-field never blocks the others, and no enrichment failure is allowed
// to fail the ingestion of the book itself.
type Enricher struct {
	updater FieldUpdater
	prober  DimensionProber
}

// NewEnricher creates an enricher. The prober may be nil, in which case
// thumbnail dimensions are left unmeasured.
func NewEnricher(updater FieldUpdater, prober DimensionProber) *Enricher {
	return &Enricher{
		updater: updater,
		prober:  prober,
	}
}

// Apply updates the book from the volume record, field by field. The
// in-memory book is kept in step with whatever was committed.
func (e *Enricher) Apply(ctx context.Context, book *entities.Book, vol googlebooks.Volume) {
	if snippet := vol.SearchInfo.TextSnippet; snippet != "" {
		if e.persist(ctx, book, map[string]any{"description": snippet}) {
			book.Description = snippet
		}
	}

	if pages := vol.VolumeInfo.PageCount; pages > 0 {
		if e.persist(ctx, book, map[string]any{"num_pages": pages}) {
			book.NumPages = pages
		}
	}

	thumbnail := vol.VolumeInfo.ImageLinks.Thumbnail
	if thumbnail == "" {
		thumbnail = vol.VolumeInfo.ImageLinks.SmallThumbnail
	}
	if thumbnail != "" {
		if e.persist(ctx, book, map[string]any{"thumbnail_url": thumbnail}) {
			book.ThumbnailURL = thumbnail
		}
	}

	if link := vol.VolumeInfo.InfoLink; link != "" {
		if e.persist(ctx, book, map[string]any{"info_url": link}) {
			book.InfoURL = link
		}
	}

	if book.ThumbnailURL != "" {
		e.MeasureThumbnail(ctx, book)
	}
}

// MeasureThumbnail probes the book's thumbnail for its dimensions and
// persists them. Probe failures leave the dimensions at (0, 0); there is
// no retry with a larger range.
func (e *Enricher) MeasureThumbnail(ctx context.Context, book *entities.Book) {
	if e.prober == nil || book.ThumbnailURL == "" {
		return
	}

	width, height, err := e.prober.ProbeDimensions(ctx, book.ThumbnailURL)
	if err != nil {
		log.Printf("Thumbnail probe failed for book %d (%s): %v", book.ID, book.ThumbnailURL, err)
		return
	}

	fields := map[string]any{
		"thumbnail_width":  width,
		"thumbnail_height": height,
	}
	if e.persist(ctx, book, fields) {
		book.ThumbnailWidth = width
		book.ThumbnailHeight = height
	}
}

func (e *Enricher) persist(ctx context.Context, book *entities.Book, fields map[string]any) bool {
	if err := e.updater.UpdateBookFields(ctx, book.ID, fields); err != nil {
		log.Printf("Enrichment update failed for book %d (%v): %v", book.ID, fields, err)
		return false
	}
	return true
}
