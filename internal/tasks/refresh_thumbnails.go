package tasks

import (
	"context"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/booksread/internal/catalog"
	"github.com/mrlokans/booksread/internal/entities"
)

// RefreshThumbnailsTask re-probes cover dimensions for catalog books that
// have a thumbnail URL but were never measured, e.g. because the image host
// timed out during ingestion.
type RefreshThumbnailsTask struct {
	Limit int `json:"limit"`
}

// Config returns the queue configuration for thumbnail refresh tasks.
func (t RefreshThumbnailsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_thumbnails",
		MaxAttempts: 2,
		Backoff:     1 * time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// UnmeasuredLister finds books awaiting a dimension probe.
type UnmeasuredLister interface {
	BooksMissingDimensions(ctx context.Context, limit int) ([]entities.Book, error)
}

// RefreshThumbnailsProcessor creates the processor function for
// RefreshThumbnailsTask. Individual probe failures are already swallowed by
// the enricher; the sweep only fails when the listing query does.
func RefreshThumbnailsProcessor(lister UnmeasuredLister, enricher *catalog.Enricher) backlite.QueueProcessor[RefreshThumbnailsTask] {
	return func(ctx context.Context, task RefreshThumbnailsTask) error {
		books, err := lister.BooksMissingDimensions(ctx, task.Limit)
		if err != nil {
			return err
		}

		measured := 0
		for i := range books {
			enricher.MeasureThumbnail(ctx, &books[i])
			if books[i].ThumbnailWidth > 0 || books[i].ThumbnailHeight > 0 {
				measured++
			}
		}

		log.Printf("[TASK] Thumbnail refresh: measured %d of %d candidates", measured, len(books))
		return nil
	}
}

// NewRefreshThumbnailsQueue creates a backlite queue for thumbnail refresh tasks.
func NewRefreshThumbnailsQueue(lister UnmeasuredLister, enricher *catalog.Enricher) backlite.Queue {
	return backlite.NewQueue(RefreshThumbnailsProcessor(lister, enricher))
}
