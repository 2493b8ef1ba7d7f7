package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mrlokans/booksread/internal/config"
	"github.com/mrlokans/booksread/internal/entities"
	"github.com/mrlokans/booksread/internal/googlebooks"
)

// SearchRequest is a caller's ingestion query: either an ISBN or a
// title/author pair (both axes are optional but at least one is required,
// enforced by the provider client).
type SearchRequest struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Ingestor runs the full pipeline: search the external provider, reconcile
// each returned volume to a stable Book identity, then enrich it.
type Ingestor struct {
	searcher   Searcher
	reconciler Reconciler
	finder     BookFinder
	enricher   *Enricher

	maxResults   int
	langRestrict string
}

// NewIngestor wires the pipeline together.
func NewIngestor(searcher Searcher, reconciler Reconciler, finder BookFinder, enricher *Enricher, cfg config.GoogleBooks) *Ingestor {
	return &Ingestor{
		searcher:     searcher,
		reconciler:   reconciler,
		finder:       finder,
		enricher:     enricher,
		maxResults:   cfg.MaxResults,
		langRestrict: cfg.LangRestrict,
	}
}

// Ingest resolves every volume the provider returns for the request. An
// empty provider result yields zero books and no error. Reconciliation
// failures propagate; enrichment failures only get logged.
func (i *Ingestor) Ingest(ctx context.Context, req SearchRequest) ([]*entities.Book, error) {
	volumes, err := i.searcher.Search(ctx, googlebooks.Query{
		ISBN:         req.ISBN,
		Title:        req.Title,
		Author:       req.Author,
		MaxResults:   i.maxResults,
		LangRestrict: i.langRestrict,
	})
	if err != nil {
		return nil, err
	}

	resolved := make([]*entities.Book, 0, len(volumes))
	for _, vol := range volumes {
		book, err := i.resolve(ctx, vol)
		if err != nil {
			return nil, fmt.Errorf("reconcile %q: %w", vol.VolumeInfo.Title, err)
		}

		i.enricher.Apply(ctx, book, vol)
		resolved = append(resolved, book)
	}

	return resolved, nil
}

// resolve reconciles one volume. Losing the ISBN uniqueness race means
// another ingestion just created the row, so it is retried as a lookup.
func (i *Ingestor) resolve(ctx context.Context, vol googlebooks.Volume) (*entities.Book, error) {
	cand := CandidateFromVolume(vol)

	book, err := i.reconciler.Reconcile(ctx, cand)
	if errors.Is(err, ErrDuplicateISBN) && cand.ISBN != "" {
		log.Printf("ISBN %s already in catalog, reusing existing entry", cand.ISBN)
		return i.finder.FindBookByISBN(ctx, cand.ISBN)
	}
	return book, err
}
