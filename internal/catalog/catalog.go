// Package catalog maps raw external metadata onto stable local Book
// identities (reconciliation) and opportunistically fills in secondary
// fields afterwards (enrichment).
package catalog

import (
	"context"
	"errors"

	"github.com/mrlokans/booksread/internal/entities"
	"github.com/mrlokans/booksread/internal/googlebooks"
)

// ErrDuplicateISBN is returned when a reconciliation would create a second
// Book row with an ISBN that already belongs to a different book. Callers
// should retry as a lookup by that ISBN.
var ErrDuplicateISBN = errors.New("a book with this ISBN already exists")

// Candidate is one book extracted from a provider volume, ready for
// reconciliation. ISBN is already normalized; "" means no ISBN.
type Candidate struct {
	Title         string
	AuthorNames   []string
	ISBN          string
	PublisherName string
	Description   string
}

// Reconciler resolves a candidate to a catalog Book inside one transaction.
type Reconciler interface {
	Reconcile(ctx context.Context, cand Candidate) (*entities.Book, error)
}

// BookFinder looks up existing catalog entries.
type BookFinder interface {
	FindBookByISBN(ctx context.Context, isbn string) (*entities.Book, error)
}

// FieldUpdater persists individual Book field updates. Each call commits
// independently so partial enrichment survives a later failure.
type FieldUpdater interface {
	UpdateBookFields(ctx context.Context, bookID uint, fields map[string]any) error
}

// Searcher is the external metadata provider boundary.
type Searcher interface {
	Search(ctx context.Context, q googlebooks.Query) ([]googlebooks.Volume, error)
}

// DimensionProber measures an image's dimensions from a partial download.
type DimensionProber interface {
	ProbeDimensions(ctx context.Context, imageURL string) (width, height int, err error)
}

// CandidateFromVolume extracts the reconciliation key fields from one raw
// volume record, picking and normalizing the canonical ISBN.
func CandidateFromVolume(vol googlebooks.Volume) Candidate {
	cand := Candidate{
		Title:         vol.VolumeInfo.Title,
		AuthorNames:   vol.VolumeInfo.Authors,
		PublisherName: vol.VolumeInfo.Publisher,
		Description:   vol.VolumeInfo.Description,
	}
	if isbn, ok := googlebooks.SelectISBN(vol.VolumeInfo.IndustryIdentifiers); ok {
		cand.ISBN = googlebooks.NormalizeISBN(isbn)
	}
	return cand
}
