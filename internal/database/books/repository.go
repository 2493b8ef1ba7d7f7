// Package books provides the catalog storage layer: find-or-create
// resolution of authors, publishers and books, and field-level updates
// used by enrichment.
package books

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/booksread/internal/catalog"
	"github.com/mrlokans/booksread/internal/entities"
)

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Compile-time checks that Repository satisfies the catalog interfaces.
var (
	_ catalog.Reconciler   = (*Repository)(nil)
	_ catalog.BookFinder   = (*Repository)(nil)
	_ catalog.FieldUpdater = (*Repository)(nil)
)

// Reconcile resolves one candidate book to a catalog row inside a single
// transaction. Authors and the publisher are found-or-created by exact
// name. The book is matched on (title, isbn, publisher, description) AND
// the author set: among rows sharing the key, the one whose committed
// author set equals the candidate's is reused, so repeating a call always
// lands on the same row. When every key match carries a different author
// set, none of them is mutated — a fresh row is forked instead, so
// established authorship stays immutable at the cost of near-duplicate rows.
func (r *Repository) Reconcile(ctx context.Context, cand catalog.Candidate) (*entities.Book, error) {
	var resolved *entities.Book

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var publisherID *uint
		if cand.PublisherName != "" {
			publisher, err := findOrCreatePublisher(tx, cand.PublisherName)
			if err != nil {
				return fmt.Errorf("resolve publisher %q: %w", cand.PublisherName, err)
			}
			publisherID = &publisher.ID
		}

		authors := make([]entities.Author, 0, len(cand.AuthorNames))
		for _, name := range cand.AuthorNames {
			author, err := findOrCreateAuthor(tx, name)
			if err != nil {
				return fmt.Errorf("resolve author %q: %w", name, err)
			}
			authors = append(authors, *author)
		}

		matches, err := findBooksByKey(tx, cand, publisherID)
		if err != nil {
			return err
		}
		for i := range matches {
			if sameAuthorSet(matches[i].Authors, authors) {
				resolved = &matches[i]
				return nil
			}
		}

		book, err := createBook(tx, cand, publisherID)
		if err != nil {
			return err
		}

		if len(authors) > 0 {
			if err := tx.Model(book).Association("Authors").Replace(authors); err != nil {
				return fmt.Errorf("replace author set: %w", err)
			}
			book.Authors = authors
		}

		resolved = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resolved, nil
}

// FindBookByISBN returns the catalog entry carrying the given ISBN.
// The caller is expected to pass an already-normalized value.
func (r *Repository) FindBookByISBN(ctx context.Context, isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).
		Preload("Authors").Preload("Publisher").
		Where("isbn = ?", isbn).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBookByID retrieves a book with its authors and publisher.
func (r *Repository) GetBookByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).
		Preload("Authors").Preload("Publisher").
		First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAllBooks retrieves the full catalog.
func (r *Repository) GetAllBooks(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Preload("Authors").Preload("Publisher").
		Order("title ASC").Find(&books).Error
	return books, err
}

// UpdateBookFields persists a partial update of the given columns. Each
// call commits on its own so earlier enrichment updates survive a later
// failure.
func (r *Repository) UpdateBookFields(ctx context.Context, bookID uint, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&entities.Book{}).
		Where("id = ?", bookID).
		Updates(fields).Error
}

// BooksMissingDimensions lists books that have a thumbnail URL but were
// never measured, for the background refresh sweep.
func (r *Repository) BooksMissingDimensions(ctx context.Context, limit int) ([]entities.Book, error) {
	var books []entities.Book
	query := r.db.WithContext(ctx).
		Where("thumbnail_url <> '' AND thumbnail_width = 0 AND thumbnail_height = 0")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&books).Error
	return books, err
}

func findOrCreateAuthor(tx *gorm.DB, fullName string) (*entities.Author, error) {
	var author entities.Author
	err := tx.Where("full_name = ?", fullName).First(&author).Error
	if err == nil {
		return &author, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	author = entities.Author{FullName: fullName}
	if err := tx.Create(&author).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func findOrCreatePublisher(tx *gorm.DB, name string) (*entities.Publisher, error) {
	var publisher entities.Publisher
	err := tx.Where("name = ?", name).First(&publisher).Error
	if err == nil {
		return &publisher, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	publisher = entities.Publisher{Name: name}
	if err := tx.Create(&publisher).Error; err != nil {
		return nil, err
	}
	return &publisher, nil
}

// findBooksByKey lists every row matching the full (title, isbn, publisher,
// description) key, authors preloaded, so the caller can pick by author set.
// Forked near-duplicates share the key, which is why this cannot stop at the
// first row. An absent isbn or publisher only matches rows where it is
// absent too.
func findBooksByKey(tx *gorm.DB, cand catalog.Candidate, publisherID *uint) ([]entities.Book, error) {
	query := tx.Preload("Authors").
		Where("title = ? AND description = ?", cand.Title, cand.Description)
	if cand.ISBN == "" {
		query = query.Where("isbn IS NULL")
	} else {
		query = query.Where("isbn = ?", cand.ISBN)
	}
	if publisherID == nil {
		query = query.Where("publisher_id IS NULL")
	} else {
		query = query.Where("publisher_id = ?", *publisherID)
	}

	var books []entities.Book
	if err := query.Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func createBook(tx *gorm.DB, cand catalog.Candidate, publisherID *uint) (*entities.Book, error) {
	book := entities.Book{
		Title:       cand.Title,
		PublisherID: publisherID,
		Description: cand.Description,
	}
	if cand.ISBN != "" {
		isbn := cand.ISBN
		book.ISBN = &isbn
	}

	if err := tx.Create(&book).Error; err != nil {
		// The unique index on isbn is the final arbiter under concurrent
		// ingestion: the losing writer gets a typed error to retry as a lookup.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, catalog.ErrDuplicateISBN
		}
		return nil, err
	}
	return &book, nil
}

// sameAuthorSet compares author rows as sets, ignoring order and duplicates.
func sameAuthorSet(existing, candidate []entities.Author) bool {
	existingIDs := make(map[uint]struct{}, len(existing))
	for _, a := range existing {
		existingIDs[a.ID] = struct{}{}
	}
	candidateIDs := make(map[uint]struct{}, len(candidate))
	for _, a := range candidate {
		candidateIDs[a.ID] = struct{}{}
	}

	if len(existingIDs) != len(candidateIDs) {
		return false
	}
	for id := range candidateIDs {
		if _, ok := existingIDs[id]; !ok {
			return false
		}
	}
	return true
}
