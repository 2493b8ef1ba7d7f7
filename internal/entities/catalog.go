package entities

import (
	"time"
)

// Author is a catalog-wide author record, keyed by exact full name.
// Rows are created lazily on first reference and never deleted.
type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"index;size:128" json:"full_name"`
	Books     []Book    `gorm:"many2many:book_authors;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Publisher is a catalog-wide publisher record, keyed by exact name.
type Publisher struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:128" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Book is a catalog entry shared by all users. The ISBN is nullable so
// multiple books without one can coexist; when present it is unique across
// the whole catalog and the reconciler treats the index as the final
// arbiter under concurrent ingestion.
type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"index;size:512" json:"title"`
	ISBN        *string    `gorm:"uniqueIndex;size:32" json:"isbn,omitempty"`
	Authors     []Author   `gorm:"many2many:book_authors;" json:"authors,omitempty"`
	PublisherID *uint      `gorm:"index" json:"publisher_id,omitempty"`
	Publisher   *Publisher `gorm:"foreignKey:PublisherID;constraint:OnDelete:SET NULL" json:"publisher,omitempty"`
	Description string     `gorm:"type:text" json:"description"`

	// Enrichment fields. Zero values mean "unknown" / "not measured".
	NumPages        int    `gorm:"default:0" json:"num_pages"`
	ThumbnailURL    string `gorm:"size:2048" json:"thumbnail_url,omitempty"`
	ThumbnailWidth  int    `gorm:"default:0" json:"thumbnail_width"`
	ThumbnailHeight int    `gorm:"default:0" json:"thumbnail_height"`
	InfoURL         string `gorm:"size:2048" json:"info_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBook is one user's tracking record for a catalog Book.
type OwnedBook struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_owned_user_book" json:"user_id"`
	BookID uint `gorm:"uniqueIndex:idx_owned_user_book" json:"book_id"`
	Book   Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	// Whether the user has read the book in full yet.
	Read bool `gorm:"default:false" json:"read"`

	// Comments/notes about the user's impression of the book.
	Review string `gorm:"type:text" json:"review"`

	// Rating between 0 and 9 inclusive.
	Rating int `gorm:"default:0" json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Author) TableName() string {
	return "authors"
}

func (Publisher) TableName() string {
	return "publishers"
}

func (Book) TableName() string {
	return "books"
}

func (OwnedBook) TableName() string {
	return "owned_books"
}

// ISBNValue returns the book's ISBN or "" when unset.
func (b *Book) ISBNValue() string {
	if b.ISBN == nil {
		return ""
	}
	return *b.ISBN
}
