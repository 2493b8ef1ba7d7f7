package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/booksread/internal/database/books"
)

// BooksController serves the shared catalog.
type BooksController struct {
	repo *books.Repository
}

// NewBooksController creates a new BooksController.
func NewBooksController(repo *books.Repository) *BooksController {
	return &BooksController{repo: repo}
}

// List returns every catalog entry with authors and publisher.
// GET /api/books
func (bc *BooksController) List(c *gin.Context) {
	allBooks, err := bc.repo.GetAllBooks(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": allBooks})
}

// Get returns one catalog entry.
// GET /api/books/:id
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.repo.GetBookByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}
