package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/booksread/internal/database/books"
	"github.com/mrlokans/booksread/internal/database/owned"
)

// OwnedController serves per-user book tracking: ownership, read status,
// reviews and ratings.
type OwnedController struct {
	repo      *owned.Repository
	booksRepo *books.Repository
}

// NewOwnedController creates a new OwnedController.
func NewOwnedController(repo *owned.Repository, booksRepo *books.Repository) *OwnedController {
	return &OwnedController{repo: repo, booksRepo: booksRepo}
}

type addOwnedRequest struct {
	BookID uint `json:"book_id" binding:"required"`
}

type rateRequest struct {
	Rating int `json:"rating"`
}

type reviewRequest struct {
	Review string `json:"review"`
}

// List returns the user's tracked books.
// GET /api/owned
func (oc *OwnedController) List(c *gin.Context) {
	records, err := oc.repo.ListForUser(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list owned books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"owned": records})
}

// Add starts tracking a catalog book for the user. Adding the same book
// twice returns the existing record.
// POST /api/owned
func (oc *OwnedController) Add(c *gin.Context) {
	var req addOwnedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id is required")
		return
	}

	// Reject tracking of books that are not in the catalog.
	if _, err := oc.booksRepo.GetBookByID(c.Request.Context(), req.BookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "add owned book")
		return
	}

	record, err := oc.repo.Add(c.Request.Context(), GetUserID(c), req.BookID)
	if err != nil {
		respondInternalError(c, err, "add owned book")
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Remove stops tracking a book. The catalog entry itself stays.
// DELETE /api/owned/:id
func (oc *OwnedController) Remove(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := oc.repo.Remove(c.Request.Context(), id, GetUserID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "owned book")
			return
		}
		respondInternalError(c, err, "remove owned book")
		return
	}
	respondSuccess(c, "book removed")
}

// Rate stores the user's 0-9 rating for an owned book.
// POST /api/owned/:id/rate
func (oc *OwnedController) Rate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid rating request")
		return
	}

	err := oc.repo.SetRating(c.Request.Context(), id, GetUserID(c), req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, owned.ErrRatingOutOfRange):
			respondBadRequest(c, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondNotFound(c, "owned book")
		default:
			respondInternalError(c, err, "rate owned book")
		}
		return
	}
	respondSuccess(c, "rating saved")
}

// Review stores the user's review text. An empty review clears it.
// POST /api/owned/:id/review
func (oc *OwnedController) Review(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid review request")
		return
	}

	if err := oc.repo.SetReview(c.Request.Context(), id, GetUserID(c), req.Review); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "owned book")
			return
		}
		respondInternalError(c, err, "review owned book")
		return
	}
	respondSuccess(c, "review saved")
}

// ToggleRead flips the read flag and returns the new value.
// POST /api/owned/:id/toggleread
func (oc *OwnedController) ToggleRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	read, err := oc.repo.ToggleRead(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "owned book")
			return
		}
		respondInternalError(c, err, "toggle read flag")
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": read})
}
