package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booksread/internal/catalog"
	"github.com/mrlokans/booksread/internal/googlebooks"
)

// SearchController runs catalog ingestion for user-supplied queries.
type SearchController struct {
	ingestor *catalog.Ingestor
}

// NewSearchController creates a new SearchController.
func NewSearchController(ingestor *catalog.Ingestor) *SearchController {
	return &SearchController{ingestor: ingestor}
}

// Search looks a book up at the external provider and merges every match
// into the local catalog, returning the resolved entries.
// POST /api/search
func (sc *SearchController) Search(c *gin.Context) {
	var req catalog.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid search request")
		return
	}

	resolved, err := sc.ingestor.Ingest(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, googlebooks.ErrInvalidQuery):
			respondBadRequest(c, err.Error())
		case errors.Is(err, googlebooks.ErrUpstream), errors.Is(err, googlebooks.ErrFormat):
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		default:
			respondInternalError(c, err, "search ingestion")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": resolved})
}
