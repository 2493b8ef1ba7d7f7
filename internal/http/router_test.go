package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booksread/internal/catalog"
	"github.com/mrlokans/booksread/internal/config"
	"github.com/mrlokans/booksread/internal/database"
	"github.com/mrlokans/booksread/internal/database/books"
	"github.com/mrlokans/booksread/internal/database/owned"
	"github.com/mrlokans/booksread/internal/entities"
	"github.com/mrlokans/booksread/internal/googlebooks"
)

// fakeSearcher returns canned provider volumes without network access.
type fakeSearcher struct {
	volumes []googlebooks.Volume
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, q googlebooks.Query) ([]googlebooks.Volume, error) {
	if q.ISBN == "" && q.Title == "" && q.Author == "" {
		return nil, googlebooks.ErrInvalidQuery
	}
	return f.volumes, f.err
}

// setupTestRouter builds the full router against a fresh database with
// authentication disabled.
func setupTestRouter(t *testing.T, searcher catalog.Searcher) (*gin.Engine, *books.Repository, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_" + t.Name() + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	booksRepo := books.NewRepository(db.DB)
	ownedRepo := owned.NewRepository(db.DB)
	enricher := catalog.NewEnricher(booksRepo, nil)
	ingestor := catalog.NewIngestor(searcher, booksRepo, booksRepo, enricher, config.GoogleBooks{MaxResults: 5})

	router := NewRouter(RouterConfig{
		Database:  db,
		Ingestor:  ingestor,
		BooksRepo: booksRepo,
		OwnedRepo: ownedRepo,
		Version:   "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, booksRepo, cleanup
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func providerVolume(title, author, isbn string) googlebooks.Volume {
	vol := googlebooks.Volume{}
	vol.VolumeInfo.Title = title
	vol.VolumeInfo.Authors = []string{author}
	vol.VolumeInfo.PageCount = 200
	vol.SearchInfo.TextSnippet = "A snippet"
	if isbn != "" {
		vol.VolumeInfo.IndustryIdentifiers = []googlebooks.IndustryIdentifier{
			{Type: "ISBN_13", Identifier: isbn},
		}
	}
	return vol
}

func TestSearchEndpoint(t *testing.T) {
	searcher := &fakeSearcher{volumes: []googlebooks.Volume{
		providerVolume("Neuromancer", "William Gibson", "9780441569595"),
	}}
	router, booksRepo, cleanup := setupTestRouter(t, searcher)
	defer cleanup()

	t.Run("ingests provider matches into the catalog", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/search", gin.H{"title": "Neuromancer"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Books []entities.Book `json:"books"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Books, 1)
		assert.Equal(t, "Neuromancer", resp.Books[0].Title)
		assert.Equal(t, 200, resp.Books[0].NumPages) // enrichment ran

		// The book is now queryable by ISBN.
		book, err := booksRepo.FindBookByISBN(context.Background(), "9780441569595")
		require.NoError(t, err)
		assert.Equal(t, "Neuromancer", book.Title)
	})

	t.Run("repeated search does not duplicate the catalog entry", func(t *testing.T) {
		first := doJSON(t, router, http.MethodPost, "/api/search", gin.H{"title": "Neuromancer"})
		require.Equal(t, http.StatusOK, first.Code)
		second := doJSON(t, router, http.MethodPost, "/api/search", gin.H{"title": "Neuromancer"})
		require.Equal(t, http.StatusOK, second.Code)

		all, err := booksRepo.GetAllBooks(context.Background())
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("query without any axis is a client error", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/search", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSearchEndpointUpstreamFailure(t *testing.T) {
	router, _, cleanup := setupTestRouter(t, &fakeSearcher{err: googlebooks.ErrUpstream})
	defer cleanup()

	w := doJSON(t, router, http.MethodPost, "/api/search", gin.H{"title": "anything"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestBooksEndpoints(t *testing.T) {
	router, booksRepo, cleanup := setupTestRouter(t, &fakeSearcher{})
	defer cleanup()

	created, err := booksRepo.Reconcile(context.Background(), catalog.Candidate{
		Title:       "Hyperion",
		AuthorNames: []string{"Dan Simmons"},
	})
	require.NoError(t, err)

	t.Run("lists the catalog", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/books", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Books []entities.Book `json:"books"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Books, 1)
		assert.Equal(t, "Hyperion", resp.Books[0].Title)
	})

	t.Run("gets one book", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/books/1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var book entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, created.ID, book.ID)
		require.Len(t, book.Authors, 1)
		assert.Equal(t, "Dan Simmons", book.Authors[0].FullName)
	})

	t.Run("unknown book is 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/books/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/books/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOwnedEndpoints(t *testing.T) {
	router, booksRepo, cleanup := setupTestRouter(t, &fakeSearcher{})
	defer cleanup()

	book, err := booksRepo.Reconcile(context.Background(), catalog.Candidate{Title: "Solaris"})
	require.NoError(t, err)

	var record entities.OwnedBook

	t.Run("adds a tracking record", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/owned", gin.H{"book_id": book.ID})
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
		assert.NotZero(t, record.ID)
		assert.False(t, record.Read)
	})

	t.Run("tracking a missing book is 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/owned", gin.H{"book_id": 999})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("lists the user's books", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/owned", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Owned []entities.OwnedBook `json:"owned"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Owned, 1)
		assert.Equal(t, "Solaris", resp.Owned[0].Book.Title)
	})

	t.Run("rates within range", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/owned/1/rate", gin.H{"rating": 9})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects out-of-range rating", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/owned/1/rate", gin.H{"rating": 10})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stores a review", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/owned/1/review", gin.H{"review": "Slow but worth it"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("toggles the read flag", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/owned/1/toggleread", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Read bool `json:"read"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Read)
	})

	t.Run("removes the tracking record", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/owned/1", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodDelete, "/api/owned/1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHealthEndpoint(t *testing.T) {
	router, _, cleanup := setupTestRouter(t, &fakeSearcher{})
	defer cleanup()

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "ok", resp.Checks["database"])
}
