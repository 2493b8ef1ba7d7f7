package http

import (
	"github.com/mrlokans/booksread/internal/auth"
	"github.com/mrlokans/booksread/internal/catalog"
	"github.com/mrlokans/booksread/internal/database"
	"github.com/mrlokans/booksread/internal/database/books"
	"github.com/mrlokans/booksread/internal/database/owned"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	Ingestor  *catalog.Ingestor
	BooksRepo *books.Repository
	OwnedRepo *owned.Repository

	// Authentication (all nil/empty when auth mode is "none")
	AuthController *auth.Controller
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// Application info
	Version string
}
