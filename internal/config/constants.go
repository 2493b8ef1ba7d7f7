package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./booksread.db"

	// DefaultGoogleBooksBaseURL is the volumes endpoint root of the metadata provider
	DefaultGoogleBooksBaseURL = "https://www.googleapis.com/books/v1"

	// DefaultThumbnailRangeBytes caps the partial download used to read image headers
	DefaultThumbnailRangeBytes = int64(2_000_000)
)
