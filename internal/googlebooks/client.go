package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mrlokans/booksread/internal/config"
)

var (
	// ErrInvalidQuery means no search axis was supplied. A caller bug,
	// never worth retrying.
	ErrInvalidQuery = errors.New("at least one of isbn, title or author is required")

	// ErrUpstream covers network failures and non-200 provider responses.
	// Callers may retry with backoff; the client itself never retries.
	ErrUpstream = errors.New("metadata provider unavailable")

	// ErrFormat means the provider answered with a body we could not decode.
	ErrFormat = errors.New("unexpected metadata provider response")
)

// Query describes one metadata search. When ISBN is set, title and author
// are ignored and an isbn-only query is issued.
type Query struct {
	ISBN         string
	Title        string
	Author       string
	MaxResults   int
	LangRestrict string
}

// Volume is one raw result record from the provider.
type Volume struct {
	VolumeInfo VolumeInfo `json:"volumeInfo"`
	SearchInfo SearchInfo `json:"searchInfo"`
}

type VolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	Description         string               `json:"description"`
	PageCount           int                  `json:"pageCount"`
	ImageLinks          ImageLinks           `json:"imageLinks"`
	InfoLink            string               `json:"infoLink"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
}

type ImageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type SearchInfo struct {
	TextSnippet string `json:"textSnippet"`
}

type searchResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Client fetches volume records from the Google Books volumes API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// NewClient creates a rate-limited Google Books API client.
func NewClient(cfg config.GoogleBooks) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	perSec := cfg.RatePerSec
	if perSec <= 0 {
		perSec = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(perSec), 1),
	}
}

// Search issues a single metadata search and returns the raw volume records.
// An empty items array from the provider yields (nil, nil), not an error.
func (c *Client) Search(ctx context.Context, q Query) ([]Volume, error) {
	query, err := buildQuery(q)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	params.Set("maxResults", strconv.Itoa(maxResults))
	if q.LangRestrict != "" {
		params.Set("langRestrict", q.LangRestrict)
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	searchURL := fmt.Sprintf("%s/volumes?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "BooksRead/1.0 (https://github.com/mrlokans/booksread)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	return result.Items, nil
}

// buildQuery assembles the provider's q parameter. An ISBN query stands
// alone; otherwise intitle/inauthor clauses are combined.
func buildQuery(q Query) (string, error) {
	if q.ISBN != "" {
		return "isbn:" + NormalizeISBN(q.ISBN), nil
	}

	var clauses []string
	if q.Title != "" {
		clauses = append(clauses, "intitle:"+q.Title)
	}
	if q.Author != "" {
		clauses = append(clauses, "inauthor:"+q.Author)
	}
	if len(clauses) == 0 {
		return "", ErrInvalidQuery
	}
	return strings.Join(clauses, ","), nil
}
