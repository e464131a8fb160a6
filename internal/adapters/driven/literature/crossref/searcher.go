// Package crossref provides a literature metadata searcher backed by the
// Crossref REST API.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
	"github.com/veracite-labs/veracite-cli/internal/logger"
)

// Ensure Searcher implements the interface.
var _ driven.LiteratureSearcher = (*Searcher)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.crossref.org"
	DefaultTimeout = 30 * time.Second

	// DefaultRate keeps well under Crossref's polite-pool guidance.
	DefaultRate = 1.0

	// userAgent identifies the client per Crossref etiquette. A mailto
	// contact routes requests to the polite pool.
	userAgent = "veracite/1.0 (https://github.com/veracite-labs/veracite-cli)"
)

// Config holds configuration for the Crossref searcher.
type Config struct {
	// BaseURL is the API base URL (default: https://api.crossref.org).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls (default: 1).
	RequestsPerSecond float64

	// Mailto is an optional contact address appended to requests for
	// polite-pool routing.
	Mailto string
}

// Searcher queries Crossref for bibliographic metadata. Only metadata is
// ever fetched, never full text, and the query parameter type guarantees
// it carries nothing but allow-listed keywords.
type Searcher struct {
	client  *http.Client
	baseURL string
	mailto  string
	limiter *rate.Limiter
}

// NewSearcher creates a new Crossref searcher.
func NewSearcher(cfg Config) *Searcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRate
	}

	return &Searcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		mailto:  cfg.Mailto,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// worksResponse is the subset of the Crossref /works response we consume.
type worksResponse struct {
	Message struct {
		Items []workItem `json:"items"`
	} `json:"message"`
}

type workItem struct {
	DOI            string       `json:"DOI"`
	Title          []string     `json:"title"`
	Author         []workAuthor `json:"author"`
	ContainerTitle []string     `json:"container-title"`
	URL            string       `json:"URL"`
	Issued         struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"issued"`
}

type workAuthor struct {
	Family string `json:"family"`
	Given  string `json:"given"`
}

// Search returns bibliographic records for an approved safe query.
func (s *Searcher) Search(ctx context.Context, query domain.SafeQuery, maxResults int) ([]domain.Reference, error) {
	if query.IsEmpty() {
		return nil, fmt.Errorf("%w: empty query", domain.ErrDisallowedContent)
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("query", query.String())
	params.Set("rows", strconv.Itoa(maxResults))
	params.Set("select", "DOI,title,author,issued,container-title,URL")
	if s.mailto != "" {
		params.Set("mailto", s.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/works?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	logger.Debug("Crossref query: %q (rows=%d)", query.String(), maxResults)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("crossref error (status %d): %s", resp.StatusCode, string(body))
	}

	var works worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&works); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	refs := make([]domain.Reference, 0, len(works.Message.Items))
	for _, item := range works.Message.Items {
		ref := toReference(item)
		if ref.ID == "" {
			// A record without a stable id cannot be cited.
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// toReference maps a Crossref work item onto the domain record.
// The DOI doubles as the citation id.
func toReference(item workItem) domain.Reference {
	ref := domain.Reference{
		ID:  item.DOI,
		DOI: item.DOI,
		URL: item.URL,
	}
	if len(item.Title) > 0 {
		ref.Title = item.Title[0]
	}
	if len(item.ContainerTitle) > 0 {
		ref.Journal = item.ContainerTitle[0]
	}
	if len(item.Issued.DateParts) > 0 && len(item.Issued.DateParts[0]) > 0 {
		ref.Year = item.Issued.DateParts[0][0]
	}
	for _, a := range item.Author {
		ref.Authors = append(ref.Authors, domain.Author{Family: a.Family, Given: a.Given})
	}
	if ref.URL == "" && ref.DOI != "" {
		ref.URL = "https://doi.org/" + ref.DOI
	}
	return ref
}
