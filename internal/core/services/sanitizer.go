package services

import (
	"fmt"
	"strings"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/logger"
)

// Sanitizer turns raw query text into a SafeQuery by checking every token
// against a keyword allow-list. The allow-list is a whitelist: anything
// not explicitly permitted is rejected, so new content can never leak by
// default.
type Sanitizer struct {
	allowed map[string]struct{}
}

// NewSanitizer creates a sanitizer from the configured allow-list.
// Keywords are matched case-insensitively.
func NewSanitizer(allowlist []string) *Sanitizer {
	allowed := make(map[string]struct{}, len(allowlist))
	for _, kw := range allowlist {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			allowed[kw] = struct{}{}
		}
	}
	return &Sanitizer{allowed: allowed}
}

// Sanitize case-folds and whitespace-normalises the raw query, then
// verifies every token against the allow-list. A single disallowed token
// fails the whole query with domain.ErrDisallowedContent; the error names
// the offending tokens but never echoes surrounding document content.
func (s *Sanitizer) Sanitize(raw string) (domain.SafeQuery, error) {
	tokens := strings.Fields(strings.ToLower(raw))
	if len(tokens) == 0 {
		return domain.SafeQuery{}, fmt.Errorf("%w: query is empty", domain.ErrDisallowedContent)
	}

	var rejected []string
	for _, tok := range tokens {
		if _, ok := s.allowed[tok]; !ok {
			rejected = append(rejected, tok)
		}
	}
	if len(rejected) > 0 {
		logger.Warn("Query rejected: %d token(s) outside the allow-list", len(rejected))
		return domain.SafeQuery{}, fmt.Errorf("%w: %s",
			domain.ErrDisallowedContent, strings.Join(rejected, ", "))
	}

	return domain.NewSafeQuery(tokens), nil
}
