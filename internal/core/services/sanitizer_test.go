package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
)

func TestSanitize_AllowedQuery(t *testing.T) {
	s := NewSanitizer([]string{"nickel", "alloy", "corrosion"})

	q, err := s.Sanitize("Nickel  alloy\tcorrosion")
	require.NoError(t, err)
	assert.Equal(t, []string{"nickel", "alloy", "corrosion"}, q.Keywords())
	assert.Equal(t, "nickel alloy corrosion", q.String())
}

func TestSanitize_DisallowedToken(t *testing.T) {
	s := NewSanitizer([]string{"alpha", "project"})

	// One token outside the allow-list fails the whole query.
	_, err := s.Sanitize("internal secret project Alpha")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDisallowedContent)
	assert.ErrorContains(t, err, "internal")
	assert.ErrorContains(t, err, "secret")
}

func TestSanitize_CaseFolding(t *testing.T) {
	s := NewSanitizer([]string{"Graphene", "OXIDE"})

	q, err := s.Sanitize("graphene oxide")
	require.NoError(t, err)
	assert.Equal(t, []string{"graphene", "oxide"}, q.Keywords())
}

func TestSanitize_EmptyQuery(t *testing.T) {
	s := NewSanitizer([]string{"alpha"})

	for _, raw := range []string{"", "   ", "\t\n"} {
		_, err := s.Sanitize(raw)
		assert.ErrorIs(t, err, domain.ErrDisallowedContent, "raw=%q", raw)
	}
}

func TestSanitize_EmptyAllowlistRejectsEverything(t *testing.T) {
	s := NewSanitizer(nil)

	_, err := s.Sanitize("anything")
	assert.ErrorIs(t, err, domain.ErrDisallowedContent)
}

func TestSanitize_ErrorOmitsAllowedTokens(t *testing.T) {
	s := NewSanitizer([]string{"alloy"})

	// The error must name only offending tokens, not allowed ones.
	_, err := s.Sanitize("alloy confidential")
	require.Error(t, err)
	assert.ErrorContains(t, err, "confidential")
	assert.NotContains(t, err.Error(), "alloy,")
}

func TestSafeQuery_OnlyViaSanitizer(t *testing.T) {
	// The zero value carries no keywords and transmits nothing.
	var q domain.SafeQuery
	assert.True(t, q.IsEmpty())
	assert.Empty(t, q.String())
}
