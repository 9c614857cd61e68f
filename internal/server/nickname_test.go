package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateNickname(t *testing.T) {
	t.Parallel()

	for range 50 {
		name := GenerateNickname()
		assert.NotEmpty(t, name)

		// adjective + noun from the word lists
		assert.True(t, hasAnyPrefix(name, adjectives), "unexpected nickname %q", name)
		assert.True(t, hasAnySuffix(name, nouns), "unexpected nickname %q", name)
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, p := range suffixes {
		if strings.HasSuffix(s, p) {
			return true
		}
	}
	return false
}
