package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomAlphanumeric(t *testing.T) {
	re := regexp.MustCompile(`^[A-Za-z0-9]{12}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		s, err := RandomAlphanumeric(12)
		require.NoError(t, err)
		assert.Regexp(t, re, s)
		seen[s] = struct{}{}
	}
	// 62^12 possibilities; a repeat in 200 draws means the source is broken
	assert.Len(t, seen, 200)
}

func TestRandomAlphanumeric_Zero(t *testing.T) {
	s, err := RandomAlphanumeric(0)
	assert.NoError(t, err)
	assert.Empty(t, s)
}
