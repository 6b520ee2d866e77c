package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordRoundTrip(t *testing.T) {
	h := HashPassword("rahasia123")
	assert.NotEqual(t, "rahasia123", h)
	assert.True(t, CheckPassword("rahasia123", h))
	assert.False(t, CheckPassword("salah", h))
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}
