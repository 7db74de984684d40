package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSpam(t *testing.T) {
	t.Run("clean content passes", func(t *testing.T) {
		assert.False(t, IsSpam("really enjoyed this post, thanks for writing it"))
		assert.False(t, IsSpam(""))
	})

	t.Run("banned substring is flagged", func(t *testing.T) {
		assert.True(t, IsSpam("check out https://example.test for cheap stuff"))
		assert.True(t, IsSpam("huge discount on everything, click here"))
	})

	t.Run("matching is case insensitive", func(t *testing.T) {
		assert.True(t, IsSpam("I am the ADMIN of this forum"))
		assert.True(t, IsSpam("Buy Now while it lasts"))
	})

	t.Run("substrings inside words still match", func(t *testing.T) {
		// Containment semantics, consistent with holding for review rather
		// than rejecting.
		assert.True(t, IsSpam("administrator"))
	})
}
