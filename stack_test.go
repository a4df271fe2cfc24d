package ldexpand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessingStack(t *testing.T) {
	var empty *processingStack
	assert.True(t, empty.isEmpty())
	assert.Equal(t, 0, empty.len())
	assert.False(t, empty.contains("https://example.com/a"))
	assert.Empty(t, empty.iris())

	a, ok := empty.push("https://example.com/a")
	require.True(t, ok)
	b, ok := a.push("https://example.com/b")
	require.True(t, ok)

	assert.Equal(t, 2, b.len())
	assert.Equal(t, []string{"https://example.com/b", "https://example.com/a"}, b.iris())

	t.Run("push is persistent", func(t *testing.T) {
		assert.Equal(t, 1, a.len())
		assert.False(t, a.contains("https://example.com/b"))
		assert.True(t, empty.isEmpty())
	})

	t.Run("cycle", func(t *testing.T) {
		res, ok := b.push("https://example.com/a")
		assert.False(t, ok)
		assert.Same(t, b, res)
	})

	t.Run("siblings", func(t *testing.T) {
		c, ok := a.push("https://example.com/c")
		require.True(t, ok)
		assert.False(t, c.contains("https://example.com/b"))
		assert.True(t, b.contains("https://example.com/a"))
	})
}
