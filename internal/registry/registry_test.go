package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/coursewizard/internal/config"
)

type counter struct{ n int }

func TestRegistry(t *testing.T) {
	cfg := &config.Config{ServerAddr: ":9999"}
	r := New(cfg)
	assert.Equal(t, ":9999", r.Config().GetServerAddr())

	key := Key[*counter]("test.counter")
	_, ok := Get(r, key)
	assert.False(t, ok)

	Set(r, key, &counter{n: 3})
	got, ok := Get(r, key)
	require.True(t, ok)
	assert.Equal(t, 3, got.n)
	assert.Same(t, got, MustGet(r, key))
	assert.Equal(t, []string{"test.counter"}, r.Names())

	t.Run("same name with another type is not found", func(t *testing.T) {
		_, err := Require(r, Key[string]("test.counter"))
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("missing service", func(t *testing.T) {
		_, err := Require(r, Key[int]("missing"))
		assert.ErrorIs(t, err, ErrServiceNotFound)
		assert.ErrorContains(t, err, "missing")
		assert.Panics(t, func() { MustGet(r, Key[int]("missing")) })
	})
}
