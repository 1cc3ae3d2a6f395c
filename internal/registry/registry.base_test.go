package registry

import (
	"errors"
	"sync"
	"testing"

	"zeniverse_api/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("news", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("news", 2)
	require.NoError(t, err)
	assert.False(t, isNew)

	v, ok := r.Get("news")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, err = r.Register("", 3)
	assert.ErrorIs(t, err, common.ErrRequiredField)

	_, err = r.Lookup("missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRegistryGetOrCreateConcurrent(t *testing.T) {
	r := NewRegistry[*int]()
	calls := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.GetOrCreate("shared", func() (*int, error) {
				calls++
				n := 42
				return &n, nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"shared"}, r.Names())
}

func TestRegistryClearAll(t *testing.T) {
	r := NewRegistry[string]()
	_, _ = r.Register("a", "x")
	_, _ = r.Register("b", "y")

	_, err := r.ClearAll(func(s string) error {
		if s == "y" {
			return errors.New("busy")
		}
		return nil
	})
	assert.Error(t, err)

	count, err := r.ClearAll(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Empty(t, r.Names())
}
