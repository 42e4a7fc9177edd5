package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	m := NewMemoryCache()

	_, err := m.Load("tcg-products")
	assert.ErrorIs(t, err, ErrNotFound)

	value := []byte("abc")
	require.NoError(t, m.Store(map[string][]byte{"test": value}))
	value[0] = 'x'

	val, err := m.Load("test")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(val), "stored values must not alias the caller's slice")

	boom := errors.New("quota exceeded")
	m.StoreErr = boom
	assert.ErrorIs(t, m.Store(map[string][]byte{"test": []byte("def")}), boom)
	m.StoreErr = nil

	m.LoadErr = boom
	_, err = m.Load("test")
	assert.ErrorIs(t, err, boom)
	m.LoadErr = nil

	m.Close()
	_, err = m.Load("test")
	assert.ErrorIs(t, err, ErrClosed)
}
