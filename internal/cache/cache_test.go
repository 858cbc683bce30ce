package cache

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(t.TempDir(), logrus.NewEntry(logrus.New()))
	require.NoError(t, err)
	return c
}

func TestHashIsSentinelSeparated(t *testing.T) {
	a := Hash([]string{"ab", "c"})
	b := Hash([]string{"a", "bc"})
	assert.NotEqual(t, a, b)
}

func TestTranslateMissesThenHitsCache(t *testing.T) {
	c := newTestCache(t)
	calls := 0
	translate := func(texts []string, report func(float64)) ([]string, error) {
		calls++
		report(1.0)
		out := make([]string, len(texts))
		for i, s := range texts {
			out[i] = "t:" + s
		}
		return out, nil
	}

	first, err := c.Translate([]string{"hello", "world"}, func(float64) {}, translate)
	require.NoError(t, err)
	assert.Equal(t, []string{"t:hello", "t:world"}, first)
	assert.Equal(t, 1, calls)

	second, err := c.Translate([]string{"hello", "world"}, func(float64) {}, translate)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second call should be served from cache")
}

func TestTranslatePropagatesError(t *testing.T) {
	c := newTestCache(t)
	_, err := c.Translate([]string{"x"}, func(float64) {}, func([]string, func(float64)) ([]string, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)
}
