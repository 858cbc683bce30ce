package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnown(t *testing.T) {
	lang, err := Resolve("zh-Hans")
	require.NoError(t, err)
	assert.Equal(t, "Simplified Chinese", lang.Name)
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve("xx")
	assert.Error(t, err)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("ja"))
	assert.False(t, IsValid("klingon"))
}
