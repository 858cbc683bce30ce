package app

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booktranslator/internal/config"
)

func TestNewAppRejectsInvalidConfig(t *testing.T) {
	_, err := NewApp(&config.Config{})
	assert.Error(t, err)
}

func TestNewAppBuildsOrchestratorForValidConfig(t *testing.T) {
	cfg := &config.Config{
		SourceFile:     "book.epub",
		Language:       "fr",
		MaxChunkTokens: 2000,
		MaxParagraph:   500,
		Threads:        2,
		Model:          "gpt-4o-mini",
		APIKey:         "test-key",
		WorkDir:        t.TempDir(),
	}

	a, err := NewApp(cfg)
	require.NoError(t, err)
	assert.NotNil(t, a.Orchestrator)
	assert.NotNil(t, a.Logger)
}

func TestAttachWorkspaceLoggingWritesExchangeFile(t *testing.T) {
	dir := t.TempDir()
	logger := logrus.New()
	require.NoError(t, AttachWorkspaceLogging(logger, dir))

	logger.WithField("component", "llm").Info("request sent")

	matches, err := filepath.Glob(filepath.Join(dir, "logs", "exchange-*.log"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
