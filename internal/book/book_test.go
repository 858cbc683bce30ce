package book

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"archive/zip"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booktranslator/internal/llm"
	"booktranslator/pkg/language"
)

type stubCompleter struct{}

func (stubCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	// Echo back each numbered line verbatim as translated content.
	content := req.Messages[len(req.Messages)-1].Content
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
	}, nil
}

func writeMinimalEPUB(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	defer w.Close()

	write := func(name, content string) {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}

	write("mimetype", "application/epub+zip")
	write("META-INF/container.xml", `<?xml version="1.0"?><container><rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`)
	write("OEBPS/content.opf", `<?xml version="1.0"?><package><metadata><dc:title>My Book</dc:title><dc:creator>An Author</dc:creator></metadata><manifest><item id="ch1" href="chapter1.xhtml" media-type="application/xhtml+xml"/></manifest><spine><itemref idref="ch1"/></spine></package>`)
	write("OEBPS/chapter1.xhtml", `<html xmlns="http://www.w3.org/1999/xhtml"><body><p>hello there</p></body></html>`)
}

func TestDeriveWorkspaceStableForUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.epub")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	a, err := DeriveWorkspace(path)
	require.NoError(t, err)
	b, err := DeriveWorkspace(path)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDeriveWorkspaceChangesWithMtime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.epub")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	a, err := DeriveWorkspace(path)
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	b, err := DeriveWorkspace(path)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTranslateBookEndToEnd(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "book.epub")
	writeMinimalEPUB(t, src)

	tr := llm.New(stubCompleter{}, llm.Options{
		Model:      "gpt-test",
		TargetLang: "French",
		RetryTimes: 0,
	}, nil, logrus.NewEntry(logrus.New()))

	orch := New(Config{
		SourceLanguage: language.Language{Code: "en", Name: "English"},
		TargetLanguage: language.Language{Code: "fr", Name: "French"},
		MaxThreads:     2,
		MaxParagraph:   500,
		GroupMaxTokens: 500,
		WorkDir:        filepath.Join(dir, "work"),
	}, tr, logrus.NewEntry(logrus.New()))

	var progressValues []float64
	dest := filepath.Join(dir, "out.epub")
	out, err := orch.TranslateBook(context.Background(), src, dest, func(f float64) {
		progressValues = append(progressValues, f)
	})
	require.NoError(t, err)
	assert.Equal(t, dest, out)
	assert.FileExists(t, dest)

	last := 0.0
	for _, v := range progressValues {
		assert.GreaterOrEqual(t, v, last)
		last = v
	}
	assert.Equal(t, 1.0, progressValues[len(progressValues)-1])

	r, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "mimetype", r.File[0].Name)
}
