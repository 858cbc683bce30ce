package page

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booktranslator/internal/domtext"
	"booktranslator/internal/grouper"
)

func upperTranslate(ctx context.Context, texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = strings.ToUpper(t)
	}
	return out, nil
}

func newTestTranslator() *Translator {
	return &Translator{
		Grouper:   grouper.New(1000, 1000, grouper.Char, nil),
		Translate: upperTranslate,
		Method:    domtext.HTML,
	}
}

func TestTranslatePagePreservesVoidTagSelfClosing(t *testing.T) {
	tr := newTestTranslator()
	content := `<?xml version="1.0" encoding="utf-8"?>` +
		`<html xmlns="http://www.w3.org/1999/xhtml"><body><p>hello</p><br><img src="x.png"></body></html>`

	out, err := tr.TranslatePage(context.Background(), content, func(float64) {})
	require.NoError(t, err)

	assert.Contains(t, out, "<br/>")
	assert.Contains(t, out, `<img src="x.png"/>`)
}

func TestTranslatePagePreservesPrologue(t *testing.T) {
	tr := newTestTranslator()
	content := `<?xml version="1.0" encoding="utf-8"?>` + "\n" +
		`<html xmlns="http://www.w3.org/1999/xhtml"><body><p>hi</p></body></html>`

	out, err := tr.TranslatePage(context.Background(), content, func(float64) {})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="utf-8"?>`))
}

func TestTranslatePageInsertsBilingualSibling(t *testing.T) {
	tr := newTestTranslator()
	content := `<html xmlns="http://www.w3.org/1999/xhtml"><body><p>hello</p></body></html>`

	out, err := tr.TranslatePage(context.Background(), content, func(float64) {})
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "HELLO")
}

func TestTranslatePageReportsMonotoneProgress(t *testing.T) {
	tr := newTestTranslator()
	tr.Grouper = grouper.New(5, 5, grouper.Char, nil)
	content := `<html xmlns="http://www.w3.org/1999/xhtml"><body>` +
		`<p>one two three</p><p>four five six</p><p>seven eight nine</p></body></html>`

	var reported []float64
	_, err := tr.TranslatePage(context.Background(), content, func(f float64) {
		reported = append(reported, f)
	})
	require.NoError(t, err)

	last := 0.0
	for _, v := range reported {
		assert.GreaterOrEqual(t, v, last)
		last = v
	}
	if len(reported) > 0 {
		assert.Equal(t, 1.0, reported[len(reported)-1])
	}
}
