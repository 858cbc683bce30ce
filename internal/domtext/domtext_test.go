package domtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseFragment(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader("<html><body>" + body + "</body></html>"))
	require.NoError(t, err)

	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == "body" {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	return find(doc)
}

func TestPickTextsExtractsLeafAndInterstitial(t *testing.T) {
	root := parseFragment(t, `<div>lead in<p>hello world</p>tail out</div>`)
	p := NewPicker(root, HTML, false)
	units := p.PickTexts()

	require.Len(t, units, 3)
	assert.Equal(t, "lead in", units[0])
	assert.Contains(t, units[1], "hello world")
	assert.Equal(t, "tail out", units[2])
}

func TestBannedSubtreeContributesNoUnits(t *testing.T) {
	root := parseFragment(t, `<div><title>Do Not Translate</title><p>translate me</p></div>`)
	p := NewPicker(root, HTML, false)
	units := p.PickTexts()

	for _, u := range units {
		assert.NotContains(t, u, "Do Not Translate")
	}
}

func TestAppendTextsInsertsSiblingForTextLeaf(t *testing.T) {
	root := parseFragment(t, `<p class="x">hello</p>`)
	p := NewPicker(root, HTML, false)
	units := p.PickTexts()
	require.Len(t, units, 1)

	p.AppendTexts([]string{"bonjour"})

	var out strings.Builder
	_ = html.Render(&out, root)
	rendered := out.String()

	assert.Contains(t, rendered, "hello")
	assert.Contains(t, rendered, "bonjour")
	assert.Contains(t, rendered, `class="x"`)
}

func TestDefaultPassExcludesEmptySpanWrapper(t *testing.T) {
	root := parseFragment(t, `<div><table></table><span>   </span>hello world</div>`)
	p := NewPicker(root, HTML, false)
	units := p.PickTexts()

	require.Len(t, units, 1)
	assert.Equal(t, "hello world", units[0])
}

func TestCleanFormatOptsOutOfEmptySpanCleanup(t *testing.T) {
	// With cleanFormat=true the span is a TextLeaf serialised whole, so its
	// markup (not just whitespace) becomes a picked unit; with cleanFormat=false
	// (the default) the same span collapses to an empty placeholder instead.
	root := parseFragment(t, `<div><span>   </span>hello world</div>`)
	p := NewPicker(root, HTML, true)
	units := p.PickTexts()

	require.Len(t, units, 2)
	assert.Equal(t, "<span>   </span>", units[0])
	assert.Equal(t, "hello world", units[1])
}

func TestAppendTextsMergesInterstitialWithNewline(t *testing.T) {
	root := parseFragment(t, `<div>lead<span>inner</span></div>`)
	p := NewPicker(root, HTML, false)
	units := p.PickTexts()
	require.Len(t, units, 2)

	translations := make([]string, len(units))
	for i := range units {
		translations[i] = "T" + string(rune('0'+i))
	}
	p.AppendTexts(translations)

	var out strings.Builder
	_ = html.Render(&out, root)
	rendered := out.String()
	assert.Contains(t, rendered, "lead\nT0")
}
