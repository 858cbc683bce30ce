// Package page implements the Page Translator (component D): the
// nine-step pipeline that turns one XHTML spine page into its translated
// form, grounded on spec.md §4.4 and wired to domtext (C), grouper (B,
// which calls splitter A internally) and a caller-supplied translate
// callback (E/F).
package page

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"booktranslator/internal/bterrors"
	"booktranslator/internal/domtext"
	"booktranslator/internal/grouper"
)

// TranslateFunc sends a batch of non-empty source strings out for
// translation (through cache and the LLM) and returns translations of
// equal length. Injected so Translator can be tested without a network.
type TranslateFunc func(ctx context.Context, texts []string) ([]string, error)

var prologueRe = regexp.MustCompile(`(?is)^\s*(<\?xml[^>]*\?>\s*)?(<!DOCTYPE[^>]*>\s*)?`)

var voidTagRe = regexp.MustCompile(`(?i)<(img|br|hr|input|col|base|meta|link|area)([^>]*?)\s*/?>`)

var pWrapperRe = regexp.MustCompile(`(?is)^<p[^>]*>(.*)</p>$`)

var whitespaceRunRe = regexp.MustCompile(`\s+`)

// Translator turns page XHTML content into its translated form.
type Translator struct {
	Grouper     *grouper.Grouper
	Translate   TranslateFunc
	Method      domtext.Method
	CleanFormat bool
}

// TranslatePage runs the full nine-step pipeline, reporting a per-group
// progress fraction in [0, 1] to progress as translation proceeds.
func (t *Translator) TranslatePage(ctx context.Context, content string, progress func(float64)) (string, error) {
	prologue := prologueRe.FindString(content)
	body := content[len(prologue):]

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", &bterrors.PageError{Cause: fmt.Errorf("parse xhtml: %w", err)}
	}

	root := findElement(doc, "html")
	if root == nil {
		return "", &bterrors.PageError{Cause: fmt.Errorf("no <html> root element found")}
	}

	picker := domtext.NewPicker(root, t.Method, t.CleanFormat)
	sourceUnits := picker.PickTexts()

	normalized := make([]string, len(sourceUnits))
	skip := make([]bool, len(sourceUnits))
	for i, raw := range sourceUnits {
		text, isEmpty := normalizeUnit(raw)
		normalized[i] = text
		skip[i] = isEmpty
	}

	var groupingIndex []int // maps filtered position -> sourceUnits index
	var groupingTexts []string
	for i, text := range normalized {
		if skip[i] {
			continue
		}
		groupingIndex = append(groupingIndex, i)
		groupingTexts = append(groupingTexts, text)
	}

	groups := t.Grouper.Group(groupingTexts)

	unitTranslations := make([]string, len(sourceUnits))
	for i, g := range groups {
		dropLeading := i > 0 && len(groups[i-1]) > 2
		dropTrailing := i < len(groups)-1 && len(g) > 2

		start, end := 0, len(g)
		if dropLeading {
			start = 1
		}
		if dropTrailing {
			end--
		}
		if start > end {
			start = end
		}
		subset := g[start:end]

		texts := make([]string, len(subset))
		for j, f := range subset {
			texts[j] = f.Text
		}

		translated, err := t.Translate(ctx, texts)
		if err != nil {
			return "", err
		}

		for j, f := range subset {
			sourceIdx := groupingIndex[f.UnitIndex]
			unitTranslations[sourceIdx] += translated[j]
		}

		progress(float64(i+1) / float64(len(groups)))
	}

	for i := range unitTranslations {
		unitTranslations[i] = strings.TrimSpace(unitTranslations[i])
	}

	picker.AppendTexts(unitTranslations)

	var out strings.Builder
	if err := html.Render(&out, root); err != nil {
		return "", &bterrors.PageError{Cause: fmt.Errorf("serialise xhtml: %w", err)}
	}

	rendered := voidTagRe.ReplaceAllString(out.String(), `<$1$2/>`)
	return prologue + rendered, nil
}

// normalizeUnit prepares a picked unit for the LLM: strips an enclosing
// <p> wrapper if present, collapses whitespace runs, and reduces the
// result to its plain text content. The second return reports whether
// the reduced text is empty, in which case the unit is skipped entirely.
func normalizeUnit(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if m := pWrapperRe.FindStringSubmatch(trimmed); m != nil {
		trimmed = m[1]
	}
	trimmed = whitespaceRunRe.ReplaceAllString(trimmed, " ")
	text := strings.TrimSpace(extractText(trimmed))
	return text, text == ""
}

// extractText renders raw (which may be plain text or a serialised
// element) down to its text-only content, parsing it as an HTML fragment
// when it looks like markup.
func extractText(raw string) string {
	if !strings.ContainsRune(raw, '<') {
		return raw
	}

	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return buf.String()
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
