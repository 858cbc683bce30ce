// Package domtext implements the DOM Text Picker (component C): it walks
// a parsed XHTML tree, classifies every element as a TextLeaf, TreeNode,
// or banned subtree, emits translation units in document order, and
// splices translations back in as bilingual siblings. Grounded on
// original_source/shared/epub/text_picker.py, ported from lxml's
// text/tail node model onto golang.org/x/net/html's flat sibling model
// (see internal/chunking/html_chunker.go in the teacher for the
// traversal idiom this follows).
package domtext

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Method selects how a TextLeaf's unit is serialised.
type Method int

const (
	// HTML serialises a TextLeaf as its full outer markup.
	HTML Method = iota
	// Text serialises a TextLeaf as its concatenated text content only.
	Text
)

var textTagSet = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"a": true, "p": true, "span": true, "em": true, "strong": true,
	"blockquote": true, "pre": true, "code": true, "hr": true, "label": true,
}

var bannedTagSet = map[string]bool{
	"title": true, "style": true, "css": true, "script": true, "metadata": true,
}

// kind tags the wrapper variant, replacing the source's duck-typed
// TreeDom/TextDom/str union with an explicit discriminator.
type kind int

const (
	kindTextLeaf kind = iota
	kindTreeNode
	kindInterstitial
)

// wrapper is the parallel tree built over the parsed DOM: a TextLeaf
// collapses its whole subtree into one unit, a TreeNode descends into
// its children, and an Interstitial is a bare text sibling.
type wrapper struct {
	kind     kind
	node     *html.Node // the element, or the text node itself for an Interstitial
	text     string     // an Interstitial's original text; unused for elements
	children []*wrapper
}

// shouldSerializeWhole reports whether this wrapper's entire subtree
// collapses into a single unit rather than being walked child by child.
func (w *wrapper) shouldSerializeWhole() bool {
	return w.kind == kindTextLeaf
}

func isNotEmptyText(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\n' {
			return true
		}
	}
	return false
}

// isEmptySpanWrapper reports whether n is a <span> with no element
// children whose text is only spaces and newlines, the indentation-wrapper pattern English
// books use that otherwise pollutes the translation prompt.
func isEmptySpanWrapper(n *html.Node) bool {
	if n.Data != "span" {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && isNotEmptyText(c.Data) {
			return false
		}
		if c.Type == html.ElementNode {
			return false
		}
	}
	return true
}

func wrap(n *html.Node) *wrapper {
	var children []*wrapper
	hasTreeChild := false

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if isNotEmptyText(c.Data) {
				children = append(children, &wrapper{kind: kindInterstitial, node: c, text: c.Data})
			}
		case html.ElementNode:
			wc := wrap(c)
			children = append(children, wc)
			if wc.kind == kindTreeNode {
				hasTreeChild = true
			}
		}
	}

	if !hasTreeChild && textTagSet[n.Data] {
		return &wrapper{kind: kindTextLeaf, node: n, children: children}
	}
	return &wrapper{kind: kindTreeNode, node: n, children: children}
}

func serialize(n *html.Node, method Method) string {
	if method == Text {
		var buf strings.Builder
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if n.Type == html.TextNode {
				buf.WriteString(n.Data)
				return
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(n)
		return buf.String()
	}

	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// Picker extracts and reinserts translation units for one parsed
// document root, classified by the configured serialisation Method.
type Picker struct {
	root               *html.Node
	method             Method
	cleanFormat        bool
	wrapped            *wrapper
	insertedNoneCounts []int
}

// NewPicker builds a Picker over root, serialising TextLeaf units with
// method. Empty <span> indentation wrappers (the pattern some English
// books use for paragraph indentation) are stripped from the picked units
// unless cleanFormat is set, matching the original's default span-cleanup
// pass; cleanFormat opts a document out of that pass.
func NewPicker(root *html.Node, method Method, cleanFormat bool) *Picker {
	return &Picker{root: root, method: method, cleanFormat: cleanFormat}
}

// PickTexts returns the ordered, non-empty translation units of the
// document. It must be called before AppendTexts.
func (p *Picker) PickTexts() []string {
	p.wrapped = wrap(p.root)

	var rawTexts []string
	collectTexts(p.wrapped, p.method, p.cleanFormat, &rawTexts)

	var picked []string
	noneCount := 0
	for _, t := range rawTexts {
		if isNotEmptyText(t) {
			picked = append(picked, t)
			p.insertedNoneCounts = append(p.insertedNoneCounts, noneCount)
			noneCount = 0
		} else {
			noneCount++
		}
	}
	if noneCount > 0 {
		p.insertedNoneCounts = append(p.insertedNoneCounts, noneCount)
	}

	return picked
}

func collectTexts(w *wrapper, method Method, cleanFormat bool, texts *[]string) {
	if bannedTagSet[w.node.Data] {
		return
	}
	if !cleanFormat && isEmptySpanWrapper(w.node) {
		*texts = append(*texts, "")
		return
	}
	if w.shouldSerializeWhole() {
		*texts = append(*texts, serialize(w.node, method))
		return
	}
	for _, c := range w.children {
		if c.kind == kindInterstitial {
			*texts = append(*texts, c.text)
		} else {
			collectTexts(c, method, cleanFormat, texts)
		}
	}
}

// AppendTexts splices translations back into the DOM in the order
// PickTexts returned their sources. Gaps recorded for empty source units
// are respected so translations line up with their originating unit.
func (p *Picker) AppendTexts(texts []string) {
	var target []*string
	for i, count := range p.insertedNoneCounts {
		for k := 0; k < count; k++ {
			target = append(target, nil)
		}
		if i < len(texts) {
			t := texts[i]
			target = append(target, &t)
		}
	}

	for i, j := 0, len(target)-1; i < j; i, j = i+1, j-1 {
		target[i], target[j] = target[j], target[i]
	}

	appendAfter(p.wrapped, &target)
}

// pop removes and returns the last element of the stack, or nil if empty.
func pop(stack *[]*string) *string {
	if len(*stack) == 0 {
		return nil
	}
	last := (*stack)[len(*stack)-1]
	*stack = (*stack)[:len(*stack)-1]
	return last
}

func appendAfter(w *wrapper, stack *[]*string) *html.Node {
	if bannedTagSet[w.node.Data] {
		return nil
	}

	if w.shouldSerializeWhole() {
		text := pop(stack)
		if text == nil {
			return nil
		}
		return insertSiblingAfter(w.node, *text)
	}

	var lastAppended *html.Node
	for _, c := range w.children {
		if c.kind == kindInterstitial {
			text := pop(stack)
			if text == nil {
				continue
			}
			c.node.Data = c.text + "\n" + *text
		} else {
			if appended := appendAfter(c, stack); appended != nil {
				lastAppended = appended
			}
		}
	}

	return lastAppended
}

// insertSiblingAfter creates a clone of n holding translation as its sole
// text content and inserts it immediately after n in their shared parent.
func insertSiblingAfter(n *html.Node, translation string) *html.Node {
	if n.Parent == nil {
		return nil
	}

	clone := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Data,
		DataAtom: n.DataAtom,
		Attr:     append([]html.Attribute{}, n.Attr...),
	}
	clone.AppendChild(&html.Node{Type: html.TextNode, Data: translation})

	n.Parent.InsertBefore(clone, n.NextSibling)
	return clone
}
