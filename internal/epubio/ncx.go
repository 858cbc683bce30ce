package epubio

import (
	"os"
	"regexp"
	"strings"
)

var ncxTextRe = regexp.MustCompile(`(?is)(<text>)(.*?)(</text>)`)

// NCXTexts returns every <text> node's content in document order from the
// NCX document at path.
func NCXTexts(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var texts []string
	for _, m := range ncxTextRe.FindAllStringSubmatch(string(data), -1) {
		texts = append(texts, m[2])
	}
	return texts, nil
}

// RewriteNCXTexts replaces every <text> node's content at path with the
// corresponding entry of translated, in document order. Extra or missing
// translations are handled by only rewriting as many nodes as translated
// provides.
func RewriteNCXTexts(path string, translated []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	content := string(data)

	index := 0
	var b strings.Builder
	cursor := 0
	matches := ncxTextRe.FindAllStringSubmatchIndex(content, -1)
	for _, m := range matches {
		b.WriteString(content[cursor:m[4]])
		if index < len(translated) {
			b.WriteString(escapeXMLText(translated[index]))
		} else {
			b.WriteString(content[m[4]:m[5]])
		}
		index++
		cursor = m[5]
	}
	b.WriteString(content[cursor:])

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
