package epubio

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var containerRootfileRe = regexp.MustCompile(`(?is)<rootfile[^>]*full-path="([^"]+)"`)

var dcTitleRe = regexp.MustCompile(`(?is)(<dc:title[^>]*>)(.*?)(</dc:title>)`)
var dcCreatorRe = regexp.MustCompile(`(?is)(<dc:creator[^>]*>)(.*?)(</dc:creator>)`)

var manifestItemRe = regexp.MustCompile(`(?is)<item\b([^>]*)/?>`)
var itemAttrRe = regexp.MustCompile(`(\w[\w-]*)="([^"]*)"`)
var spineItemrefRe = regexp.MustCompile(`(?is)<itemref\b([^>]*)/?>`)

// SpineXHTMLPaths parses the OPF document at opfPath and returns the
// absolute-within-workspace paths of every spine item whose manifest
// media-type is application/xhtml+xml, in spine order.
func SpineXHTMLPaths(opfPath string) ([]string, error) {
	data, err := os.ReadFile(opfPath)
	if err != nil {
		return nil, err
	}
	content := string(data)
	opfDir := filepath.Dir(opfPath)

	hrefByID := map[string]string{}
	mediaTypeByID := map[string]string{}
	for _, m := range manifestItemRe.FindAllStringSubmatch(content, -1) {
		attrs := parseAttrs(m[1])
		id := attrs["id"]
		if id == "" {
			continue
		}
		hrefByID[id] = attrs["href"]
		mediaTypeByID[id] = attrs["media-type"]
	}

	var paths []string
	for _, m := range spineItemrefRe.FindAllStringSubmatch(content, -1) {
		attrs := parseAttrs(m[1])
		id := attrs["idref"]
		if mediaTypeByID[id] != "application/xhtml+xml" {
			continue
		}
		href, ok := hrefByID[id]
		if !ok || href == "" {
			continue
		}
		paths = append(paths, filepath.Join(opfDir, filepath.FromSlash(href)))
	}

	return paths, nil
}

// NCXPath parses the OPF document at opfPath and returns the path of its
// NCX table of contents document, if the manifest declares one.
func NCXPath(opfPath string) (string, error) {
	data, err := os.ReadFile(opfPath)
	if err != nil {
		return "", err
	}
	content := string(data)
	opfDir := filepath.Dir(opfPath)

	for _, m := range manifestItemRe.FindAllStringSubmatch(content, -1) {
		attrs := parseAttrs(m[1])
		if attrs["media-type"] == "application/x-dtbncx+xml" {
			return filepath.Join(opfDir, filepath.FromSlash(attrs["href"])), nil
		}
	}

	return "", os.ErrNotExist
}

func parseAttrs(raw string) map[string]string {
	attrs := map[string]string{}
	for _, m := range itemAttrRe.FindAllStringSubmatch(raw, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

// RootfilePath reads META-INF/container.xml under dir and returns the
// relative path of the OPF package document it points to.
func RootfilePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "META-INF", "container.xml"))
	if err != nil {
		return "", err
	}
	m := containerRootfileRe.FindSubmatch(data)
	if m == nil {
		return "", os.ErrNotExist
	}
	return string(m[1]), nil
}

// Bilingual builds the "<origin> - <target>" form spec.md §4.7 specifies
// for translated metadata, or returns origin unchanged when the source
// and target languages are the same.
func Bilingual(origin, target string, sameLanguage bool) string {
	if sameLanguage || target == "" {
		return origin
	}
	return origin + " - " + target
}

// RewriteTitleAndCreator replaces the first <dc:title> and every
// <dc:creator> element's text content in the OPF document at path.
// translateTitle and translateCreator are each called once per original
// text.
func RewriteTitleAndCreator(path string, translateTitle func(string) (string, error), translateCreator func(string) (string, error)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	content := string(data)

	if m := dcTitleRe.FindStringSubmatchIndex(content); m != nil {
		original := content[m[4]:m[5]]
		translated, err := translateTitle(original)
		if err != nil {
			return err
		}
		content = content[:m[4]] + escapeXMLText(translated) + content[m[5]:]
	}

	content = replaceAllSubmatch(content, dcCreatorRe, translateCreator)

	return os.WriteFile(path, []byte(content), 0o644)
}

// replaceAllSubmatch rewrites every match's captured text (group 2) using
// transform, building the result in one left-to-right pass so that a
// replacement's length change never disturbs later match offsets.
func replaceAllSubmatch(content string, re *regexp.Regexp, transform func(string) (string, error)) string {
	matches := re.FindAllStringSubmatchIndex(content, -1)
	if matches == nil {
		return content
	}

	var b strings.Builder
	cursor := 0
	for _, m := range matches {
		b.WriteString(content[cursor:m[4]])
		original := content[m[4]:m[5]]
		translated, err := transform(original)
		if err != nil {
			translated = original
		}
		b.WriteString(escapeXMLText(translated))
		cursor = m[5]
	}
	b.WriteString(content[cursor:])

	return b.String()
}

func escapeXMLText(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
