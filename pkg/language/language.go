// Package language resolves the book-translator language codes accepted at
// the external interface (spec.md §6) into the display names used when
// building LLM system prompts.
package language

import "fmt"

// Language describes one of the codes the invocation parameters accept.
type Language struct {
	Code string
	Name string
}

var table = map[string]Language{
	"zh-Hans": {Code: "zh-Hans", Name: "Simplified Chinese"},
	"zh-Hant": {Code: "zh-Hant", Name: "Traditional Chinese"},
	"en":      {Code: "en", Name: "English"},
	"fr":      {Code: "fr", Name: "French"},
	"de":      {Code: "de", Name: "German"},
	"es":      {Code: "es", Name: "Spanish"},
	"ru":      {Code: "ru", Name: "Russian"},
	"it":      {Code: "it", Name: "Italian"},
	"pt":      {Code: "pt", Name: "Portuguese"},
	"ja":      {Code: "ja", Name: "Japanese"},
	"ko":      {Code: "ko", Name: "Korean"},
}

// Resolve looks up a language code, returning an error for anything outside
// the fixed set spec.md §6 recognises.
func Resolve(code string) (Language, error) {
	lang, ok := table[code]
	if !ok {
		return Language{}, fmt.Errorf("language: unknown code %q", code)
	}
	return lang, nil
}

// IsValid reports whether code is one of the recognised language codes.
func IsValid(code string) bool {
	_, ok := table[code]
	return ok
}

// Codes returns every recognised language code, for flag help text and
// config validation error messages.
func Codes() []string {
	codes := make([]string, 0, len(table))
	for c := range table {
		codes = append(codes, c)
	}
	return codes
}
