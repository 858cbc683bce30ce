// Package splitter implements the Sentence Splitter (component A):
// it slices a paragraph into sentence-like fragments while honouring
// bracket/quote nesting and abbreviation-aware period disambiguation,
// grounded on original_source/shared/epub/paragraph_sliter.py.
package splitter

import "unicode/utf8"

// MinSentenceLen is the post-pass absorption threshold: any split sentence
// shorter than this (in runes) is folded into its predecessor instead of
// standing alone, so dangling abbreviation tails like "B.C." don't surface
// as their own output element.
const MinSentenceLen = 12

var bracketPairs = map[rune]rune{
	'[': ']',
	'(': ')',
	'"': '"',
	'\'': '\'',
	'“': '”',
	'‘': '’',
	'「': '」',
	'【': '】',
	'（': '）',
}

var splitSet = map[rune]bool{
	',': true,
	':': true,
}

var stopSet = map[rune]bool{
	'?': true,
	'!': true,
	'。': true,
	'；': true,
	'？': true,
	'！': true,
	';': true,
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

// Split breaks text into an ordered list of non-empty sentence fragments
// whose concatenation equals text exactly (invariant 1 in spec.md §8).
func Split(text string) []string {
	var (
		sentences       []string
		buffer          []rune
		bracketStack    []rune
		wordsInSentence int
		inWord          bool
	)

	flush := func() {
		sentences = append(sentences, string(buffer))
		buffer = buffer[:0]
	}

	for _, ch := range text {
		buffer = append(buffer, ch)

		switch {
		case splitSet[ch]:
			wordsInSentence = 0
		case inWord && isSpace(ch):
			wordsInSentence++
			inWord = false
		case !inWord && !isSpace(ch):
			inWord = true
		}

		switch {
		case len(bracketStack) > 0 && ch == bracketStack[len(bracketStack)-1]:
			bracketStack = bracketStack[:len(bracketStack)-1]
		case bracketPairs[ch] != 0:
			bracketStack = append(bracketStack, bracketPairs[ch])
		case len(bracketStack) == 0 && (stopSet[ch] || (wordsInSentence > 1 && ch == '.')):
			wordsInSentence = 0
			flush()
		}
	}

	if len(buffer) > 0 {
		sentences = append(sentences, string(buffer))
	}

	return absorbShort(sentences)
}

// absorbShort implements the post-pass: any sentence shorter than
// MinSentenceLen runes is appended onto the previous surviving sentence
// rather than kept standalone (invariant 2 in spec.md §8).
func absorbShort(sentences []string) []string {
	target := make([]string, 0, len(sentences))
	lastAppendIndex := -1

	for _, s := range sentences {
		if lastAppendIndex >= 0 && utf8.RuneCountInString(s) < MinSentenceLen {
			target[lastAppendIndex] += s
		} else {
			lastAppendIndex = len(target)
			target = append(target, s)
		}
	}

	return target
}
