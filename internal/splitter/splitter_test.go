package splitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRoundTripsExactly(t *testing.T) {
	text := "This (it was original. not derived). The next one runs on regardless."
	assert.Equal(t, text, strings.Join(Split(text), ""))
}

func TestSplitAbbreviationNotTreatedAsBoundary(t *testing.T) {
	text := "The period from the late fourth to the late second century B.C."
	got := Split(text)
	assert.Equal(t, []string{text}, got)
}

func TestSplitChineseStopPunctuation(t *testing.T) {
	got := Split("第一句。第二句！")
	assert.Equal(t, []string{"第一句。", "第二句！"}, got)
}

func TestSplitParentheticalPeriodDoesNotBoundary(t *testing.T) {
	text := "This (it was original. not derived). The next."
	got := Split(text)
	assert.Equal(t, []string{
		"This (it was original. not derived).",
		" The next.",
	}, got)
}

func TestSplitShortFragmentsAreAbsorbed(t *testing.T) {
	got := Split("Ok. This is fine.")
	for _, s := range got {
		assert.True(t, len([]rune(s)) >= MinSentenceLen || len(got) == 1)
	}
}

func TestSplitSingleShortSentenceStandsAlone(t *testing.T) {
	got := Split("Hi.")
	assert.Equal(t, []string{"Hi."}, got)
}

func TestSplitEmptyInput(t *testing.T) {
	assert.Empty(t, Split(""))
}
