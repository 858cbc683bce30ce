// Package grouper implements the Fragment Grouper (component B): it turns
// a page's translation units into fragments bounded by a per-fragment cap
// and assembles those fragments into token-budgeted groups with neighbour
// overlap, grounded on original_source/tasks/translater/epub/group.py.
package grouper

import (
	"strings"

	"booktranslator/internal/splitter"
)

// CountUnit selects how fragment/group sizes are measured.
type CountUnit int

const (
	// Char counts Unicode code points, matching the original Python len().
	Char CountUnit = iota
	// Token counts model tokens via Counter.
	Token
)

// Counter measures the size of a string in the active CountUnit and
// slices an oversized string at a unit boundary (a token boundary in Token
// mode). Phase 1 calls Slice in both modes to hard-chop oversize sentences.
type Counter interface {
	Count(s string) int
	Slice(s string, maxCount int) (head, rest string)
}

// charCounter implements Counter for Char mode by rune count.
type charCounter struct{}

func (charCounter) Count(s string) int { return len([]rune(s)) }

func (charCounter) Slice(s string, maxCount int) (string, string) {
	runes := []rune(s)
	if len(runes) <= maxCount {
		return s, ""
	}
	return string(runes[:maxCount]), string(runes[maxCount:])
}

// Fragment is a contiguous span of one unit, tagged with the unit it came
// from and its size in the active count unit.
type Fragment struct {
	Text      string
	UnitIndex int
	Count     int
}

// Group is an ordered list of fragments whose total Count is bounded by
// the grouper's group_max_tokens, save for overlap fragments at its ends.
type Group []Fragment

// Grouper assembles units into fragments and fragments into groups.
type Grouper struct {
	MaxParagraph   int
	GroupMaxTokens int
	Unit           CountUnit
	counter        Counter
}

// New builds a Grouper. A nil/zero-value Token counter falls back to Char
// counting, since the project ships without a model-specific tokenizer.
func New(maxParagraph, groupMaxTokens int, unit CountUnit, tokenCounter Counter) *Grouper {
	counter := tokenCounter
	if unit == Char || counter == nil {
		counter = charCounter{}
	}
	return &Grouper{
		MaxParagraph:   maxParagraph,
		GroupMaxTokens: groupMaxTokens,
		Unit:           unit,
		counter:        counter,
	}
}

// Group runs the two-phase algorithm: fragment generation (phase 1) then
// group assembly with neighbour overlap (phase 2).
func (g *Grouper) Group(units []string) []Group {
	fragments := g.fragmentUnits(units)
	return g.assembleGroups(fragments)
}

// fragmentUnits is phase 1: each unit becomes one fragment if it fits
// within MaxParagraph, otherwise it is split into sentences and those are
// packed into MaxParagraph-sized fragments, hard-chopping any sentence
// that alone still exceeds the cap.
func (g *Grouper) fragmentUnits(units []string) []Fragment {
	var fragments []Fragment

	for index, unit := range units {
		if g.counter.Count(unit) <= g.MaxParagraph {
			fragments = append(fragments, Fragment{Text: unit, UnitIndex: index, Count: g.counter.Count(unit)})
			continue
		}

		var buffer strings.Builder
		bufferCount := 0

		flush := func() {
			if bufferCount == 0 {
				return
			}
			fragments = append(fragments, Fragment{Text: buffer.String(), UnitIndex: index, Count: bufferCount})
			buffer.Reset()
			bufferCount = 0
		}

		for _, sentence := range splitter.Split(unit) {
			cell := sentence
			cellCount := g.counter.Count(cell)

			if cellCount+bufferCount <= g.MaxParagraph {
				buffer.WriteString(cell)
				bufferCount += cellCount
				continue
			}

			flush()

			for g.counter.Count(cell) > g.MaxParagraph {
				head, rest := g.counter.Slice(cell, g.MaxParagraph)
				fragments = append(fragments, Fragment{Text: head, UnitIndex: index, Count: g.counter.Count(head)})
				cell = rest
			}
			if cell != "" {
				buffer.WriteString(cell)
				bufferCount += g.counter.Count(cell)
			}
		}

		flush()
	}

	return fragments
}

// assembleGroups is phase 2: fragments are packed into groups under
// GroupMaxTokens; closing a group seeds the next one with its last two
// fragments, unless it had two or fewer, per the Group overlap rule.
func (g *Grouper) assembleGroups(fragments []Fragment) []Group {
	var groups []Group
	var current Group
	sumCount := 0

	for _, fragment := range fragments {
		if len(current) > 0 && sumCount+fragment.Count > g.GroupMaxTokens {
			groups = append(groups, current)

			if len(current) <= 2 {
				current = nil
			} else {
				current = append(Group{}, current[len(current)-2:]...)
			}

			sumCount = 0
			for _, seed := range current {
				sumCount += seed.Count
			}
		}

		current = append(current, fragment)
		sumCount += fragment.Count
	}

	if len(current) > 0 {
		groups = append(groups, current)
	}

	return groups
}
