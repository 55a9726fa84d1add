package helpers

import (
	"sort"
	"unicode/utf8"
)

// Suggests a known word for a word that is one edit away from it. An edit is
// a missing character, an extra character, a replaced character, or two
// neighboring characters that were swapped. Very short words are left out
// since nearly everything is one edit away from them.
type TypoDetector struct {
	valid        map[string]bool
	oneCharTypos map[string]string
}

func MakeTypoDetector(valid []string) TypoDetector {
	detector := TypoDetector{
		valid:        make(map[string]bool, len(valid)),
		oneCharTypos: make(map[string]string),
	}

	// Sort so that the suggestion for an ambiguous typo is deterministic
	sorted := append([]string{}, valid...)
	sort.Strings(sorted)

	// Add all combinations of each valid word with one character missing
	for _, correct := range sorted {
		detector.valid[correct] = true
		if len(correct) > 3 {
			for i, ch := range correct {
				key := correct[:i] + correct[i+utf8.RuneLen(ch):]
				if _, ok := detector.oneCharTypos[key]; !ok {
					detector.oneCharTypos[key] = correct
				}
			}
		}
	}

	return detector
}

func (detector TypoDetector) MaybeCorrectTypo(typo string) (string, bool) {
	if detector.valid[typo] {
		return "", false
	}

	// Check for a single deleted character
	if corrected, ok := detector.oneCharTypos[typo]; ok {
		return corrected, true
	}

	for i, ch := range typo {
		without := typo[:i] + typo[i+utf8.RuneLen(ch):]

		// Check for a single inserted character
		if len(without) > 3 && detector.valid[without] {
			return without, true
		}

		// Check for a single replaced character
		if corrected, ok := detector.oneCharTypos[without]; ok && len(corrected) == len(typo) {
			if corrected[:i] == typo[:i] {
				return corrected, true
			}
		}
	}

	// Check for two swapped characters
	for i := 0; i+1 < len(typo); i++ {
		if typo[i] < utf8.RuneSelf && typo[i+1] < utf8.RuneSelf {
			swapped := typo[:i] + string(typo[i+1]) + string(typo[i]) + typo[i+2:]
			if len(swapped) > 3 && detector.valid[swapped] {
				return swapped, true
			}
		}
	}

	return "", false
}
