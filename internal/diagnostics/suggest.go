// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package diagnostics

import (
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// nameSuggestion returns the candidate closest to given, or "" when none is
// within an edit distance of two. The distance must also stay below the
// length of given, so a one-letter name is never "corrected" into an
// unrelated short one. Earlier candidates win ties.
func nameSuggestion(given string, candidates []string) string {
	limit := min(3, utf8.RuneCountInString(given))
	best, bestDist := "", limit
	for _, c := range candidates {
		if d := levenshtein.Distance(given, c, nil); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
