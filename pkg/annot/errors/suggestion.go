package errors

import (
	"fmt"
	"strings"
)

// SuggestName suggests the closest valid name for an unknown one using
// Levenshtein distance.
func SuggestName(unknown string, valid []string) string {
	if len(valid) == 0 {
		return ""
	}

	minDistance := 1000
	var bestMatch string
	for _, name := range valid {
		if dist := levenshteinDistance(unknown, name); dist < minDistance {
			minDistance = dist
			bestMatch = name
		}
	}

	if minDistance < 5 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	if len(valid) > 5 {
		return fmt.Sprintf("Valid names include: %s, ...", strings.Join(valid[:5], ", "))
	}
	return fmt.Sprintf("Valid names: %s", strings.Join(valid, ", "))
}

// TurbofishHint is the migration hint for the legacy generic syntax.
const TurbofishHint = "use turbofish syntax for type parameters: `Validator::<_>` not `Validator<_>`"

// levenshteinDistance computes the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1, len2 := len(s1), len(s2)
	prev := make([]int, len2+1)
	curr := make([]int, len2+1)
	for j := 0; j <= len2; j++ {
		prev[j] = j
	}

	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}
