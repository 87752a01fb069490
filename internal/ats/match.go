package ats

import (
	"math"
	"sort"
	"strings"
)

// MatchResult holds the outcome of comparing a resume to a job description.
// Found and Missing partition Required and are sorted by canonical ID.
type MatchResult struct {
	Score    int      `json:"score"`
	Required []string `json:"required"`
	Found    []string `json:"found"`
	Missing  []string `json:"missing"`
}

// Match determines which skills the job description asks for and which of those
// the resume mentions. Both texts must already be normalized.
func Match(resumeNorm, jdNorm string, km *KeywordMap) MatchResult {
	result := MatchResult{
		Required: []string{},
		Found:    []string{},
		Missing:  []string{},
	}
	if km == nil {
		result.Score = 100
		return result
	}

	seen := make(map[string]struct{}, len(km.Entries))
	for _, entry := range km.Entries {
		if _, dup := seen[entry.ID]; dup {
			continue
		}
		if !containsAny(jdNorm, entry.Variants) {
			continue
		}
		seen[entry.ID] = struct{}{}
		result.Required = append(result.Required, entry.ID)

		if containsAny(resumeNorm, entry.Variants) {
			result.Found = append(result.Found, entry.ID)
		} else {
			result.Missing = append(result.Missing, entry.ID)
		}
	}

	sort.Strings(result.Required)
	sort.Strings(result.Found)
	sort.Strings(result.Missing)
	result.Score = Score(len(result.Found), len(result.Required))
	return result
}

// Score returns the rounded percentage of required skills that were found.
// No requirements counts as a perfect match. Halves round to even.
func Score(found, required int) int {
	if required <= 0 {
		return 100
	}
	return int(math.RoundToEven(100 * float64(found) / float64(required)))
}

func containsAny(text string, variants []string) bool {
	for _, v := range variants {
		if v != "" && strings.Contains(text, v) {
			return true
		}
	}
	return false
}
