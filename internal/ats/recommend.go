package ats

import (
	"fmt"
	"strings"
)

// Score band cutoffs for Recommendation.
const (
	ExcellentMatchScore = 90
	GoodMatchScore      = 70
	ModerateMatchScore  = 50
)

// Recommendation returns the advice line for a score. Missing is expected in
// ranked order; the first few entries are named depending on the band.
func Recommendation(missing []string, score int) string {
	switch {
	case score >= ExcellentMatchScore:
		return "Excellent match! Your resume is well aligned with this job description."
	case score >= GoodMatchScore:
		return withSkills("Good match. Consider adding", missing, 3)
	case score >= ModerateMatchScore:
		return withSkills("Moderate match. Add these key skills", missing, 3)
	default:
		return withSkills("Significant gaps found. Focus on adding", missing, 5)
	}
}

func withSkills(lead string, missing []string, limit int) string {
	top := topN(missing, limit)
	if len(top) == 0 {
		return lead + " more of the skills named in the job description."
	}
	return fmt.Sprintf("%s: %s.", lead, strings.Join(top, ", "))
}

func topN(items []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}
