package ats

import "strings"

// Normalize lower-cases text and applies rules in order, each one over the output
// of the previous rule. The ordered pass repeats until the text stops changing,
// since a later rule's output can complete an earlier rule's pattern
// ("ci/c.net" becomes "ci/cdotnet", which contains "ci/cd").
// Matching downstream is plain substring containment on the result.
func Normalize(text string, rules []Rule) string {
	out := strings.ToLower(text)
	// Catalog rules always remove punctuation, so each changing pass shrinks the
	// punctuation count. The bound only stops rule sets that never converge.
	for range len(out) + 1 {
		next := applyRules(out, rules)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func applyRules(text string, rules []Rule) string {
	for _, r := range rules {
		if r.From == "" {
			continue
		}
		text = strings.ReplaceAll(text, r.From, r.To)
	}
	return text
}
