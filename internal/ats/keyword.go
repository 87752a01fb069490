package ats

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule rewrites every occurrence of From into To during normalization.
type Rule struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// KeywordEntry maps a canonical skill ID to the surface forms that count as that skill.
type KeywordEntry struct {
	ID         string   `json:"id"`
	Variants   []string `json:"variants"`
	Display    string   `json:"display,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// KeywordMap is the read-only matching configuration shared by all requests.
// Build it with NewKeywordMap and never modify it afterwards.
type KeywordMap struct {
	Version int            `json:"version"`
	Rules   []Rule         `json:"normalization"`
	Entries []KeywordEntry `json:"skills"`

	suggestions map[string]string
	displays    map[string]string
}

// NewKeywordMap builds a KeywordMap and its suggestion index.
func NewKeywordMap(version int, rules []Rule, entries []KeywordEntry) *KeywordMap {
	km := &KeywordMap{
		Version:     version,
		Rules:       rules,
		Entries:     entries,
		suggestions: make(map[string]string, len(entries)),
		displays:    make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if e.Suggestion != "" {
			km.suggestions[e.ID] = e.Suggestion
		}
		if e.Display != "" {
			km.displays[e.ID] = e.Display
		}
	}
	return km
}

// Suggestion returns the canned resume bullet for a skill, if one is configured.
func (km *KeywordMap) Suggestion(id string) (string, bool) {
	if km == nil {
		return "", false
	}
	s, ok := km.suggestions[id]
	return s, ok
}

// DisplayName returns the configured display form of a skill, or the title-cased ID.
func (km *KeywordMap) DisplayName(id string) string {
	if km != nil {
		if d, ok := km.displays[id]; ok {
			return d
		}
	}
	return cases.Title(language.English).String(id)
}

// DisplayNames maps DisplayName over ids, preserving order.
func (km *KeywordMap) DisplayNames(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = km.DisplayName(id)
	}
	return out
}

// Normalize applies the map's rules to text.
func (km *KeywordMap) Normalize(text string) string {
	if km == nil {
		return Normalize(text, nil)
	}
	return Normalize(text, km.Rules)
}

// Size returns the number of canonical skills.
func (km *KeywordMap) Size() int {
	if km == nil {
		return 0
	}
	return len(km.Entries)
}
