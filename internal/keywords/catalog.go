// Package keywords loads, validates and serves the skill catalog used for matching.
package keywords

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"atsopt/internal/ats"
	"atsopt/internal/errors"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

type catalogFile struct {
	Version       int         `yaml:"version"`
	Normalization []ruleFile  `yaml:"normalization"`
	Skills        []skillFile `yaml:"skills"`
}

type ruleFile struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type skillFile struct {
	ID         string   `yaml:"id"`
	Display    string   `yaml:"display"`
	Variants   []string `yaml:"variants"`
	Suggestion string   `yaml:"suggestion"`
}

// Default returns the catalog compiled into the binary.
func Default() (*ats.KeywordMap, error) {
	return Load(defaultCatalog)
}

// MustDefault is Default for callers that cannot proceed without a catalog.
func MustDefault() *ats.KeywordMap {
	km, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded keyword catalog is invalid: %v", err))
	}
	return km
}

// LoadFile reads and validates a catalog from disk.
func LoadFile(path string) (*ats.KeywordMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read keyword catalog", err).
			WithContext("path", path)
	}
	km, err := Load(data)
	if err != nil {
		if appErr, ok := errors.As(err); ok {
			return nil, appErr.WithContext("path", path)
		}
		return nil, err
	}
	return km, nil
}

// Load parses and validates a YAML catalog. Variants are lower-cased and
// rewritten with the catalog's own normalization rules so they compare
// against normalized text.
func Load(data []byte) (*ats.KeywordMap, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, invalid("catalog is not valid YAML", err)
	}

	rules, err := buildRules(file.Normalization)
	if err != nil {
		return nil, err
	}

	if len(file.Skills) == 0 {
		return nil, invalid("catalog defines no skills", nil)
	}

	entries := make([]ats.KeywordEntry, 0, len(file.Skills))
	seen := make(map[string]struct{}, len(file.Skills))
	for i, s := range file.Skills {
		id := strings.ToLower(strings.TrimSpace(s.ID))
		if id == "" {
			return nil, invalid(fmt.Sprintf("skill #%d has no id", i+1), nil)
		}
		if _, dup := seen[id]; dup {
			return nil, invalid(fmt.Sprintf("duplicate skill id %q", id), nil)
		}
		seen[id] = struct{}{}

		variants := normalizeVariants(s.Variants, rules)
		if len(variants) == 0 {
			return nil, invalid(fmt.Sprintf("skill %q has no variants", id), nil)
		}

		entries = append(entries, ats.KeywordEntry{
			ID:         id,
			Variants:   variants,
			Display:    strings.TrimSpace(s.Display),
			Suggestion: strings.TrimSpace(s.Suggestion),
		})
	}

	return ats.NewKeywordMap(file.Version, rules, entries), nil
}

func buildRules(in []ruleFile) ([]ats.Rule, error) {
	rules := make([]ats.Rule, 0, len(in))
	for i, r := range in {
		from := strings.ToLower(r.From)
		if from == "" {
			return nil, invalid(fmt.Sprintf("normalization rule #%d has an empty 'from'", i+1), nil)
		}
		if isAlnum(from) {
			return nil, invalid(fmt.Sprintf("normalization rule %q must contain punctuation", from), nil)
		}
		if r.To == "" || !isAlnum(r.To) || strings.ToLower(r.To) != r.To {
			return nil, invalid(fmt.Sprintf("normalization rule %q must rewrite to a lower-case alphanumeric token", from), nil)
		}
		rules = append(rules, ats.Rule{From: from, To: r.To})
	}
	return rules, nil
}

func normalizeVariants(in []string, rules []ats.Rule) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		n := strings.TrimSpace(ats.Normalize(v, rules))
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func invalid(message string, cause error) *errors.AppError {
	return errors.NewConfigError(errors.ErrCodeInvalidCatalog, message, cause)
}
