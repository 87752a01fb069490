package keywords

import (
	"sync/atomic"
	"time"

	"atsopt/internal/ats"
	"atsopt/internal/config"
	"atsopt/internal/types"
)

// Store hands out the current catalog. A request takes one Snapshot and uses it
// throughout; Swap replaces the catalog for later requests only.
type Store struct {
	current  atomic.Pointer[ats.KeywordMap]
	source   string
	loadedAt atomic.Int64
}

// NewStore wraps an already loaded catalog. Source describes where it came from.
func NewStore(km *ats.KeywordMap, source string) *Store {
	s := &Store{source: source}
	s.Swap(km)
	return s
}

// Open loads the catalog from path, or the embedded default when path is empty.
func Open(path string) (*Store, error) {
	if path == "" {
		km, err := Default()
		if err != nil {
			return nil, err
		}
		return NewStore(km, "embedded"), nil
	}

	km, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewStore(km, path), nil
}

// OpenConfig opens the catalog named by configuration. Content delivered by
// Vault takes precedence over the file.
func OpenConfig(cfg config.KeywordsConfig) (*Store, error) {
	if cfg.Content != "" {
		km, err := Load([]byte(cfg.Content))
		if err != nil {
			return nil, err
		}
		return NewStore(km, "vault"), nil
	}
	return Open(cfg.File)
}

// Snapshot returns the catalog in effect now.
func (s *Store) Snapshot() *ats.KeywordMap {
	return s.current.Load()
}

// Swap installs a new catalog.
func (s *Store) Swap(km *ats.KeywordMap) {
	s.current.Store(km)
	s.loadedAt.Store(time.Now().UnixNano())
}

// Source returns the file path the catalog is loaded from, or "embedded".
func (s *Store) Source() string {
	return s.source
}

// LoadedAt returns when the current catalog was installed.
func (s *Store) LoadedAt() time.Time {
	return time.Unix(0, s.loadedAt.Load())
}

// Describe returns the current catalog in its client-facing form.
func (s *Store) Describe() types.KeywordCatalog {
	km := s.Snapshot()
	out := types.KeywordCatalog{
		Version:  km.Version,
		Source:   s.source,
		LoadedAt: s.LoadedAt().UTC().Format(time.RFC3339),
		Rules:    make([]types.KeywordRule, 0, len(km.Rules)),
		Skills:   make([]types.KeywordSkill, 0, km.Size()),
	}
	for _, r := range km.Rules {
		out.Rules = append(out.Rules, types.KeywordRule{From: r.From, To: r.To})
	}
	for _, e := range km.Entries {
		suggestion, _ := km.Suggestion(e.ID)
		out.Skills = append(out.Skills, types.KeywordSkill{
			ID:         e.ID,
			Display:    km.DisplayName(e.ID),
			Variants:   e.Variants,
			Suggestion: suggestion,
		})
	}
	return out
}
