package keywords

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"atsopt/internal/ats"
	"atsopt/internal/config"
	"atsopt/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallCatalog = `
version: 7
normalization:
  - from: "node.js"
    to: "nodejs"
skills:
  - id: NodeJS
    display: Node.js
    variants: [node.js, nodejs, node, " Node "]
  - id: docker
    variants: [docker]
    suggestion: "Shipped services as Docker images"
`

func newTestLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("debug")
	require.NoError(t, err)
	return logger
}

func TestDefaultCatalog(t *testing.T) {
	km, err := Default()
	require.NoError(t, err)

	assert.Greater(t, km.Version, 0)
	assert.Greater(t, km.Size(), 30)
	require.NotEmpty(t, km.Rules)
	assert.Equal(t, ats.Rule{From: "node.js", To: "nodejs"}, km.Rules[0])

	ids := make(map[string]ats.KeywordEntry)
	for _, e := range km.Entries {
		ids[e.ID] = e
	}
	for _, id := range []string{"agile", "scrum", "python", "sql", "leadership", "jira", "aws", "project management", "nodejs", "docker"} {
		assert.Contains(t, ids, id)
	}

	// variants are stored in normalized form
	assert.Equal(t, []string{"nodejs", "node"}, ids["nodejs"].Variants)
	assert.Equal(t, []string{"cplusplus"}, ids["cplusplus"].Variants)
	assert.Equal(t, []string{"cicd", "continuous integration", "continuous delivery", "continuous deployment"}, ids["cicd"].Variants)

	_, ok := km.Suggestion("docker")
	assert.True(t, ok)
}

func TestDefaultCatalogScenarios(t *testing.T) {
	km := MustDefault()

	result := ats.Match(
		km.Normalize("I know Python and SQL"),
		km.Normalize("Looking for Python, AWS, and Leadership skills"),
		km,
	)
	assert.Equal(t, []string{"aws", "leadership", "python"}, result.Required)
	assert.Equal(t, []string{"python"}, result.Found)
	assert.Equal(t, 33, result.Score)

	result = ats.Match(km.Normalize("Built APIs with Node"), km.Normalize("Must know Node.js"), km)
	assert.Equal(t, []string{"nodejs"}, result.Required)
	assert.Equal(t, []string{"nodejs"}, result.Found)
}

func TestDefaultCatalogNormalizationIdempotent(t *testing.T) {
	km := MustDefault()
	for _, in := range []string{
		"Node.js, React.js and Vue.js on .NET with C#, C++ and CI/CD",
		"Objective-C, scikit-learn, ASP.NET Core",
		"ci/c.net",
		"c+c++ and c#.net",
	} {
		once := km.Normalize(in)
		assert.Equal(t, once, km.Normalize(once))
	}
}

func TestLoad(t *testing.T) {
	km, err := Load([]byte(smallCatalog))
	require.NoError(t, err)

	assert.Equal(t, 7, km.Version)
	require.Len(t, km.Entries, 2)
	assert.Equal(t, "nodejs", km.Entries[0].ID)
	assert.Equal(t, []string{"nodejs", "node"}, km.Entries[0].Variants)
	assert.Equal(t, "Node.js", km.DisplayName("nodejs"))

	s, ok := km.Suggestion("docker")
	assert.True(t, ok)
	assert.Equal(t, "Shipped services as Docker images", s)
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "skills: [unterminated"},
		{"no skills", "version: 1\nskills: []\n"},
		{"missing id", "skills:\n  - variants: [go]\n"},
		{"duplicate id", "skills:\n  - id: go\n    variants: [golang]\n  - id: Go\n    variants: [go lang]\n"},
		{"no variants", "skills:\n  - id: go\n    variants: []\n"},
		{"blank variants", "skills:\n  - id: go\n    variants: [\" \"]\n"},
		{"alnum from", "normalization:\n  - from: js\n    to: javascript\nskills:\n  - id: js\n    variants: [js]\n"},
		{"punctuated to", "normalization:\n  - from: c++\n    to: c-plus-plus\nskills:\n  - id: cpp\n    variants: [cpp]\n"},
		{"upper-case to", "normalization:\n  - from: c++\n    to: CPP\nskills:\n  - id: cpp\n    variants: [cpp]\n"},
		{"empty from", "normalization:\n  - from: \"\"\n    to: x\nskills:\n  - id: cpp\n    variants: [cpp]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallCatalog), 0o600))

	km, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, km.Size())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
}

func TestStore(t *testing.T) {
	store, err := Open("")
	require.NoError(t, err)
	assert.Equal(t, "embedded", store.Source())

	first := store.Snapshot()
	require.NotNil(t, first)

	replacement, err := Load([]byte(smallCatalog))
	require.NoError(t, err)
	store.Swap(replacement)

	assert.Same(t, replacement, store.Snapshot())
	// a snapshot taken earlier is untouched by the swap
	assert.Greater(t, first.Size(), replacement.Size())
	assert.False(t, store.LoadedAt().IsZero())
}

func TestOpenFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallCatalog), 0o600))

	store, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Source())
	assert.Equal(t, 7, store.Snapshot().Version)

	_, err = Open(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestWatcherReloadKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallCatalog), 0o600))

	store, err := Open(path)
	require.NoError(t, err)
	original := store.Snapshot()

	var calls atomic.Int32
	w := NewWatcher(path, store, 10*time.Millisecond, func(error) { calls.Add(1) }, newTestLogger(t))

	require.NoError(t, os.WriteFile(path, []byte("skills: []\n"), 0o600))
	assert.Error(t, w.Reload())
	assert.Same(t, original, store.Snapshot())
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherPicksUpChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallCatalog), 0o600))

	store, err := Open(path)
	require.NoError(t, err)

	w := NewWatcher(path, store, 20*time.Millisecond, nil, newTestLogger(t))
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()
	assert.True(t, w.IsRunning())
	assert.Error(t, w.Start())

	updated := "version: 8\nskills:\n  - id: rust\n    variants: [rust]\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	assert.Eventually(t, func() bool {
		return store.Snapshot().Version == 8
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, w.Stop())
	assert.False(t, w.IsRunning())
	assert.NoError(t, w.Stop())
}

func TestOpenConfigPrefersContent(t *testing.T) {
	store, err := OpenConfig(config.KeywordsConfig{File: "/does/not/exist.yaml", Content: smallCatalog})
	require.NoError(t, err)
	assert.Equal(t, "vault", store.Source())
	assert.Equal(t, 7, store.Snapshot().Version)

	store, err = OpenConfig(config.KeywordsConfig{})
	require.NoError(t, err)
	assert.Equal(t, "embedded", store.Source())

	_, err = OpenConfig(config.KeywordsConfig{Content: "skills: []\n"})
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	km, err := Load([]byte(smallCatalog))
	require.NoError(t, err)
	store := NewStore(km, "test")

	desc := store.Describe()
	assert.Equal(t, 7, desc.Version)
	assert.Equal(t, "test", desc.Source)
	assert.NotEmpty(t, desc.LoadedAt)
	require.Len(t, desc.Skills, km.Size())
	assert.Equal(t, len(km.Rules), len(desc.Rules))
	for i, s := range desc.Skills {
		assert.Equal(t, km.Entries[i].ID, s.ID)
		assert.Equal(t, km.DisplayName(s.ID), s.Display)
	}
}
