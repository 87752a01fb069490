package config

import (
	"os"
	"path/filepath"
	"testing"

	"atsopt/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "int value", input: 7, expected: 7},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersionValue(tt.input, "secret/data/test")
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "secret/data/test")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodeKVv2(t *testing.T) {
	t.Run("valid envelope", func(t *testing.T) {
		secret, err := decodeKVv2(map[string]any{
			"data":     map[string]any{"cert": "pem"},
			"metadata": map[string]any{"version": "3"},
		}, "secret/data/tls")
		require.NoError(t, err)
		assert.Equal(t, int64(3), secret.Version)
		assert.Equal(t, "pem", secret.Data["cert"])
	})

	t.Run("nil data", func(t *testing.T) {
		_, err := decodeKVv2(nil, "secret/data/tls")
		assert.ErrorContains(t, err, "secret not found")
	})

	t.Run("kv v1 layout", func(t *testing.T) {
		_, err := decodeKVv2(map[string]any{"cert": "pem"}, "secret/tls")
		assert.ErrorContains(t, err, "missing 'data' field")
	})

	t.Run("missing metadata", func(t *testing.T) {
		_, err := decodeKVv2(map[string]any{"data": map[string]any{}}, "secret/data/tls")
		assert.ErrorContains(t, err, "missing 'metadata' field")
	})

	t.Run("missing version", func(t *testing.T) {
		_, err := decodeKVv2(map[string]any{
			"data":     map[string]any{},
			"metadata": map[string]any{},
		}, "secret/data/tls")
		assert.ErrorContains(t, err, "missing 'version' field")
	})
}

func TestApplyTLSSecret(t *testing.T) {
	tls := TLSConfig{Mode: "mutual", CertFile: "/etc/cert.pem", KeyFile: "/etc/key.pem", CAFile: "/etc/ca.pem"}
	secret := &VaultSecret{Data: map[string]any{
		"cert": "CERT",
		"key":  "KEY",
		"ca":   "",
	}}

	loaded := applyTLSSecret(&tls, secret)

	assert.Equal(t, 2, loaded)
	assert.Equal(t, "CERT", tls.CertContent)
	assert.Equal(t, "KEY", tls.KeyContent)
	assert.Empty(t, tls.CertFile)
	assert.Empty(t, tls.KeyFile)
	assert.Equal(t, "/etc/ca.pem", tls.CAFile, "empty CA content keeps the file")
	assert.Empty(t, tls.CAContent)

	cfg := &Config{Server: ServerConfig{TLS: tls}}
	assert.NoError(t, cfg.ValidateTLSConfig())
}

func TestApplyKeywordSecret(t *testing.T) {
	k := KeywordsConfig{File: "/etc/atsopt/keywords.yaml", Watch: true}
	require.NoError(t, applyKeywordSecret(&k, &VaultSecret{Data: map[string]any{"catalog": "version: 1\n"}}))
	assert.Equal(t, "version: 1\n", k.Content)
	assert.False(t, k.Watch)

	err := applyKeywordSecret(&k, &VaultSecret{Data: map[string]any{"catalog": 12}})
	assert.Error(t, err)
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("inline token", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "s.inline"})
		require.NoError(t, err)
		assert.Equal(t, "s.inline", token)
	})

	t.Run("token file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("  s.from-file\n"), 0o600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: path})
		require.NoError(t, err)
		assert.Equal(t, "s.from-file", token)
	})

	t.Run("unreadable token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: filepath.Join(t.TempDir(), "missing")})
		assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
	})

	t.Run("no token", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{})
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	})
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, ApplyVaultSecrets(cfg, nil))

	client, err := NewVaultClient(VaultConfig{Enabled: false}, nil)
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestGetSecretV2NilClient(t *testing.T) {
	var vc *VaultClient
	_, err := vc.GetSecretV2("secret/data/x")
	assert.Error(t, err)
}
