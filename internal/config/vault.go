package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"atsopt/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets defines where to find secrets in Vault (KVv2 read paths)
type VaultSecrets struct {
	// TLSCerts holds "cert", "key" and optionally "ca" PEM content.
	TLSCerts string `mapstructure:"tlsCerts"`
	// Keywords holds a "catalog" field with the YAML skill catalog.
	Keywords string `mapstructure:"keywords"`
}

// VaultSecret represents a secret read from Vault's KVv2 engine.
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// VaultClient wraps the Vault API client
type VaultClient struct {
	client *api.Client
	logger *errors.Logger
}

// NewVaultClient creates a connected client. It returns nil when Vault is disabled.
func NewVaultClient(cfg VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	vaultCfg := api.DefaultConfig()
	if cfg.Address != "" {
		vaultCfg.Address = cfg.Address
	}
	client, err := api.NewClient(vaultCfg)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to create vault client", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := resolveVaultToken(cfg)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeNetworkTimeout, "failed to connect to vault", err).
			WithContext("address", vaultCfg.Address)
	}
	if logger != nil {
		logger.Info("Connected to Vault",
			"address", vaultCfg.Address,
			"version", health.Version,
			"sealed", health.Sealed)
	}

	return &VaultClient{client: client, logger: logger}, nil
}

// resolveVaultToken picks the configured token, falling back to the token file
func resolveVaultToken(cfg VaultConfig) (string, error) {
	token := cfg.Token
	if token == "" && cfg.TokenFile != "" {
		raw, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return "", errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read vault token file", err).
				WithContext("file", cfg.TokenFile)
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig, "vault token is required when vault is enabled", nil)
	}
	return token, nil
}

// GetSecretV2 retrieves a secret from a Vault KVv2 store.
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}
	return decodeKVv2(secret.Data, path)
}

// decodeKVv2 unpacks the data and metadata envelope of a KVv2 read
func decodeKVv2(raw map[string]any, path string) (*VaultSecret, error) {
	if raw == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}
	data, ok := raw["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}
	metadata, ok := raw["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}
	versionRaw, ok := metadata["version"]
	if !ok {
		return nil, fmt.Errorf("secret metadata at %s is missing 'version' field", path)
	}
	version, err := parseVersionValue(versionRaw, path)
	if err != nil {
		return nil, err
	}
	return &VaultSecret{Data: data, Version: version}, nil
}

// parseVersionValue parses version value from various types
func parseVersionValue(versionRaw any, path string) (int64, error) {
	switch v := versionRaw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse secret version at %s: %w", path, err)
		}
		return version, nil
	default:
		return 0, fmt.Errorf("unexpected type for version at %s: %T", path, versionRaw)
	}
}

// ApplyVaultSecrets loads TLS material and the keyword catalog from Vault
func ApplyVaultSecrets(cfg *Config, logger *errors.Logger) error {
	if !cfg.Vault.Enabled {
		return nil
	}

	client, err := NewVaultClient(cfg.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}

	if path := cfg.Vault.Secrets.TLSCerts; path != "" {
		secret, err := client.GetSecretV2(path)
		if err != nil {
			return fmt.Errorf("failed to load TLS certificates from vault: %w", err)
		}
		loaded := applyTLSSecret(&cfg.Server.TLS, secret)
		if logger != nil {
			logger.Info("TLS certificates loaded from Vault", "certificates_loaded", loaded, "version", secret.Version)
		}
	}

	if path := cfg.Vault.Secrets.Keywords; path != "" {
		secret, err := client.GetSecretV2(path)
		if err != nil {
			return fmt.Errorf("failed to load keyword catalog from vault: %w", err)
		}
		if err := applyKeywordSecret(&cfg.Keywords, secret); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if logger != nil {
			logger.Info("Keyword catalog loaded from Vault", "bytes", len(cfg.Keywords.Content), "version", secret.Version)
		}
	}

	return nil
}

// applyTLSSecret copies PEM content into the TLS config and reports how many fields were set.
// Content from Vault replaces any file path for the same item.
func applyTLSSecret(t *TLSConfig, secret *VaultSecret) int {
	fields := []struct {
		key     string
		content *string
		file    *string
	}{
		{"cert", &t.CertContent, &t.CertFile},
		{"key", &t.KeyContent, &t.KeyFile},
		{"ca", &t.CAContent, &t.CAFile},
	}

	loaded := 0
	for _, f := range fields {
		if v, ok := secret.Data[f.key].(string); ok && v != "" {
			*f.content = v
			*f.file = ""
			loaded++
		}
	}
	return loaded
}

// applyKeywordSecret stores the catalog YAML for the keyword store
func applyKeywordSecret(k *KeywordsConfig, secret *VaultSecret) error {
	catalog, ok := secret.Data["catalog"].(string)
	if !ok || strings.TrimSpace(catalog) == "" {
		return fmt.Errorf("secret has no 'catalog' string field")
	}
	k.Content = catalog
	k.Watch = false
	return nil
}
