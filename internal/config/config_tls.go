package config

import (
	"fmt"
	"slices"
)

// TLS modes
const (
	TLSModeDisabled = "disabled"
	TLSModeServer   = "server"
	TLSModeMutual   = "mutual"
)

var (
	validClientAuthPolicies = []string{"", "require", "request", "verify"}
	validTLSVersions        = []string{"", "1.2", "1.3"}
)

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	t := c.Server.TLS

	if !slices.Contains(validTLSVersions, t.MinVersion) {
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", t.MinVersion)
	}

	switch t.Mode {
	case TLSModeDisabled:
		return nil
	case TLSModeServer, TLSModeMutual:
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", t.Mode)
	}

	if err := requireOneSource("certificate", t.CertFile, t.CertContent, t.Mode); err != nil {
		return err
	}
	if err := requireOneSource("key", t.KeyFile, t.KeyContent, t.Mode); err != nil {
		return err
	}
	if t.Mode == TLSModeServer {
		return nil
	}

	if err := requireOneSource("CA certificate", t.CAFile, t.CAContent, t.Mode); err != nil {
		return err
	}
	if !slices.Contains(validClientAuthPolicies, t.ClientAuthPolicy) {
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", t.ClientAuthPolicy)
	}
	return nil
}

// requireOneSource checks that exactly one of file and content is set.
func requireOneSource(what, file, content, mode string) error {
	switch {
	case file == "" && content == "":
		return fmt.Errorf("TLS %s is required for %s mode (provide either a file or content)", what, mode)
	case file != "" && content != "":
		return fmt.Errorf("cannot specify both a file and content for the TLS %s - choose one", what)
	}
	return nil
}
