package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"

	"atsopt/internal/config"
)

var tlsVersions = map[string]uint16{
	"1.2": tls.VersionTLS12,
	"1.3": tls.VersionTLS13,
}

var clientAuthPolicies = map[string]tls.ClientAuthType{
	"require": tls.RequireAndVerifyClientCert,
	"request": tls.RequestClientCert,
	"verify":  tls.VerifyClientCertIfGiven,
}

// configureTLS attaches a TLS configuration to httpServer unless TLS is disabled.
func (s *Server) configureTLS(httpServer *http.Server) error {
	switch s.TLSConfig.Mode {
	case config.TLSModeDisabled, "":
		s.Logger.Info("TLS disabled, serving plain HTTP", "addr", httpServer.Addr)
		return nil
	case config.TLSModeServer, config.TLSModeMutual:
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", s.TLSConfig.Mode)
	}

	tlsConfig, err := s.buildTLSConfig()
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}
	httpServer.TLSConfig = tlsConfig

	s.Logger.Info("TLS enabled",
		"addr", httpServer.Addr,
		"mode", s.TLSConfig.Mode,
		"min_version", s.TLSConfig.MinVersion,
		"client_auth", tlsConfig.ClientAuth.String())
	return nil
}

func (s *Server) buildTLSConfig() (*tls.Config, error) {
	cert, err := s.loadServerCertificate()
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		ClientAuth:   tls.NoClientCert,
	}
	if v, ok := tlsVersions[s.TLSConfig.MinVersion]; ok {
		tlsConfig.MinVersion = v
	}
	s.configureCipherSuites(tlsConfig)

	if s.TLSConfig.Mode == config.TLSModeMutual {
		pool, err := s.loadClientCAs()
		if err != nil {
			return nil, err
		}
		tlsConfig.ClientCAs = pool
		tlsConfig.ClientAuth = getClientAuthPolicy(s.TLSConfig.ClientAuthPolicy)
	}
	return tlsConfig, nil
}

// readPEM returns inline content when set, else the file contents.
// Inline content is what Vault fills in.
func readPEM(content, file string) ([]byte, bool, error) {
	if content != "" {
		return []byte(content), true, nil
	}
	if file == "" {
		return nil, false, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return data, true, nil
}

func (s *Server) loadServerCertificate() (tls.Certificate, error) {
	t := s.TLSConfig
	certPEM, haveCert, err := readPEM(t.CertContent, t.CertFile)
	if err != nil {
		return tls.Certificate{}, err
	}
	keyPEM, haveKey, err := readPEM(t.KeyContent, t.KeyFile)
	if err != nil {
		return tls.Certificate{}, err
	}
	if !haveCert || !haveKey {
		return tls.Certificate{}, fmt.Errorf("TLS certificate and key are required (provide either files or content)")
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to parse server certificate and key: %w", err)
	}
	return cert, nil
}

func (s *Server) loadClientCAs() (*x509.CertPool, error) {
	caPEM, ok, err := readPEM(s.TLSConfig.CAContent, s.TLSConfig.CAFile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no valid CA certificates found")
	}
	return pool, nil
}

func (s *Server) configureCipherSuites(tlsConfig *tls.Config) {
	if len(s.TLSConfig.CipherSuites) == 0 {
		return
	}

	ids := make([]uint16, 0, len(s.TLSConfig.CipherSuites))
	for _, name := range s.TLSConfig.CipherSuites {
		id := getCipherSuiteID(name)
		if id == 0 {
			s.Logger.Warn("Ignoring unknown TLS cipher suite", "suite", name)
			continue
		}
		ids = append(ids, id)
	}
	tlsConfig.CipherSuites = ids
}

// getClientAuthPolicy maps a config policy name, defaulting to require-and-verify.
func getClientAuthPolicy(policy string) tls.ClientAuthType {
	if p, ok := clientAuthPolicies[policy]; ok {
		return p
	}
	return tls.RequireAndVerifyClientCert
}

func getCipherSuiteID(name string) uint16 {
	for _, suite := range tls.CipherSuites() {
		if suite.Name == name {
			return suite.ID
		}
	}
	return 0
}
