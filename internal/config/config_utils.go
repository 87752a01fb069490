package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks fills values that depend on other settings
func (c *Config) applyFallbacks() {
	c.applyCORSFallbacks()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyCORSFallbacks accepts a comma-separated origin list from the environment
func (c *Config) applyCORSFallbacks() {
	if origins := os.Getenv("ATSOPT_SERVER_CORS_ALLOWEDORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		c.Server.CORS.AllowedOrigins = c.Server.CORS.AllowedOrigins[:0]
		for _, o := range parts {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.CORS.AllowedOrigins = append(c.Server.CORS.AllowedOrigins, o)
			}
		}
	}
	if len(c.Server.CORS.AllowedOrigins) == 0 {
		c.Server.CORS.AllowedOrigins = []string{"*"}
	}
}

// applyTLSDefaults applies default TLS configuration values
func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}

	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"ATSOPT_SERVER_PORT",
		"ATSOPT_SERVER_HOST",
		"ATSOPT_APP_LOGLEVEL",
		"ATSOPT_KEYWORDS_FILE",
		"ATSOPT_PDF_ENABLED",
		"ATSOPT_VAULT_ENABLED",
		"ATSOPT_VAULT_TOKEN",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if strings.Contains(strings.ToLower(envVar), "token") {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] Server Host: %s", c.Server.Host)
	log.Printf("[CONFIG] Server Port: %s", c.Server.Port)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] TLS Mode: %s", c.Server.TLS.Mode)
	if c.Keywords.File != "" {
		log.Printf("[CONFIG] Keyword Catalog: %s (watch=%t)", c.Keywords.File, c.Keywords.Watch)
	} else {
		log.Println("[CONFIG] Keyword Catalog: embedded")
	}
	log.Printf("[CONFIG] PDF Generation Enabled: %t", c.PDF.Enabled)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)
	log.Println("[CONFIG] =====================================")
}
