package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
//
// Missing backend identifiers are construction-time errors: the serve
// command refuses to start rather than failing every request later.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Agent.ID == "" {
		issues = append(issues, ValidationIssue{
			Path:    "agent.id",
			Message: "agent ID is required (or set AGENT_ID)",
		})
	}
	if cfg.Agent.AliasID == "" {
		issues = append(issues, ValidationIssue{
			Path:    "agent.aliasId",
			Message: "agent alias ID is required (or set AGENT_ALIAS_ID)",
		})
	}

	validModes := []string{ModeStreamed, ModeBuffered}
	if cfg.Relay.Mode != "" && !slices.Contains(validModes, cfg.Relay.Mode) {
		issues = append(issues, ValidationIssue{
			Path:    "relay.mode",
			Message: fmt.Sprintf("must be one of %v, got %q", validModes, cfg.Relay.Mode),
		})
	}

	if cfg.Gateway.Port < 0 || cfg.Gateway.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Gateway.Port),
		})
	}

	validBinds := []string{"loopback", "lan", "custom"}
	if cfg.Gateway.Bind != "" && !slices.Contains(validBinds, cfg.Gateway.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Gateway.Bind),
		})
	}

	if cfg.Gateway.TLS.Enabled {
		if cfg.Gateway.TLS.CertPath == "" {
			issues = append(issues, ValidationIssue{
				Path:    "gateway.tls.certPath",
				Message: "certPath is required when TLS is enabled",
			})
		}
		if cfg.Gateway.TLS.KeyPath == "" {
			issues = append(issues, ValidationIssue{
				Path:    "gateway.tls.keyPath",
				Message: "keyPath is required when TLS is enabled",
			})
		}
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validStyles := []string{"pretty", "json"}
	if cfg.Logging.Style != "" && !slices.Contains(validStyles, cfg.Logging.Style) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.style",
			Message: fmt.Sprintf("must be one of %v, got %q", validStyles, cfg.Logging.Style),
		})
	}

	// Ingestion consumer needs its identifiers only when enabled.
	if cfg.Ingestion.Events.Enabled {
		if cfg.Ingestion.Events.URL == "" {
			issues = append(issues, ValidationIssue{
				Path:    "ingestion.events.url",
				Message: "AMQP URL is required when the events consumer is enabled",
			})
		}
		if cfg.Ingestion.KnowledgeBaseID == "" {
			issues = append(issues, ValidationIssue{
				Path:    "ingestion.knowledgeBaseId",
				Message: "knowledge base ID is required (or set KNOWLEDGE_BASE_ID)",
			})
		}
		if cfg.Ingestion.DataSourceID == "" {
			issues = append(issues, ValidationIssue{
				Path:    "ingestion.dataSourceId",
				Message: "data source ID is required (or set DATA_SOURCE_ID)",
			})
		}
		if cfg.Ingestion.Events.Workers < 1 {
			issues = append(issues, ValidationIssue{
				Path:    "ingestion.events.workers",
				Message: fmt.Sprintf("workers must be >= 1, got %d", cfg.Ingestion.Events.Workers),
			})
		}
	}

	// The action surface is only usable with full provider credentials.
	// Partial credentials are always a mistake, so flag them.
	n := cfg.Notify
	if (n.AccountSID != "" || n.AuthToken != "" || n.From != "") &&
		(n.AccountSID == "" || n.AuthToken == "" || n.From == "") {
		issues = append(issues, ValidationIssue{
			Path:    "notify",
			Message: "accountSid, authToken and from must all be set together",
		})
	}

	return issues
}
