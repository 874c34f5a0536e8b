package config

import (
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so tokens can be stored as ${ENV_VAR} in the file.
func expandSensitiveFields(cfg *Config) {
	cfg.Notify.AccountSID = expandEnvVars(cfg.Notify.AccountSID)
	cfg.Notify.AuthToken = expandEnvVars(cfg.Notify.AuthToken)
	cfg.Notify.From = expandEnvVars(cfg.Notify.From)
	cfg.Ingestion.Events.URL = expandEnvVars(cfg.Ingestion.Events.URL)
}

// envOverrides maps process environment variables onto config fields.
// These win over file values so deployments can configure identifiers
// without a config file at all.
func applyEnvOverrides(cfg *Config) {
	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	set(&cfg.Agent.ID, "AGENT_ID")
	set(&cfg.Agent.AliasID, "AGENT_ALIAS_ID")
	set(&cfg.Agent.Region, "AWS_REGION")
	set(&cfg.Ingestion.KnowledgeBaseID, "KNOWLEDGE_BASE_ID")
	set(&cfg.Ingestion.DataSourceID, "DATA_SOURCE_ID")
	set(&cfg.Ingestion.Events.URL, "AMQP_URL")
	set(&cfg.Notify.AccountSID, "TWILIO_ACCOUNT_SID")
	set(&cfg.Notify.AuthToken, "TWILIO_AUTH_TOKEN")
	set(&cfg.Notify.From, "TWILIO_FROM_NUMBER")
	set(&cfg.Notify.ActionGroup, "ACTION_GROUP")
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults plus env overrides.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields with sensible defaults after a
// file has been unmarshalled over the defaults struct.
func applyDefaults(cfg *Config) {
	if cfg.Relay.Mode == "" {
		cfg.Relay.Mode = ModeStreamed
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = 8780
	}
	if cfg.Gateway.Bind == "" {
		cfg.Gateway.Bind = "loopback"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Style == "" {
		cfg.Logging.Style = "pretty"
	}
	if cfg.Ingestion.Events.Workers == 0 {
		cfg.Ingestion.Events.Workers = 1
	}
}
