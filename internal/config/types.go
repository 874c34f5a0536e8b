package config

// Config is the root configuration for agentbridge.
type Config struct {
	Agent     AgentConfig     `yaml:"agent,omitempty"`
	Relay     RelayConfig     `yaml:"relay,omitempty"`
	Ingestion IngestionConfig `yaml:"ingestion,omitempty"`
	Notify    NotifyConfig    `yaml:"notify,omitempty"`
	Gateway   GatewayConfig   `yaml:"gateway,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

// AgentConfig identifies the managed agent the relay invokes.
type AgentConfig struct {
	ID      string `yaml:"id,omitempty"`      // Bedrock agent ID
	AliasID string `yaml:"aliasId,omitempty"` // Bedrock agent alias ID
	Region  string `yaml:"region,omitempty"`  // AWS region override; empty uses the SDK default chain
}

// RelayConfig controls how agent output is returned to callers.
type RelayConfig struct {
	// Mode selects the deployment mode: "streamed" relays chunks as they
	// arrive; "buffered" drains the whole stream and returns one JSON body.
	Mode string `yaml:"mode,omitempty"`
}

// IngestionConfig identifies the knowledge base reindexed on storage events.
type IngestionConfig struct {
	KnowledgeBaseID string       `yaml:"knowledgeBaseId,omitempty"`
	DataSourceID    string       `yaml:"dataSourceId,omitempty"`
	Events          EventsConfig `yaml:"events,omitempty"`
}

// EventsConfig configures the AMQP consumer for storage mutation events.
type EventsConfig struct {
	Enabled    bool   `yaml:"enabled,omitempty"`
	URL        string `yaml:"url,omitempty"` // amqp:// connection string
	Exchange   string `yaml:"exchange,omitempty"`
	Queue      string `yaml:"queue,omitempty"`
	RoutingKey string `yaml:"routingKey,omitempty"`
	Workers    int    `yaml:"workers,omitempty"`
}

// NotifyConfig configures the SMS notification provider.
// Credentials are expected as ${ENV_VAR} references, never literals.
type NotifyConfig struct {
	AccountSID  string `yaml:"accountSid,omitempty"`
	AuthToken   string `yaml:"authToken,omitempty"`
	From        string `yaml:"from,omitempty"`        // sender number, never caller-supplied
	ActionGroup string `yaml:"actionGroup,omitempty"` // echoed in action response envelopes
}

// GatewayConfig controls the HTTP server.
type GatewayConfig struct {
	Port           int        `yaml:"port,omitempty"`
	Bind           string     `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string     `yaml:"customBindHost,omitempty"`
	AllowedOrigins []string   `yaml:"allowedOrigins,omitempty"`
	TLS            GatewayTLS `yaml:"tls,omitempty"`
}

// GatewayTLS configures TLS for the gateway.
type GatewayTLS struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	CertPath string `yaml:"certPath,omitempty"`
	KeyPath  string `yaml:"keyPath,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	Style string `yaml:"style,omitempty"` // "pretty" | "json"
}
