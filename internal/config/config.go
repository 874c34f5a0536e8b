package config

import "fmt"

// Relay modes.
const (
	ModeStreamed = "streamed"
	ModeBuffered = "buffered"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Relay: RelayConfig{
			Mode: ModeStreamed,
		},
		Ingestion: IngestionConfig{
			Events: EventsConfig{
				Exchange:   "storage",
				Queue:      "agentbridge.ingestion",
				RoutingKey: "storage.object.#",
				Workers:    1,
			},
		},
		Gateway: GatewayConfig{
			Port: 8780,
			Bind: "loopback",
		},
		Logging: LoggingConfig{
			Level: "info",
			Style: "pretty",
		},
	}
}
