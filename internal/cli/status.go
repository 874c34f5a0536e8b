package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soyeahso/agentbridge/internal/config"
	"github.com/soyeahso/agentbridge/internal/version"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show agentbridge status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("agentbridge %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Println("Config:  not found (using defaults)")
				} else {
					fmt.Printf("Config:  error loading: %v\n", err)
				}
				return nil
			}

			if cfg.Agent.ID != "" && cfg.Agent.AliasID != "" {
				fmt.Printf("Agent:     id=%s alias=%s region=%s\n",
					cfg.Agent.ID, cfg.Agent.AliasID, orDefault(cfg.Agent.Region, "(sdk default)"))
			} else {
				fmt.Println("Agent:     not configured")
			}

			fmt.Printf("Relay:     mode=%s\n", cfg.Relay.Mode)
			fmt.Printf("Gateway:   port=%d bind=%s tls=%v\n",
				cfg.Gateway.Port, cfg.Gateway.Bind, cfg.Gateway.TLS.Enabled)

			if cfg.Ingestion.KnowledgeBaseID != "" {
				fmt.Printf("Ingestion: kb=%s ds=%s events=%v\n",
					cfg.Ingestion.KnowledgeBaseID, cfg.Ingestion.DataSourceID,
					cfg.Ingestion.Events.Enabled)
			} else {
				fmt.Println("Ingestion: not configured")
			}

			// Never print credential values, only presence.
			if cfg.Notify.AccountSID != "" {
				fmt.Printf("Notify:    provider=twilio from=%s\n", cfg.Notify.From)
			} else {
				fmt.Println("Notify:    not configured")
			}

			if issues := config.Validate(&cfg); len(issues) > 0 {
				fmt.Printf("\n%d validation issue(s):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s\n", issue)
				}
			}

			return nil
		},
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
