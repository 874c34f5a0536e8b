package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soyeahso/agentbridge/internal/action"
	"github.com/soyeahso/agentbridge/internal/backend"
	"github.com/soyeahso/agentbridge/internal/config"
	"github.com/soyeahso/agentbridge/internal/gateway"
	"github.com/soyeahso/agentbridge/internal/ingestion"
	"github.com/soyeahso/agentbridge/internal/logging"
	"github.com/soyeahso/agentbridge/internal/notify"
	"github.com/soyeahso/agentbridge/internal/relay"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
		mode string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the agentbridge server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}
			if mode != "" {
				cfg.Relay.Mode = mode
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			// Rebuild the logger with the config's level unless the flag
			// already pinned one.
			if logLevel == "" {
				log = logging.New(nil, cfg.Logging.Level, cfg.Logging.Style)
			}

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			invoker, err := backend.NewBedrockInvoker(ctx, cfg.Agent.Region, log)
			if err != nil {
				return fmt.Errorf("initializing agent backend: %w", err)
			}

			rl := relay.New(relay.Config{
				AgentID:      cfg.Agent.ID,
				AgentAliasID: cfg.Agent.AliasID,
			}, invoker, log)

			opts := []gateway.ServerOption{
				gateway.WithRelayMode(cfg.Relay.Mode),
			}

			// Action executor is optional: without provider credentials the
			// action endpoint reports unavailable instead of failing sends.
			if cfg.Notify.AccountSID != "" {
				notifier := notify.NewTwilioClient(
					cfg.Notify.AccountSID, cfg.Notify.AuthToken, cfg.Notify.From, log)
				ex := action.NewExecutor(notifier, cfg.Notify.ActionGroup, log)
				opts = append(opts, gateway.WithExecutor(ex))
			} else {
				log.Warn().Msg("notification provider not configured — action endpoint disabled")
			}

			var consumer *ingestion.Consumer
			if cfg.Ingestion.KnowledgeBaseID != "" && cfg.Ingestion.DataSourceID != "" {
				indexer, err := backend.NewBedrockIndexer(ctx, cfg.Agent.Region, log)
				if err != nil {
					return fmt.Errorf("initializing ingestion backend: %w", err)
				}
				trigger := ingestion.NewTrigger(indexer,
					cfg.Ingestion.KnowledgeBaseID, cfg.Ingestion.DataSourceID, log)
				opts = append(opts, gateway.WithTrigger(trigger))

				if cfg.Ingestion.Events.Enabled {
					consumer, err = ingestion.NewConsumer(cfg.Ingestion.Events, trigger, log)
					if err != nil {
						return fmt.Errorf("connecting to event broker: %w", err)
					}
					defer consumer.Close()
				}
			} else {
				log.Warn().Msg("knowledge base not configured — ingestion disabled")
			}

			srv := gateway.New(cfg.Gateway, rl, log, opts...)

			if consumer != nil {
				go func() {
					if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
						log.Error().Err(err).Msg("event consumer stopped")
					}
				}()
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override gateway.port")
	cmd.Flags().StringVar(&bind, "bind", "", "override gateway.bind (loopback, lan, custom)")
	cmd.Flags().StringVar(&mode, "mode", "", "override relay.mode (streamed, buffered)")

	return cmd
}
