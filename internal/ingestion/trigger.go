// Package ingestion reacts to storage mutation events by starting
// reindexing jobs in the backend's indexing subsystem.
package ingestion

import (
	"context"

	"github.com/google/uuid"

	"github.com/soyeahso/agentbridge/internal/backend"
	"github.com/soyeahso/agentbridge/internal/domain"
	"github.com/soyeahso/agentbridge/internal/logging"
)

// Trigger fires ingestion jobs against a fixed knowledge-base/data-source
// pair. Each firing uses a fresh idempotency token; retries are left to
// the invoking event transport, never performed here.
type Trigger struct {
	indexer         backend.Indexer
	knowledgeBaseID string
	dataSourceID    string
	log             *logging.Logger
}

// NewTrigger creates a trigger for the configured knowledge base.
func NewTrigger(indexer backend.Indexer, knowledgeBaseID, dataSourceID string, log *logging.Logger) *Trigger {
	return &Trigger{
		indexer:         indexer,
		knowledgeBaseID: knowledgeBaseID,
		dataSourceID:    dataSourceID,
		log:             log.Sub("ingestion"),
	}
}

// Fire issues one job-start request with a fresh idempotency token.
// The event that caused it is not inspected.
func (t *Trigger) Fire(ctx context.Context) (string, error) {
	trig := domain.IngestionTrigger{
		KnowledgeBaseID:  t.knowledgeBaseID,
		DataSourceID:     t.dataSourceID,
		IdempotencyToken: uuid.NewString(),
	}

	jobID, err := t.indexer.Start(ctx, trig)
	if err != nil {
		t.log.Error().Err(err).
			Str("knowledgeBaseId", t.knowledgeBaseID).
			Msg("failed to start ingestion job")
		return "", err
	}
	return jobID, nil
}
