package domain

// IngestionTrigger is one fire-and-forget job-start request. The
// idempotency token is fresh per invocation so the indexing subsystem can
// deduplicate redeliveries of the same submission, never across distinct
// storage events.
type IngestionTrigger struct {
	KnowledgeBaseID  string
	DataSourceID     string
	IdempotencyToken string
}

// StorageEvent is a storage mutation notification. Its content is not
// inspected beyond identifying the object for logging.
type StorageEvent struct {
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key,omitempty"`
	Kind   string `json:"kind,omitempty"` // "created" | "removed"
}
