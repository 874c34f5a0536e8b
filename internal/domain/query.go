package domain

import "errors"

// ErrMissingPrompt is returned when an inbound query has no prompt text.
// Queries failing this check must never reach the agent backend.
var ErrMissingPrompt = errors.New("missing required field: prompt")

// InboundQuery is the caller-facing request body for a relay query.
// It is consumed once and never mutated after validation.
type InboundQuery struct {
	SessionID               string            `json:"sessionId,omitempty"`
	Prompt                  string            `json:"prompt"`
	SessionAttributes       map[string]string `json:"sessionAttributes,omitempty"`
	PromptSessionAttributes map[string]string `json:"promptSessionAttributes,omitempty"`
}

// Validate checks the query before any backend session is opened.
func (q InboundQuery) Validate() error {
	if q.Prompt == "" {
		return ErrMissingPrompt
	}
	return nil
}
