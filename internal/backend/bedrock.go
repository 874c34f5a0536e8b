package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	runtimetypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/google/uuid"

	"github.com/soyeahso/agentbridge/internal/domain"
	"github.com/soyeahso/agentbridge/internal/logging"
)

// BedrockInvoker implements AgentInvoker against Bedrock Agents runtime.
type BedrockInvoker struct {
	client *bedrockagentruntime.Client
	log    *logging.Logger
}

// NewBedrockInvoker builds a runtime client using the default AWS
// credential chain, optionally pinned to a region.
func NewBedrockInvoker(ctx context.Context, region string, log *logging.Logger) (*BedrockInvoker, error) {
	cfg, err := loadAWSConfig(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &BedrockInvoker{
		client: bedrockagentruntime.NewFromConfig(cfg),
		log:    log.Sub("bedrock"),
	}, nil
}

// Invoke opens an agent invocation requesting incremental delivery of the
// final response. A missing session ID gets a fresh UUID so the backend
// can still correlate follow-up turns the caller sends with it.
func (b *BedrockInvoker) Invoke(ctx context.Context, req InvocationRequest) (Stream, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sessionAttrs := req.SessionAttributes
	if sessionAttrs == nil {
		sessionAttrs = map[string]string{}
	}
	promptAttrs := req.PromptSessionAttributes
	if promptAttrs == nil {
		promptAttrs = map[string]string{}
	}

	out, err := b.client.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(req.AgentID),
		AgentAliasId: aws.String(req.AgentAliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(req.InputText),
		SessionState: &runtimetypes.SessionState{
			SessionAttributes:       sessionAttrs,
			PromptSessionAttributes: promptAttrs,
		},
		StreamingConfigurations: &runtimetypes.StreamingConfigurations{
			StreamFinalResponse: req.StreamFinalResponse,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("invoking agent: %w", err)
	}

	b.log.Debug().
		Str("agentId", req.AgentID).
		Str("sessionId", sessionID).
		Msg("agent invocation opened")

	sdk := out.GetStream()
	s := newBedrockStream(sdk.Events(), sdk.Err, sdk.Close)
	return s, nil
}

// bedrockStream adapts the SDK event stream to the Stream interface.
type bedrockStream struct {
	source  <-chan runtimetypes.ResponseStream
	errFn   func() error
	closeFn func() error

	events chan ChunkEvent
	// done unblocks the pump when the consumer abandons the stream
	// without draining it. Closing the SDK stream alone cannot wake a
	// pump parked on an events send.
	done      chan struct{}
	closeOnce sync.Once
	err       error
}

func newBedrockStream(source <-chan runtimetypes.ResponseStream, errFn, closeFn func() error) *bedrockStream {
	s := &bedrockStream{
		source:  source,
		errFn:   errFn,
		closeFn: closeFn,
		events:  make(chan ChunkEvent),
		done:    make(chan struct{}),
	}
	go s.pump()
	return s
}

// pump translates SDK events in arrival order. err is written before the
// channel close, so readers observing the closed channel see it.
func (s *bedrockStream) pump() {
	defer close(s.events)

	for event := range s.source {
		var ev ChunkEvent
		switch v := event.(type) {
		case *runtimetypes.ResponseStreamMemberChunk:
			ev = ChunkEvent{Bytes: v.Value.Bytes, Kind: "chunk"}
		case *runtimetypes.ResponseStreamMemberTrace:
			ev = ChunkEvent{Kind: "trace"}
		default:
			ev = ChunkEvent{Kind: fmt.Sprintf("%T", event)}
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
	s.err = s.errFn()
}

func (s *bedrockStream) Events() <-chan ChunkEvent { return s.events }
func (s *bedrockStream) Err() error                { return s.err }

func (s *bedrockStream) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return s.closeFn()
}

// BedrockIndexer implements Indexer against the Bedrock Agents control
// plane.
type BedrockIndexer struct {
	client *bedrockagent.Client
	log    *logging.Logger
}

// NewBedrockIndexer builds a control-plane client using the default AWS
// credential chain, optionally pinned to a region.
func NewBedrockIndexer(ctx context.Context, region string, log *logging.Logger) (*BedrockIndexer, error) {
	cfg, err := loadAWSConfig(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &BedrockIndexer{
		client: bedrockagent.NewFromConfig(cfg),
		log:    log.Sub("bedrock"),
	}, nil
}

// Start submits an ingestion job keyed by the trigger's idempotency token.
func (b *BedrockIndexer) Start(ctx context.Context, trig domain.IngestionTrigger) (string, error) {
	out, err := b.client.StartIngestionJob(ctx, &bedrockagent.StartIngestionJobInput{
		KnowledgeBaseId: aws.String(trig.KnowledgeBaseID),
		DataSourceId:    aws.String(trig.DataSourceID),
		ClientToken:     aws.String(trig.IdempotencyToken),
	})
	if err != nil {
		return "", fmt.Errorf("starting ingestion job: %w", err)
	}

	jobID := ""
	if out.IngestionJob != nil && out.IngestionJob.IngestionJobId != nil {
		jobID = *out.IngestionJob.IngestionJobId
	}
	b.log.Info().
		Str("knowledgeBaseId", trig.KnowledgeBaseID).
		Str("dataSourceId", trig.DataSourceID).
		Str("jobId", jobID).
		Msg("ingestion job started")
	return jobID, nil
}

func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}
