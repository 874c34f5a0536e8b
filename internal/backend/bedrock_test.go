package backend

import (
	"errors"
	"testing"
	"time"

	runtimetypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkMember(text string) runtimetypes.ResponseStream {
	return &runtimetypes.ResponseStreamMemberChunk{
		Value: runtimetypes.PayloadPart{Bytes: []byte(text)},
	}
}

// collect drains events until the channel closes or the deadline passes.
func collect(t *testing.T, s Stream) []ChunkEvent {
	t.Helper()
	deadline := time.After(5 * time.Second)

	var got []ChunkEvent
	for {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				return got
			}
			got = append(got, ev)
		case <-deadline:
			t.Fatal("stream did not terminate")
		}
	}
}

func TestBedrockStreamTranslatesEventsInOrder(t *testing.T) {
	source := make(chan runtimetypes.ResponseStream, 3)
	source <- chunkMember("first ")
	source <- &runtimetypes.ResponseStreamMemberTrace{}
	source <- chunkMember("second")
	close(source)

	s := newBedrockStream(source, func() error { return nil }, func() error { return nil })

	got := collect(t, s)
	require.Len(t, got, 3)
	assert.Equal(t, "first ", string(got[0].Bytes))
	assert.True(t, got[0].Payload())
	assert.Equal(t, "trace", got[1].Kind)
	assert.False(t, got[1].Payload())
	assert.Equal(t, "second", string(got[2].Bytes))
	assert.NoError(t, s.Err())
}

func TestBedrockStreamSurfacesSourceError(t *testing.T) {
	source := make(chan runtimetypes.ResponseStream, 1)
	source <- chunkMember("partial")
	close(source)

	wantErr := errors.New("connection reset")
	s := newBedrockStream(source, func() error { return wantErr }, func() error { return nil })

	got := collect(t, s)
	require.Len(t, got, 1)
	assert.Equal(t, wantErr, s.Err())
}

func TestBedrockStreamCloseUnblocksAbandonedPump(t *testing.T) {
	// Unbuffered source with more events than the consumer will read.
	source := make(chan runtimetypes.ResponseStream)
	go func() {
		source <- chunkMember("read")
		source <- chunkMember("never read")
	}()

	closed := make(chan struct{})
	s := newBedrockStream(source, func() error { return nil }, func() error {
		close(closed)
		return nil
	})

	// Consume one event, then walk away mid-stream.
	select {
	case <-s.Events():
	case <-time.After(5 * time.Second):
		t.Fatal("no first event")
	}
	require.NoError(t, s.Close())
	<-closed

	// No receiver exists, so the pump can only leave its parked send via
	// the close signal. Give it a moment to run before looking.
	time.Sleep(50 * time.Millisecond)

	// The pump must have shut the events channel rather than staying
	// parked on a send nobody will receive.
	select {
	case ev, ok := <-s.Events():
		assert.False(t, ok, "got event %q from a stream closed mid-relay", ev.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("pump still blocked after Close")
	}

	// Close is idempotent.
	require.NoError(t, s.Close())
}
