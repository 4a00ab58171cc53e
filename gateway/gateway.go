package gateway

import "context"

// ModelGateway abstracts the call to the underlying language model. The
// loop sends the full ordered message snapshot plus the available tool
// definitions on every call; the model answers with final text, tool-call
// requests, or a stream of events ending in one of those two outcomes.
type ModelGateway interface {
	// Complete sends a blocking request and returns the full response.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Stream sends a streaming request. The returned channel is closed
	// after a StreamFinish or StreamError event.
	Stream(ctx context.Context, req Request) (<-chan StreamEvent, error)
}

// Closer is implemented by gateways that hold releasable resources.
type Closer interface {
	Close() error
}
