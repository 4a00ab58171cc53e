// Package gateway defines the contract between the agent loop and the
// underlying language model.
//
// The central abstraction is ModelGateway: given an ordered message
// snapshot and the definitions of the available tools, the model returns
// either a final text answer or one or more structured tool-call requests,
// optionally as an incremental stream of events.
//
// The package also provides:
//
//   - A typed error taxonomy with retryability classification. Any gateway
//     failure is terminal for the current loop invocation; the loop itself
//     never retries model errors.
//   - WithRetry, a decorator that wraps a ModelGateway with exponential
//     backoff. Retry policy lives here, outside the loop, by contract.
//   - GollmGateway, a production implementation backed by the gollm
//     library.
package gateway
