// Package remote turns tool-call requests into HTTP round trips against
// an external tool service and normalizes every outcome.
//
// The wire protocol is JSON over POST: the request body carries the
// tool's arguments plus an "operation" discriminator selecting the
// sub-capability of the endpoint; the response is an envelope with a
// boolean success indicator, a result payload on success, and a message
// on failure. Transport failures (network, timeout, non-2xx) and
// service-reported failures are distinct error types; both are ordinary
// errors the agent loop folds back into the conversation.
//
// The client is stateless and safe for concurrent use. An optional
// circuit breaker fails calls fast while the service is down.
package remote
