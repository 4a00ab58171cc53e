package remote

import "fmt"

// TransportError signals that the tool service could not be reached or
// answered outside the protocol: network failure, timeout, or a non-2xx
// status.
type TransportError struct {
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tool transport: %s: %v", e.Message, e.Cause)
	}
	return "tool transport: " + e.Message
}

func (e *TransportError) Unwrap() error { return e.Cause }

// ReportedError signals that the tool service ran the operation but
// reported a failure in its response envelope.
type ReportedError struct {
	Operation string
	Message   string
}

func (e *ReportedError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("tool reported failure (%s): %s", e.Operation, e.Message)
	}
	return "tool reported failure: " + e.Message
}
