package agent

import "errors"

var (
	// ErrDuplicateTool is returned by Registry.Register on a name collision.
	ErrDuplicateTool = errors.New("duplicate tool name")

	// ErrToolNotFound is returned by Registry.Resolve for unknown names.
	ErrToolNotFound = errors.New("tool not found")

	// ErrInvalidMessage is returned when a malformed message is appended
	// to a conversation. It is fatal for the current turn.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrMaxIterations marks a turn that did not converge within the
	// configured iteration cap. Run still returns the partial Result so
	// the caller keeps the conversation-so-far.
	ErrMaxIterations = errors.New("max iterations exceeded")
)
