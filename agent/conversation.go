package agent

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/martinemde/relay/gateway"
)

// Conversation holds one thread's identity and ordered message history.
// Messages are append-only: never reordered or mutated after append.
type Conversation struct {
	threadID string
	mu       sync.Mutex
	messages []gateway.Message
}

// NewConversation creates a Conversation with a fresh thread identifier.
func NewConversation() *Conversation {
	return &Conversation{threadID: uuid.New().String()}
}

// ResumeConversation reconstructs a Conversation from a known thread ID
// and prior history, for callers with durable storage.
func ResumeConversation(threadID string, history []gateway.Message) (*Conversation, error) {
	if threadID == "" {
		return nil, fmt.Errorf("resume conversation: empty thread id")
	}
	c := &Conversation{threadID: threadID}
	for _, msg := range history {
		if err := c.Append(msg); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ThreadID returns the thread identifier, fixed at creation.
func (c *Conversation) ThreadID() string { return c.threadID }

// Append validates and appends a message, preserving order. A malformed
// message fails with ErrInvalidMessage and appends nothing.
func (c *Conversation) Append(msg gateway.Message) error {
	if err := validateMessage(msg); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return nil
}

// Snapshot returns a copy of the message history in append order.
func (c *Conversation) Snapshot() []gateway.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]gateway.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of appended messages.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func validateMessage(msg gateway.Message) error {
	switch msg.Role {
	case gateway.RoleSystem, gateway.RoleUser, gateway.RoleAssistant:
	case gateway.RoleTool:
		if msg.ToolCallID == "" {
			return fmt.Errorf("tool message missing tool_call_id: %w", ErrInvalidMessage)
		}
	case "":
		return fmt.Errorf("message missing role: %w", ErrInvalidMessage)
	default:
		return fmt.Errorf("unknown role %q: %w", msg.Role, ErrInvalidMessage)
	}
	if len(msg.Content) == 0 {
		return fmt.Errorf("message has no content: %w", ErrInvalidMessage)
	}
	return nil
}
