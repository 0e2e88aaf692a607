package session

import "time"

// Role tags who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the transcript.
type Message struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`

	// Error marks an assistant message that reports a failed turn.
	Error bool `json:"error,omitempty"`
}

// Conversation is the append-only transcript of a session. Insertion order is display
// order and no message is ever edited or removed. It is not safe for concurrent use;
// Session guards it.
type Conversation struct {
	messages []Message
}

// Append adds a message at the end.
func (c *Conversation) Append(m Message) {
	c.messages = append(c.messages, m)
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}
