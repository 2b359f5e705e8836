package chat

// Role of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is one role-tagged turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered message list sent to the chat provider in one call.
type Conversation []Message

// System returns the system-role messages in order.
func (c Conversation) System() []Message {
	var out []Message
	for _, m := range c {
		if m.Role == RoleSystem {
			out = append(out, m)
		}
	}
	return out
}
