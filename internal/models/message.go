package models

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	// MessageRoleUser is the medical professional.
	MessageRoleUser MessageRole = "user"
	// MessageRoleAssistant is the simulated patient.
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is one turn of a conversation. Rows are append-only.
type Message struct {
	BaseModel
	ConversationID string      `gorm:"size:36;index;not null" json:"conversationId"`
	Role           MessageRole `gorm:"size:20;not null" json:"role"`
	Content        string      `gorm:"type:text;not null" json:"content"`
}
