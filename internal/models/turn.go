package models

import "time"

const (
	RoleUser   = "user"
	RoleSystem = "system"
	RoleTool   = "tool"
)

// Turn is one exchange entry inside a learning loop.
type Turn struct {
	ID            string                 `bson:"_id,omitempty" json:"id,omitempty"`
	LoopID        string                 `bson:"loop_id" json:"loop_id"`
	UserID        string                 `bson:"user_id" json:"user_id"`
	Role          string                 `bson:"role" json:"role"`
	AgentName     string                 `bson:"agent_name,omitempty" json:"agent_name,omitempty"`
	Text          string                 `bson:"text" json:"text"`
	UIElements    map[string]interface{} `bson:"ui_elements,omitempty" json:"ui_elements,omitempty"`
	Timestamp     time.Time              `bson:"timestamp" json:"timestamp"`
	SequenceOrder int                    `bson:"sequence_order" json:"sequence_order"`
}
