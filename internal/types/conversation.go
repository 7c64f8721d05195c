package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Conversation struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserProfileID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_profile_id"`
	UserProfile         *UserProfile   `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserProfileID;references:ID" json:"user_profile,omitempty"`
	SessionID           string         `gorm:"not null;index;column:session_id" json:"session_id"`
	UserMessage         string         `gorm:"type:text;not null;column:user_message" json:"user_message"`
	AIResponse          string         `gorm:"type:text;not null;column:ai_response" json:"ai_response"`
	CrisisDetected      bool           `gorm:"not null;default:false;column:crisis_detected" json:"crisis_detected"`
	EscalationTriggered bool           `gorm:"not null;default:false;column:escalation_triggered" json:"escalation_triggered"`
	ResponseTimeMs      int            `gorm:"not null;default:0;column:response_time_ms" json:"response_time_ms"`
	ContextData         datatypes.JSON `gorm:"type:jsonb;column:context_data" json:"context_data,omitempty"`
	MemoryUpdates       datatypes.JSON `gorm:"type:jsonb;column:memory_updates" json:"memory_updates,omitempty"`
	CreatedAt           time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (Conversation) TableName() string { return "conversation" }
