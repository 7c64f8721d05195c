package types

import (
	"time"
	"github.com/google/uuid"
)

// Memory categories extracted from conversations.
const (
	MemoryTypePreference   = "preference"
	MemoryTypeInterest     = "interests"
	MemoryTypeGoal         = "goals"
	MemoryTypeChallenge    = "challenge"
	MemoryTypeRelationship = "relationship"
	MemoryTypeAcademic     = "academic"
	MemoryTypeHealth       = "health"
	MemoryTypeCoping       = "coping"
)

type UserMemory struct {
	ID                   uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserProfileID        uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_user_memory_natural_key" json:"user_profile_id"`
	UserProfile          *UserProfile  `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserProfileID;references:ID" json:"user_profile,omitempty"`
	MemoryType           string        `gorm:"not null;uniqueIndex:idx_user_memory_natural_key;column:memory_type" json:"memory_type"`
	Key                  string        `gorm:"not null;uniqueIndex:idx_user_memory_natural_key;column:key" json:"key"`
	Value                string        `gorm:"type:text;not null;column:value" json:"value"`
	Confidence           float64       `gorm:"not null;default:1.0;column:confidence" json:"confidence"`
	SourceConversationID *uuid.UUID    `gorm:"type:uuid;column:source_conversation_id" json:"source_conversation_id,omitempty"`
	SourceConversation   *Conversation `gorm:"constraint:OnDelete:SET NULL;foreignKey:SourceConversationID;references:ID" json:"source_conversation,omitempty"`
	CreatedAt            time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time     `gorm:"not null;default:now();index" json:"updated_at"`
}

func (UserMemory) TableName() string { return "user_memory" }
