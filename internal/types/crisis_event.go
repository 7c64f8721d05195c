package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CrisisEvent struct {
	ID                         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserProfileID              uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_profile_id"`
	UserProfile                *UserProfile   `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserProfileID;references:ID" json:"user_profile,omitempty"`
	ConversationID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Conversation               *Conversation  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ConversationID;references:ID" json:"conversation,omitempty"`
	CrisisType                 string         `gorm:"not null;column:crisis_type" json:"crisis_type"`
	SeverityScore              float64        `gorm:"not null;column:severity_score" json:"severity_score"`
	EmergencyResourcesProvided bool           `gorm:"not null;default:true;column:emergency_resources_provided" json:"emergency_resources_provided"`
	FollowUpScheduled          bool           `gorm:"not null;default:false;column:follow_up_scheduled" json:"follow_up_scheduled"`
	HumanNotified              bool           `gorm:"not null;default:false;column:human_notified" json:"human_notified"`
	TriggerKeywords            datatypes.JSON `gorm:"type:jsonb;column:trigger_keywords" json:"trigger_keywords"`
	CreatedAt                  time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (CrisisEvent) TableName() string { return "crisis_event" }
