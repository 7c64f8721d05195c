package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Supported screening instruments.
const (
	ScreeningTypePHQ9  = "PHQ9"
	ScreeningTypeGAD7  = "GAD7"
	ScreeningTypeGHQ12 = "GHQ12"
)

// Severity bands shared by all instruments.
const (
	SeverityMinimal          = "minimal"
	SeverityMild             = "mild"
	SeverityModerate         = "moderate"
	SeverityModeratelySevere = "moderately_severe"
	SeveritySevere           = "severe"
)

type ScreeningResult struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserProfileID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_profile_id"`
	UserProfile      *UserProfile   `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserProfileID;references:ID" json:"user_profile,omitempty"`
	ScreeningType    string         `gorm:"not null;column:screening_type" json:"screening_type"`
	TotalScore       int            `gorm:"not null;column:total_score" json:"total_score"`
	MaxPossibleScore int            `gorm:"not null;column:max_possible_score" json:"max_possible_score"`
	SeverityLevel    string         `gorm:"not null;column:severity_level" json:"severity_level"`
	Responses        datatypes.JSON `gorm:"type:jsonb;not null;column:responses" json:"responses"`
	Recommendations  string         `gorm:"type:text;column:recommendations" json:"recommendations"`
	FollowUpNeeded   bool           `gorm:"not null;default:false;column:follow_up_needed" json:"follow_up_needed"`
	CreatedAt        time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (ScreeningResult) TableName() string { return "screening_result" }
