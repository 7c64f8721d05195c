package types

import (
	"time"
	"github.com/google/uuid"
)

type UserProfile struct {
	ID                      uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UID                     string     `gorm:"uniqueIndex;not null;column:uid" json:"uid"`
	Email                   *string    `gorm:"column:email" json:"email,omitempty"`
	DisplayName             *string    `gorm:"column:display_name" json:"display_name,omitempty"`
	ConsentDataStorage      bool       `gorm:"not null;default:false;column:consent_data_storage" json:"consent_data_storage"`
	ConsentScreeningStorage bool       `gorm:"not null;default:false;column:consent_screening_storage" json:"consent_screening_storage"`
	ThemePreference         string     `gorm:"not null;default:'light';column:theme_preference" json:"theme_preference"`
	CreatedAt               time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt               time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }
