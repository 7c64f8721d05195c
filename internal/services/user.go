package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/saathi-backend/internal/logger"
	"github.com/yungbote/saathi-backend/internal/repos"
	"github.com/yungbote/saathi-backend/internal/types"
)

type ProfileInput struct {
	UID                     string  `json:"uid" binding:"required"`
	Email                   *string `json:"email"`
	DisplayName             *string `json:"display_name"`
	ConsentDataStorage      *bool   `json:"consent_data_storage"`
	ConsentScreeningStorage *bool   `json:"consent_screening_storage"`
	ThemePreference         *string `json:"theme_preference"`
}

type UserService interface {
	GetProfile(ctx context.Context, uid string) (*types.UserProfile, error)
	UpsertProfile(ctx context.Context, input ProfileInput) (*types.UserProfile, bool, error)
	GetMemories(ctx context.Context, uid string) ([]*types.UserMemory, error)
}

type userService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.UserProfileRepo
	memoryRepo  repos.UserMemoryRepo
}

var validThemePreferences = map[string]struct{}{
	"light": {},
	"dark":  {},
}

func NewUserService(db *gorm.DB, log *logger.Logger, profileRepo repos.UserProfileRepo, memoryRepo repos.UserMemoryRepo) UserService {
	return &userService{
		db:          db,
		log:         log.With("service", "UserService"),
		profileRepo: profileRepo,
		memoryRepo:  memoryRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, uid string) (*types.UserProfile, error) {
	if uid == "" {
		return nil, fmt.Errorf("uid is required")
	}
	profile, err := s.profileRepo.GetByUID(ctx, nil, uid)
	if err != nil {
		return nil, fmt.Errorf("profile lookup: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}
	return profile, nil
}

func (s *userService) UpsertProfile(ctx context.Context, input ProfileInput) (*types.UserProfile, bool, error) {
	if input.UID == "" {
		return nil, false, fmt.Errorf("uid is required")
	}

	existing, err := s.profileRepo.GetByUID(ctx, nil, input.UID)
	if err != nil {
		return nil, false, fmt.Errorf("profile lookup: %w", err)
	}

	profile := existing
	created := false
	if profile == nil {
		profile = &types.UserProfile{UID: input.UID, ThemePreference: "light", ConsentDataStorage: true}
		created = true
	}

	if input.Email != nil {
		profile.Email = input.Email
	}
	if input.DisplayName != nil {
		profile.DisplayName = input.DisplayName
	}
	if input.ConsentDataStorage != nil {
		profile.ConsentDataStorage = *input.ConsentDataStorage
	}
	if input.ConsentScreeningStorage != nil {
		profile.ConsentScreeningStorage = *input.ConsentScreeningStorage
	}
	if input.ThemePreference != nil {
		theme := strings.ToLower(strings.TrimSpace(*input.ThemePreference))
		if _, ok := validThemePreferences[theme]; !ok {
			return nil, false, fmt.Errorf("invalid theme preference %q", theme)
		}
		profile.ThemePreference = theme
	}

	saved, err := s.profileRepo.Upsert(ctx, nil, profile)
	if err != nil {
		return nil, false, fmt.Errorf("profile upsert: %w", err)
	}
	return saved, created, nil
}

func (s *userService) GetMemories(ctx context.Context, uid string) ([]*types.UserMemory, error) {
	if uid == "" {
		return nil, fmt.Errorf("uid is required")
	}
	profile, err := s.profileRepo.GetByUID(ctx, nil, uid)
	if err != nil {
		return nil, fmt.Errorf("profile lookup: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}
	return s.memoryRepo.GetByUserProfileID(ctx, nil, profile.ID)
}
