package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/saathi-backend/internal/logger"
	"github.com/yungbote/saathi-backend/internal/repos"
	"github.com/yungbote/saathi-backend/internal/types"
)

type ScreeningOutcome struct {
	TotalScore      int    `json:"total_score"`
	MaxScore        int    `json:"max_score"`
	Severity        string `json:"severity"`
	Recommendations string `json:"recommendations"`
	FollowUpNeeded  bool   `json:"follow_up_needed"`
}

type ScreeningSubmission struct {
	Outcome         ScreeningOutcome       `json:"result"`
	Saved           *types.ScreeningResult `json:"saved,omitempty"`
	ConsentRequired bool                   `json:"consent_required"`
}

type ScreeningService interface {
	Submit(ctx context.Context, uid string, screeningType string, responses []int) (*ScreeningSubmission, error)
	History(ctx context.Context, uid string, limit int) ([]*types.ScreeningResult, error)
}

type screeningService struct {
	db            *gorm.DB
	log           *logger.Logger
	profileRepo   repos.UserProfileRepo
	screeningRepo repos.ScreeningResultRepo
}

func NewScreeningService(db *gorm.DB, log *logger.Logger, profileRepo repos.UserProfileRepo, screeningRepo repos.ScreeningResultRepo) ScreeningService {
	return &screeningService{
		db:            db,
		log:           log.With("service", "ScreeningService"),
		profileRepo:   profileRepo,
		screeningRepo: screeningRepo,
	}
}

func (s *screeningService) Submit(ctx context.Context, uid string, screeningType string, responses []int) (*ScreeningSubmission, error) {
	if uid == "" || screeningType == "" || len(responses) == 0 {
		return nil, fmt.Errorf("uid, screening_type, and responses are required")
	}

	profile, err := s.profileRepo.GetByUID(ctx, nil, uid)
	if err != nil {
		return nil, fmt.Errorf("profile lookup: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}

	outcome := ScoreScreening(screeningType, responses)

	submission := &ScreeningSubmission{
		Outcome:         outcome,
		ConsentRequired: !profile.ConsentScreeningStorage,
	}

	if profile.ConsentScreeningStorage {
		rawResponses, err := json.Marshal(responses)
		if err != nil {
			return nil, fmt.Errorf("marshal responses: %w", err)
		}
		saved, err := s.screeningRepo.Create(ctx, nil, &types.ScreeningResult{
			UserProfileID:    profile.ID,
			ScreeningType:    screeningType,
			TotalScore:       outcome.TotalScore,
			MaxPossibleScore: outcome.MaxScore,
			SeverityLevel:    outcome.Severity,
			Responses:        datatypes.JSON(rawResponses),
			Recommendations:  outcome.Recommendations,
			FollowUpNeeded:   outcome.FollowUpNeeded,
		})
		if err != nil {
			return nil, fmt.Errorf("save screening result: %w", err)
		}
		submission.Saved = saved
	}

	return submission, nil
}

func (s *screeningService) History(ctx context.Context, uid string, limit int) ([]*types.ScreeningResult, error) {
	profile, err := s.profileRepo.GetByUID(ctx, nil, uid)
	if err != nil {
		return nil, fmt.Errorf("profile lookup: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}
	return s.screeningRepo.GetRecentByUserProfileID(ctx, nil, profile.ID, limit)
}

// ScoreScreening applies the instrument's published scoring bands.
func ScoreScreening(screeningType string, responses []int) ScreeningOutcome {
	switch screeningType {
	case types.ScreeningTypePHQ9:
		return scorePHQ9(responses)
	case types.ScreeningTypeGAD7:
		return scoreGAD7(responses)
	case types.ScreeningTypeGHQ12:
		return scoreGHQ12(responses)
	default:
		return ScreeningOutcome{
			Severity:        "unknown",
			Recommendations: "Unknown screening type",
		}
	}
}

func scorePHQ9(responses []int) ScreeningOutcome {
	total := sumFirst(responses, 9)

	var severity, recommendations string
	followUp := true
	switch {
	case total <= 4:
		severity = types.SeverityMinimal
		recommendations = "Monitor symptoms. Consider lifestyle improvements."
		followUp = false
	case total <= 9:
		severity = types.SeverityMild
		recommendations = "Consider counseling or therapy. Monitor closely."
	case total <= 14:
		severity = types.SeverityModerate
		recommendations = "Counseling recommended. Consider professional help."
	case total <= 19:
		severity = types.SeverityModeratelySevere
		recommendations = "Professional therapy strongly recommended."
	default:
		severity = types.SeveritySevere
		recommendations = "Immediate professional help recommended. Consider psychiatrist consultation."
	}

	return ScreeningOutcome{
		TotalScore:      total,
		MaxScore:        27,
		Severity:        severity,
		Recommendations: recommendations,
		FollowUpNeeded:  followUp,
	}
}

func scoreGAD7(responses []int) ScreeningOutcome {
	total := sumFirst(responses, 7)

	var severity, recommendations string
	followUp := true
	switch {
	case total <= 4:
		severity = types.SeverityMinimal
		recommendations = "Anxiety symptoms are minimal. Continue healthy habits."
		followUp = false
	case total <= 9:
		severity = types.SeverityMild
		recommendations = "Mild anxiety. Consider stress management techniques."
	case total <= 14:
		severity = types.SeverityModerate
		recommendations = "Moderate anxiety. Professional support recommended."
	default:
		severity = types.SeveritySevere
		recommendations = "Severe anxiety. Professional treatment strongly recommended."
	}

	return ScreeningOutcome{
		TotalScore:      total,
		MaxScore:        21,
		Severity:        severity,
		Recommendations: recommendations,
		FollowUpNeeded:  followUp,
	}
}

func scoreGHQ12(responses []int) ScreeningOutcome {
	// GHQ-12 uses bimodal 0-0-1-1 scoring per question.
	total := 0
	for i, r := range responses {
		if i >= 12 {
			break
		}
		if r >= 2 {
			total++
		}
	}

	var severity, recommendations string
	followUp := true
	switch {
	case total <= 3:
		severity = types.SeverityMinimal
		recommendations = "Good general mental health. Maintain current habits."
		followUp = false
	case total <= 6:
		severity = types.SeverityMild
		recommendations = "Some areas of concern. Consider wellness strategies."
	case total <= 9:
		severity = types.SeverityModerate
		recommendations = "Multiple areas of concern. Professional consultation recommended."
	default:
		severity = types.SeveritySevere
		recommendations = "Significant concerns across multiple areas. Professional help recommended."
	}

	return ScreeningOutcome{
		TotalScore:      total,
		MaxScore:        12,
		Severity:        severity,
		Recommendations: recommendations,
		FollowUpNeeded:  followUp,
	}
}

func sumFirst(responses []int, n int) int {
	total := 0
	for i, r := range responses {
		if i >= n {
			break
		}
		total += r
	}
	return total
}
