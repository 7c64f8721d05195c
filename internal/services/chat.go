package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/saathi-backend/internal/logger"
	"github.com/yungbote/saathi-backend/internal/repos"
	"github.com/yungbote/saathi-backend/internal/types"
)

type ChatRequest struct {
	UID       string         `json:"uid" binding:"required"`
	Message   string         `json:"message" binding:"required"`
	SessionID string         `json:"session_id"`
	History   []Exchange     `json:"history"`
	Context   map[string]any `json:"context"`
}

// ChatResponse is the outward API shape; processing steps and the crisis log
// stay internal.
type ChatResponse struct {
	Reply           string              `json:"reply"`
	Crisis          bool                `json:"crisis"`
	SuggestedCoping []string            `json:"suggested_coping"`
	MemoryUpdate    map[string][]string `json:"memory_update"`
	Escalation      *Escalation         `json:"escalation,omitempty"`
}

type ChatService interface {
	ProcessChat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	GetConversationHistory(ctx context.Context, uid string, limit int) ([]*types.Conversation, error)
}

type chatService struct {
	db          *gorm.DB
	log         *logger.Logger
	pipeline    *ConversationPipeline
	store       CachedMemoryStore
	profileRepo repos.UserProfileRepo
	convRepo    repos.ConversationRepo
	memoryRepo  repos.UserMemoryRepo
	crisisRepo  repos.CrisisEventRepo
}

func NewChatService(db *gorm.DB, log *logger.Logger, pipeline *ConversationPipeline, store CachedMemoryStore, profileRepo repos.UserProfileRepo, convRepo repos.ConversationRepo, memoryRepo repos.UserMemoryRepo, crisisRepo repos.CrisisEventRepo) ChatService {
	return &chatService{
		db:          db,
		log:         log.With("service", "ChatService"),
		pipeline:    pipeline,
		store:       store,
		profileRepo: profileRepo,
		convRepo:    convRepo,
		memoryRepo:  memoryRepo,
		crisisRepo:  crisisRepo,
	}
}

func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.UID == "" || req.Message == "" {
		return nil, fmt.Errorf("uid and message are required")
	}

	// First contact defaults to storage consent, matching the chat signup flow.
	profile, created, err := s.profileRepo.GetOrCreateByUID(ctx, nil, req.UID, &types.UserProfile{
		ConsentDataStorage: true,
	})
	if err != nil {
		return nil, fmt.Errorf("profile get-or-create: %w", err)
	}
	if created {
		s.log.Info("Created user profile", "uid", req.UID)
	}

	started := time.Now()
	result := s.pipeline.Process(ctx, req.UID, req.Message, req.History, req.Context)
	elapsed := time.Since(started)

	if profile.ConsentDataStorage {
		if err := s.persistExchange(ctx, profile, req, result, elapsed); err != nil {
			// Persistence trouble must not cost the user their reply.
			s.log.Error("Failed to persist conversation", "uid", req.UID, "error", err)
		}
	}

	return &ChatResponse{
		Reply:           result.Reply,
		Crisis:          result.Crisis,
		SuggestedCoping: result.SuggestedCoping,
		MemoryUpdate:    result.MemoryUpdate,
		Escalation:      result.Escalation,
	}, nil
}

func (s *chatService) persistExchange(ctx context.Context, profile *types.UserProfile, req ChatRequest, result *PipelineResult, elapsed time.Duration) error {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "session_" + req.UID
	}

	contextData, err := json.Marshal(req.Context)
	if err != nil {
		contextData = []byte("{}")
	}
	memoryUpdates, err := json.Marshal(result.MemoryUpdate)
	if err != nil {
		memoryUpdates = []byte("{}")
	}

	return s.runTx(ctx, func(tx *gorm.DB) error {
		conversation, err := s.convRepo.Create(ctx, tx, &types.Conversation{
			UserProfileID:       profile.ID,
			SessionID:           sessionID,
			UserMessage:         req.Message,
			AIResponse:          result.Reply,
			CrisisDetected:      result.Crisis,
			EscalationTriggered: result.Escalation != nil,
			ResponseTimeMs:      int(elapsed.Milliseconds()),
			ContextData:         datatypes.JSON(contextData),
			MemoryUpdates:       datatypes.JSON(memoryUpdates),
		})
		if err != nil {
			return fmt.Errorf("create conversation: %w", err)
		}

		if result.Crisis && result.CrisisLog != nil {
			keywords, err := json.Marshal(result.CrisisLog.TriggerKeywords)
			if err != nil {
				keywords = []byte("[]")
			}
			if _, err := s.crisisRepo.Create(ctx, tx, &types.CrisisEvent{
				UserProfileID:              profile.ID,
				ConversationID:             conversation.ID,
				CrisisType:                 result.CrisisLog.CrisisType,
				SeverityScore:              result.CrisisLog.SeverityScore,
				EmergencyResourcesProvided: true,
				TriggerKeywords:            datatypes.JSON(keywords),
			}); err != nil {
				return fmt.Errorf("create crisis event: %w", err)
			}
		}

		for memoryType, items := range result.MemoryUpdate {
			for _, item := range items {
				if _, err := s.memoryRepo.Upsert(ctx, tx, &types.UserMemory{
					UserProfileID:        profile.ID,
					MemoryType:           memoryType,
					Key:                  memoryKey(item),
					Value:                item,
					Confidence:           1.0,
					SourceConversationID: &conversation.ID,
				}); err != nil {
					return fmt.Errorf("upsert memory %s/%s: %w", memoryType, item, err)
				}
			}
		}

		s.store.InvalidateConversations(ctx, req.UID)
		return nil
	})
}

func (s *chatService) GetConversationHistory(ctx context.Context, uid string, limit int) ([]*types.Conversation, error) {
	profile, err := s.profileRepo.GetByUID(ctx, nil, uid)
	if err != nil {
		return nil, fmt.Errorf("profile lookup: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}
	return s.convRepo.GetRecentByUserProfileID(ctx, nil, profile.ID, limit)
}

// runTx wraps the persistence steps in one transaction. A nil root handle
// runs the steps without a wrapping transaction.
func (s *chatService) runTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// memoryKey normalizes an extracted value into a stable natural-key segment.
func memoryKey(value string) string {
	return strings.ReplaceAll(strings.ToLower(value), " ", "_")
}
