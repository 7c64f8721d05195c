package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	redisclient "github.com/yungbote/saathi-backend/internal/clients/redis"
	"github.com/yungbote/saathi-backend/internal/logger"
	"github.com/yungbote/saathi-backend/internal/repos"
)

const convCacheTTL = 10 * time.Minute

// CachedMemoryStore widens MemoryStore with the cache invalidation hook the
// chat service calls after persisting a new conversation.
type CachedMemoryStore interface {
	MemoryStore
	InvalidateConversations(ctx context.Context, uid string)
}

// gormMemoryStore reads memories and conversation context out of Postgres,
// with an optional redis cache in front of the conversation lookups. A nil
// cache disables caching entirely.
type gormMemoryStore struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.UserProfileRepo
	memoryRepo  repos.UserMemoryRepo
	convRepo    repos.ConversationRepo
	cache       redisclient.Cache
}

func NewMemoryStore(db *gorm.DB, log *logger.Logger, profileRepo repos.UserProfileRepo, memoryRepo repos.UserMemoryRepo, convRepo repos.ConversationRepo, cache redisclient.Cache) CachedMemoryStore {
	return &gormMemoryStore{
		db:          db,
		log:         log.With("service", "MemoryStore"),
		profileRepo: profileRepo,
		memoryRepo:  memoryRepo,
		convRepo:    convRepo,
		cache:       cache,
	}
}

func (s *gormMemoryStore) RecentMemories(ctx context.Context, uid string, limit int) (map[string]map[string]string, error) {
	grouped := map[string]map[string]string{}

	profile, err := s.profileRepo.GetByUID(ctx, nil, uid)
	if err != nil {
		return nil, fmt.Errorf("profile lookup: %w", err)
	}
	if profile == nil {
		return grouped, nil
	}

	memories, err := s.memoryRepo.GetRecentByUserProfileID(ctx, nil, profile.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("memory lookup: %w", err)
	}

	for _, memory := range memories {
		if grouped[memory.MemoryType] == nil {
			grouped[memory.MemoryType] = map[string]string{}
		}
		grouped[memory.MemoryType][memory.Key] = memory.Value
	}
	return grouped, nil
}

func (s *gormMemoryStore) RecentConversations(ctx context.Context, uid string, limit int) ([]Exchange, error) {
	cacheKey := convCacheKey(uid, limit)

	if s.cache != nil {
		raw, found, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			// cache trouble falls through to the database
			s.log.Warn("Conversation cache read failed", "uid", uid, "error", err)
		} else if found {
			var cached []Exchange
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			s.log.Warn("Conversation cache entry corrupt, ignoring", "uid", uid)
		}
	}

	profile, err := s.profileRepo.GetByUID(ctx, nil, uid)
	if err != nil {
		return nil, fmt.Errorf("profile lookup: %w", err)
	}
	if profile == nil {
		return []Exchange{}, nil
	}

	conversations, err := s.convRepo.GetRecentByUserProfileID(ctx, nil, profile.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("conversation lookup: %w", err)
	}

	exchanges := make([]Exchange, 0, len(conversations))
	for _, conv := range conversations {
		exchanges = append(exchanges, Exchange{User: conv.UserMessage, AI: conv.AIResponse})
	}

	if s.cache != nil {
		if raw, err := json.Marshal(exchanges); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, convCacheTTL); err != nil {
				s.log.Warn("Conversation cache write failed", "uid", uid, "error", err)
			}
		}
	}
	return exchanges, nil
}

// InvalidateConversations drops cached context for a user after a new
// conversation row is written.
func (s *gormMemoryStore) InvalidateConversations(ctx context.Context, uid string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, convCacheKey(uid, recentConvLimit)); err != nil {
		s.log.Warn("Conversation cache invalidation failed", "uid", uid, "error", err)
	}
}

func convCacheKey(uid string, limit int) string {
	return fmt.Sprintf("conv_context:%s:%d", uid, limit)
}
