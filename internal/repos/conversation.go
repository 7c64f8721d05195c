package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/saathi-backend/internal/logger"
  "github.com/yungbote/saathi-backend/internal/types"
)

type ConversationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, conversation *types.Conversation) (*types.Conversation, error)
  GetRecentByUserProfileID(ctx context.Context, tx *gorm.DB, userProfileID uuid.UUID, limit int) ([]*types.Conversation, error)
}

type conversationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, baseLog *logger.Logger) ConversationRepo {
  repoLog := baseLog.With("repo", "ConversationRepo")
  return &conversationRepo{db: db, log: repoLog}
}

func (r *conversationRepo) Create(ctx context.Context, tx *gorm.DB, conversation *types.Conversation) (*types.Conversation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).Create(conversation).Error; err != nil {
    return nil, err
  }
  return conversation, nil
}

func (r *conversationRepo) GetRecentByUserProfileID(ctx context.Context, tx *gorm.DB, userProfileID uuid.UUID, limit int) ([]*types.Conversation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Conversation
  if userProfileID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_profile_id = ?", userProfileID).
    Order("created_at DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
