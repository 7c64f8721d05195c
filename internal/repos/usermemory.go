package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/yungbote/saathi-backend/internal/logger"
  "github.com/yungbote/saathi-backend/internal/types"
)

type UserMemoryRepo interface {
  // Upsert writes by the (user_profile_id, memory_type, key) natural key. The
  // ON CONFLICT clause makes the write atomic under concurrent conversations
  // for the same user.
  Upsert(ctx context.Context, tx *gorm.DB, memory *types.UserMemory) (*types.UserMemory, error)
  GetRecentByUserProfileID(ctx context.Context, tx *gorm.DB, userProfileID uuid.UUID, limit int) ([]*types.UserMemory, error)
  GetByUserProfileID(ctx context.Context, tx *gorm.DB, userProfileID uuid.UUID) ([]*types.UserMemory, error)
}

type userMemoryRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserMemoryRepo(db *gorm.DB, baseLog *logger.Logger) UserMemoryRepo {
  repoLog := baseLog.With("repo", "UserMemoryRepo")
  return &userMemoryRepo{db: db, log: repoLog}
}

func (r *userMemoryRepo) Upsert(ctx context.Context, tx *gorm.DB, memory *types.UserMemory) (*types.UserMemory, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{
        {Name: "user_profile_id"},
        {Name: "memory_type"},
        {Name: "key"},
      },
      DoUpdates: clause.AssignmentColumns([]string{
        "value",
        "confidence",
        "source_conversation_id",
        "updated_at",
      }),
    }).
    Create(memory).Error; err != nil {
    return nil, err
  }
  return memory, nil
}

func (r *userMemoryRepo) GetRecentByUserProfileID(ctx context.Context, tx *gorm.DB, userProfileID uuid.UUID, limit int) ([]*types.UserMemory, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserMemory
  if userProfileID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_profile_id = ?", userProfileID).
    Order("updated_at DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *userMemoryRepo) GetByUserProfileID(ctx context.Context, tx *gorm.DB, userProfileID uuid.UUID) ([]*types.UserMemory, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserMemory
  if userProfileID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_profile_id = ?", userProfileID).
    Order("updated_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
