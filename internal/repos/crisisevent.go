package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/saathi-backend/internal/logger"
  "github.com/yungbote/saathi-backend/internal/types"
)

type CrisisEventRepo interface {
  Create(ctx context.Context, tx *gorm.DB, event *types.CrisisEvent) (*types.CrisisEvent, error)
  GetRecentByUserProfileID(ctx context.Context, tx *gorm.DB, userProfileID uuid.UUID, limit int) ([]*types.CrisisEvent, error)
}

type crisisEventRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCrisisEventRepo(db *gorm.DB, baseLog *logger.Logger) CrisisEventRepo {
  repoLog := baseLog.With("repo", "CrisisEventRepo")
  return &crisisEventRepo{db: db, log: repoLog}
}

func (r *crisisEventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.CrisisEvent) (*types.CrisisEvent, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).Create(event).Error; err != nil {
    return nil, err
  }
  return event, nil
}

func (r *crisisEventRepo) GetRecentByUserProfileID(ctx context.Context, tx *gorm.DB, userProfileID uuid.UUID, limit int) ([]*types.CrisisEvent, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.CrisisEvent
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
