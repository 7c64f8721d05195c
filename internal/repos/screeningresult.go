package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/saathi-backend/internal/logger"
  "github.com/yungbote/saathi-backend/internal/types"
)

type ScreeningResultRepo interface {
  Create(ctx context.Context, tx *gorm.DB, result *types.ScreeningResult) (*types.ScreeningResult, error)
  GetRecentByUserProfileID(ctx context.Context, tx *gorm.DB, userProfileID uuid.UUID, limit int) ([]*types.ScreeningResult, error)
}

type screeningResultRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewScreeningResultRepo(db *gorm.DB, baseLog *logger.Logger) ScreeningResultRepo {
  repoLog := baseLog.With("repo", "ScreeningResultRepo")
  return &screeningResultRepo{db: db, log: repoLog}
}

func (r *screeningResultRepo) Create(ctx context.Context, tx *gorm.DB, result *types.ScreeningResult) (*types.ScreeningResult, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).Create(result).Error; err != nil {
    return nil, err
  }
  return result, nil
}

func (r *screeningResultRepo) GetRecentByUserProfileID(ctx context.Context, tx *gorm.DB, userProfileID uuid.UUID, limit int) ([]*types.ScreeningResult, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ScreeningResult
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
