package repos

import (
  "context"
  "errors"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/yungbote/saathi-backend/internal/logger"
  "github.com/yungbote/saathi-backend/internal/types"
)

type UserProfileRepo interface {
  Create(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error)
  GetByUID(ctx context.Context, tx *gorm.DB, uid string) (*types.UserProfile, error)
  GetOrCreateByUID(ctx context.Context, tx *gorm.DB, uid string, defaults *types.UserProfile) (*types.UserProfile, bool, error)
  Upsert(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error)
  Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type userProfileRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
  repoLog := baseLog.With("repo", "UserProfileRepo")
  return &userProfileRepo{db: db, log: repoLog}
}

func (r *userProfileRepo) Create(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).Create(profile).Error; err != nil {
    return nil, err
  }
  return profile, nil
}

func (r *userProfileRepo) GetByUID(ctx context.Context, tx *gorm.DB, uid string) (*types.UserProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.UserProfile
  err := transaction.WithContext(ctx).
    Where("uid = ?", uid).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *userProfileRepo) GetOrCreateByUID(ctx context.Context, tx *gorm.DB, uid string, defaults *types.UserProfile) (*types.UserProfile, bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  existing, err := r.GetByUID(ctx, transaction, uid)
  if err != nil {
    return nil, false, err
  }
  if existing != nil {
    return existing, false, nil
  }

  profile := defaults
  if profile == nil {
    profile = &types.UserProfile{}
  }
  profile.UID = uid

  // A concurrent request may create the same uid between the lookup and the
  // insert; DO NOTHING plus re-read keeps this race harmless.
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "uid"}},
      DoNothing: true,
    }).
    Create(profile).Error; err != nil {
    return nil, false, err
  }

  created, err := r.GetByUID(ctx, transaction, uid)
  if err != nil {
    return nil, false, err
  }
  return created, true, nil
}

func (r *userProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "uid"}},
      DoUpdates: clause.AssignmentColumns([]string{
        "email",
        "display_name",
        "consent_data_storage",
        "consent_screening_storage",
        "theme_preference",
        "updated_at",
      }),
    }).
    Create(profile).Error; err != nil {
    return nil, err
  }
  return r.GetByUID(ctx, transaction, profile.UID)
}

func (r *userProfileRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.UserProfile{}).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
