package repository

import (
	"context"

	"LunchVoter/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository 投票参数（单行）持久化
type SettingsRepository interface {
	// Get 尚未保存过时返回 (nil, nil)
	Get(ctx context.Context) (*model.VotingSettings, error)
	Save(ctx context.Context, s *model.VotingSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository 创建投票参数仓储
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*model.VotingSettings, error) {
	var s model.VotingSettings
	if err := r.db.WithContext(ctx).Where("id = ?", model.VotingSettingsID).Limit(1).Find(&s).Error; err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

func (r *settingsRepository) Save(ctx context.Context, s *model.VotingSettings) error {
	s.ID = model.VotingSettingsID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"weights", "daily_budget", "cutoff_hour", "updated_at"}),
	}).Create(s).Error
}
