package service

import (
	"context"
	"encoding/json"
	"fmt"

	"LunchVoter/internal/interfaces"
	"LunchVoter/internal/model"
	"LunchVoter/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// SettingsService 读写 voting_settings；未保存过时返回配置文件中的默认值
type SettingsService struct {
	repo     repository.SettingsRepository
	defaults interfaces.VotingSettings
	logger   *logrus.Logger
}

// NewSettingsService 创建 SettingsService
func NewSettingsService(repo repository.SettingsRepository, defaults interfaces.VotingSettings, logger *logrus.Logger) *SettingsService {
	return &SettingsService{repo: repo, defaults: defaults, logger: logger}
}

// Current 每次都从库中读取，保证热更新立即生效
func (s *SettingsService) Current(ctx context.Context) (interfaces.VotingSettings, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		return interfaces.VotingSettings{}, fmt.Errorf("读取投票参数失败: %w", err)
	}
	if row == nil {
		return s.defaults, nil
	}
	var weights []float64
	if len(row.Weights) > 0 {
		if err := json.Unmarshal(row.Weights, &weights); err != nil {
			return interfaces.VotingSettings{}, fmt.Errorf("解析权重失败: %w", err)
		}
	}
	return interfaces.VotingSettings{
		Weights:     weights,
		DailyBudget: row.DailyBudget,
		CutoffHour:  row.CutoffHour,
	}, nil
}

// Update 校验后整体替换投票参数
func (s *SettingsService) Update(ctx context.Context, in interfaces.VotingSettings) (interfaces.VotingSettings, error) {
	if err := ValidateSettings(in); err != nil {
		return interfaces.VotingSettings{}, err
	}
	if in.Weights == nil {
		in.Weights = []float64{}
	}
	raw, err := json.Marshal(in.Weights)
	if err != nil {
		return interfaces.VotingSettings{}, err
	}
	row := &model.VotingSettings{
		Weights:     datatypes.JSON(raw),
		DailyBudget: in.DailyBudget,
		CutoffHour:  in.CutoffHour,
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return interfaces.VotingSettings{}, fmt.Errorf("保存投票参数失败: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"weights":      in.Weights,
		"daily_budget": in.DailyBudget,
		"cutoff_hour":  in.CutoffHour,
	}).Info("投票参数已更新")
	return in, nil
}

// ValidateSettings 权重必须为正，预算至少 1，截止小时 0-23
func ValidateSettings(in interfaces.VotingSettings) error {
	for i, w := range in.Weights {
		if w <= 0 {
			return fmt.Errorf("%w: weights[%d] must be positive", ErrInvalidInput, i)
		}
	}
	if in.DailyBudget < 1 {
		return fmt.Errorf("%w: daily_budget must be >= 1", ErrInvalidInput)
	}
	if in.CutoffHour < 0 || in.CutoffHour > 23 {
		return fmt.Errorf("%w: cutoff_hour must be in 0..23", ErrInvalidInput)
	}
	return nil
}

// StaticSettings 固定参数，测试中按用例注入
type StaticSettings interfaces.VotingSettings

func (s StaticSettings) Current(context.Context) (interfaces.VotingSettings, error) {
	return interfaces.VotingSettings(s), nil
}
