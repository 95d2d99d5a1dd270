package model

import (
	"time"

	"gorm.io/datatypes"
)

// VotingSettingsID voting_settings 只有一行
const VotingSettingsID = 1

// VotingSettings 可热更新的投票参数。行不存在时使用配置文件默认值
type VotingSettings struct {
	ID          uint64         `gorm:"column:id;primaryKey"`
	Weights     datatypes.JSON `gorm:"column:weights;not null"` // []float64
	DailyBudget int            `gorm:"column:daily_budget;not null"`
	CutoffHour  int            `gorm:"column:cutoff_hour;not null"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (VotingSettings) TableName() string { return "voting_settings" }
