package interfaces

import "context"

// VotingSettings 当前生效的投票参数
type VotingSettings struct {
	Weights     []float64 `json:"weights"`      // 第 n 次（从 0 计）投同一餐厅的权重，超出取最后一个
	DailyBudget int       `json:"daily_budget"` // 每人每日可投总票数（跨餐厅累计）
	CutoffHour  int       `json:"cutoff_hour"`  // 截止小时，0 表示不截止
}

// SettingsProvider 每次调用时读取最新参数（支持热更新，不做进程内缓存）
type SettingsProvider interface {
	Current(ctx context.Context) (VotingSettings, error)
}
