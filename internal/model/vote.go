package model

import (
	"time"
)

// VoteRecord 某用户某天对某餐厅的累计投票，(user_id, restaurant_id, day) 唯一。
// 用户注销后 user_id 置空，记录保留用于历史统计。
type VoteRecord struct {
	ID           uint64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       *uint64     `gorm:"column:user_id;uniqueIndex:uk_vote_user_restaurant_day" json:"user_id"`
	User         *User       `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	RestaurantID uint64      `gorm:"column:restaurant_id;not null;uniqueIndex:uk_vote_user_restaurant_day" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	Day          string      `gorm:"column:day;type:varchar(10);not null;index;uniqueIndex:uk_vote_user_restaurant_day" json:"day"` // YYYY-MM-DD
	Amount       int         `gorm:"column:amount;not null" json:"amount"`                                                         // 当日投票次数
	Score        float64     `gorm:"column:score;not null" json:"score"`                                                           // 加权累计得分
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// WinnerRecord 某天的获胜餐厅，并列时同一天有多条；同一次评选共享 RunID。写入后不再修改
type WinnerRecord struct {
	ID           uint64      `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RunID        string      `gorm:"column:run_id;type:varchar(36);not null;index" json:"run_id"`
	RestaurantID uint64      `gorm:"column:restaurant_id;not null;index" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"restaurant,omitempty"`
	Day          string      `gorm:"column:day;type:varchar(10);not null;index" json:"date"`
	Score        float64     `gorm:"column:score;not null" json:"score"`
	UniqueVoters int         `gorm:"column:unique_voters;not null" json:"unique_voters"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (VoteRecord) TableName() string   { return "vote_records" }
func (WinnerRecord) TableName() string { return "winner_records" }
