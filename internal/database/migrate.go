package database

import (
	"fmt"

	"LunchVoter/internal/model"

	"gorm.io/gorm"
)

// Migrate 库表不存在则自动创建（按依赖顺序迁移）
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Restaurant{},
		&model.VoteRecord{},
		&model.WinnerRecord{},
		&model.VotingSettings{},
		&model.RevokedToken{},
	); err != nil {
		return fmt.Errorf("数据库表结构迁移失败: %w", err)
	}
	return nil
}
