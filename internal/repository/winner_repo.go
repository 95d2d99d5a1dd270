package repository

import (
	"context"
	"fmt"

	"LunchVoter/internal/model"

	"gorm.io/gorm"
)

// WinnerRepository 获胜记录持久化
type WinnerRepository interface {
	// CreateBatch 单事务单条 INSERT 写入同一次评选的全部获胜记录，失败则一条都不落库
	CreateBatch(ctx context.Context, records []*model.WinnerRecord) error
	// ListByDay 某天的获胜记录（带餐厅信息），按餐厅 id 排序
	ListByDay(ctx context.Context, day string) ([]*model.WinnerRecord, error)
}

type winnerRepository struct {
	db *gorm.DB
}

// NewWinnerRepository 创建获胜记录仓储
func NewWinnerRepository(db *gorm.DB) WinnerRepository {
	return &winnerRepository{db: db}
}

func (r *winnerRepository) CreateBatch(ctx context.Context, records []*model.WinnerRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := tx.Omit("Restaurant").Create(&records).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("保存获胜记录失败: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

func (r *winnerRepository) ListByDay(ctx context.Context, day string) ([]*model.WinnerRecord, error) {
	var list []*model.WinnerRecord
	if err := r.db.WithContext(ctx).
		Preload("Restaurant").
		Where("day = ?", day).
		Order("restaurant_id ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
