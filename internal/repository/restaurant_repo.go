package repository

import (
	"context"
	"fmt"

	"LunchVoter/internal/model"

	"gorm.io/gorm"
)

// RestaurantRepository 餐厅持久化
type RestaurantRepository interface {
	Create(ctx context.Context, r *model.Restaurant) error
	// GetByID 不存在时返回 gorm.ErrRecordNotFound
	GetByID(ctx context.Context, id uint64) (*model.Restaurant, error)
	List(ctx context.Context, page, pageSize int) ([]*model.Restaurant, int64, error)
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error
	// Delete 同一事务内删除餐厅及其投票、获胜记录
	Delete(ctx context.Context, id uint64) error
}

type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository 创建餐厅仓储
func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(ctx context.Context, rest *model.Restaurant) error {
	return r.db.WithContext(ctx).Create(rest).Error
}

func (r *restaurantRepository) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	var rest model.Restaurant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rest).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *restaurantRepository) List(ctx context.Context, page, pageSize int) ([]*model.Restaurant, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := r.db.WithContext(ctx).Model(&model.Restaurant{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []*model.Restaurant
	if err := db.Order("name ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *restaurantRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Restaurant{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *restaurantRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", id).Delete(&model.VoteRecord{}).Error; err != nil {
			return fmt.Errorf("删除投票记录失败: %w", err)
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&model.WinnerRecord{}).Error; err != nil {
			return fmt.Errorf("删除获胜记录失败: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&model.Restaurant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
