package service

import (
	"context"
	"fmt"
	"strings"

	"LunchVoter/internal/model"
	"LunchVoter/internal/repository"

	"github.com/sirupsen/logrus"
)

// RestaurantService 餐厅增删改查
type RestaurantService struct {
	repo   repository.RestaurantRepository
	logger *logrus.Logger
}

// NewRestaurantService 创建 RestaurantService
func NewRestaurantService(repo repository.RestaurantRepository, logger *logrus.Logger) *RestaurantService {
	return &RestaurantService{repo: repo, logger: logger}
}

// CreateRestaurantRequest 新建餐厅
type CreateRestaurantRequest struct {
	Name        string  `json:"name" binding:"required,max=128"`
	Description *string `json:"description" binding:"omitempty,max=256"`
	Link        *string `json:"link" binding:"omitempty,url,max=200"`
}

// UpdateRestaurantRequest 部分更新，未提供的字段保持不变
type UpdateRestaurantRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=128"`
	Description *string `json:"description" binding:"omitempty,max=256"`
	Link        *string `json:"link" binding:"omitempty,url,max=200"`
}

// RestaurantListResult 列表返回
type RestaurantListResult struct {
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Total    int64               `json:"total"`
	Items    []*model.Restaurant `json:"items"`
}

func (s *RestaurantService) List(ctx context.Context, page, pageSize int) (*RestaurantListResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	items, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("查询餐厅列表失败: %w", err)
	}
	if items == nil {
		items = []*model.Restaurant{}
	}
	return &RestaurantListResult{Page: page, PageSize: pageSize, Total: total, Items: items}, nil
}

func (s *RestaurantService) Get(ctx context.Context, id uint64) (*model.Restaurant, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("查询餐厅失败: %w", err)
	}
	return r, nil
}

func (s *RestaurantService) Create(ctx context.Context, req *CreateRestaurantRequest) (*model.Restaurant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	r := &model.Restaurant{Name: name, Description: req.Description, Link: req.Link}
	if err := s.repo.Create(ctx, r); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("创建餐厅失败: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"restaurant_id": r.ID, "name": r.Name}).Info("restaurant created")
	return r, nil
}

func (s *RestaurantService) Update(ctx context.Context, id uint64, req *UpdateRestaurantRequest) (*model.Restaurant, error) {
	fields := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Link != nil {
		fields["link"] = *req.Link
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		switch {
		case repository.IsNotFound(err):
			return nil, ErrRestaurantNotFound
		case repository.IsDuplicateKey(err):
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("更新餐厅失败: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete 级联删除该餐厅的投票与获胜记录
func (s *RestaurantService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrRestaurantNotFound
		}
		return fmt.Errorf("删除餐厅失败: %w", err)
	}
	s.logger.WithField("restaurant_id", id).Info("restaurant deleted")
	return nil
}
