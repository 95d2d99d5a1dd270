package repository

import (
	"context"
	"time"

	"LunchVoter/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository 投票账本持久化
type VoteRepository interface {
	// WithUserLock 开启事务并对用户行加 FOR UPDATE 锁，同一用户的投票因此串行执行。
	// fn 返回错误时整个事务回滚；用户不存在时返回 gorm.ErrRecordNotFound。
	WithUserLock(ctx context.Context, userID uint64, fn func(tx VoteTx) error) error
	// ListByDay 某天全部投票，按 id 排序
	ListByDay(ctx context.Context, day string) ([]*model.VoteRecord, error)
	// ListByUserDay 某用户某天的投票
	ListByUserDay(ctx context.Context, userID uint64, day string) ([]*model.VoteRecord, error)
}

// VoteTx 持有用户锁的事务内操作
type VoteTx interface {
	// Find 不存在时返回 (nil, nil)
	Find(userID, restaurantID uint64, day string) (*model.VoteRecord, error)
	SumAmount(userID uint64, day string) (int, error)
	Create(v *model.VoteRecord) error
	// Increment 以 amount 作为版本号的条件更新，未命中返回 ErrStaleVote
	Increment(v *model.VoteRecord, prevAmount int) error
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository 创建投票仓储
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) WithUserLock(ctx context.Context, userID uint64, fn func(tx VoteTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").Where("id = ?", userID).First(&u).Error; err != nil {
			return err
		}
		return fn(&voteTx{tx: tx})
	})
}

func (r *voteRepository) ListByDay(ctx context.Context, day string) ([]*model.VoteRecord, error) {
	var list []*model.VoteRecord
	if err := r.db.WithContext(ctx).Where("day = ?", day).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *voteRepository) ListByUserDay(ctx context.Context, userID uint64, day string) ([]*model.VoteRecord, error) {
	var list []*model.VoteRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND day = ?", userID, day).
		Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

type voteTx struct {
	tx *gorm.DB
}

func (t *voteTx) Find(userID, restaurantID uint64, day string) (*model.VoteRecord, error) {
	var v model.VoteRecord
	err := t.tx.Where("user_id = ? AND restaurant_id = ? AND day = ?", userID, restaurantID, day).
		Limit(1).Find(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ID == 0 {
		return nil, nil
	}
	return &v, nil
}

func (t *voteTx) SumAmount(userID uint64, day string) (int, error) {
	var total int64
	if err := t.tx.Model(&model.VoteRecord{}).
		Where("user_id = ? AND day = ?", userID, day).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (t *voteTx) Create(v *model.VoteRecord) error {
	return t.tx.Create(v).Error
}

func (t *voteTx) Increment(v *model.VoteRecord, prevAmount int) error {
	res := t.tx.Model(&model.VoteRecord{}).
		Where("id = ? AND amount = ?", v.ID, prevAmount).
		Updates(map[string]interface{}{
			"amount":     v.Amount,
			"score":      v.Score,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrStaleVote
	}
	return nil
}
