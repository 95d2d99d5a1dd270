package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"LunchVoter/internal/interfaces"
	"LunchVoter/internal/model"
	"LunchVoter/internal/repository"

	"github.com/sirupsen/logrus"
)

// VoteLedger 投票账本：截止时间、每日预算与加权累计
type VoteLedger struct {
	restaurants repository.RestaurantRepository
	votes       repository.VoteRepository
	settings    interfaces.SettingsProvider
	loc         *time.Location
	logger      *logrus.Logger
}

// NewVoteLedger 创建 VoteLedger；loc 决定“当天”和截止小时的时区
func NewVoteLedger(
	restaurants repository.RestaurantRepository,
	votes repository.VoteRepository,
	settings interfaces.SettingsProvider,
	loc *time.Location,
	logger *logrus.Logger,
) *VoteLedger {
	if loc == nil {
		loc = time.Local
	}
	return &VoteLedger{
		restaurants: restaurants,
		votes:       votes,
		settings:    settings,
		loc:         loc,
		logger:      logger,
	}
}

// CastVote 为 userID 给 restaurantID 投一票。
// 同一用户的所有投票在用户行锁下串行执行，预算检查与累加在同一事务内完成；任何错误都不改动账本。
func (l *VoteLedger) CastVote(ctx context.Context, userID, restaurantID uint64, now time.Time) (*model.VoteRecord, error) {
	if _, err := l.restaurants.GetByID(ctx, restaurantID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("查询餐厅失败: %w", err)
	}

	st, err := l.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	local := now.In(l.loc)
	if st.CutoffHour > 0 && local.Hour() >= st.CutoffHour {
		return nil, ErrVotingClosed
	}
	day := local.Format(DayLayout)

	var result *model.VoteRecord
	err = l.votes.WithUserLock(ctx, userID, func(tx repository.VoteTx) error {
		used, err := tx.SumAmount(userID, day)
		if err != nil {
			return err
		}
		if used >= st.DailyBudget {
			return ErrBudgetExceeded
		}

		rec, err := tx.Find(userID, restaurantID, day)
		if err != nil {
			return err
		}
		if rec == nil {
			uid := userID
			rec = &model.VoteRecord{
				UserID:       &uid,
				RestaurantID: restaurantID,
				Day:          day,
				Amount:       1,
				Score:        Weight(st.Weights, 0),
			}
			if err := tx.Create(rec); err != nil {
				if repository.IsDuplicateKey(err) {
					return ErrVoteConflict
				}
				return err
			}
			result = rec
			return nil
		}

		prev := rec.Amount
		rec.Amount = prev + 1
		rec.Score += Weight(st.Weights, rec.Amount-1)
		if err := tx.Increment(rec, prev); err != nil {
			if errors.Is(err, repository.ErrStaleVote) {
				return ErrVoteConflict
			}
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBudgetExceeded), errors.Is(err, ErrVoteConflict):
			return nil, err
		case repository.IsNotFound(err):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("记录投票失败: %w", err)
	}

	l.logger.WithFields(logrus.Fields{
		"user_id":       userID,
		"restaurant_id": restaurantID,
		"day":           day,
		"amount":        result.Amount,
		"score":         result.Score,
	}).Debug("vote recorded")
	return result, nil
}

// DailyUsage 用户当天的投票情况
type DailyUsage struct {
	Day       string              `json:"day"`
	Used      int                 `json:"used"`
	Budget    int                 `json:"budget"`
	Remaining int                 `json:"remaining"`
	Closed    bool                `json:"closed"`
	Votes     []*model.VoteRecord `json:"votes"`
}

// TodayUsage 返回 userID 在 now 当天的投票记录与剩余预算
func (l *VoteLedger) TodayUsage(ctx context.Context, userID uint64, now time.Time) (*DailyUsage, error) {
	st, err := l.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	local := now.In(l.loc)
	day := local.Format(DayLayout)
	votes, err := l.votes.ListByUserDay(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("查询当日投票失败: %w", err)
	}
	used := 0
	for _, v := range votes {
		used += v.Amount
	}
	remaining := st.DailyBudget - used
	if remaining < 0 {
		remaining = 0
	}
	return &DailyUsage{
		Day:       day,
		Used:      used,
		Budget:    st.DailyBudget,
		Remaining: remaining,
		Closed:    st.CutoffHour > 0 && local.Hour() >= st.CutoffHour,
		Votes:     votes,
	}, nil
}
