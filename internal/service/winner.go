package service

import (
	"context"
	"fmt"
	"sort"

	"LunchVoter/internal/interfaces"
	"LunchVoter/internal/model"
	"LunchVoter/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Standing 某餐厅当天的汇总：加权总分与不同投票人数
type Standing struct {
	RestaurantID uint64
	Score        float64
	UniqueVoters int
}

// beats 先比总分，总分相同比人数
func (s Standing) beats(o Standing) bool {
	if s.Score != o.Score {
		return s.Score > o.Score
	}
	return s.UniqueVoters > o.UniqueVoters
}

// sumSorted 升序求和，分数多重集相同的餐厅总分逐位相等，不受记录顺序影响
func sumSorted(parts []float64) float64 {
	sort.Float64s(parts)
	var total float64
	for _, p := range parts {
		total += p
	}
	return total
}

// SelectWinners 按餐厅汇总投票，返回 (总分, 人数) 最大的全部餐厅，按餐厅 id 升序
func SelectWinners(votes []*model.VoteRecord) []Standing {
	if len(votes) == 0 {
		return nil
	}
	scores := make(map[uint64][]float64)
	voters := make(map[uint64]map[uint64]struct{})
	for _, v := range votes {
		scores[v.RestaurantID] = append(scores[v.RestaurantID], v.Score)
		if _, ok := voters[v.RestaurantID]; !ok {
			voters[v.RestaurantID] = make(map[uint64]struct{})
		}
		// 已注销用户的投票计分但不计人数
		if v.UserID != nil {
			voters[v.RestaurantID][*v.UserID] = struct{}{}
		}
	}

	standings := make([]Standing, 0, len(scores))
	for rid, parts := range scores {
		standings = append(standings, Standing{
			RestaurantID: rid,
			Score:        sumSorted(parts),
			UniqueVoters: len(voters[rid]),
		})
	}

	best := standings[0]
	for _, s := range standings[1:] {
		if s.beats(best) {
			best = s
		}
	}

	winners := make([]Standing, 0, 1)
	for _, s := range standings {
		if s.Score == best.Score && s.UniqueVoters == best.UniqueVoters {
			winners = append(winners, s)
		}
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i].RestaurantID < winners[j].RestaurantID })
	return winners
}

// WinnerEngine 每日获胜餐厅评选
type WinnerEngine struct {
	votes     repository.VoteRepository
	winners   repository.WinnerRepository
	publisher interfaces.WinnerPublisher
	logger    *logrus.Logger
}

// NewWinnerEngine publisher 可为 nil（不广播）
func NewWinnerEngine(votes repository.VoteRepository, winners repository.WinnerRepository, publisher interfaces.WinnerPublisher, logger *logrus.Logger) *WinnerEngine {
	return &WinnerEngine{
		votes:     votes,
		winners:   winners,
		publisher: publisher,
		logger:    logger,
	}
}

// DetermineWinner 评选 day 的获胜餐厅并写入 winner_records。
// 同一天重复执行会再写入一组记录（不去重）。
func (e *WinnerEngine) DetermineWinner(ctx context.Context, day string) ([]*model.WinnerRecord, error) {
	votes, err := e.votes.ListByDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("拉取投票失败: %w", err)
	}
	standings := SelectWinners(votes)
	if len(standings) == 0 {
		e.logger.WithField("day", day).Info("评选任务：当天无投票")
		return []*model.WinnerRecord{}, nil
	}

	runID := uuid.NewString()
	records := make([]*model.WinnerRecord, 0, len(standings))
	for _, s := range standings {
		records = append(records, &model.WinnerRecord{
			RunID:        runID,
			RestaurantID: s.RestaurantID,
			Day:          day,
			Score:        s.Score,
			UniqueVoters: s.UniqueVoters,
		})
	}
	if err := e.winners.CreateBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("写入获胜记录失败: %w", err)
	}

	if e.publisher != nil {
		if err := e.publisher.PublishWinners(ctx, day, records); err != nil {
			e.logger.WithError(err).WithFields(logrus.Fields{
				"day":    day,
				"run_id": runID,
			}).Warn("获胜通知发送失败")
		}
	}

	e.logger.WithFields(logrus.Fields{
		"day":     day,
		"run_id":  runID,
		"votes":   len(votes),
		"winners": len(records),
	}).Info("评选任务完成")
	return records, nil
}

// ListWinners 某天已落库的获胜记录
func (e *WinnerEngine) ListWinners(ctx context.Context, day string) ([]*model.WinnerRecord, error) {
	list, err := e.winners.ListByDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("查询获胜记录失败: %w", err)
	}
	return list, nil
}
