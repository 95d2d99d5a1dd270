package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"LunchVoter/internal/config"
	"LunchVoter/internal/interfaces"
	"LunchVoter/internal/model"
	"LunchVoter/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const lockKeyPrefix = "lunchvoter:winner:"

// Determiner 评选入口（WinnerEngine）
type Determiner interface {
	DetermineWinner(ctx context.Context, day string) ([]*model.WinnerRecord, error)
	ListWinners(ctx context.Context, day string) ([]*model.WinnerRecord, error)
}

// WinnerJob 每日评选任务。cron 每小时触发一次，只有当地时间的小时等于
// 当前生效的截止小时（0 即午夜）时才评选；失败的日期记入 pending，下次触发时补跑。
type WinnerJob struct {
	engine   Determiner
	settings interfaces.SettingsProvider
	locker   interfaces.Locker
	loc      *time.Location
	lockTTL  time.Duration
	logger   *logrus.Logger
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewWinnerJob 创建 WinnerJob
func NewWinnerJob(engine Determiner, settings interfaces.SettingsProvider, locker interfaces.Locker, loc *time.Location, lockTTL time.Duration, logger *logrus.Logger) *WinnerJob {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Minute
	}
	return &WinnerJob{
		engine:   engine,
		settings: settings,
		locker:   locker,
		loc:      loc,
		lockTTL:  lockTTL,
		logger:   logger,
		now:      time.Now,
		pending:  make(map[string]struct{}),
	}
}

// Run 先补跑之前失败的日期，再在截止整点评选最近一个已截止的日期
func (j *WinnerJob) Run(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	st, err := j.settings.Current(ctx)
	if err != nil {
		return err
	}
	retryErr := j.retryPending(ctx)

	now := j.now()
	if now.In(j.loc).Hour() != st.CutoffHour {
		return retryErr
	}
	day := service.ClosedDay(now, j.loc, st.CutoffHour)
	if err := j.determine(ctx, day); err != nil {
		return errors.Join(retryErr, err)
	}
	return retryErr
}

// retryPending 已有获胜记录的日期（其他副本补跑成功）直接移出 pending
func (j *WinnerJob) retryPending(ctx context.Context) error {
	days := make([]string, 0, len(j.pending))
	for day := range j.pending {
		days = append(days, day)
	}
	sort.Strings(days)

	var errs []error
	for _, day := range days {
		existing, err := j.engine.ListWinners(ctx, day)
		if err != nil {
			errs = append(errs, fmt.Errorf("查询 %s 获胜记录失败: %w", day, err))
			continue
		}
		if len(existing) > 0 {
			delete(j.pending, day)
			continue
		}
		j.logger.WithField("day", day).Info("补跑失败的评选")
		if err := j.determine(ctx, day); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// determine 拿不到锁说明其他副本正在或已经评选，直接跳过；失败时释放锁并记入 pending
func (j *WinnerJob) determine(ctx context.Context, day string) error {
	log := j.logger.WithField("day", day)
	key := lockKeyPrefix + day

	ok, err := j.locker.Acquire(ctx, key, j.lockTTL)
	if err != nil {
		return err
	}
	if !ok {
		log.Info("评选任务已由其他实例执行，跳过")
		return nil
	}

	records, err := j.engine.DetermineWinner(ctx, day)
	if err != nil {
		if rerr := j.locker.Release(ctx, key); rerr != nil {
			log.WithError(rerr).Warn("释放评选锁失败")
		}
		j.pending[day] = struct{}{}
		return fmt.Errorf("评选 %s 失败: %w", day, err)
	}
	delete(j.pending, day)
	log.WithField("winners", len(records)).Info("每日评选完成")
	return nil
}

// Pending 等待补跑的日期
func (j *WinnerJob) Pending() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	days := make([]string, 0, len(j.pending))
	for day := range j.pending {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

// Start 按 cron 表达式在投票时区触发 Run，ctx 取消后停止
func Start(ctx context.Context, job *WinnerJob, cfg config.SchedulerConfig, logger *logrus.Logger) error {
	spec := cfg.CronSpec()
	c := cron.New(cron.WithLocation(job.loc))
	_, err := c.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()
		if err := job.Run(runCtx); err != nil {
			logger.WithError(err).Error("winner job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("无效的调度表达式 %q: %w", spec, err)
	}
	c.Start()
	logger.WithFields(logrus.Fields{"cron": spec, "timezone": job.loc.String()}).Info("评选调度已启动")

	go func() {
		<-ctx.Done()
		stopCtx := c.Stop()
		<-stopCtx.Done()
		logger.Info("评选调度已停止")
	}()
	return nil
}
