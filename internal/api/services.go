package api

import (
	"time"

	"LunchVoter/internal/config"
	"LunchVoter/internal/interfaces"
	"LunchVoter/internal/repository"
	"LunchVoter/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Services 路由依赖的全部业务服务
type Services struct {
	Auth        *service.AuthService
	Restaurants *service.RestaurantService
	Ledger      *service.VoteLedger
	Winners     *service.WinnerEngine
	Settings    *service.SettingsService
	Location    *time.Location
	// Now 当前时间，测试中可替换
	Now func() time.Time
}

// NewServices 基于同一个 *gorm.DB 构建仓储与服务。publisher 可为 nil
func NewServices(db *gorm.DB, cfg *config.Config, loc *time.Location, publisher interfaces.WinnerPublisher, logger *logrus.Logger) *Services {
	restaurantRepo := repository.NewRestaurantRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	winnerRepo := repository.NewWinnerRepository(db)

	settings := service.NewSettingsService(repository.NewSettingsRepository(db), interfaces.VotingSettings{
		Weights:     cfg.Voting.Weights,
		DailyBudget: cfg.Voting.DailyBudget,
		CutoffHour:  cfg.Voting.CutoffHour,
	}, logger)

	return &Services{
		Auth:        service.NewAuthService(repository.NewUserRepository(db), repository.NewTokenRepository(db), cfg.Auth, logger),
		Restaurants: service.NewRestaurantService(restaurantRepo, logger),
		Ledger:      service.NewVoteLedger(restaurantRepo, voteRepo, settings, loc, logger),
		Winners:     service.NewWinnerEngine(voteRepo, winnerRepo, publisher, logger),
		Settings:    settings,
		Location:    loc,
		Now:         time.Now,
	}
}
