package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"LunchVoter/internal/api"
	"LunchVoter/internal/config"
	"LunchVoter/internal/database"
	"LunchVoter/internal/interfaces"
	"LunchVoter/internal/notify"
	"LunchVoter/internal/scheduler"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logrusLogger := logrus.New()
	logrusLogger.SetLevel(logrus.InfoLevel)
	debug := cfg.Server.Mode == gin.DebugMode
	if debug {
		logrusLogger.SetLevel(logrus.DebugLevel)
	}
	logrusLogger.Info("配置文件加载成功")

	loc, err := cfg.Voting.Location()
	if err != nil {
		logrusLogger.Fatalf("解析投票时区失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 初始化 PostgreSQL 连接（库不存在则先创建再连）并迁移表结构
	db, err := database.Open(cfg.Postgres, debug, logrusLogger)
	if err != nil {
		logrusLogger.Fatalf("%v", err)
	}
	logrusLogger.Info("PostgreSQL连接成功")
	if err := database.Migrate(db); err != nil {
		logrusLogger.Fatalf("数据库表结构迁移失败: %v", err)
	}
	logrusLogger.Info("数据库表结构检查完成（不存在则已创建）")

	// 4. 获胜通知：配置了 kafka brokers 才启用
	var publisher interfaces.WinnerPublisher = notify.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := notify.NewKafkaPublisher(cfg.Kafka, logrusLogger)
		defer func() {
			if err := kp.Close(); err != nil {
				logrusLogger.WithError(err).Warn("关闭 kafka writer 失败")
			}
		}()
		publisher = kp
		logrusLogger.Infof("获胜通知写入 kafka topic: %s", cfg.Kafka.Topic)
	}

	svc := api.NewServices(db, cfg, loc, publisher, logrusLogger)

	// 5. 每日评选调度：多副本部署时用 redis 锁保证同一天只评选一次
	if cfg.Scheduler.Enabled {
		var locker interfaces.Locker = scheduler.NewLocalLocker()
		if cfg.Redis.Addr != "" {
			rdb, err := scheduler.NewRedisClient(ctx, cfg.Redis)
			if err != nil {
				logrusLogger.Fatalf("%v", err)
			}
			defer rdb.Close()
			locker = scheduler.NewRedisLocker(rdb)
			logrusLogger.Info("Redis连接成功，评选任务使用分布式锁")
		}
		job := scheduler.NewWinnerJob(svc.Winners, svc.Settings, locker, loc, cfg.Scheduler.LockTTL, logrusLogger)
		if err := scheduler.Start(ctx, job, cfg.Scheduler, logrusLogger); err != nil {
			logrusLogger.Fatalf("启动评选调度失败: %v", err)
		}
	}

	// 6. 配置Gin运行模式（从配置读取：debug/release）
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	if debug {
		// 注册ppof 方便调试和监测性能问题
		pprof.Register(r)
	}
	logrusLogger.Infof("Gin运行模式: %s", cfg.Server.Mode)

	// 7. 注册API路由
	api.SetupRoutes(r, db, svc, logrusLogger)

	// 8. 启动服务，收到退出信号后优雅关闭
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrusLogger.Infof("服务启动成功，端口：%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrusLogger.Fatalf("启动服务失败: %v", err)
		}
	}()

	<-ctx.Done()
	logrusLogger.Info("收到退出信号，正在关闭服务…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrusLogger.WithError(err).Error("服务关闭失败")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logrusLogger.Info("服务已退出")
}
