package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"

	"LunchVoter/internal/config"

	"github.com/jackc/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const bootstrapTimeout = 10 * time.Second

// maintenanceDSN 把 DSN 的库名换成 postgres，返回原库名；库名为空或本身就是 postgres 时返回 ""
func maintenanceDSN(dsn string) (string, string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", "", fmt.Errorf("解析DSN失败: %w", err)
	}
	name := strings.TrimSpace(strings.TrimPrefix(u.Path, "/"))
	if name == "" || name == "postgres" {
		return "", "", nil
	}
	u.Path = "/postgres"
	return u.String(), name, nil
}

// quoteIdent 按 PostgreSQL 规则给标识符加双引号
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// createDatabase 在维护库上建目标库，已存在则什么也不做
func createDatabase(ctx context.Context, dsn string) error {
	admin, name, err := maintenanceDSN(dsn)
	if err != nil || name == "" {
		return err
	}
	conn, err := sql.Open("pgx", admin)
	if err != nil {
		return err
	}
	defer conn.Close()

	var exists bool
	if err := conn.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", name).Scan(&exists); err != nil {
		return fmt.Errorf("查询 pg_database 失败: %w", err)
	}
	if exists {
		return nil
	}
	if _, err := conn.ExecContext(ctx, "CREATE DATABASE "+quoteIdent(name)); err != nil {
		return fmt.Errorf("CREATE DATABASE %s: %w", name, err)
	}
	return nil
}

func isMissingDatabase(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "3D000"
	}
	return strings.Contains(err.Error(), "3D000") || strings.Contains(err.Error(), "does not exist")
}

// Open 连接 PostgreSQL（库不存在则先创建再连），并按配置设置连接池
func Open(cfg config.PostgresConfig, debug bool, log *logrus.Logger) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	if err != nil {
		if isMissingDatabase(err) {
			log.Info("目标数据库不存在，尝试自动创建…")
			ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
			e := createDatabase(ctx, cfg.DSN)
			cancel()
			if e != nil {
				return nil, fmt.Errorf("创建数据库失败: %w", e)
			}
			db, err = gorm.Open(postgres.Open(cfg.DSN), gormCfg)
		}
		if err != nil {
			return nil, fmt.Errorf("连接PostgreSQL失败: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}
