package testutil

import (
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"LunchVoter/internal/config"
	"LunchVoter/internal/database"
	"LunchVoter/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 每个测试一个独立的内存 SQLite 库，已完成迁移。
// 只开一个连接：并发事务在连接池上排队，相当于 PostgreSQL 的用户行锁。
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// SetupPostgresDB 连接 POSTGRES_TEST_DSN 指向的库，迁移并清空全部表；未设置时跳过测试。
// 用于验证行锁等 SQLite 无法体现的并发语义。
func SetupPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	db, err := database.Open(config.PostgresConfig{
		DSN:             dsn,
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
	}, false, Logger())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, db.Exec("TRUNCATE vote_records, winner_records, revoked_tokens, voting_settings, restaurants, users RESTART IDENTITY CASCADE").Error)
	return db
}

// Logger 丢弃输出的 logrus logger
func Logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// CreateUser 插入测试用户
func CreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateRestaurant 插入测试餐厅
func CreateRestaurant(t *testing.T, db *gorm.DB, name string) *model.Restaurant {
	t.Helper()
	r := &model.Restaurant{Name: name}
	require.NoError(t, db.Create(r).Error)
	return r
}

// CreateVote 直接写入一条投票记录；userID 为 nil 表示已注销用户
func CreateVote(t *testing.T, db *gorm.DB, userID *uint64, restaurantID uint64, day string, amount int, score float64) *model.VoteRecord {
	t.Helper()
	v := &model.VoteRecord{
		UserID:       userID,
		RestaurantID: restaurantID,
		Day:          day,
		Amount:       amount,
		Score:        score,
	}
	require.NoError(t, db.Omit("User", "Restaurant").Create(v).Error)
	return v
}

// Ptr 取地址
func Ptr[T any](v T) *T { return &v }
