package repository

import (
	"errors"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

// ErrStaleVote 条件更新未命中：投票记录在读取后被并发修改
var ErrStaleVote = errors.New("vote record changed concurrently")

// IsDuplicateKey 唯一约束冲突（gorm 翻译后的错误或 PostgreSQL 23505）
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsNotFound 记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
