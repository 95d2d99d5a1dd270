package interfaces

import (
	"context"
	"time"
)

// Locker 跨副本互斥：Acquire 返回 false 表示锁已被他人持有
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release 释放本实例持有的锁，锁已过期或被他人持有时不做任何事
	Release(ctx context.Context, key string) error
}
