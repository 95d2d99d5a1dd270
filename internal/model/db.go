package model

import (
	"time"
)

// User 投票用户（鉴权只依赖 id）
type User struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"column:username;type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"column:email;type:varchar(254)" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(128);not null" json:"-"`
	IsAdmin      bool      `gorm:"column:is_admin;default:false" json:"is_admin"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// Restaurant 餐厅。删除时级联删除其投票与获胜记录
type Restaurant struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(128);uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"column:description;type:varchar(256)" json:"description"`
	Link        *string   `gorm:"column:link;type:varchar(200)" json:"link"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// RevokedToken 已注销的 JWT（按 jti）
type RevokedToken struct {
	JTI       string    `gorm:"column:jti;type:varchar(64);primaryKey"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null"`
}

func (User) TableName() string         { return "users" }
func (Restaurant) TableName() string   { return "restaurants" }
func (RevokedToken) TableName() string { return "revoked_tokens" }
