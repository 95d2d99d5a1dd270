package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"LunchVoter/internal/config"
	"LunchVoter/internal/model"
	"LunchVoter/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest 注册
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest 登录
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse 注册/登录返回
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Claims JWT 载荷；Subject 为用户 id，ID 为 jti（注销时按 jti 吊销）
type Claims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"adm,omitempty"`
	jwt.RegisteredClaims
}

// UserID 解析 Subject
func (c *Claims) UserID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

// AuthService 注册、登录、注销与 token 校验
type AuthService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	secret []byte
	expire time.Duration
	admins map[string]struct{}
	logger *logrus.Logger
}

// NewAuthService 创建 AuthService
func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, cfg config.AuthConfig, logger *logrus.Logger) *AuthService {
	admins := make(map[string]struct{}, len(cfg.AdminUsernames))
	for _, name := range cfg.AdminUsernames {
		admins[strings.TrimSpace(name)] = struct{}{}
	}
	expire := cfg.JWTExpire
	if expire <= 0 {
		expire = 24 * time.Hour
	}
	return &AuthService{
		users:  users,
		tokens: tokens,
		secret: []byte(cfg.JWTSecret),
		expire: expire,
		admins: admins,
		logger: logger,
	}
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}
	_, isAdmin := s.admins[username]
	user := &model.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hashed),
		IsAdmin:      isAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

// Logout 吊销当前 token
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	exp := time.Now().Add(s.expire)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	if err := s.tokens.Revoke(ctx, claims.ID, exp); err != nil {
		return fmt.Errorf("注销 token 失败: %w", err)
	}
	return nil
}

// DeleteAccount 删除用户；其投票记录保留但不再关联用户
func (s *AuthService) DeleteAccount(ctx context.Context, claims *Claims) error {
	uid, err := claims.UserID()
	if err != nil {
		return ErrInvalidToken
	}
	if err := s.users.Delete(ctx, uid); err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("删除用户失败: %w", err)
	}
	if err := s.Logout(ctx, claims); err != nil {
		s.logger.WithError(err).WithField("user_id", uid).Warn("删除用户后吊销 token 失败")
	}
	s.logger.WithField("user_id", uid).Info("user deleted")
	return nil
}

// ParseToken 校验签名、过期时间与吊销状态
func (s *AuthService) ParseToken(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("查询 token 状态失败: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) issue(user *model.User) (*TokenResponse, error) {
	now := time.Now()
	exp := now.Add(s.expire)
	claims := &Claims{
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("签发 token 失败: %w", err)
	}
	return &TokenResponse{Token: signed, ExpiresAt: exp}, nil
}

// IsInvalidToken 供中间件区分 401 与 500
func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}
