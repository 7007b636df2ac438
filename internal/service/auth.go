package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/social-feed/internal/apperror"
	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/repository"
)

// Identity 经过认证的请求身份；核心读路径允许其缺席（匿名浏览）
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AuthService 身份协作方：注册、登录与令牌解析。
// 信息流核心只消费它给出的 Identity，不触碰会话的产生。
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	secret      []byte
	sessionTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, secret string, sessionTTL time.Duration) *AuthService {
	return &AuthService{userRepo: userRepo, sessionRepo: sessionRepo, secret: []byte(secret), sessionTTL: sessionTTL}
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Register 创建用户；用户名大小写敏感且唯一
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.Validation("username", "username is required")
	}
	if len(password) < 8 {
		return nil, apperror.Validation("password", "password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if existing != nil {
		return nil, apperror.Validation("username", "username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.Storage(err)
	}
	return user, nil
}

// Login 校验口令，落一条会话并返回携带会话 ID 的签名令牌
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", apperror.Storage(err)
	}
	if user == nil {
		return "", apperror.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperror.Unauthorized("invalid credentials")
	}

	expiresAt := time.Now().Add(s.sessionTTL)
	session := &model.Session{ID: uuid.New().String(), UserID: user.ID, ExpiresAt: expiresAt}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", apperror.Storage(err)
	}

	claims := sessionClaims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperror.Storage(err)
	}
	return signed, nil
}

// Identify 解析令牌并核对会话；过期会话顺手清掉
func (s *AuthService) Identify(ctx context.Context, tokenString string) (*Identity, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.Unauthorized("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized("invalid token")
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if session == nil {
		return nil, apperror.Unauthorized("session not found")
	}
	if time.Now().After(session.ExpiresAt) {
		_ = s.sessionRepo.Delete(ctx, session.ID)
		return nil, apperror.Unauthorized("session expired")
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if user == nil {
		return nil, apperror.Unauthorized("user not found")
	}
	return &Identity{ID: user.ID, Username: user.Username}, nil
}
