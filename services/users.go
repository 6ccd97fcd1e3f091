package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TimeCanvasGo/config"
	"TimeCanvasGo/models"
	"TimeCanvasGo/store"
)

var ErrNotAuthenticated = errors.New("user not authenticated")

// UserService 确保身份提供方的用户在本地 users 表中存在
type UserService struct {
	store *store.Store
}

func NewUserService(s *store.Store) *UserService {
	return &UserService{store: s}
}

// EnsureUser 查找或创建用户，并发创建导致的唯一约束冲突视为成功
func (s *UserService) EnsureUser(ctx context.Context, userID, email string) (models.User, error) {
	if userID == "" {
		return models.User{}, ErrNotAuthenticated
	}

	row, found, err := s.store.FindUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if found {
		return models.UserFromRow(row)
	}

	if email == "" {
		email = models.PlaceholderEmail(userID)
	}
	config.Logger.Infow("创建用户", "userID", userID, "email", email)

	user := models.User{ID: userID, Email: email, CreatedAt: time.Now().UTC()}
	created, err := s.store.InsertUser(ctx, user.Row())
	if errors.Is(err, store.ErrDuplicate) {
		config.Logger.Infow("用户已被并发创建，继续", "userID", userID)
		row, found, err = s.store.FindUser(ctx, userID)
		if err != nil {
			return models.User{}, err
		}
		if !found {
			return models.User{}, fmt.Errorf("ensure user %s: duplicate reported but row missing", userID)
		}
		return models.UserFromRow(row)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("ensure user %s: %w", userID, err)
	}
	return models.UserFromRow(created)
}
