package service

import (
	"context"

	"go.uber.org/zap"

	"pinboard/internal/model"
	"pinboard/internal/repo"
)

// UserService — создание/обновление пользователей приложения.
type UserService struct {
	users  repo.UserRepository
	logger *zap.SugaredLogger
}

// NewUserService создаёт сервис пользователей.
func NewUserService(users repo.UserRepository, logger *zap.SugaredLogger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Upsert создаёт пользователя либо обновляет имя существующего
// (по паре внешний id + приложение) и возвращает внутренний id.
func (s *UserService) Upsert(ctx context.Context, appID, externalID, name string) (int64, error) {
	return s.users.Upsert(ctx, &model.User{ExternalID: externalID, AppID: appID, Name: name})
}
