package app

import (
	"context"
	"fmt"

	"produce-inspector/internal/domain/entity"
	"produce-inspector/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SetStrategy меняет способ сегментации для пользователя.
func (s *UserService) SetStrategy(ctx context.Context, userID, chatID int64, strategy entity.SegmentStrategy) (*entity.User, error) {
	switch strategy {
	case entity.StrategyColorRange, entity.StrategyIntensityThreshold:
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", entity.ErrInvalidInput, strategy)
	}

	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetStrategy(strategy)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// Reset возвращает пользователя к настройкам по умолчанию.
func (s *UserService) Reset(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	if err := s.repo.Reset(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, chatID)
}
