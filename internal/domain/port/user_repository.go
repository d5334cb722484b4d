package port

import (
	"context"

	"produce-inspector/internal/domain/entity"
)

// UserRepository интерфейс хранилища сессий чата
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет состояние и выбранную стратегию пользователя
	Save(ctx context.Context, user *entity.User) error

	// Reset забывает пользователя, следующий Get вернёт сессию по умолчанию
	Reset(ctx context.Context, userID int64) error
}
