package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingPhoto UserState = "awaiting_photo" // Ожидание фото партии
	StateProcessing    UserState = "processing"     // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID       int64           // Telegram User ID
	ChatID   int64           // Telegram Chat ID
	State    UserState       // Текущее состояние пользователя
	Strategy SegmentStrategy // Выбранный способ сегментации, если пусто, берётся из конфигурации
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// SetStrategy запоминает способ сегментации для следующих проверок
func (u *User) SetStrategy(strategy SegmentStrategy) {
	u.Strategy = strategy
}

// ApplyTo подставляет выбранную пользователем стратегию в параметры прогона.
func (u *User) ApplyTo(params PipelineParams) PipelineParams {
	if u.Strategy != "" {
		params.Segment.Strategy = u.Strategy
	}
	return params
}
