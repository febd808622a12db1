// internal/conversation/session.go
package conversation

import (
	"context"
	"time"
)

// Phase - шаг диалога логирования сделки
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingOutcome
	PhaseAwaitingSentiment
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingOutcome:
		return "awaiting_outcome"
	case PhaseAwaitingSentiment:
		return "awaiting_sentiment"
	default:
		return "idle"
	}
}

// Session - контекст диалога одного пользователя.
//
// Инварианты:
//   - PendingLink заполнен во всех фазах кроме Idle;
//   - PendingOutcome заполнен только в фазе AwaitingSentiment;
//   - поля ранних фаз не очищаются до возврата в Idle.
type Session struct {
	UserID         int64     `json:"user_id"`
	Phase          Phase     `json:"phase"`
	PendingLink    string    `json:"pending_link,omitempty"`
	PendingOutcome int       `json:"pending_outcome,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// reset возвращает сессию в исходное состояние
func (s *Session) reset() {
	s.Phase = PhaseIdle
	s.PendingLink = ""
	s.PendingOutcome = 0
}

// SessionStore - хранилище сессий диалога. Сессии создаются лениво при
// первом обращении и никогда явно не удаляются.
type SessionStore interface {
	GetOrCreate(ctx context.Context, userID int64) (*Session, error)
	Save(ctx context.Context, session *Session) error
}
