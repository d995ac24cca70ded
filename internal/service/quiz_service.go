// internal/service/quiz_service.go
package service

import (
	"context"
	"log/slog"
	"sync"

	"go_easyjp_vocab/internal/model"
	"go_easyjp_vocab/internal/repository"

	"github.com/google/uuid"
)

// QuizService は練習セッションの開始と操作を提供します。
// セッションは永続化されず、プロセス内のレジストリで管理します。
type QuizService interface {
	StartSession(ctx context.Context, sourceID uuid.UUID) (model.SessionView, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (model.SessionView, error)
	SelectAnswer(ctx context.Context, sessionID uuid.UUID, answer string) (model.SessionView, error)
	Advance(ctx context.Context, sessionID uuid.UUID) (model.SessionView, error)
	Restart(ctx context.Context, sessionID uuid.UUID) (model.SessionView, error)
	EndSession(ctx context.Context, sessionID uuid.UUID) error
}

type quizService struct {
	store  repository.WordSourceStore
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*StudySession
}

func NewQuizService(store repository.WordSourceStore, logger *slog.Logger) QuizService {
	if logger == nil {
		logger = slog.Default()
	}
	return &quizService{
		store:    store,
		logger:   logger,
		sessions: make(map[uuid.UUID]*StudySession),
	}
}

// StartSession は単語源のスナップショットに対するセッションを開始します。
// 単語が1つもない単語源は ErrEmptySource で拒否されます。
func (s *quizService) StartSession(ctx context.Context, sourceID uuid.UUID) (model.SessionView, error) {
	source, err := s.store.Get(sourceID)
	if err != nil {
		return model.SessionView{}, err
	}

	session, err := NewStudySession(source)
	if err != nil {
		return model.SessionView{}, err
	}

	s.mu.Lock()
	s.sessions[session.SessionID()] = session
	s.mu.Unlock()

	s.logger.Info("Study session started",
		slog.String("session_id", session.SessionID().String()),
		slog.String("source", source.Name),
		slog.Int("words", len(source.Words)),
	)
	return session.View(), nil
}

func (s *quizService) GetSession(ctx context.Context, sessionID uuid.UUID) (model.SessionView, error) {
	session, err := s.find(sessionID)
	if err != nil {
		return model.SessionView{}, err
	}
	return session.View(), nil
}

func (s *quizService) SelectAnswer(ctx context.Context, sessionID uuid.UUID, answer string) (model.SessionView, error) {
	session, err := s.find(sessionID)
	if err != nil {
		return model.SessionView{}, err
	}
	if err := session.SelectAnswer(answer); err != nil {
		return model.SessionView{}, err
	}
	return session.View(), nil
}

func (s *quizService) Advance(ctx context.Context, sessionID uuid.UUID) (model.SessionView, error) {
	session, err := s.find(sessionID)
	if err != nil {
		return model.SessionView{}, err
	}
	if err := session.Advance(); err != nil {
		return model.SessionView{}, err
	}
	return session.View(), nil
}

func (s *quizService) Restart(ctx context.Context, sessionID uuid.UUID) (model.SessionView, error) {
	session, err := s.find(sessionID)
	if err != nil {
		return model.SessionView{}, err
	}
	session.Restart()
	return session.View(), nil
}

// EndSession はセッションを破棄します。存在しないIDはエラーになります。
func (s *quizService) EndSession(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return model.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	s.logger.Info("Study session ended", slog.String("session_id", sessionID.String()))
	return nil
}

func (s *quizService) find(sessionID uuid.UUID) (*StudySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}
