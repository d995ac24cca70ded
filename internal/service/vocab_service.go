// internal/service/vocab_service.go
package service

import (
	"context"
	"log/slog"
	"time"

	"go_easyjp_vocab/internal/model"
	"go_easyjp_vocab/internal/repository"

	"github.com/google/uuid"
)

// VocabService は単語源と単語の照会・編集を提供します。
type VocabService interface {
	ListSources(ctx context.Context) []*model.WordSource
	GetSource(ctx context.Context, sourceID uuid.UUID) (*model.WordSource, error)
	AddSource(ctx context.Context, req *model.PostSourceRequest) (*model.WordSource, error)
	RemoveSource(ctx context.Context, sourceID uuid.UUID) error
	SearchWords(ctx context.Context, query string) []model.Word
	WordsByLevel(ctx context.Context) map[string][]model.Word
}

type vocabService struct {
	store    repository.WordSourceStore
	errState *ErrorState
	logger   *slog.Logger
}

func NewVocabService(store repository.WordSourceStore, errState *ErrorState, logger *slog.Logger) VocabService {
	if logger == nil {
		logger = slog.Default()
	}
	return &vocabService{
		store:    store,
		errState: errState,
		logger:   logger,
	}
}

func (s *vocabService) ListSources(ctx context.Context) []*model.WordSource {
	return s.store.List()
}

func (s *vocabService) GetSource(ctx context.Context, sourceID uuid.UUID) (*model.WordSource, error) {
	return s.store.Get(sourceID)
}

// AddSource は手動作成の単語源を追加します。
// 手動作成では名前の重複チェックは行いません（リモートインポートのみ対象）。
// 永続化に失敗した場合もメモリ上の追加は残し、エラーを返します。
func (s *vocabService) AddSource(ctx context.Context, req *model.PostSourceRequest) (*model.WordSource, error) {
	source := req.ToWordSource(time.Now())

	if err := s.store.Add(source); err != nil {
		s.logger.Error("Failed to persist added word source", slog.String("name", source.Name), slog.Any("error", err))
		s.errState.Set(err)
		return source, err
	}

	s.logger.Info("Word source added", slog.String("name", source.Name), slog.Int("words", len(source.Words)))
	return source, nil
}

func (s *vocabService) RemoveSource(ctx context.Context, sourceID uuid.UUID) error {
	if err := s.store.Remove(sourceID); err != nil {
		s.logger.Error("Failed to persist word source removal", slog.String("source_id", sourceID.String()), slog.Any("error", err))
		s.errState.Set(err)
		return err
	}

	s.logger.Info("Word source removed", slog.String("source_id", sourceID.String()))
	return nil
}

func (s *vocabService) SearchWords(ctx context.Context, query string) []model.Word {
	return s.store.SearchWords(query)
}

func (s *vocabService) WordsByLevel(ctx context.Context) map[string][]model.Word {
	return s.store.WordsByLevel()
}
