// internal/service/exporter_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go_easyjp_vocab/internal/model"
	"go_easyjp_vocab/internal/repository"

	"github.com/google/uuid"
)

// ExportFile はエクスポート結果（バイト列と推奨ファイル名）です。
type ExportFile struct {
	FileName string
	Data     []byte
}

// ExporterService は単語源のJSONエクスポートを提供します。ストアは変更しません。
type ExporterService interface {
	Export(ctx context.Context, sourceID uuid.UUID) (*ExportFile, error)
}

type exporterService struct {
	store    repository.WordSourceStore
	errState *ErrorState
	logger   *slog.Logger
	now      func() time.Time
}

func NewExporterService(store repository.WordSourceStore, errState *ErrorState, logger *slog.Logger) ExporterService {
	if logger == nil {
		logger = slog.Default()
	}
	return &exporterService{
		store:    store,
		errState: errState,
		logger:   logger,
		now:      time.Now,
	}
}

// Export は単語源全体を整形済みJSONへ直列化します。
// 日付はISO-8601、フィールド順はデータモデルの定義順で固定です。
// ファイル名は「{名前}_{UNIX秒}.json」で一意性を持たせます。
func (s *exporterService) Export(ctx context.Context, sourceID uuid.UUID) (*ExportFile, error) {
	source, err := s.store.Get(sourceID)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(source, "", "  ")
	if err != nil {
		serr := fmt.Errorf("%w: %v", model.ErrSerialize, err)
		s.errState.Set(serr)
		return nil, serr
	}

	fileName := fmt.Sprintf("%s_%d.json", source.Name, s.now().Unix())
	s.logger.Info("Word source exported", slog.String("name", source.Name), slog.String("file", fileName))

	return &ExportFile{FileName: fileName, Data: data}, nil
}
