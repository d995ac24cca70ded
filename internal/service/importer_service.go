// internal/service/importer_service.go
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go_easyjp_vocab/internal/model"
	"go_easyjp_vocab/internal/repository"

	"github.com/spf13/afero"
)

// ImportResult はインポート1件の完了通知です。
type ImportResult struct {
	Source *model.WordSource
	Err    error
}

// ImporterService はローカルファイル・リモートURLからの単語源インポートを提供します。
// どちらも呼び出し元をブロックせず、完了はチャネルで1回だけ通知されます。
type ImporterService interface {
	ImportFromFile(ctx context.Context, path string) <-chan ImportResult
	ImportFromURL(ctx context.Context, rawURL string) <-chan ImportResult
}

type importerService struct {
	fs       afero.Fs
	store    repository.WordSourceStore
	client   *http.Client
	errState *ErrorState
	logger   *slog.Logger
}

func NewImporterService(fs afero.Fs, store repository.WordSourceStore, timeout time.Duration, errState *ErrorState, logger *slog.Logger) ImporterService {
	if logger == nil {
		logger = slog.Default()
	}
	return &importerService{
		fs:       fs,
		store:    store,
		client:   &http.Client{Timeout: timeout},
		errState: errState,
		logger:   logger,
	}
}

// ImportFromFile はローカルのJSONファイルを単一の WordSource としてデコードし、ストアに追加します。
// 失敗した場合はストアに何も追加しません。
func (s *importerService) ImportFromFile(ctx context.Context, path string) <-chan ImportResult {
	result := make(chan ImportResult, 1)

	go func() {
		defer close(result)
		result <- s.deliver(s.importFile(ctx, path))
	}()

	return result
}

func (s *importerService) importFile(ctx context.Context, path string) ImportResult {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return ImportResult{Err: fmt.Errorf("%w: %v", model.ErrIO, err)}
	}

	source, err := model.DecodeWordSource(data)
	if err != nil {
		return ImportResult{Err: err}
	}

	// キャンセル済みならストアには触れない
	if err := ctx.Err(); err != nil {
		return ImportResult{Err: fmt.Errorf("%w: %v", model.ErrIO, err)}
	}

	if err := s.store.Add(source); err != nil {
		return ImportResult{Source: source, Err: err}
	}

	s.logger.Info("Word source imported from file",
		slog.String("path", path),
		slog.String("name", source.Name),
		slog.Int("words", len(source.Words)),
	)
	return ImportResult{Source: source}
}

// ImportFromURL はリモートURLへGETを1回発行し、単一の WordSource としてデコードします。
// URLが不正な場合はネットワークアクセスを行わず即座に失敗します。
// 既に同名（完全一致）の単語源がある場合は追加せずに失敗します。
func (s *importerService) ImportFromURL(ctx context.Context, rawURL string) <-chan ImportResult {
	result := make(chan ImportResult, 1)

	u, err := url.Parse(rawURL)
	if rawURL == "" || err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		result <- s.deliver(ImportResult{Err: fmt.Errorf("%w: %q", model.ErrInvalidURL, rawURL)})
		close(result)
		return result
	}

	go func() {
		defer close(result)
		result <- s.deliver(s.importRemote(ctx, u.String()))
	}()

	return result
}

func (s *importerService) importRemote(ctx context.Context, remoteURL string) ImportResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return ImportResult{Err: fmt.Errorf("%w: %v", model.ErrInvalidURL, err)}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		// タイムアウト・キャンセルもネットワーク失敗として扱う
		return ImportResult{Err: fmt.Errorf("%w: %v", model.ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ImportResult{Err: &model.HTTPStatusError{StatusCode: resp.StatusCode}}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ImportResult{Err: fmt.Errorf("%w: %v", model.ErrNetwork, err)}
	}
	if len(data) == 0 {
		return ImportResult{Err: model.ErrEmptyBody}
	}

	source, err := model.DecodeWordSource(data)
	if err != nil {
		return ImportResult{Err: err}
	}

	// リモートインポートのみ、名前の完全一致で重複を拒否する
	if _, exists := s.store.FindByName(source.Name); exists {
		return ImportResult{Err: fmt.Errorf("%w: %s", model.ErrDuplicateName, source.Name)}
	}

	// キャンセル済みならストアには触れない
	if err := ctx.Err(); err != nil {
		return ImportResult{Err: fmt.Errorf("%w: %v", model.ErrNetwork, err)}
	}

	if err := s.store.Add(source); err != nil {
		return ImportResult{Source: source, Err: err}
	}

	s.logger.Info("Word source imported from url",
		slog.String("url", remoteURL),
		slog.String("name", source.Name),
		slog.Int("words", len(source.Words)),
	)
	return ImportResult{Source: source}
}

// deliver は失敗を直近エラーとして記録してから結果を返します。
func (s *importerService) deliver(res ImportResult) ImportResult {
	if res.Err != nil {
		s.logger.Warn("Import failed", slog.Any("error", res.Err))
		s.errState.Set(res.Err)
	}
	return res
}
