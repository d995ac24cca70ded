// internal/repository/store.go
package repository

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go_easyjp_vocab/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// WordSourceStore は単語源の並びを所有するストアです。
// すべての変更は Add/Remove を経由し、変更のたびに永続化されます。
type WordSourceStore interface {
	Load() error
	EnsureDefaultSource() error
	List() []*model.WordSource
	Get(sourceID uuid.UUID) (*model.WordSource, error)
	FindByName(name string) (*model.WordSource, bool)
	Add(source *model.WordSource) error
	Remove(sourceID uuid.UUID) error
	SearchWords(query string) []model.Word
	WordsByLevel() map[string][]model.Word
	Watch() <-chan struct{}
}

type fileWordSourceStore struct {
	fs     afero.Fs
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	sources []*model.WordSource

	// 変更通知用。バッファ1で、未消化の通知はまとめられます。
	watch chan struct{}
}

// NewFileWordSourceStore はJSONファイルに永続化するストアを作成します。
func NewFileWordSourceStore(fs afero.Fs, path string, logger *slog.Logger) WordSourceStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &fileWordSourceStore{
		fs:     fs,
		path:   path,
		logger: logger,
		watch:  make(chan struct{}, 1),
	}
}

// Load は永続化済みの単語源を読み込みます。
// ファイルが存在しない場合は空のままエラーなしで戻ります。
// デコードに失敗した場合も空のまま、ErrLoad を返します（プロセスは止めない）。
func (s *fileWordSourceStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sources = nil

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		s.logger.Error("Failed to read word sources file", slog.String("path", s.path), slog.Any("error", err))
		return fmt.Errorf("%w: %v", model.ErrLoad, err)
	}

	sources, err := model.DecodeWordSources(data)
	if err != nil {
		s.logger.Error("Failed to decode word sources file", slog.String("path", s.path), slog.Any("error", err))
		return fmt.Errorf("%w: %v", model.ErrLoad, err)
	}

	s.sources = sources
	s.logger.Info("Word sources loaded", slog.Int("count", len(sources)))
	return nil
}

// EnsureDefaultSource はロード後に1件も無ければ組み込みの単語源を投入します。
func (s *fileWordSourceStore) EnsureDefaultSource() error {
	s.mu.Lock()
	if len(s.sources) > 0 {
		s.mu.Unlock()
		return nil
	}
	s.sources = append(s.sources, DefaultWordSource())
	err := s.save()
	s.mu.Unlock()

	s.notify()
	if err != nil {
		return err
	}
	s.logger.Info("Seeded default word source")
	return nil
}

func (s *fileWordSourceStore) List() []*model.WordSource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.WordSource, len(s.sources))
	copy(out, s.sources)
	return out
}

func (s *fileWordSourceStore) Get(sourceID uuid.UUID) (*model.WordSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, src := range s.sources {
		if src.SourceID == sourceID {
			return src, nil
		}
	}
	return nil, model.ErrNotFound
}

// FindByName は名前の完全一致（大文字小文字を区別）で検索します。
func (s *fileWordSourceStore) FindByName(name string) (*model.WordSource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, src := range s.sources {
		if src.Name == name {
			return src, true
		}
	}
	return nil, false
}

// Add は末尾に追加して永続化します。
// 永続化に失敗してもメモリ上の追加は維持し、ErrSave を返します。
func (s *fileWordSourceStore) Add(source *model.WordSource) error {
	s.mu.Lock()
	s.sources = append(s.sources, source)
	err := s.save()
	s.mu.Unlock()

	s.notify()
	return err
}

// Remove はIDが一致する単語源を取り除いて永続化します。存在しなければ何もしません。
func (s *fileWordSourceStore) Remove(sourceID uuid.UUID) error {
	s.mu.Lock()
	kept := s.sources[:0]
	for _, src := range s.sources {
		if src.SourceID != sourceID {
			kept = append(kept, src)
		}
	}
	s.sources = kept
	err := s.save()
	s.mu.Unlock()

	s.notify()
	return err
}

// save はメモリ上の全単語源をファイルへ書き出します。呼び出し側がロックを保持すること。
// ロック保持中に書くため、書き込みは必ず変更順に適用されます。
// 一時ファイルに書いてからリネームするので、失敗しても既存のファイルは壊れません。
func (s *fileWordSourceStore) save() error {
	sources := s.sources
	if sources == nil {
		sources = []*model.WordSource{}
	}

	data, err := json.MarshalIndent(sources, "", "  ")
	if err != nil {
		s.logger.Error("Failed to marshal word sources", slog.Any("error", err))
		return fmt.Errorf("%w: %v", model.ErrSave, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			s.logger.Error("Failed to create storage directory", slog.String("dir", dir), slog.Any("error", err))
			return fmt.Errorf("%w: %v", model.ErrSave, err)
		}
	}

	tmpPath := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, data, 0o644); err != nil {
		s.logger.Error("Failed to write word sources file", slog.String("path", tmpPath), slog.Any("error", err))
		return fmt.Errorf("%w: %v", model.ErrSave, err)
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		s.logger.Error("Failed to replace word sources file", slog.String("path", s.path), slog.Any("error", err))
		return fmt.Errorf("%w: %v", model.ErrSave, err)
	}

	return nil
}

// SearchWords は全単語源の単語を平坦化し、表記・意味・読みに対して
// 大文字小文字を区別しない部分一致で絞り込みます。空クエリは全件を返します。
func (s *fileWordSourceStore) SearchWords(query string) []model.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]model.Word, 0)
	for _, src := range s.sources {
		all = append(all, src.Words...)
	}

	if query == "" {
		return all
	}

	q := strings.ToLower(query)
	matched := make([]model.Word, 0)
	for _, w := range all {
		if strings.Contains(strings.ToLower(w.Word), q) ||
			strings.Contains(strings.ToLower(w.Meaning), q) ||
			strings.Contains(strings.ToLower(w.Pronunciation), q) {
			matched = append(matched, w)
		}
	}
	return matched
}

// WordsByLevel はレベルごとに単語を集計します。
// 各バケット内の順序は、単語源の並び順そのままです。
func (s *fileWordSourceStore) WordsByLevel() map[string][]model.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byLevel := make(map[string][]model.Word)
	for _, src := range s.sources {
		for _, w := range src.Words {
			byLevel[w.Level] = append(byLevel[w.Level], w)
		}
	}
	return byLevel
}

// Watch は変更通知チャネルを返します。Add/Remove/シード投入のたびに通知されます。
func (s *fileWordSourceStore) Watch() <-chan struct{} {
	return s.watch
}

func (s *fileWordSourceStore) notify() {
	select {
	case s.watch <- struct{}{}:
	default:
	}
}
