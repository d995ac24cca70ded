// internal/handlers/handlers_test.go
package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go_easyjp_vocab/internal/repository"
	"go_easyjp_vocab/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
)

// testEnv はハンドラテスト用に実サービス一式をインメモリFS上に組み立てます。
type testEnv struct {
	router   *chi.Mux
	fs       afero.Fs
	store    repository.WordSourceStore
	errState *service.ErrorState
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fs := afero.NewMemMapFs()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))
	store := repository.NewFileWordSourceStore(fs, "data/word_sources.json", logger)
	errState := service.NewErrorState()

	vocab := service.NewVocabService(store, errState, logger)
	importer := service.NewImporterService(fs, store, 5*time.Second, errState, logger)
	exporter := service.NewExporterService(store, errState, logger)
	quiz := service.NewQuizService(store, logger)

	sourceHandler := NewSourceHandler(vocab, exporter, logger)
	importHandler := NewImportHandler(importer, errState, logger)
	quizHandler := NewQuizHandler(quiz, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sources", func(r chi.Router) {
			r.Get("/", sourceHandler.GetSources)
			r.Post("/", sourceHandler.PostSource)
			r.Delete("/{source_id}", sourceHandler.DeleteSource)
			r.Get("/{source_id}/export", sourceHandler.ExportSource)
		})
		r.Route("/imports", func(r chi.Router) {
			r.Post("/file", importHandler.PostImportFile)
			r.Post("/url", importHandler.PostImportURL)
		})
		r.Get("/words", sourceHandler.GetWords)
		r.Get("/levels", sourceHandler.GetLevels)
		r.Get("/error", importHandler.GetCurrentError)
		r.Delete("/error", importHandler.DeleteCurrentError)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", quizHandler.PostSession)
			r.Get("/{session_id}", quizHandler.GetSession)
			r.Post("/{session_id}/answer", quizHandler.PostAnswer)
			r.Post("/{session_id}/advance", quizHandler.PostAdvance)
			r.Post("/{session_id}/restart", quizHandler.PostRestart)
			r.Delete("/{session_id}", quizHandler.DeleteSession)
		})
	})

	return &testEnv{router: r, fs: fs, store: store, errState: errState}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
