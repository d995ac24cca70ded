// internal/handlers/source_handler.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"go_easyjp_vocab/internal/model"
	"go_easyjp_vocab/internal/service"
	"go_easyjp_vocab/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SourceHandler struct {
	vocab    service.VocabService
	exporter service.ExporterService
	logger   *slog.Logger
}

func NewSourceHandler(vocab service.VocabService, exporter service.ExporterService, logger *slog.Logger) *SourceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceHandler{
		vocab:    vocab,
		exporter: exporter,
		logger:   logger,
	}
}

// GetSources は単語源の一覧を返すハンドラ
func (h *SourceHandler) GetSources(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSources"))

	sources := h.vocab.ListSources(r.Context())
	resp := make([]model.WordSourceResponse, 0, len(sources))
	for _, s := range sources {
		resp = append(resp, model.NewWordSourceResponse(s))
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// PostSource は単語源を手動作成するハンドラ
func (h *SourceHandler) PostSource(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostSource"))

	var req model.PostSourceRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if appErr := webutil.ValidateStruct(req); appErr != nil {
		logger.Warn("Validation failed", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}

	source, err := h.vocab.AddSource(r.Context(), &req)
	if err != nil {
		logger.Error("Error adding word source in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Word source created", slog.String("source_id", source.SourceID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, model.NewWordSourceResponse(source), logger)
}

// DeleteSource は単語源を削除するハンドラ
func (h *SourceHandler) DeleteSource(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteSource"))

	sourceID, appErr := parseSourceID(r)
	if appErr != nil {
		logger.Warn("Invalid source ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := h.vocab.RemoveSource(r.Context(), sourceID); err != nil {
		logger.Error("Error removing word source in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportSource は単語源をJSONファイルとしてダウンロードさせるハンドラ
func (h *SourceHandler) ExportSource(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ExportSource"))

	sourceID, appErr := parseSourceID(r)
	if appErr != nil {
		logger.Warn("Invalid source ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}

	file, err := h.exporter.Export(r.Context(), sourceID)
	if err != nil {
		logger.Error("Error exporting word source", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

// GetWords は全単語源を横断した単語検索のハンドラ。qが空なら全件です。
func (h *SourceHandler) GetWords(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetWords"))

	query := r.URL.Query().Get("q")
	words := h.vocab.SearchWords(r.Context(), query)

	resp := make([]model.WordResponse, 0, len(words))
	for _, word := range words {
		resp = append(resp, model.NewWordResponse(word))
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// GetLevels はレベル別に集計した単語を返すハンドラ
func (h *SourceHandler) GetLevels(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetLevels"))

	byLevel := h.vocab.WordsByLevel(r.Context())
	resp := make(map[string][]model.WordResponse, len(byLevel))
	for level, words := range byLevel {
		bucket := make([]model.WordResponse, 0, len(words))
		for _, word := range words {
			bucket = append(bucket, model.NewWordResponse(word))
		}
		resp[level] = bucket
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func parseSourceID(r *http.Request) (uuid.UUID, *model.AppError) {
	idStr := chi.URLParam(r, "source_id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_URL_PARAM", "source_idの形式が正しくありません。", "source_id", model.ErrInvalidInput)
	}
	return id, nil
}
