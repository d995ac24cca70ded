// internal/handlers/quiz_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_easyjp_vocab/internal/model"
	"go_easyjp_vocab/internal/service"
	"go_easyjp_vocab/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type QuizHandler struct {
	quiz   service.QuizService
	logger *slog.Logger
}

func NewQuizHandler(quiz service.QuizService, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizHandler{
		quiz:   quiz,
		logger: logger,
	}
}

// PostSession は練習セッションを開始するハンドラ
func (h *QuizHandler) PostSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostSession"))

	var req model.StartSessionRequest
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

	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "source_idの形式が正しくありません。", "source_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	view, err := h.quiz.StartSession(r.Context(), sourceID)
	if err != nil {
		logger.Warn("Failed to start study session", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Study session created", slog.String("session_id", view.SessionID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, view, logger)
}

// GetSession は現在のセッション状態を返すハンドラ
func (h *QuizHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSession"))

	sessionID, appErr := parseSessionID(r)
	if appErr != nil {
		webutil.HandleError(w, logger, appErr)
		return
	}

	view, err := h.quiz.GetSession(r.Context(), sessionID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, view, logger)
}

// PostAnswer は回答を記録するハンドラ
func (h *QuizHandler) PostAnswer(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostAnswer"))

	sessionID, appErr := parseSessionID(r)
	if appErr != nil {
		webutil.HandleError(w, logger, appErr)
		return
	}

	var req model.AnswerRequest
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

	view, err := h.quiz.SelectAnswer(r.Context(), sessionID, req.Answer)
	if err != nil {
		logger.Warn("Failed to record answer", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, view, logger)
}

// PostAdvance は次の単語へ進める（最後なら結果確定）ハンドラ
func (h *QuizHandler) PostAdvance(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostAdvance"))

	sessionID, appErr := parseSessionID(r)
	if appErr != nil {
		webutil.HandleError(w, logger, appErr)
		return
	}

	view, err := h.quiz.Advance(r.Context(), sessionID)
	if err != nil {
		logger.Warn("Failed to advance session", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, view, logger)
}

// PostRestart はセッションを最初からやり直すハンドラ
func (h *QuizHandler) PostRestart(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostRestart"))

	sessionID, appErr := parseSessionID(r)
	if appErr != nil {
		webutil.HandleError(w, logger, appErr)
		return
	}

	view, err := h.quiz.Restart(r.Context(), sessionID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, view, logger)
}

// DeleteSession はセッションを破棄するハンドラ
func (h *QuizHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteSession"))

	sessionID, appErr := parseSessionID(r)
	if appErr != nil {
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := h.quiz.EndSession(r.Context(), sessionID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseSessionID(r *http.Request) (uuid.UUID, *model.AppError) {
	idStr := chi.URLParam(r, "session_id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_URL_PARAM", "session_idの形式が正しくありません。", "session_id", model.ErrInvalidInput)
	}
	return id, nil
}
