// internal/handlers/import_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_easyjp_vocab/internal/model"
	"go_easyjp_vocab/internal/service"
	"go_easyjp_vocab/internal/webutil"
)

type ImportHandler struct {
	importer service.ImporterService
	errState *service.ErrorState
	logger   *slog.Logger
}

func NewImportHandler(importer service.ImporterService, errState *service.ErrorState, logger *slog.Logger) *ImportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportHandler{
		importer: importer,
		errState: errState,
		logger:   logger,
	}
}

// PostImportFile はローカルファイルから単語源をインポートするハンドラ
func (h *ImportHandler) PostImportFile(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostImportFile"))

	var req model.ImportFileRequest
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

	h.respondWithResult(w, r, logger, h.importer.ImportFromFile(r.Context(), req.Path))
}

// PostImportURL はリモートURLから単語源をインポートするハンドラ
func (h *ImportHandler) PostImportURL(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostImportURL"))

	var req model.ImportURLRequest
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

	h.respondWithResult(w, r, logger, h.importer.ImportFromURL(r.Context(), req.URL))
}

// respondWithResult はインポートの完了通知を待って応答します。
// クライアントが切断した場合はインポート側のctxキャンセルに任せます。
func (h *ImportHandler) respondWithResult(w http.ResponseWriter, r *http.Request, logger *slog.Logger, result <-chan service.ImportResult) {
	select {
	case res := <-result:
		if res.Err != nil {
			logger.Warn("Import failed", slog.Any("error", res.Err))
			webutil.HandleError(w, logger, res.Err)
			return
		}
		logger.Info("Import completed", slog.String("name", res.Source.Name))
		webutil.RespondWithJSON(w, http.StatusCreated, model.NewWordSourceResponse(res.Source), logger)
	case <-r.Context().Done():
		// レスポンスは書けないが、キャンセルはインポート処理へ伝播している
		logger.Warn("Import request cancelled by client")
	}
}

// GetCurrentError は直近のエラー1件を返すハンドラ。未発生なら204です。
func (h *ImportHandler) GetCurrentError(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCurrentError"))

	err := h.errState.Current()
	if err == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, model.APIErrorResponse{
		Error: model.ErrorDetail{Code: "LAST_ERROR", Message: err.Error()},
	}, logger)
}

// DeleteCurrentError は直近のエラーを消す（ユーザーが閉じた）ハンドラ
func (h *ImportHandler) DeleteCurrentError(w http.ResponseWriter, r *http.Request) {
	h.errState.Clear()
	w.WriteHeader(http.StatusNoContent)
}
