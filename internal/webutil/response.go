// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go_easyjp_vocab/internal/model"
)

// HandleError はエラーを解釈し、適切なJSONエラーレスポンスを返します。
// アプリケーションのエラーハンドリングはここに集約します。
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	statusCode := MapErrorToStatusCode(err)

	var errResp model.APIErrorResponse
	var appErr *model.AppError

	if errors.As(err, &appErr) {
		errResp = model.APIErrorResponse{Error: appErr.Detail}
	} else if statusCode < http.StatusInternalServerError {
		// タイプ付きエラーはそのままメッセージとして返す
		errResp = model.APIErrorResponse{
			Error: model.ErrorDetail{
				Code:    codeFor(err),
				Message: err.Error(),
			},
		}
	} else {
		// 予期せぬエラー。詳細はログのみに出す。
		logger.Error("Unhandled error", slog.Any("error", err))
		errResp = model.APIErrorResponse{
			Error: model.ErrorDetail{
				Code:    "INTERNAL_SERVER_ERROR",
				Message: "サーバー内部でエラーが発生しました。",
			},
		}
	}

	RespondWithJSON(w, statusCode, errResp, logger)
}

// MapErrorToStatusCode はアプリケーションエラーをHTTPステータスコードにマッピングします。
func MapErrorToStatusCode(err error) int {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		err = appErr.Unwrap()
	}

	var statusErr *model.HTTPStatusError
	if errors.As(err, &statusErr) {
		// リモートサーバの応答エラーはゲートウェイ越しの失敗として扱う
		return http.StatusBadGateway
	}

	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrInvalidURL),
		errors.Is(err, model.ErrDecode),
		errors.Is(err, model.ErrEmptyBody):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrDuplicateName), errors.Is(err, model.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, model.ErrEmptySource):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// codeFor はタイプ付きエラーに対応するエラーコード文字列を返します。
func codeFor(err error) string {
	var statusErr *model.HTTPStatusError
	if errors.As(err, &statusErr) {
		return "HTTP_STATUS_ERROR"
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, model.ErrSessionNotFound):
		return "SESSION_NOT_FOUND"
	case errors.Is(err, model.ErrInvalidURL):
		return "INVALID_URL"
	case errors.Is(err, model.ErrDecode):
		return "DECODE_ERROR"
	case errors.Is(err, model.ErrEmptyBody):
		return "EMPTY_BODY"
	case errors.Is(err, model.ErrDuplicateName):
		return "DUPLICATE_NAME"
	case errors.Is(err, model.ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, model.ErrEmptySource):
		return "EMPTY_SOURCE"
	case errors.Is(err, model.ErrNetwork):
		return "NETWORK_ERROR"
	default:
		return "INVALID_REQUEST"
	}
}

// RespondWithJSON はJSONレスポンスを返します。
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error marshaling JSON response", slog.Any("error", err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_SERVER_ERROR","message":"レスポンス生成中にエラーが発生しました。"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
