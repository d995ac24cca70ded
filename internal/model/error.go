// internal/model/error.go
package model

import (
	"errors"
	"fmt"
)

// アプリケーション固有のエラー
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")

	// ストア関連
	ErrLoad = errors.New("failed to load word sources")
	ErrSave = errors.New("failed to save word sources")

	// インポート・エクスポート関連
	ErrDecode        = errors.New("failed to decode word source")
	ErrIO            = errors.New("i/o error")
	ErrInvalidURL    = errors.New("invalid url")
	ErrNetwork       = errors.New("network request failed")
	ErrEmptyBody     = errors.New("empty response body")
	ErrDuplicateName = errors.New("word source with the same name already exists")
	ErrSerialize     = errors.New("failed to serialize word source")

	// 練習セッション関連
	ErrEmptySource       = errors.New("word source has no words")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrSessionNotFound   = errors.New("session not found")
)

// HTTPStatusError はリモートインポートで 200 以外が返った場合のエラーです。
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("server responded with HTTP %d", e.StatusCode)
}

// ErrorDetail はAPIエラーレスポンスの中身です。
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError はハンドラ層で利用するエラーの封筒です。
// ラップしたエラーでHTTPステータスへのマッピングを行います。
type AppError struct {
	Detail ErrorDetail
	Err    error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		Err:    err,
	}
}

func (e *AppError) Error() string {
	return e.Detail.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
