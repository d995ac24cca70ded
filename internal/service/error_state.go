// internal/service/error_state.go
package service

import "sync"

// ErrorState はUI層へ見せる「直近のエラー」1件を保持します。
// 新しいエラーは古いものを上書きします（キューにはしない）。
type ErrorState struct {
	mu  sync.Mutex
	err error
}

func NewErrorState() *ErrorState {
	return &ErrorState{}
}

// Set は直近のエラーを上書きします。nilは無視します。
func (e *ErrorState) Set(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	e.err = err
	e.mu.Unlock()
}

// Current は直近のエラーを返します。未発生なら nil です。
func (e *ErrorState) Current() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Clear はユーザーがエラーを閉じたときに呼びます。
func (e *ErrorState) Clear() {
	e.mu.Lock()
	e.err = nil
	e.mu.Unlock()
}
