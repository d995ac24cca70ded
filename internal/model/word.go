// internal/model/word.go
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Word は1つの単語レコードを表します。
// IDはプロセス内でのみ有効で、永続化フォーマットには含まれません（デコード時に採番）。
type Word struct {
	WordID        uuid.UUID `json:"-"`
	Word          string    `json:"word"`          // 表記（漢字など）
	Pronunciation string    `json:"pronunciation"` // 読み
	Meaning       string    `json:"meaning"`       // 意味
	Example       string    `json:"example"`       // 例文
	Level         string    `json:"level"`         // N5〜N1 等（自由テキスト）
	Category      *string   `json:"category"`      // 任意の分類
}

// WordSource は名前付きの単語コレクションを表します。
// words の順序は保持され、練習セッションの出題順になります。
type WordSource struct {
	SourceID    uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Words       []Word    `json:"words"`
	Version     string    `json:"version"`
	CreatedDate time.Time `json:"createdDate"` // ISO-8601 (RFC3339)
}

// AssignIDs はデコード直後のレコードに新しいIDを採番します。
func (s *WordSource) AssignIDs() {
	s.SourceID = uuid.New()
	for i := range s.Words {
		s.Words[i].WordID = uuid.New()
	}
}

// DecodeWordSource は単一の WordSource JSON を厳密にデコードします。
// 未知のトップレベルフィールドはエラーになります。
func DecodeWordSource(data []byte) (*WordSource, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var source WordSource
	if err := dec.Decode(&source); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	source.AssignIDs()
	return &source, nil
}

// DecodeWordSources は永続化ファイル（WordSourceの配列）をデコードします。
func DecodeWordSources(data []byte) ([]*WordSource, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var sources []*WordSource
	if err := dec.Decode(&sources); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	for _, s := range sources {
		s.AssignIDs()
	}
	return sources, nil
}

// 単語源作成リクエストDTO
type PostSourceRequest struct {
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description"`
	Words       []PostWordRequest `json:"words" validate:"dive"`
	Version     string            `json:"version"`
}

// 単語作成リクエストDTO
type PostWordRequest struct {
	Word          string  `json:"word" validate:"required"`
	Pronunciation string  `json:"pronunciation" validate:"required"`
	Meaning       string  `json:"meaning" validate:"required"`
	Example       string  `json:"example"`
	Level         string  `json:"level" validate:"required"`
	Category      *string `json:"category"`
}

// ToWordSource はリクエストDTOから新しい WordSource を構築します。
func (r *PostSourceRequest) ToWordSource(now time.Time) *WordSource {
	words := make([]Word, 0, len(r.Words))
	for _, w := range r.Words {
		words = append(words, Word{
			WordID:        uuid.New(),
			Word:          w.Word,
			Pronunciation: w.Pronunciation,
			Meaning:       w.Meaning,
			Example:       w.Example,
			Level:         w.Level,
			Category:      w.Category,
		})
	}

	version := r.Version
	if version == "" {
		version = "1.0"
	}

	return &WordSource{
		SourceID:    uuid.New(),
		Name:        r.Name,
		Description: r.Description,
		Words:       words,
		Version:     version,
		CreatedDate: now,
	}
}

// ファイルインポートリクエストDTO
type ImportFileRequest struct {
	Path string `json:"path" validate:"required"`
}

// URLインポートリクエストDTO
type ImportURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// WordSourceResponse は一覧表示用のレスポンスDTO
type WordSourceResponse struct {
	SourceID    uuid.UUID `json:"source_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	WordCount   int       `json:"word_count"`
	Version     string    `json:"version"`
	CreatedDate time.Time `json:"created_date"`
}

// NewWordSourceResponse は WordSource から一覧用DTOを作ります。
func NewWordSourceResponse(s *WordSource) WordSourceResponse {
	return WordSourceResponse{
		SourceID:    s.SourceID,
		Name:        s.Name,
		Description: s.Description,
		WordCount:   len(s.Words),
		Version:     s.Version,
		CreatedDate: s.CreatedDate,
	}
}

// WordResponse は検索・一覧用の単語レスポンスDTO
type WordResponse struct {
	WordID        uuid.UUID `json:"word_id"`
	Word          string    `json:"word"`
	Pronunciation string    `json:"pronunciation"`
	Meaning       string    `json:"meaning"`
	Example       string    `json:"example"`
	Level         string    `json:"level"`
	Category      *string   `json:"category"`
}

// NewWordResponse は Word からレスポンスDTOを作ります。
func NewWordResponse(w Word) WordResponse {
	return WordResponse{
		WordID:        w.WordID,
		Word:          w.Word,
		Pronunciation: w.Pronunciation,
		Meaning:       w.Meaning,
		Example:       w.Example,
		Level:         w.Level,
		Category:      w.Category,
	}
}
