// internal/model/word_test.go
package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWordSource(t *testing.T) {
	t.Run("正常系: デコード時に新しいIDが採番される", func(t *testing.T) {
		data := []byte(`{
			"name": "N5基礎",
			"description": "テスト用",
			"words": [
				{"word": "学校", "pronunciation": "がっこう", "meaning": "学校", "example": "", "level": "N5", "category": null}
			],
			"version": "1.0",
			"createdDate": "2025-06-01T12:00:00Z"
		}`)

		source, err := DecodeWordSource(data)

		require.NoError(t, err)
		assert.Equal(t, "N5基礎", source.Name)
		assert.NotEqual(t, uuid.Nil, source.SourceID)
		require.Len(t, source.Words, 1)
		assert.NotEqual(t, uuid.Nil, source.Words[0].WordID)
	})

	t.Run("異常系: 未知のフィールドはErrDecode", func(t *testing.T) {
		_, err := DecodeWordSource([]byte(`{"name":"A","extra":true}`))
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("異常系: JSONとして不正ならErrDecode", func(t *testing.T) {
		_, err := DecodeWordSource([]byte(`{broken`))
		assert.ErrorIs(t, err, ErrDecode)
	})
}

func TestWordSource_MarshalExcludesIDs(t *testing.T) {
	source := &WordSource{
		SourceID: uuid.New(),
		Name:     "N5基礎",
		Words: []Word{
			{WordID: uuid.New(), Word: "学校", Pronunciation: "がっこう", Meaning: "学校", Level: "N5"},
		},
		Version:     "1.0",
		CreatedDate: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(source)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "source_id")

	words, ok := raw["words"].([]any)
	require.True(t, ok)
	require.Len(t, words, 1)
	assert.NotContains(t, words[0], "word_id")
}

func TestPostSourceRequest_ToWordSource(t *testing.T) {
	t.Run("正常系: バージョン未指定は1.0になる", func(t *testing.T) {
		req := PostSourceRequest{
			Name: "N5基礎",
			Words: []PostWordRequest{
				{Word: "学校", Pronunciation: "がっこう", Meaning: "学校", Level: "N5"},
			},
		}
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		source := req.ToWordSource(now)

		assert.Equal(t, "1.0", source.Version)
		assert.Equal(t, now, source.CreatedDate)
		assert.NotEqual(t, uuid.Nil, source.SourceID)
		require.Len(t, source.Words, 1)
		assert.NotEqual(t, uuid.Nil, source.Words[0].WordID)
	})

	t.Run("正常系: 指定したバージョンはそのまま使われる", func(t *testing.T) {
		req := PostSourceRequest{Name: "A", Version: "2.1"}

		source := req.ToWordSource(time.Now())

		assert.Equal(t, "2.1", source.Version)
	})
}
