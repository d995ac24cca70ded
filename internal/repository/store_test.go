// internal/repository/store_test.go
package repository

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"go_easyjp_vocab/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStorePath = "data/word_sources.json"

func newTestStore(t *testing.T) (WordSourceStore, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewFileWordSourceStore(fs, testStorePath, logger), fs
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func makeSource(name string, words ...model.Word) *model.WordSource {
	s := &model.WordSource{
		SourceID:    uuid.New(),
		Name:        name,
		Description: "テスト用",
		Words:       words,
		Version:     "1.0",
		CreatedDate: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	for i := range s.Words {
		s.Words[i].WordID = uuid.New()
	}
	return s
}

func makeWord(word, pron, meaning, level string) model.Word {
	return model.Word{
		WordID:        uuid.New(),
		Word:          word,
		Pronunciation: pron,
		Meaning:       meaning,
		Example:       word + "です",
		Level:         level,
	}
}

func TestFileWordSourceStore_Load(t *testing.T) {
	t.Run("正常系: ファイルが存在しない場合は空でエラーなし", func(t *testing.T) {
		store, _ := newTestStore(t)

		err := store.Load()

		require.NoError(t, err)
		assert.Empty(t, store.List())
	})

	t.Run("異常系: 壊れたJSONはErrLoadを返し空のままになる", func(t *testing.T) {
		store, fs := newTestStore(t)
		require.NoError(t, afero.WriteFile(fs, testStorePath, []byte("{not json"), 0o644))

		err := store.Load()

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrLoad)
		assert.Empty(t, store.List())
	})

	t.Run("正常系: 保存済みファイルを読み込める", func(t *testing.T) {
		store, fs := newTestStore(t)
		src := makeSource("N5基礎", makeWord("学校", "がっこう", "学校", "N5"))
		require.NoError(t, store.Add(src))

		// 別のストアで同じファイルを読む
		reloaded := NewFileWordSourceStore(fs, testStorePath, slog.Default())
		require.NoError(t, reloaded.Load())

		list := reloaded.List()
		require.Len(t, list, 1)
		assert.Equal(t, src.Name, list[0].Name)
		assert.Equal(t, src.Version, list[0].Version)
		require.Len(t, list[0].Words, 1)
		assert.Equal(t, "学校", list[0].Words[0].Word)
		// IDは永続化されず、ロード時に新しく採番される
		assert.NotEqual(t, src.SourceID, list[0].SourceID)
		assert.NotEqual(t, uuid.Nil, list[0].SourceID)
	})
}

func TestFileWordSourceStore_EnsureDefaultSource(t *testing.T) {
	t.Run("正常系: 空のストアには組み込み単語源が投入される", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Load())

		require.NoError(t, store.EnsureDefaultSource())

		list := store.List()
		require.Len(t, list, 1)
		assert.Equal(t, "默认单词表", list[0].Name)
		assert.Len(t, list[0].Words, 15)

		// 2回呼んでも増えない
		require.NoError(t, store.EnsureDefaultSource())
		assert.Len(t, store.List(), 1)
	})

	t.Run("正常系: 既存データがあればシードしない", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Add(makeSource("既存")))

		require.NoError(t, store.EnsureDefaultSource())

		list := store.List()
		require.Len(t, list, 1)
		assert.Equal(t, "既存", list[0].Name)
	})
}

func TestFileWordSourceStore_AddRemove(t *testing.T) {
	t.Run("正常系: 追加した単語源をIDで取得できる", func(t *testing.T) {
		store, _ := newTestStore(t)
		src := makeSource("N5基礎", makeWord("先生", "せんせい", "老师", "N5"))

		require.NoError(t, store.Add(src))

		got, err := store.Get(src.SourceID)
		require.NoError(t, err)
		assert.Equal(t, src, got)
	})

	t.Run("異常系: 存在しないIDはErrNotFound", func(t *testing.T) {
		store, _ := newTestStore(t)

		_, err := store.Get(uuid.New())

		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("正常系: 削除後は一覧が追加前と同じになる", func(t *testing.T) {
		store, _ := newTestStore(t)
		first := makeSource("A")
		require.NoError(t, store.Add(first))
		before := store.List()

		added := makeSource("B")
		require.NoError(t, store.Add(added))
		require.NoError(t, store.Remove(added.SourceID))

		assert.Equal(t, before, store.List())
		_, err := store.Get(added.SourceID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("正常系: 存在しないIDの削除は何も起きない", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Add(makeSource("A")))

		require.NoError(t, store.Remove(uuid.New()))

		assert.Len(t, store.List(), 1)
	})

	t.Run("正常系: 追加のたびにファイルへ書き出される", func(t *testing.T) {
		store, fs := newTestStore(t)
		require.NoError(t, store.Add(makeSource("A", makeWord("学校", "がっこう", "学校", "N5"))))

		data, err := afero.ReadFile(fs, testStorePath)
		require.NoError(t, err)

		// 永続化フォーマットはWordSourceの配列で、IDは含まれない
		var raw []map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		require.Len(t, raw, 1)
		assert.NotContains(t, raw[0], "source_id")
		assert.Equal(t, "A", raw[0]["name"])
	})
}

func TestFileWordSourceStore_SaveFailure(t *testing.T) {
	t.Run("異常系: 保存に失敗してもメモリ上の変更と既存ファイルは残る", func(t *testing.T) {
		base := afero.NewMemMapFs()
		logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))
		store := NewFileWordSourceStore(base, testStorePath, logger)
		require.NoError(t, store.Add(makeSource("A")))
		savedData, err := afero.ReadFile(base, testStorePath)
		require.NoError(t, err)

		// 以降の書き込みを失敗させる
		readOnly := NewFileWordSourceStore(afero.NewReadOnlyFs(base), testStorePath, logger)
		require.NoError(t, readOnly.Load())

		added := makeSource("B")
		err = readOnly.Add(added)

		assert.ErrorIs(t, err, model.ErrSave)
		// メモリ上には追加されたまま
		assert.Len(t, readOnly.List(), 2)
		// ファイルは直前の保存内容のまま壊れていない
		data, readErr := afero.ReadFile(base, testStorePath)
		require.NoError(t, readErr)
		assert.Equal(t, savedData, data)
	})
}

func TestFileWordSourceStore_FindByName(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Add(makeSource("N5基礎")))

	t.Run("正常系: 完全一致で見つかる", func(t *testing.T) {
		got, ok := store.FindByName("N5基礎")
		require.True(t, ok)
		assert.Equal(t, "N5基礎", got.Name)
	})

	t.Run("正常系: 部分一致や大文字小文字違いでは見つからない", func(t *testing.T) {
		_, ok := store.FindByName("N5")
		assert.False(t, ok)
	})
}

func TestFileWordSourceStore_SearchWords(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Add(makeSource("A",
		makeWord("学校", "がっこう", "school", "N5"),
		makeWord("先生", "せんせい", "teacher", "N5"),
	)))
	require.NoError(t, store.Add(makeSource("B",
		makeWord("勉強", "べんきょう", "Study", "N4"),
	)))

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"正常系: 空クエリは全単語を順序どおり返す", "", []string{"学校", "先生", "勉強"}},
		{"正常系: 表記での部分一致", "学", []string{"学校"}},
		{"正常系: 読みでの部分一致", "せんせ", []string{"先生"}},
		{"正常系: 意味は大文字小文字を区別しない", "study", []string{"勉強"}},
		{"正常系: 一致なしは空スライス", "みず", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.SearchWords(tt.query)

			words := make([]string, 0, len(got))
			for _, w := range got {
				words = append(words, w.Word)
			}
			assert.Equal(t, tt.want, words)
		})
	}
}

func TestFileWordSourceStore_WordsByLevel(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Add(makeSource("A",
		makeWord("学校", "がっこう", "学校", "N5"),
		makeWord("勉強", "べんきょう", "学习", "N4"),
		makeWord("先生", "せんせい", "老师", "N5"),
	)))

	byLevel := store.WordsByLevel()

	require.Len(t, byLevel, 2)
	require.Len(t, byLevel["N5"], 2)
	assert.Equal(t, "学校", byLevel["N5"][0].Word)
	assert.Equal(t, "先生", byLevel["N5"][1].Word)
	require.Len(t, byLevel["N4"], 1)
	assert.Equal(t, "勉強", byLevel["N4"][0].Word)
}

func TestFileWordSourceStore_Watch(t *testing.T) {
	store, _ := newTestStore(t)
	ch := store.Watch()

	require.NoError(t, store.Add(makeSource("A")))
	require.NoError(t, store.Add(makeSource("B")))

	// 連続した変更は1通以上に集約される
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("change notification not received")
	}
}
