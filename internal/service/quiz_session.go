// internal/service/quiz_session.go
package service

import (
	"math/rand"
	"sync"
	"time"

	"go_easyjp_vocab/internal/config"
	"go_easyjp_vocab/internal/model"

	"github.com/google/uuid"
)

// commonReadings は選択肢が足りないときに使う固定のよくある読みです。
var commonReadings = []string{
	"こんにちは", "ありがとう", "すみません", "おはよう",
	"さようなら", "はじめまして", "よろしく", "げんき",
	"べんきょう", "しごと", "ともだち", "がっこう",
	"せんせい", "がくせい", "にほんご", "えいご",
}

// StudySession は1つの単語源に対する順序付きの練習セッションです。
// 状態遷移: presenting → (回答) → revealed → (次へ) → presenting / finished。
// 1セッションにつき呼び出し側は1つの論理的所有者だけですが、
// HTTP経由のアクセスに備えて内部でも直列化しています。
type StudySession struct {
	mu sync.Mutex

	sessionID uuid.UUID
	source    *model.WordSource
	rng       *rand.Rand

	phase    model.SessionPhase
	index    int
	score    int
	studied  map[uuid.UUID]struct{}
	selected string
	options  []string
	summary  *model.StudySummary
}

// NewStudySession はセッションを開始します。単語が1つもない単語源は拒否します。
func NewStudySession(source *model.WordSource) (*StudySession, error) {
	if source == nil || len(source.Words) == 0 {
		return nil, model.ErrEmptySource
	}

	s := &StudySession{
		sessionID: uuid.New(),
		source:    source,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		phase:     model.PhasePresenting,
		studied:   make(map[uuid.UUID]struct{}),
	}
	s.setupOptions()
	return s, nil
}

func (s *StudySession) SessionID() uuid.UUID {
	return s.sessionID
}

// setupOptions は現在の単語の選択肢を組み立てます。呼び出し側がロックを保持すること。
// 正解の読みを必ず含め、まず同じ単語源の他の単語の読みから、
// 足りなければ固定の読みプールから、重複なしで最大4つまで埋めます。
func (s *StudySession) setupOptions() {
	current := s.source.Words[s.index]

	options := []string{current.Pronunciation}
	seen := map[string]struct{}{current.Pronunciation: {}}

	// 他の単語の読みをシャッフルして誤答候補にする
	others := make([]string, 0, len(s.source.Words)-1)
	for _, w := range s.source.Words {
		if w.WordID != current.WordID {
			others = append(others, w.Pronunciation)
		}
	}
	s.rng.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	for _, p := range others {
		if len(options) >= config.MaxQuizOptions {
			break
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		options = append(options, p)
	}

	// まだ足りなければ固定プールから補う
	pool := make([]string, len(commonReadings))
	copy(pool, commonReadings)
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	for _, p := range pool {
		if len(options) >= config.MaxQuizOptions {
			break
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		options = append(options, p)
	}

	// 表示前に最終シャッフル
	s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	s.options = options
}

// SelectAnswer は回答を記録します。presenting 以外では拒否します
// （同じ問題への二重回答はスコアを変えません）。
func (s *StudySession) SelectAnswer(candidate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.PhasePresenting {
		return model.ErrInvalidTransition
	}

	s.selected = candidate
	current := s.source.Words[s.index]
	if candidate == current.Pronunciation {
		s.score++
		s.studied[current.WordID] = struct{}{}
	}

	// 正否にかかわらず正解を表示する（誤答のやり直しはない）
	s.phase = model.PhaseRevealed
	return nil
}

// Advance は次の単語へ進みます。revealed 以外では拒否します。
// 最後の単語だった場合は結果サマリを確定して finished になります。
func (s *StudySession) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.PhaseRevealed {
		return model.ErrInvalidTransition
	}

	if s.index >= len(s.source.Words)-1 {
		summary := model.NewStudySummary(s.score, len(s.source.Words), len(s.studied))
		s.summary = &summary
		s.phase = model.PhaseFinished
		return nil
	}

	s.index++
	s.selected = ""
	s.setupOptions()
	s.phase = model.PhasePresenting
	return nil
}

// Restart はスコアと学習済みセットをクリアして最初からやり直します。
func (s *StudySession) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.index = 0
	s.score = 0
	s.selected = ""
	s.studied = make(map[uuid.UUID]struct{})
	s.summary = nil
	s.setupOptions()
	s.phase = model.PhasePresenting
}

// View は現在状態のスナップショットを返します。
func (s *StudySession) View() model.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.source.Words)
	view := model.SessionView{
		SessionID: s.sessionID,
		SourceID:  s.source.SourceID,
		Phase:     s.phase,
		Index:     s.index,
		Total:     total,
		Progress:  float64(s.index) / float64(total),
		Score:     s.score,
	}

	switch s.phase {
	case model.PhaseFinished:
		view.Progress = 1.0
		view.Summary = s.summary
	case model.PhaseRevealed:
		current := s.source.Words[s.index]
		view.Word = current.Word
		view.Meaning = current.Meaning
		view.Options = append([]string(nil), s.options...)
		view.Selected = s.selected
		view.Revealed = true
		view.CorrectValue = current.Pronunciation
	default:
		current := s.source.Words[s.index]
		view.Word = current.Word
		view.Meaning = current.Meaning
		view.Options = append([]string(nil), s.options...)
	}

	return view
}
