// internal/model/quiz.go
package model

import "github.com/google/uuid"

// SessionPhase は練習セッションの状態を表します。
type SessionPhase string

const (
	PhasePresenting SessionPhase = "presenting" // 選択肢表示中、未回答
	PhaseRevealed   SessionPhase = "revealed"   // 回答済み、正解表示中
	PhaseFinished   SessionPhase = "finished"   // 全問終了
)

// 成績のグレード。正解率で区切ります。
const (
	GradeExcellent = "excellent"  // >= 0.9
	GradeGood      = "good"       // [0.8, 0.9)
	GradePass      = "pass"       // [0.6, 0.8)
	GradeNeedsWork = "needs work" // < 0.6
)

// StudySummary は練習終了時の結果サマリです。
type StudySummary struct {
	Score        int     `json:"score"`
	Total        int     `json:"total"`
	StudiedWords int     `json:"studied_words"` // 正解した単語の種類数
	Accuracy     float64 `json:"accuracy"`
	Grade        string  `json:"grade"`
}

// NewStudySummary はスコアから結果サマリを計算します。
func NewStudySummary(score, total, studiedWords int) StudySummary {
	var accuracy float64
	if total > 0 {
		accuracy = float64(score) / float64(total)
	}

	var grade string
	switch {
	case accuracy >= 0.9:
		grade = GradeExcellent
	case accuracy >= 0.8:
		grade = GradeGood
	case accuracy >= 0.6:
		grade = GradePass
	default:
		grade = GradeNeedsWork
	}

	return StudySummary{
		Score:        score,
		Total:        total,
		StudiedWords: studiedWords,
		Accuracy:     accuracy,
		Grade:        grade,
	}
}

// セッション開始リクエストDTO
type StartSessionRequest struct {
	SourceID string `json:"source_id" validate:"required,uuid"`
}

// 回答リクエストDTO
type AnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// SessionView はセッション状態のスナップショットです。
// 出題中の単語と選択肢、進捗をUI層へ渡します。
type SessionView struct {
	SessionID    uuid.UUID     `json:"session_id"`
	SourceID     uuid.UUID     `json:"source_id"`
	Phase        SessionPhase  `json:"phase"`
	Index        int           `json:"index"`
	Total        int           `json:"total"`
	Progress     float64       `json:"progress"`
	Word         string        `json:"word,omitempty"`
	Meaning      string        `json:"meaning,omitempty"`
	Options      []string      `json:"options,omitempty"`
	Selected     string        `json:"selected,omitempty"`
	Revealed     bool          `json:"revealed"`
	CorrectValue string        `json:"correct_value,omitempty"` // revealed のときのみ
	Score        int           `json:"score"`
	Summary      *StudySummary `json:"summary,omitempty"` // finished のときのみ
}
