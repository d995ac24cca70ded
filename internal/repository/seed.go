// internal/repository/seed.go
package repository

import (
	"time"

	"go_easyjp_vocab/internal/model"

	"github.com/google/uuid"
)

// DefaultWordSource は組み込みの基礎単語セットを返します。
// ストアが空のときの初期データです。
func DefaultWordSource() *model.WordSource {
	words := []seedWord{
		{"学校", "がっこう", "学校", "学校に行きます。", "N5", "教育"},
		{"先生", "せんせい", "老师", "先生は親切です。", "N5", "人物"},
		{"学生", "がくせい", "学生", "私は学生です。", "N5", "人物"},
		{"勉強", "べんきょう", "学习", "毎日日本語を勉強しています。", "N4", "学习"},
		{"仕事", "しごと", "工作", "今日は仕事が忙しいです。", "N4", "工作"},
		{"友達", "ともだち", "朋友", "友達と一緒に映画を見ました。", "N4", "人际关系"},
		{"家族", "かぞく", "家族", "家族と一緒に住んでいます。", "N4", "家庭"},
		{"時間", "じかん", "时间", "時間がありません。", "N4", "时间"},
		{"今日", "きょう", "今天", "今日は天気がいいです。", "N5", "时间"},
		{"昨日", "きのう", "昨天", "昨日は雨でした。", "N5", "时间"},
		{"明日", "あした", "明天", "明日映画を見ます。", "N5", "时间"},
		{"日本", "にほん", "日本", "日本は美しい国です。", "N5", "国家"},
		{"日本語", "にほんご", "日语", "日本語を勉強しています。", "N5", "语言"},
		{"英語", "えいご", "英语", "英語も話せます。", "N5", "语言"},
		{"食事", "しょくじ", "用餐", "食事の時間です。", "N4", "饮食"},
	}

	out := make([]model.Word, 0, len(words))
	for _, w := range words {
		category := w.category
		out = append(out, model.Word{
			WordID:        uuid.New(),
			Word:          w.word,
			Pronunciation: w.pronunciation,
			Meaning:       w.meaning,
			Example:       w.example,
			Level:         w.level,
			Category:      &category,
		})
	}

	return &model.WordSource{
		SourceID:    uuid.New(),
		Name:        "默认单词表",
		Description: "内置的基础日语单词",
		Words:       out,
		Version:     "1.0",
		CreatedDate: time.Now(),
	}
}

type seedWord struct {
	word          string
	pronunciation string
	meaning       string
	example       string
	level         string
	category      string
}
