// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "easyjp-vocab"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort           = ":8080"
	DefaultStorageDir           = "./data"
	DefaultLogLevel             = "info"
	DefaultImportTimeoutSeconds = 15
)

// WordSourcesFileName は単語源を永続化するファイル名です。
const WordSourcesFileName = "word_sources.json"

// MaxQuizOptions は1問あたりの選択肢数の上限です。
const MaxQuizOptions = 4
