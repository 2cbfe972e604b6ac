// Package model はドメインモデルを定義する。
package model

import "time"

// MessageMaxLength はメッセージ本文の最大文字数（文字数はルーン単位で数える）。
const MessageMaxLength = 140

// Message は投稿されたメッセージを表す。
// 作成後の編集操作は存在せず、イミュータブルとして扱う。
type Message struct {
	ID        int64
	UserID    int64
	Text      string
	CreatedAt time.Time
}

// MessageWithAuthor はメッセージと投稿者情報を結合した読み取りモデル。
// usersテーブルとJOINして取得される。
type MessageWithAuthor struct {
	Message
	AuthorUsername string
	AuthorImageURL string
}

// TimelineEntry はタイムライン表示用のメッセージを表す。
// Favoritedは閲覧ユーザーがそのメッセージをお気に入り済みかどうか。
type TimelineEntry struct {
	MessageWithAuthor
	Favorited bool
}
