package view

import "github.com/hitoshi/saezuri/internal/model"

// HomeContent はホームタイムラインの描画データ。
type HomeContent struct {
	Entries []model.TimelineEntry
}

// AuthFormContent はログイン・サインアップフォームの描画データ。
// 検証エラー時は入力値を保持して再表示する。
type AuthFormContent struct {
	Username string
	Email    string
	ImageURL string
	Error    string
}

// UsersContent はユーザー検索ページの描画データ。
type UsersContent struct {
	Query string
	Users []*model.User
}

// UserShowContent はユーザープロフィールページの描画データ。
type UserShowContent struct {
	Profile       *model.User
	Messages      []model.MessageWithAuthor
	MessageCount  int
	FolloweeCount int
	FollowerCount int
	FavoriteCount int
	IsFollowing   bool
	IsSelf        bool
}

// UserListContent はフォロー・フォロワー一覧ページの描画データ。
type UserListContent struct {
	Profile *model.User
	Heading string
	Users   []*model.User
}

// UserEditContent はプロフィール編集フォームの描画データ。
type UserEditContent struct {
	User  *model.User
	Error string
}

// FavoritesContent はお気に入り一覧ページの描画データ。
type FavoritesContent struct {
	Profile  *model.User
	Messages []model.MessageWithAuthor
}

// MessageFormContent はメッセージ投稿フォームの描画データ。
type MessageFormContent struct {
	Text  string
	Error string
}

// MessageShowContent はメッセージ詳細ページの描画データ。
type MessageShowContent struct {
	Message   *model.MessageWithAuthor
	Favorited bool
	LikeCount int
	IsOwner   bool
}
