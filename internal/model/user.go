// Package model はドメインモデルを定義する。
package model

import "time"

// プロフィール未設定時のデフォルト値。
const (
	DefaultImageURL       = "/static/images/default-icon.png"
	DefaultHeaderImageURL = "/static/images/default-header.jpg"
)

// User はサービス利用ユーザーを表す。
// PasswordHashにはbcryptハッシュのみを保持し、平文パスワードは一切保存しない。
type User struct {
	ID             int64
	Email          string
	Username       string
	PasswordHash   string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session はユーザーのログインセッションを表す。
// IDは推測不能な不透明値で、HttpOnly Cookieに格納される。
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
