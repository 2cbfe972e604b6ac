// Package flash はリダイレクトをまたいで1回だけ表示する通知メッセージを提供する。
// メッセージは署名なしの短命Cookieに保持し、次のページ描画時に消費する。
// 表示文言のみを運ぶためセッションストアは使用しない。
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

// cookieName はフラッシュメッセージ用Cookieの名前。
const cookieName = "saezuri_flash"

// メッセージレベル
const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// Message は1回限りの通知メッセージ。
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Set はフラッシュメッセージをCookieに書き込む。
func Set(w http.ResponseWriter, level, text string) {
	payload, err := json.Marshal(Message{Level: level, Text: text})
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop はフラッシュメッセージを読み取り、Cookieを削除する。
// メッセージがない場合や壊れている場合はnilを返す。
func Pop(w http.ResponseWriter, r *http.Request) *Message {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}

	// 読み取りと同時に消費する
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil
	}
	if msg.Text == "" {
		return nil
	}

	return &msg
}
