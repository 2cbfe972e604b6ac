package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/saezuri/internal/auth"
	"github.com/hitoshi/saezuri/internal/flash"
	"github.com/hitoshi/saezuri/internal/middleware"
	"github.com/hitoshi/saezuri/internal/model"
	"github.com/hitoshi/saezuri/internal/view"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Signup(ctx context.Context, input auth.SignupInput) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	CreateSession(ctx context.Context, userID int64) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はサインアップ・ログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	renderer *view.Renderer
	config   AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, renderer *view.Renderer, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		renderer: renderer,
		config:   config,
	}
}

// ShowSignup はサインアップフォームを表示する。
// GET /signup
func (h *AuthHandler) ShowSignup(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "signup", pageData(w, r, "新規登録", &view.AuthFormContent{}))
}

// Signup はサインアップフォームを処理する。
// 成功時はそのままログインさせてホームへリダイレクトする。
// POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	input := auth.SignupInput{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		ImageURL: r.PostFormValue("image_url"),
	}

	user, err := h.service.Signup(r.Context(), input)
	if err != nil {
		// 検証エラー・重複エラーは入力値を保持してフォームを再表示する
		var appErr *model.AppError
		if errors.As(err, &appErr) {
			h.renderer.Render(w, http.StatusOK, "signup", pageData(w, r, "新規登録", &view.AuthFormContent{
				Username: input.Username,
				Email:    input.Email,
				ImageURL: input.ImageURL,
				Error:    appErr.Message,
			}))
			return
		}
		handleError(h.renderer, w, r, err, "/signup")
		return
	}

	if err := h.startSession(w, r, user.ID); err != nil {
		handleError(h.renderer, w, r, err, "/login")
		return
	}

	redirectWithFlash(w, r, "/", flash.LevelSuccess, "さえずりへようこそ！")
}

// ShowLogin はログインフォームを表示する。
// GET /login
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "login", pageData(w, r, "ログイン", &view.AuthFormContent{}))
}

// Login はログインフォームを処理する。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.service.Authenticate(r.Context(), username, password)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) {
			// 認証失敗は200でフォームを再表示する
			h.renderer.Render(w, http.StatusOK, "login", pageData(w, r, "ログイン", &view.AuthFormContent{
				Username: username,
				Error:    appErr.Message,
			}))
			return
		}
		handleError(h.renderer, w, r, err, "/login")
		return
	}

	if err := h.startSession(w, r, user.ID); err != nil {
		handleError(h.renderer, w, r, err, "/login")
		return
	}

	redirectWithFlash(w, r, "/", flash.LevelSuccess, "おかえりなさい、"+user.Username+"さん！")
}

// Logout はセッションを破棄してログインページへ戻す。
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		// セッション削除に失敗してもCookieはクリアする
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
		}
	}

	h.clearSessionCookie(w)
	redirectWithFlash(w, r, "/login", flash.LevelSuccess, "ログアウトしました。")
}

// startSession はセッションを発行してCookieに設定する。
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID int64) error {
	session, err := h.service.CreateSession(r.Context(), userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// clearSessionCookie はセッションCookieを削除する。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
