// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/saezuri/internal/flash"
	"github.com/hitoshi/saezuri/internal/middleware"
	"github.com/hitoshi/saezuri/internal/model"
	"github.com/hitoshi/saezuri/internal/view"
)

// pageData はページ描画用の共通データを組み立てる。
// ログイン中ユーザーとフラッシュメッセージはここでまとめて解決する。
func pageData(w http.ResponseWriter, r *http.Request, title string, content any) *view.Data {
	return &view.Data{
		Title:       title,
		CurrentUser: middleware.UserFromContext(r.Context()),
		Flash:       flash.Pop(w, r),
		Content:     content,
	}
}

// idParam はURLパラメータからint64のIDを取り出す。
func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// formatID はIDをパス用の10進文字列にする。
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// redirectWithFlash はフラッシュメッセージを設定して302リダイレクトする。
func redirectWithFlash(w http.ResponseWriter, r *http.Request, location, level, text string) {
	flash.Set(w, level, text)
	http.Redirect(w, r, location, http.StatusFound)
}

// handleError はサービス層のエラーをレスポンス形態に変換する。
// AppErrorのカテゴリに応じて振り分け、それ以外は500として扱う。
//   - not_found: 404ページ
//   - auth: フラッシュ付きでログインページへリダイレクト
//   - validation / conflict: フラッシュ付きでfallbackへリダイレクト
func handleError(renderer *view.Renderer, w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		switch appErr.Category {
		case model.CategoryNotFound:
			renderNotFound(renderer, w, r)
			return
		case model.CategoryAuth:
			redirectWithFlash(w, r, "/login", flash.LevelDanger, appErr.Message)
			return
		case model.CategoryValidation, model.CategoryConflict:
			redirectWithFlash(w, r, fallback, flash.LevelDanger, appErr.Message)
			return
		}
	}

	slog.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// renderNotFound は404ページを描画する。
func renderNotFound(renderer *view.Renderer, w http.ResponseWriter, r *http.Request) {
	renderer.Render(w, http.StatusNotFound, "not_found", pageData(w, r, "ページが見つかりません", nil))
}
