package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/hitoshi/saezuri/internal/flash"
	"github.com/hitoshi/saezuri/internal/middleware"
	"github.com/hitoshi/saezuri/internal/model"
	"github.com/hitoshi/saezuri/internal/view"
)

// MessageServiceInterface はメッセージハンドラーが必要とするサービスインターフェース。
type MessageServiceInterface interface {
	Post(ctx context.Context, userID int64, text string) (*model.Message, error)
	Get(ctx context.Context, messageID int64) (*model.MessageWithAuthor, error)
	Delete(ctx context.Context, requesterID, messageID int64) error
}

// FavoriteServiceInterface はお気に入り操作のサービスインターフェース。
type FavoriteServiceInterface interface {
	Favorite(ctx context.Context, userID, messageID int64) error
	Unfavorite(ctx context.Context, userID, messageID int64) error
	IsFavorited(ctx context.Context, userID, messageID int64) (bool, error)
	LikeCount(ctx context.Context, messageID int64) (int, error)
}

// MessageHandler はメッセージ投稿・表示・削除・お気に入りのHTTPハンドラー。
type MessageHandler struct {
	messageService  MessageServiceInterface
	favoriteService FavoriteServiceInterface
	renderer        *view.Renderer
}

// NewMessageHandler はMessageHandlerを生成する。
func NewMessageHandler(
	messageService MessageServiceInterface,
	favoriteService FavoriteServiceInterface,
	renderer *view.Renderer,
) *MessageHandler {
	return &MessageHandler{
		messageService:  messageService,
		favoriteService: favoriteService,
		renderer:        renderer,
	}
}

// ShowNew は投稿フォームを表示する。
// GET /messages/new
func (h *MessageHandler) ShowNew(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "message_new", pageData(w, r, "新しい投稿", &view.MessageFormContent{}))
}

// Create は投稿フォームを処理する。
// POST /messages/new
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	text := r.PostFormValue("text")
	msg, err := h.messageService.Post(r.Context(), current.ID, text)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) && appErr.Category == model.CategoryValidation {
			// 入力値を保持してフォームを再表示する
			h.renderer.Render(w, http.StatusOK, "message_new", pageData(w, r, "新しい投稿", &view.MessageFormContent{
				Text:  text,
				Error: appErr.Message,
			}))
			return
		}
		handleError(h.renderer, w, r, err, "/messages/new")
		return
	}

	redirectWithFlash(w, r, "/messages/"+formatID(msg.ID), flash.LevelSuccess, "投稿しました。")
}

// Show はメッセージ詳細ページを表示する。
// GET /messages/{id}
func (h *MessageHandler) Show(w http.ResponseWriter, r *http.Request) {
	messageID, err := idParam(r, "id")
	if err != nil {
		renderNotFound(h.renderer, w, r)
		return
	}

	msg, err := h.messageService.Get(r.Context(), messageID)
	if err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	likeCount, err := h.favoriteService.LikeCount(r.Context(), messageID)
	if err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	content := &view.MessageShowContent{
		Message:   msg,
		LikeCount: likeCount,
	}

	if current := middleware.UserFromContext(r.Context()); current != nil {
		content.IsOwner = current.ID == msg.UserID
		favorited, err := h.favoriteService.IsFavorited(r.Context(), current.ID, messageID)
		if err != nil {
			handleError(h.renderer, w, r, err, "/")
			return
		}
		content.Favorited = favorited
	}

	h.renderer.Render(w, http.StatusOK, "message_show", pageData(w, r, "投稿", content))
}

// Delete はメッセージを削除する。投稿者本人のみ。
// POST /messages/{id}/delete
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	messageID, err := idParam(r, "id")
	if err != nil {
		renderNotFound(h.renderer, w, r)
		return
	}

	if err := h.messageService.Delete(r.Context(), current.ID, messageID); err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	redirectWithFlash(w, r, profilePath(current.ID), flash.LevelSuccess, "投稿を削除しました。")
}

// Favorite はメッセージをお気に入りに追加する。
// POST /messages/{id}/favorite
func (h *MessageHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	messageID, err := idParam(r, "id")
	if err != nil {
		renderNotFound(h.renderer, w, r)
		return
	}

	if err := h.favoriteService.Favorite(r.Context(), current.ID, messageID); err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	http.Redirect(w, r, redirectTarget(r), http.StatusFound)
}

// Unfavorite はメッセージをお気に入りから外す。
// 対象は操作したユーザー自身のお気に入りに限られる。
// POST /messages/{id}/unfavorite
func (h *MessageHandler) Unfavorite(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	messageID, err := idParam(r, "id")
	if err != nil {
		renderNotFound(h.renderer, w, r)
		return
	}

	if err := h.favoriteService.Unfavorite(r.Context(), current.ID, messageID); err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	http.Redirect(w, r, redirectTarget(r), http.StatusFound)
}

// redirectTarget はお気に入り操作後の戻り先を決める。
// 同一サイト内のRefererがあればそこへ、なければホームへ戻す。
// 外部ホストへのオープンリダイレクトは受け付けない。
func redirectTarget(r *http.Request) string {
	referer := r.Header.Get("Referer")
	if referer == "" {
		return "/"
	}

	u, err := url.Parse(referer)
	if err != nil || u.Path == "" {
		return "/"
	}
	if u.Host != "" && u.Host != r.Host {
		return "/"
	}
	return u.Path
}
