package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/hitoshi/saezuri/internal/flash"
	"github.com/hitoshi/saezuri/internal/middleware"
	"github.com/hitoshi/saezuri/internal/model"
	"github.com/hitoshi/saezuri/internal/user"
	"github.com/hitoshi/saezuri/internal/view"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	Get(ctx context.Context, userID int64) (*model.User, error)
	Search(ctx context.Context, query string) ([]*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, input user.UpdateProfileInput) (*model.User, error)
	Withdraw(ctx context.Context, userID int64) error
}

// SocialServiceInterface はフォロー操作のサービスインターフェース。
type SocialServiceInterface interface {
	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)
	ListFollowees(ctx context.Context, userID int64) ([]*model.User, error)
	ListFollowers(ctx context.Context, userID int64) ([]*model.User, error)
	Counts(ctx context.Context, userID int64) (followees, followers int, err error)
}

// UserMessageLister はプロフィールページに表示する投稿一覧のインターフェース。
type UserMessageLister interface {
	ListByUser(ctx context.Context, userID int64) ([]model.MessageWithAuthor, error)
}

// UserFavoriteReader はお気に入り一覧と件数のインターフェース。
type UserFavoriteReader interface {
	Count(ctx context.Context, userID int64) (int, error)
	ListMessages(ctx context.Context, userID int64) ([]model.MessageWithAuthor, error)
}

// UserHandler はユーザー検索・プロフィール・フォロー関連のHTTPハンドラー。
type UserHandler struct {
	userService     UserServiceInterface
	socialService   SocialServiceInterface
	messageLister   UserMessageLister
	favoriteReader  UserFavoriteReader
	renderer        *view.Renderer
	clearAuthCookie func(w http.ResponseWriter)
}

// NewUserHandler はUserHandlerを生成する。
// clearAuthCookieは退会時にセッションCookieを消すためのフック。
func NewUserHandler(
	userService UserServiceInterface,
	socialService SocialServiceInterface,
	messageLister UserMessageLister,
	favoriteReader UserFavoriteReader,
	renderer *view.Renderer,
	clearAuthCookie func(w http.ResponseWriter),
) *UserHandler {
	return &UserHandler{
		userService:     userService,
		socialService:   socialService,
		messageLister:   messageLister,
		favoriteReader:  favoriteReader,
		renderer:        renderer,
		clearAuthCookie: clearAuthCookie,
	}
}

// Index はユーザー検索ページを表示する。
// GET /users?q=xxx
func (h *UserHandler) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	users, err := h.userService.Search(r.Context(), query)
	if err != nil {
		handleError(h.renderer, w, r, err, "/users")
		return
	}

	h.renderer.Render(w, http.StatusOK, "users", pageData(w, r, "ユーザー検索", &view.UsersContent{
		Query: query,
		Users: users,
	}))
}

// Show はユーザープロフィールページを表示する。
// GET /users/{id}
func (h *UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	profileID, err := idParam(r, "id")
	if err != nil {
		renderNotFound(h.renderer, w, r)
		return
	}

	profile, err := h.userService.Get(r.Context(), profileID)
	if err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	messages, err := h.messageLister.ListByUser(r.Context(), profileID)
	if err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	followees, followers, err := h.socialService.Counts(r.Context(), profileID)
	if err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	favoriteCount, err := h.favoriteReader.Count(r.Context(), profileID)
	if err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	content := &view.UserShowContent{
		Profile:       profile,
		Messages:      messages,
		MessageCount:  len(messages),
		FolloweeCount: followees,
		FollowerCount: followers,
		FavoriteCount: favoriteCount,
	}

	if current := middleware.UserFromContext(r.Context()); current != nil {
		content.IsSelf = current.ID == profileID
		if !content.IsSelf {
			following, err := h.socialService.IsFollowing(r.Context(), current.ID, profileID)
			if err != nil {
				handleError(h.renderer, w, r, err, "/")
				return
			}
			content.IsFollowing = following
		}
	}

	h.renderer.Render(w, http.StatusOK, "user_show", pageData(w, r, "@"+profile.Username, content))
}

// Following はフォロー中ユーザーの一覧を表示する。
// GET /users/{id}/following
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.renderUserList(w, r, "フォロー", h.socialService.ListFollowees)
}

// Followers はフォロワーの一覧を表示する。
// GET /users/{id}/followers
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.renderUserList(w, r, "フォロワー", h.socialService.ListFollowers)
}

// renderUserList はフォロー・フォロワー一覧ページの共通描画処理。
func (h *UserHandler) renderUserList(
	w http.ResponseWriter,
	r *http.Request,
	heading string,
	list func(ctx context.Context, userID int64) ([]*model.User, error),
) {
	profileID, err := idParam(r, "id")
	if err != nil {
		renderNotFound(h.renderer, w, r)
		return
	}

	profile, err := h.userService.Get(r.Context(), profileID)
	if err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	users, err := list(r.Context(), profileID)
	if err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	h.renderer.Render(w, http.StatusOK, "user_list", pageData(w, r, heading, &view.UserListContent{
		Profile: profile,
		Heading: heading,
		Users:   users,
	}))
}

// Favorites はユーザーのお気に入りメッセージ一覧を表示する。
// GET /users/{id}/favorites
func (h *UserHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	profileID, err := idParam(r, "id")
	if err != nil {
		renderNotFound(h.renderer, w, r)
		return
	}

	profile, err := h.userService.Get(r.Context(), profileID)
	if err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	messages, err := h.favoriteReader.ListMessages(r.Context(), profileID)
	if err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	h.renderer.Render(w, http.StatusOK, "favorites", pageData(w, r, "お気に入り", &view.FavoritesContent{
		Profile:  profile,
		Messages: messages,
	}))
}

// Follow は対象ユーザーをフォローする。
// POST /users/follow/{id}
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	followeeID, err := idParam(r, "id")
	if err != nil {
		renderNotFound(h.renderer, w, r)
		return
	}

	if err := h.socialService.Follow(r.Context(), current.ID, followeeID); err != nil {
		handleError(h.renderer, w, r, err, profilePath(followeeID))
		return
	}

	http.Redirect(w, r, profilePath(followeeID), http.StatusFound)
}

// Unfollow は対象ユーザーのフォローを解除する。
// POST /users/stop-following/{id}
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	followeeID, err := idParam(r, "id")
	if err != nil {
		renderNotFound(h.renderer, w, r)
		return
	}

	if err := h.socialService.Unfollow(r.Context(), current.ID, followeeID); err != nil {
		handleError(h.renderer, w, r, err, profilePath(followeeID))
		return
	}

	http.Redirect(w, r, profilePath(followeeID), http.StatusFound)
}

// ShowProfile はプロフィール編集フォームを表示する。
// GET /users/profile
func (h *UserHandler) ShowProfile(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "user_edit", pageData(w, r, "プロフィール編集", &view.UserEditContent{
		User: current,
	}))
}

// UpdateProfile はプロフィール編集フォームを処理する。
// 現在のパスワードによる再認証をサービス層で行う。
// POST /users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	input := user.UpdateProfileInput{
		Username:       r.PostFormValue("username"),
		Email:          r.PostFormValue("email"),
		ImageURL:       r.PostFormValue("image_url"),
		HeaderImageURL: r.PostFormValue("header_image_url"),
		Bio:            r.PostFormValue("bio"),
		Location:       r.PostFormValue("location"),
		Password:       r.PostFormValue("password"),
	}

	updated, err := h.userService.UpdateProfile(r.Context(), current.ID, input)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) && appErr.Category != model.CategoryNotFound {
			// 入力値を保持してフォームを再表示する
			form := *current
			form.Username = input.Username
			form.Email = input.Email
			form.ImageURL = input.ImageURL
			form.HeaderImageURL = input.HeaderImageURL
			form.Bio = input.Bio
			form.Location = input.Location
			h.renderer.Render(w, http.StatusOK, "user_edit", pageData(w, r, "プロフィール編集", &view.UserEditContent{
				User:  &form,
				Error: appErr.Message,
			}))
			return
		}
		handleError(h.renderer, w, r, err, "/users/profile")
		return
	}

	redirectWithFlash(w, r, profilePath(updated.ID), flash.LevelSuccess, "プロフィールを更新しました。")
}

// Withdraw はアカウントを削除し、セッションCookieをクリアする。
// POST /users/delete
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())

	if err := h.userService.Withdraw(r.Context(), current.ID); err != nil {
		handleError(h.renderer, w, r, err, "/users/profile")
		return
	}

	if h.clearAuthCookie != nil {
		h.clearAuthCookie(w)
	}
	redirectWithFlash(w, r, "/signup", flash.LevelSuccess, "アカウントを削除しました。またのご利用をお待ちしています。")
}

// profilePath はユーザープロフィールページのパスを返す。
func profilePath(userID int64) string {
	return "/users/" + formatID(userID)
}
