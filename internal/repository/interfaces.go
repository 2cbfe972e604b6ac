// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/saezuri/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成し、採番されたIDとタイムスタンプをuserに書き戻す。
	// ユーザー名またはメールアドレスが重複している場合はmodel.AppError（conflict）を返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// List はユーザー一覧をユーザー名昇順で返す。
	// queryが空でない場合はユーザー名の部分一致で絞り込む。
	List(ctx context.Context, query string) ([]*model.User, error)

	// Update はユーザーのプロフィール情報を更新する。
	// ユーザー名またはメールアドレスが重複する場合はmodel.AppError（conflict）を返す。
	Update(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するsessions、messages、follows、favoritesはCASCADE削除される。
	DeleteByID(ctx context.Context, id int64) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID int64) error
}

// MessageRepository はメッセージデータの永続化インターフェース。
type MessageRepository interface {
	// Create はメッセージを作成し、採番されたIDとサーバー付与のタイムスタンプを書き戻す。
	Create(ctx context.Context, message *model.Message) error

	// FindByID は指定IDのメッセージを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Message, error)

	// FindByIDWithAuthor は指定IDのメッセージを投稿者情報付きで取得する。
	// 見つからない場合はnilを返す。
	FindByIDWithAuthor(ctx context.Context, id int64) (*model.MessageWithAuthor, error)

	// ListByUserID は指定ユーザーの投稿一覧を新しい順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]model.MessageWithAuthor, error)

	// ListTimeline は指定ユーザーのホームタイムラインを返す。
	// 本人およびフォロー中ユーザーのメッセージを新しい順に最大limit件取得する。
	ListTimeline(ctx context.Context, userID int64, limit int) ([]model.MessageWithAuthor, error)

	// DeleteByID は指定IDのメッセージを削除する。
	// 所有者の検証はサービス層で行う。
	DeleteByID(ctx context.Context, id int64) error
}

// FollowRepository はフォロー関係の永続化インターフェース。
type FollowRepository interface {
	// Create はフォローエッジを作成する。既に存在する場合は何もしない（冪等）。
	Create(ctx context.Context, followerID, followeeID int64) error

	// Delete はフォローエッジを削除する。存在しない場合も正常に返る。
	Delete(ctx context.Context, followerID, followeeID int64) error

	// Exists は(follower, followee)のエッジが存在するかを返す。
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)

	// ListFollowees は指定ユーザーがフォローしているユーザー一覧を返す。
	ListFollowees(ctx context.Context, userID int64) ([]*model.User, error)

	// ListFollowers は指定ユーザーをフォローしているユーザー一覧を返す。
	ListFollowers(ctx context.Context, userID int64) ([]*model.User, error)

	// CountFollowees は指定ユーザーのフォロー数を返す。
	CountFollowees(ctx context.Context, userID int64) (int, error)

	// CountFollowers は指定ユーザーのフォロワー数を返す。
	CountFollowers(ctx context.Context, userID int64) (int, error)
}

// FavoriteRepository はお気に入りの永続化インターフェース。
// 削除・存在判定は常に(user, message)の組でスコープする。
type FavoriteRepository interface {
	// Create はお気に入りを作成する。既に存在する場合は何もしない（冪等）。
	Create(ctx context.Context, userID, messageID int64) error

	// Delete は(user, message)の組に一致するお気に入りを削除する。
	Delete(ctx context.Context, userID, messageID int64) error

	// Exists は(user, message)のお気に入りが存在するかを返す。
	Exists(ctx context.Context, userID, messageID int64) (bool, error)

	// CountByUserID は指定ユーザーのお気に入り数を返す。
	CountByUserID(ctx context.Context, userID int64) (int, error)

	// CountByMessageID は指定メッセージに付いたお気に入り数を返す。
	CountByMessageID(ctx context.Context, messageID int64) (int, error)

	// FilterFavorited はmessageIDsのうちユーザーがお気に入り済みのID集合を返す。
	// 全favoritesの走査ではなく(user, messageIDs)にスコープしたクエリを使う。
	FilterFavorited(ctx context.Context, userID int64, messageIDs []int64) (map[int64]bool, error)

	// ListMessagesFavoritedBy は指定ユーザーがお気に入りしたメッセージを
	// 投稿者情報付きでお気に入り登録の新しい順に返す。
	ListMessagesFavoritedBy(ctx context.Context, userID int64) ([]model.MessageWithAuthor, error)
}
