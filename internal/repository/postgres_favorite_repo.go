package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/saezuri/internal/model"
)

// PostgresFavoriteRepo はPostgreSQLを使用したお気に入りリポジトリ。
type PostgresFavoriteRepo struct {
	db *sql.DB
}

// NewPostgresFavoriteRepo はPostgresFavoriteRepoを生成する。
func NewPostgresFavoriteRepo(db *sql.DB) *PostgresFavoriteRepo {
	return &PostgresFavoriteRepo{db: db}
}

// Create はお気に入りを作成する。既に存在する場合は何もしない（冪等）。
func (r *PostgresFavoriteRepo) Create(ctx context.Context, userID, messageID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, message_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, message_id) DO NOTHING`,
		userID, messageID,
	)
	if err != nil {
		return fmt.Errorf("お気に入りの作成に失敗しました: %w", err)
	}
	return nil
}

// Delete は(user, message)の組に一致するお気に入りを削除する。
// メッセージIDのみでの削除は他ユーザーのお気に入りを消し得るため行わない。
func (r *PostgresFavoriteRepo) Delete(ctx context.Context, userID, messageID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND message_id = $2`,
		userID, messageID,
	)
	if err != nil {
		return fmt.Errorf("お気に入りの削除に失敗しました: %w", err)
	}
	return nil
}

// Exists は(user, message)のお気に入りが存在するかを返す。
func (r *PostgresFavoriteRepo) Exists(ctx context.Context, userID, messageID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM favorites WHERE user_id = $1 AND message_id = $2
		 )`,
		userID, messageID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("お気に入りの判定に失敗しました: %w", err)
	}
	return exists, nil
}

// CountByUserID は指定ユーザーのお気に入り数を返す。
func (r *PostgresFavoriteRepo) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("お気に入り数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountByMessageID は指定メッセージに付いたお気に入り数を返す。
func (r *PostgresFavoriteRepo) CountByMessageID(ctx context.Context, messageID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE message_id = $1`,
		messageID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("お気に入り数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// FilterFavorited はmessageIDsのうちユーザーがお気に入り済みのID集合を返す。
// (user, messageIDs)にスコープしたクエリを使い、favorites全件の走査は行わない。
func (r *PostgresFavoriteRepo) FilterFavorited(ctx context.Context, userID int64, messageIDs []int64) (map[int64]bool, error) {
	favorited := make(map[int64]bool, len(messageIDs))
	if len(messageIDs) == 0 {
		return favorited, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT message_id FROM favorites
		 WHERE user_id = $1 AND message_id = ANY($2)`,
		userID, pq.Array(messageIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("お気に入り状態の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("お気に入り行の読み取りに失敗しました: %w", err)
		}
		favorited[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("お気に入り状態の走査に失敗しました: %w", err)
	}
	return favorited, nil
}

// ListMessagesFavoritedBy は指定ユーザーがお気に入りしたメッセージを
// 投稿者情報付きでお気に入り登録の新しい順に返す。
func (r *PostgresFavoriteRepo) ListMessagesFavoritedBy(ctx context.Context, userID int64) ([]model.MessageWithAuthor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.user_id, m.text, m.created_at, u.username, u.image_url
		 FROM favorites f
		 JOIN messages m ON f.message_id = m.id
		 JOIN users u ON m.user_id = u.id
		 WHERE f.user_id = $1
		 ORDER BY f.created_at DESC, f.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("お気に入りメッセージ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanMessagesWithAuthor(rows)
}

// compile-time interface check
var _ FavoriteRepository = (*PostgresFavoriteRepo)(nil)
