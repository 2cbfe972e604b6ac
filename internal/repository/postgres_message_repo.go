package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/saezuri/internal/model"
)

// PostgresMessageRepo はPostgreSQLを使用したメッセージリポジトリ。
type PostgresMessageRepo struct {
	db *sql.DB
}

// NewPostgresMessageRepo はPostgresMessageRepoを生成する。
func NewPostgresMessageRepo(db *sql.DB) *PostgresMessageRepo {
	return &PostgresMessageRepo{db: db}
}

// Create はメッセージを作成し、採番されたIDとサーバー付与のタイムスタンプを書き戻す。
func (r *PostgresMessageRepo) Create(ctx context.Context, message *model.Message) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO messages (user_id, text)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		message.UserID, message.Text,
	).Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		return fmt.Errorf("メッセージの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDのメッセージを取得する。見つからない場合はnilを返す。
func (r *PostgresMessageRepo) FindByID(ctx context.Context, id int64) (*model.Message, error) {
	message := &model.Message{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, text, created_at FROM messages WHERE id = $1`,
		id,
	).Scan(&message.ID, &message.UserID, &message.Text, &message.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("メッセージの取得に失敗しました: %w", err)
	}
	return message, nil
}

// FindByIDWithAuthor は指定IDのメッセージを投稿者情報付きで取得する。
// 見つからない場合はnilを返す。
func (r *PostgresMessageRepo) FindByIDWithAuthor(ctx context.Context, id int64) (*model.MessageWithAuthor, error) {
	m := &model.MessageWithAuthor{}
	err := r.db.QueryRowContext(ctx,
		`SELECT m.id, m.user_id, m.text, m.created_at, u.username, u.image_url
		 FROM messages m
		 JOIN users u ON m.user_id = u.id
		 WHERE m.id = $1`,
		id,
	).Scan(&m.ID, &m.UserID, &m.Text, &m.CreatedAt, &m.AuthorUsername, &m.AuthorImageURL)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("メッセージ（投稿者付き）の取得に失敗しました: %w", err)
	}
	return m, nil
}

// ListByUserID は指定ユーザーの投稿一覧を新しい順で返す。
func (r *PostgresMessageRepo) ListByUserID(ctx context.Context, userID int64) ([]model.MessageWithAuthor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.user_id, m.text, m.created_at, u.username, u.image_url
		 FROM messages m
		 JOIN users u ON m.user_id = u.id
		 WHERE m.user_id = $1
		 ORDER BY m.created_at DESC, m.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの投稿一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanMessagesWithAuthor(rows)
}

// ListTimeline は指定ユーザーのホームタイムラインを返す。
// 本人およびフォロー中ユーザーのメッセージを新しい順に最大limit件取得する。
func (r *PostgresMessageRepo) ListTimeline(ctx context.Context, userID int64, limit int) ([]model.MessageWithAuthor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.user_id, m.text, m.created_at, u.username, u.image_url
		 FROM messages m
		 JOIN users u ON m.user_id = u.id
		 WHERE m.user_id = $1
		    OR m.user_id IN (SELECT followee_id FROM follows WHERE follower_id = $1)
		 ORDER BY m.created_at DESC, m.id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("タイムラインの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanMessagesWithAuthor(rows)
}

// DeleteByID は指定IDのメッセージを削除する。
func (r *PostgresMessageRepo) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM messages WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("メッセージの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewMessageNotFoundError(id)
	}
	return nil
}

// scanMessagesWithAuthor は投稿者付きメッセージ行を全件読み取る。
func scanMessagesWithAuthor(rows *sql.Rows) ([]model.MessageWithAuthor, error) {
	var messages []model.MessageWithAuthor
	for rows.Next() {
		var m model.MessageWithAuthor
		if err := rows.Scan(&m.ID, &m.UserID, &m.Text, &m.CreatedAt, &m.AuthorUsername, &m.AuthorImageURL); err != nil {
			return nil, fmt.Errorf("メッセージ行の読み取りに失敗しました: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("メッセージ一覧の走査に失敗しました: %w", err)
	}
	return messages, nil
}

// compile-time interface check
var _ MessageRepository = (*PostgresMessageRepo)(nil)
