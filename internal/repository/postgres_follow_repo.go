package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/saezuri/internal/model"
)

// PostgresFollowRepo はPostgreSQLを使用したフォローリポジトリ。
type PostgresFollowRepo struct {
	db *sql.DB
}

// NewPostgresFollowRepo はPostgresFollowRepoを生成する。
func NewPostgresFollowRepo(db *sql.DB) *PostgresFollowRepo {
	return &PostgresFollowRepo{db: db}
}

// Create はフォローエッジを作成する。既に存在する場合は何もしない（冪等）。
func (r *PostgresFollowRepo) Create(ctx context.Context, followerID, followeeID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followee_id)
		 VALUES ($1, $2)
		 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID,
	)
	if err != nil {
		return fmt.Errorf("フォローの作成に失敗しました: %w", err)
	}
	return nil
}

// Delete はフォローエッジを削除する。存在しない場合も正常に返る。
func (r *PostgresFollowRepo) Delete(ctx context.Context, followerID, followeeID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
		followerID, followeeID,
	)
	if err != nil {
		return fmt.Errorf("フォローの削除に失敗しました: %w", err)
	}
	return nil
}

// Exists は(follower, followee)のエッジが存在するかを返す。
func (r *PostgresFollowRepo) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2
		 )`,
		followerID, followeeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("フォロー関係の判定に失敗しました: %w", err)
	}
	return exists, nil
}

// ListFollowees は指定ユーザーがフォローしているユーザー一覧を返す。
func (r *PostgresFollowRepo) ListFollowees(ctx context.Context, userID int64) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+prefixedUserColumns("u")+`
		 FROM follows f
		 JOIN users u ON f.followee_id = u.id
		 WHERE f.follower_id = $1
		 ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("フォロー一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// ListFollowers は指定ユーザーをフォローしているユーザー一覧を返す。
func (r *PostgresFollowRepo) ListFollowers(ctx context.Context, userID int64) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+prefixedUserColumns("u")+`
		 FROM follows f
		 JOIN users u ON f.follower_id = u.id
		 WHERE f.followee_id = $1
		 ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("フォロワー一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// CountFollowees は指定ユーザーのフォロー数を返す。
func (r *PostgresFollowRepo) CountFollowees(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("フォロー数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountFollowers は指定ユーザーのフォロワー数を返す。
func (r *PostgresFollowRepo) CountFollowers(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE followee_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("フォロワー数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// prefixedUserColumns はテーブルエイリアス付きのユーザーカラムリストを返す。
func prefixedUserColumns(alias string) string {
	return alias + `.id, ` + alias + `.email, ` + alias + `.username, ` + alias + `.password_hash, ` +
		alias + `.image_url, ` + alias + `.header_image_url, ` + alias + `.bio, ` + alias + `.location, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}

// scanUsers はユーザー行を全件読み取る。
func scanUsers(rows *sql.Rows) ([]*model.User, error) {
	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ユーザー行の読み取りに失敗しました: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ユーザー一覧の走査に失敗しました: %w", err)
	}
	return users, nil
}

// compile-time interface check
var _ FollowRepository = (*PostgresFollowRepo)(nil)
