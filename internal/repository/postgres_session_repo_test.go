package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/hitoshi/saezuri/internal/model"
)

// PostgresSessionRepoはSessionRepositoryインターフェースを満たすことを検証
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

// FindByIDが期限チェック付きのクエリを発行することを検証
func TestPostgresSessionRepo_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM sessions\s+WHERE id = \$1 AND expires_at > now\(\)`).
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "created_at"}).
			AddRow("sess-1", int64(1), now.Add(time.Hour), now))

	repo := NewPostgresSessionRepo(db)
	session, err := repo.FindByID(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if session == nil || session.UserID != 1 {
		t.Errorf("unexpected session: %+v", session)
	}
}

// 期限切れ（該当行なし）の場合にnilを返すことを検証
func TestPostgresSessionRepo_FindByID_Expired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM sessions`).
		WithArgs("expired").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "created_at"}))

	repo := NewPostgresSessionRepo(db)
	session, err := repo.FindByID(context.Background(), "expired")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if session != nil {
		t.Errorf("session = %+v, want nil", session)
	}
}

// Createがセッション行を挿入することを検証
func TestPostgresSessionRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs("sess-1", int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresSessionRepo(db)
	err = repo.Create(context.Background(), &model.Session{
		ID:        "sess-1",
		UserID:    1,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
}

// DeleteByUserIDがユーザーの全セッションを対象にすることを検証
func TestPostgresSessionRepo_DeleteByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM sessions WHERE user_id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	repo := NewPostgresSessionRepo(db)
	if err := repo.DeleteByUserID(context.Background(), 1); err != nil {
		t.Fatalf("DeleteByUserID returned error: %v", err)
	}
}
