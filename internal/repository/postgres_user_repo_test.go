package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/hitoshi/saezuri/internal/model"
)

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "username", "password_hash",
		"image_url", "header_image_url", "bio", "location",
		"created_at", "updated_at",
	})
}

// Createが採番されたIDとタイムスタンプを書き戻すことを検証
func TestPostgresUserRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice@example.com", "alice", "hash", model.DefaultImageURL, model.DefaultHeaderImageURL, "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	repo := NewPostgresUserRepo(db)
	user := &model.User{
		Email:          "alice@example.com",
		Username:       "alice",
		PasswordHash:   "hash",
		ImageURL:       model.DefaultImageURL,
		HeaderImageURL: model.DefaultHeaderImageURL,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("user.ID = %d, want 1", user.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// 一意制約違反がconflictのAppErrorに変換されることを検証
func TestPostgresUserRepo_Create_DuplicateMapsToConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	repo := NewPostgresUserRepo(db)
	err = repo.Create(context.Background(), &model.User{Username: "alice", Email: "a@example.com"})

	var appErr *model.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *model.AppError, got %T: %v", err, err)
	}
	if appErr.Category != model.CategoryConflict {
		t.Errorf("Category = %q, want %q", appErr.Category, model.CategoryConflict)
	}
}

// FindByUsernameが未検出時に(nil, nil)を返すことを検証
func TestPostgresUserRepo_FindByUsername_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username`).
		WithArgs("ghost").
		WillReturnRows(userRows())

	repo := NewPostgresUserRepo(db)
	user, err := repo.FindByUsername(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("FindByUsername returned error: %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil", user)
	}
}

// Listが検索クエリを部分一致条件として渡すことを検証
func TestPostgresUserRepo_List_WithQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE username ILIKE`).
		WithArgs("ali").
		WillReturnRows(userRows().AddRow(
			int64(1), "alice@example.com", "alice", "hash",
			model.DefaultImageURL, model.DefaultHeaderImageURL, "", "",
			now, now,
		))

	repo := NewPostgresUserRepo(db)
	users, err := repo.List(context.Background(), "ali")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != 1 || users[0].Username != "alice" {
		t.Errorf("unexpected result: %+v", users)
	}
}

// Updateが0行更新のときnot_foundを返すことを検証
func TestPostgresUserRepo_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE users`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresUserRepo(db)
	err = repo.Update(context.Background(), &model.User{ID: 99, Username: "nobody"})

	var appErr *model.AppError
	if !errors.As(err, &appErr) || appErr.Category != model.CategoryNotFound {
		t.Fatalf("expected not_found AppError, got %v", err)
	}
}

// DeleteByIDが1行削除で成功することを検証
func TestPostgresUserRepo_DeleteByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users WHERE id`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresUserRepo(db)
	if err := repo.DeleteByID(context.Background(), 1); err != nil {
		t.Fatalf("DeleteByID returned error: %v", err)
	}
}
