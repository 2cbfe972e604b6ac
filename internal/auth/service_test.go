package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/saezuri/internal/model"
	"github.com/hitoshi/saezuri/internal/repository"
)

// mockUserRepo は関数フィールドで挙動を差し替えるUserRepositoryモック
type mockUserRepo struct {
	createFunc         func(ctx context.Context, user *model.User) error
	findByUsernameFunc func(ctx context.Context, username string) (*model.User, error)
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.createFunc(ctx, user)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.findByUsernameFunc(ctx, username)
}

func (m *mockUserRepo) List(ctx context.Context, query string) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	return nil
}

func (m *mockUserRepo) DeleteByID(ctx context.Context, id int64) error {
	return nil
}

// mockSessionRepo は関数フィールドで挙動を差し替えるSessionRepositoryモック
type mockSessionRepo struct {
	createFunc     func(ctx context.Context, session *model.Session) error
	deleteByIDFunc func(ctx context.Context, id string) error
}

var _ repository.SessionRepository = (*mockSessionRepo)(nil)

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	return m.createFunc(ctx, session)
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByIDFunc(ctx, id)
}

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	return nil
}

// Signupがパスワードをハッシュ化しデフォルト画像を設定することを検証
func TestService_Signup(t *testing.T) {
	var saved *model.User
	userRepo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			saved = user
			return nil
		},
	}

	svc := NewService(userRepo, nil, nil, nil, ServiceConfig{SessionMaxAge: 3600})
	user, err := svc.Signup(context.Background(), SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if user.ID != 1 {
		t.Errorf("ID = %d, want 1", user.ID)
	}
	if saved.PasswordHash == "password" || saved.PasswordHash == "" {
		t.Errorf("password should be stored hashed, got %q", saved.PasswordHash)
	}
	if !VerifyPassword(saved.PasswordHash, "password") {
		t.Error("stored hash should verify against the original password")
	}
	if saved.ImageURL != model.DefaultImageURL {
		t.Errorf("ImageURL = %q, want default placeholder", saved.ImageURL)
	}
	if saved.HeaderImageURL != model.DefaultHeaderImageURL {
		t.Errorf("HeaderImageURL = %q, want default placeholder", saved.HeaderImageURL)
	}
}

// 入力検証エラーのケースを検証
func TestService_Signup_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input SignupInput
	}{
		{"ユーザー名なし", SignupInput{Email: "a@example.com", Password: "password"}},
		{"ユーザー名が長すぎる", SignupInput{Username: strings.Repeat("a", 31), Email: "a@example.com", Password: "password"}},
		{"メールアドレスなし", SignupInput{Username: "alice", Password: "password"}},
		{"メールアドレスの形式不正", SignupInput{Username: "alice", Email: "not-an-email", Password: "password"}},
		{"パスワードが短すぎる", SignupInput{Username: "alice", Email: "a@example.com", Password: "12345"}},
	}

	userRepo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *model.User) error {
			t.Fatal("Create should not be called for invalid input")
			return nil
		},
	}
	svc := NewService(userRepo, nil, nil, nil, ServiceConfig{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.input)
			var appErr *model.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("error = %v, want AppError", err)
			}
			if appErr.Category != model.CategoryValidation {
				t.Errorf("category = %q, want validation", appErr.Category)
			}
		})
	}
}

// 重複ユーザー名のconflictエラーがそのまま呼び出し元へ届くことを検証
func TestService_Signup_Duplicate(t *testing.T) {
	userRepo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *model.User) error {
			return model.NewDuplicateUserError()
		},
	}

	svc := NewService(userRepo, nil, nil, nil, ServiceConfig{})
	_, err := svc.Signup(context.Background(), SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password",
	})

	var appErr *model.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want AppError", err)
	}
	if appErr.Category != model.CategoryConflict {
		t.Errorf("category = %q, want conflict", appErr.Category)
	}
}

// 正しい資格情報で認証が成功することを検証
func TestService_Authenticate(t *testing.T) {
	hash, err := HashPassword("correct")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			if username != "alice" {
				return nil, nil
			}
			return &model.User{ID: 1, Username: "alice", PasswordHash: hash}, nil
		},
	}
	svc := NewService(userRepo, nil, nil, nil, ServiceConfig{})

	user, err := svc.Authenticate(context.Background(), "alice", "correct")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("ID = %d, want 1", user.ID)
	}
}

// 不存在ユーザーとパスワード不一致が同じエラーになることを検証
func TestService_Authenticate_Invalid(t *testing.T) {
	hash, err := HashPassword("correct")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			if username == "alice" {
				return &model.User{ID: 1, Username: "alice", PasswordHash: hash}, nil
			}
			return nil, nil
		},
	}
	svc := NewService(userRepo, nil, nil, nil, ServiceConfig{})

	for _, tt := range []struct {
		name     string
		username string
		password string
	}{
		{"パスワード不一致", "alice", "wrong"},
		{"ユーザー不存在", "nobody", "correct"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tt.username, tt.password)
			var appErr *model.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("error = %v, want AppError", err)
			}
			if appErr.Code != model.ErrCodeInvalidCredential {
				t.Errorf("code = %q, want %q", appErr.Code, model.ErrCodeInvalidCredential)
			}
		})
	}
}

// CreateSessionが一意なIDと有効期限を設定することを検証
func TestService_CreateSession(t *testing.T) {
	var saved *model.Session
	sessionRepo := &mockSessionRepo{
		createFunc: func(ctx context.Context, session *model.Session) error {
			saved = session
			return nil
		},
	}

	svc := NewService(nil, sessionRepo, nil, nil, ServiceConfig{SessionMaxAge: 3600})
	session, err := svc.CreateSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}

	if session.ID == "" {
		t.Error("session ID should not be empty")
	}
	if saved.UserID != 1 {
		t.Errorf("UserID = %d, want 1", saved.UserID)
	}
	wantExpiry := time.Now().Add(time.Hour)
	if saved.ExpiresAt.Before(wantExpiry.Add(-time.Minute)) || saved.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want about %v", saved.ExpiresAt, wantExpiry)
	}

	// 連続発行でIDが重複しないこと
	second, err := svc.CreateSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if second.ID == session.ID {
		t.Error("session IDs should be unique")
	}
}

// Logoutがセッション削除を委譲することを検証
func TestService_Logout(t *testing.T) {
	var deleted string
	sessionRepo := &mockSessionRepo{
		deleteByIDFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	svc := NewService(nil, sessionRepo, nil, nil, ServiceConfig{})
	if err := svc.Logout(context.Background(), "sess-1"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if deleted != "sess-1" {
		t.Errorf("deleted = %q, want sess-1", deleted)
	}

	// 空IDは何もしない
	deleted = ""
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if deleted != "" {
		t.Error("empty session ID should be a no-op")
	}
}
