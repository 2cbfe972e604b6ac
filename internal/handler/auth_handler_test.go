package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/saezuri/internal/auth"
	"github.com/hitoshi/saezuri/internal/middleware"
	"github.com/hitoshi/saezuri/internal/model"
	"github.com/hitoshi/saezuri/internal/view"
)

// newTestRenderer は埋め込みテンプレートをパースしたRendererを返す。
func newTestRenderer(t *testing.T) *view.Renderer {
	t.Helper()
	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("テンプレートのパースに失敗: %v", err)
	}
	return renderer
}

// postForm はフォームPOSTリクエストを生成する。
func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// withUser はログイン中ユーザーをコンテキストに設定したリクエストを返す。
func withUser(req *http.Request, user *model.User) *http.Request {
	return req.WithContext(middleware.ContextWithUser(req.Context(), user))
}

type mockAuthService struct {
	signupFunc        func(ctx context.Context, input auth.SignupInput) (*model.User, error)
	authenticateFunc  func(ctx context.Context, username, password string) (*model.User, error)
	createSessionFunc func(ctx context.Context, userID int64) (*model.Session, error)
	logoutFunc        func(ctx context.Context, sessionID string) error
}

var _ AuthServiceInterface = (*mockAuthService)(nil)

func (m *mockAuthService) Signup(ctx context.Context, input auth.SignupInput) (*model.User, error) {
	return m.signupFunc(ctx, input)
}

func (m *mockAuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	return m.authenticateFunc(ctx, username, password)
}

func (m *mockAuthService) CreateSession(ctx context.Context, userID int64) (*model.Session, error) {
	if m.createSessionFunc != nil {
		return m.createSessionFunc(ctx, userID)
	}
	return &model.Session{
		ID:        "test-session-id",
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionID)
	}
	return nil
}

// sessionCookie はレスポンスからセッションCookieを探す。
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandler_ShowSignup(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, newTestRenderer(t), AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/signup", nil)
	rec := httptest.NewRecorder()
	h.ShowSignup(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `action="/signup"`) {
		t.Error("サインアップフォームが描画されていない")
	}
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	service := &mockAuthService{
		signupFunc: func(ctx context.Context, input auth.SignupInput) (*model.User, error) {
			if input.Username != "alice" {
				t.Errorf("username = %q, want %q", input.Username, "alice")
			}
			return &model.User{ID: 1, Username: input.Username, Email: input.Email}, nil
		},
	}
	h := NewAuthHandler(service, newTestRenderer(t), AuthHandlerConfig{SessionMaxAge: 3600})

	rec := httptest.NewRecorder()
	h.Signup(rec, postForm("/signup", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"secret1"},
	}))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want %q", loc, "/")
	}

	cookie := sessionCookie(t, rec)
	if cookie == nil {
		t.Fatal("セッションCookieが設定されていない")
	}
	if cookie.Value != "test-session-id" {
		t.Errorf("cookie value = %q, want %q", cookie.Value, "test-session-id")
	}
	if !cookie.HttpOnly {
		t.Error("セッションCookieはHttpOnlyであるべき")
	}
}

func TestAuthHandler_Signup_Duplicate(t *testing.T) {
	service := &mockAuthService{
		signupFunc: func(ctx context.Context, input auth.SignupInput) (*model.User, error) {
			return nil, model.NewDuplicateUserError()
		},
	}
	h := NewAuthHandler(service, newTestRenderer(t), AuthHandlerConfig{})

	rec := httptest.NewRecorder()
	h.Signup(rec, postForm("/signup", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"secret1"},
	}))

	// 重複エラーは入力値を保持したままフォームを再表示する
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "既に使用されています") {
		t.Error("重複エラーメッセージが表示されていない")
	}
	if !strings.Contains(body, `value="alice"`) {
		t.Error("入力したユーザー名が保持されていない")
	}
	if cookie := sessionCookie(t, rec); cookie != nil {
		t.Error("失敗時にセッションCookieを設定してはならない")
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	service := &mockAuthService{
		authenticateFunc: func(ctx context.Context, username, password string) (*model.User, error) {
			return &model.User{ID: 1, Username: username}, nil
		},
	}
	h := NewAuthHandler(service, newTestRenderer(t), AuthHandlerConfig{SessionMaxAge: 3600})

	rec := httptest.NewRecorder()
	h.Login(rec, postForm("/login", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
	}))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want %q", loc, "/")
	}
	if sessionCookie(t, rec) == nil {
		t.Error("セッションCookieが設定されていない")
	}
}

func TestAuthHandler_Login_InvalidCredential(t *testing.T) {
	service := &mockAuthService{
		authenticateFunc: func(ctx context.Context, username, password string) (*model.User, error) {
			return nil, model.NewInvalidCredentialError()
		},
	}
	h := NewAuthHandler(service, newTestRenderer(t), AuthHandlerConfig{})

	rec := httptest.NewRecorder()
	h.Login(rec, postForm("/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	}))

	// 認証失敗は200でフォームを再表示する
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "ユーザー名またはパスワードが正しくありません") {
		t.Error("認証失敗メッセージが表示されていない")
	}
	if sessionCookie(t, rec) != nil {
		t.Error("認証失敗時にセッションCookieを設定してはならない")
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var deletedSessionID string
	service := &mockAuthService{
		logoutFunc: func(ctx context.Context, sessionID string) error {
			deletedSessionID = sessionID
			return nil
		},
	}
	h := NewAuthHandler(service, newTestRenderer(t), AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "sess-123"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if deletedSessionID != "sess-123" {
		t.Errorf("削除されたセッションID = %q, want %q", deletedSessionID, "sess-123")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}

	cookie := sessionCookie(t, rec)
	if cookie == nil {
		t.Fatal("セッションCookieの削除指示がない")
	}
	if cookie.MaxAge != -1 {
		t.Errorf("cookie MaxAge = %d, want -1", cookie.MaxAge)
	}
}
