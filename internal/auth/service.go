// Package auth はサインアップ、パスワード認証、セッション管理を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hitoshi/saezuri/internal/model"
	"github.com/hitoshi/saezuri/internal/repository"
)

// ユーザー名・パスワードの制約。
const (
	usernameMaxLength = 30
	passwordMinLength = 6
)

// ImageURLValidator はプロフィール画像URLの検証インターフェース。
// security.ImageURLGuardの部分集合として定義する。
type ImageURLValidator interface {
	ValidateImageURL(rawURL string) error
}

// MetricsRecorder は認証系メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordSignup()
	RecordLogin(success bool)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	urlValidator ImageURLValidator
	metrics      MetricsRecorder
	config       ServiceConfig
}

// NewService はServiceを生成する。
// urlValidatorとmetricsはnilを許容する（検証・記録をスキップ）。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	urlValidator ImageURLValidator,
	metrics MetricsRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		urlValidator: urlValidator,
		metrics:      metrics,
		config:       config,
	}
}

// SignupInput はサインアップフォームの入力値。
type SignupInput struct {
	Username string
	Email    string
	Password string
	ImageURL string // 空の場合はデフォルトのプレースホルダを使用
}

// Signup は新規ユーザーを作成しDBに保存する。
// パスワードはbcryptでハッシュ化してから永続化する。
// ユーザー名またはメールアドレスが既に使用されている場合はconflictのAppErrorを返す。
func (s *Service) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	if err := validateSignupInput(input); err != nil {
		return nil, err
	}

	imageURL := strings.TrimSpace(input.ImageURL)
	if imageURL == "" {
		imageURL = model.DefaultImageURL
	} else if s.urlValidator != nil {
		if err := s.urlValidator.ValidateImageURL(imageURL); err != nil {
			return nil, model.NewInvalidImageURLError(err.Error())
		}
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	user := &model.User{
		Email:          strings.TrimSpace(input.Email),
		Username:       strings.TrimSpace(input.Username),
		PasswordHash:   hash,
		ImageURL:       imageURL,
		HeaderImageURL: model.DefaultHeaderImageURL,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordSignup()
	}
	slog.Info("new user signed up",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Authenticate はユーザー名とパスワードでユーザーを認証する。
// パスワードが保存済みハッシュと一致した場合のみユーザーを返す。
// ユーザー不存在とパスワード不一致はいずれも同じvalidationエラーになる。
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}

	if user == nil || !VerifyPassword(user.PasswordHash, password) {
		if s.metrics != nil {
			s.metrics.RecordLogin(false)
		}
		return nil, model.NewInvalidCredentialError()
	}

	if s.metrics != nil {
		s.metrics.RecordLogin(true)
	}
	return user, nil
}

// CreateSession はユーザーのログインセッションを発行し永続化する。
func (s *Service) CreateSession(ctx context.Context, userID int64) (*model.Session, error) {
	now := time.Now()
	session := &model.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("セッションの保存に失敗しました: %w", err)
	}

	return session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}

	return nil
}

// validateSignupInput はサインアップ入力の形式検証を行う。
func validateSignupInput(input SignupInput) error {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return model.NewInvalidFieldError("ユーザー名", "必須項目です")
	}
	if utf8.RuneCountInString(username) > usernameMaxLength {
		return model.NewInvalidFieldError("ユーザー名", fmt.Sprintf("%d文字以内で入力してください", usernameMaxLength))
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		return model.NewInvalidFieldError("メールアドレス", "必須項目です")
	}
	if !strings.Contains(email, "@") {
		return model.NewInvalidFieldError("メールアドレス", "形式が正しくありません")
	}

	if utf8.RuneCountInString(input.Password) < passwordMinLength {
		return model.NewInvalidFieldError("パスワード", fmt.Sprintf("%d文字以上で入力してください", passwordMinLength))
	}

	return nil
}
