// Package user はプロフィール管理と退会処理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/hitoshi/saezuri/internal/model"
	"github.com/hitoshi/saezuri/internal/repository"
)

// プロフィールの文字数制約。
const (
	bioMaxLength      = 160
	locationMaxLength = 30
)

// PasswordVerifier は保存済みハッシュと平文パスワードの照合インターフェース。
type PasswordVerifier func(hash, password string) bool

// ImageURLValidator はプロフィール画像URLの検証インターフェース。
type ImageURLValidator interface {
	ValidateImageURL(rawURL string) error
}

// TextSanitizer はプロフィール文面の無害化インターフェース。
type TextSanitizer interface {
	Sanitize(raw string) string
}

// Service はユーザー管理のサービス層。
// プロフィールの取得・更新・検索と退会処理のビジネスロジックを提供する。
type Service struct {
	userRepo       repository.UserRepository
	sessionRepo    repository.SessionRepository
	verifyPassword PasswordVerifier
	urlValidator   ImageURLValidator
	sanitizer      TextSanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	verifyPassword PasswordVerifier,
	urlValidator ImageURLValidator,
	sanitizer TextSanitizer,
) *Service {
	return &Service{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		verifyPassword: verifyPassword,
		urlValidator:   urlValidator,
		sanitizer:      sanitizer,
	}
}

// Get はIDでユーザーを取得する。存在しない場合はnot_foundのAppErrorを返す。
func (s *Service) Get(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}
	return user, nil
}

// Search はユーザーを検索する。
// queryが空の場合は全ユーザー、指定時はユーザー名の部分一致で返す。
func (s *Service) Search(ctx context.Context, query string) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	return users, nil
}

// UpdateProfileInput はプロフィール編集フォームの入力値。
type UpdateProfileInput struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	Password       string // 現在のパスワード。再認証に使用する
}

// UpdateProfile はユーザーのプロフィールを更新する。
// 更新前に現在のパスワードで再認証し、一致しない場合はauthのAppErrorを返す。
// 画像URLが空の場合はデフォルトのプレースホルダに戻す。
func (s *Service) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	// パスワード再認証
	if !s.verifyPassword(user.PasswordHash, input.Password) {
		return nil, model.NewInvalidCredentialError()
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, model.NewInvalidFieldError("ユーザー名", "必須項目です")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, model.NewInvalidFieldError("メールアドレス", "形式が正しくありません")
	}

	imageURL := strings.TrimSpace(input.ImageURL)
	if imageURL == "" {
		imageURL = model.DefaultImageURL
	} else if s.urlValidator != nil {
		if err := s.urlValidator.ValidateImageURL(imageURL); err != nil {
			return nil, model.NewInvalidImageURLError(err.Error())
		}
	}

	headerImageURL := strings.TrimSpace(input.HeaderImageURL)
	if headerImageURL == "" {
		headerImageURL = model.DefaultHeaderImageURL
	} else if s.urlValidator != nil {
		if err := s.urlValidator.ValidateImageURL(headerImageURL); err != nil {
			return nil, model.NewInvalidImageURLError(err.Error())
		}
	}

	bio := input.Bio
	location := input.Location
	if s.sanitizer != nil {
		bio = s.sanitizer.Sanitize(bio)
		location = s.sanitizer.Sanitize(location)
	}
	if utf8.RuneCountInString(bio) > bioMaxLength {
		return nil, model.NewInvalidFieldError("自己紹介", fmt.Sprintf("%d文字以内で入力してください", bioMaxLength))
	}
	if utf8.RuneCountInString(location) > locationMaxLength {
		return nil, model.NewInvalidFieldError("場所", fmt.Sprintf("%d文字以内で入力してください", locationMaxLength))
	}

	user.Username = username
	user.Email = email
	user.ImageURL = imageURL
	user.HeaderImageURL = headerImageURL
	user.Bio = bio
	user.Location = location

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("profile updated",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: sessions → user（messages, follows, favoritesはCASCADE削除）
func (s *Service) Withdraw(ctx context.Context, userID int64) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError(userID)
	}

	slog.Info("退会処理を開始します",
		slog.Int64("user_id", userID),
	)

	// 1. セッションを削除
	if s.sessionRepo != nil {
		if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("セッションの削除に失敗しました: %w", err)
		}
	}

	// 2. ユーザーを削除（messages, follows, favoritesはCASCADE削除）
	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.Int64("user_id", userID),
	)

	return nil
}
