// Package model はドメインモデルを定義する。
package model

import "fmt"

// AppError はアプリケーション全体の統一エラーフォーマットを表す。
// ハンドラーはCategoryを見てレスポンス形態（再表示/リダイレクト/404）を決定する。
type AppError struct {
	Code     string // エラーコード
	Message  string // ユーザーに表示するメッセージ
	Category string // カテゴリ: auth, validation, conflict, not_found, system
}

// Error はerrorインターフェースを実装する。
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// エラーカテゴリ
const (
	CategoryAuth       = "auth"
	CategoryValidation = "validation"
	CategoryConflict   = "conflict"
	CategoryNotFound   = "not_found"
	CategorySystem     = "system"
)

// 定義済みエラーコード
const (
	ErrCodeDuplicateUser     = "DUPLICATE_USER"
	ErrCodeInvalidCredential = "INVALID_CREDENTIAL"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeMessageNotFound   = "MESSAGE_NOT_FOUND"
	ErrCodeEmptyMessage      = "EMPTY_MESSAGE"
	ErrCodeMessageTooLong    = "MESSAGE_TOO_LONG"
	ErrCodeSelfFollow        = "SELF_FOLLOW"
	ErrCodeInvalidImageURL   = "INVALID_IMAGE_URL"
	ErrCodeInvalidField      = "INVALID_FIELD"
)

// NewDuplicateUserError はユーザー名またはメールアドレスの重複エラーを生成する。
func NewDuplicateUserError() *AppError {
	return &AppError{
		Code:     ErrCodeDuplicateUser,
		Message:  "そのユーザー名またはメールアドレスは既に使用されています。",
		Category: CategoryConflict,
	}
}

// NewInvalidCredentialError は認証失敗エラーを生成する。
// ユーザー名不存在とパスワード不一致を区別しない。
func NewInvalidCredentialError() *AppError {
	return &AppError{
		Code:     ErrCodeInvalidCredential,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: CategoryValidation,
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *AppError {
	return &AppError{
		Code:     ErrCodeUnauthorized,
		Message:  "ログインが必要です。",
		Category: CategoryAuth,
	}
}

// NewForbiddenError は権限不足エラーを生成する。
// 他人のメッセージを削除しようとした場合などに使用する。
func NewForbiddenError() *AppError {
	return &AppError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を行う権限がありません。",
		Category: CategoryAuth,
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError(userID int64) *AppError {
	return &AppError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %d", userID),
		Category: CategoryNotFound,
	}
}

// NewMessageNotFoundError はメッセージ未検出エラーを生成する。
func NewMessageNotFoundError(messageID int64) *AppError {
	return &AppError{
		Code:     ErrCodeMessageNotFound,
		Message:  fmt.Sprintf("指定されたメッセージが見つかりません: %d", messageID),
		Category: CategoryNotFound,
	}
}

// NewEmptyMessageError は空メッセージエラーを生成する。
func NewEmptyMessageError() *AppError {
	return &AppError{
		Code:     ErrCodeEmptyMessage,
		Message:  "メッセージ本文を入力してください。",
		Category: CategoryValidation,
	}
}

// NewMessageTooLongError は文字数超過エラーを生成する。
func NewMessageTooLongError(limit int) *AppError {
	return &AppError{
		Code:     ErrCodeMessageTooLong,
		Message:  fmt.Sprintf("メッセージは%d文字以内で入力してください。", limit),
		Category: CategoryValidation,
	}
}

// NewSelfFollowError は自己フォローエラーを生成する。
func NewSelfFollowError() *AppError {
	return &AppError{
		Code:     ErrCodeSelfFollow,
		Message:  "自分自身をフォローすることはできません。",
		Category: CategoryValidation,
	}
}

// NewInvalidImageURLError は画像URLの検証失敗エラーを生成する。
func NewInvalidImageURLError(reason string) *AppError {
	return &AppError{
		Code:     ErrCodeInvalidImageURL,
		Message:  fmt.Sprintf("画像URLが不正です: %s", reason),
		Category: CategoryValidation,
	}
}

// NewInvalidFieldError はフォームフィールドの検証失敗エラーを生成する。
func NewInvalidFieldError(field, reason string) *AppError {
	return &AppError{
		Code:     ErrCodeInvalidField,
		Message:  fmt.Sprintf("%s: %s", field, reason),
		Category: CategoryValidation,
	}
}
