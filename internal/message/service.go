// Package message はメッセージ投稿・削除のドメインロジックを提供する。
package message

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/hitoshi/saezuri/internal/model"
	"github.com/hitoshi/saezuri/internal/repository"
)

// TextSanitizer はメッセージ本文の無害化インターフェース。
type TextSanitizer interface {
	Sanitize(raw string) string
}

// MetricsRecorder は投稿系メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordMessagePosted()
}

// Service はメッセージのサービス層。
type Service struct {
	messageRepo repository.MessageRepository
	sanitizer   TextSanitizer
	metrics     MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// sanitizerとmetricsはnilを許容する。
func NewService(
	messageRepo repository.MessageRepository,
	sanitizer TextSanitizer,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		messageRepo: messageRepo,
		sanitizer:   sanitizer,
		metrics:     metrics,
	}
}

// Post は新しいメッセージを投稿する。
// 本文はサニタイズ後に空チェックと文字数チェック（ルーン数で140以内）を行う。
func (s *Service) Post(ctx context.Context, userID int64, text string) (*model.Message, error) {
	if s.sanitizer != nil {
		text = s.sanitizer.Sanitize(text)
	}

	if text == "" {
		return nil, model.NewEmptyMessageError()
	}
	if utf8.RuneCountInString(text) > model.MessageMaxLength {
		return nil, model.NewMessageTooLongError(model.MessageMaxLength)
	}

	msg := &model.Message{
		UserID: userID,
		Text:   text,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("メッセージの保存に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordMessagePosted()
	}
	slog.Info("message posted",
		slog.Int64("message_id", msg.ID),
		slog.Int64("user_id", userID),
	)

	return msg, nil
}

// Get はIDでメッセージを投稿者情報付きで取得する。
// 存在しない場合はnot_foundのAppErrorを返す。
func (s *Service) Get(ctx context.Context, messageID int64) (*model.MessageWithAuthor, error) {
	msg, err := s.messageRepo.FindByIDWithAuthor(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("メッセージの取得に失敗しました: %w", err)
	}
	if msg == nil {
		return nil, model.NewMessageNotFoundError(messageID)
	}
	return msg, nil
}

// ListByUser はユーザーの投稿一覧を新しい順で返す。
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]model.MessageWithAuthor, error) {
	msgs, err := s.messageRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗しました: %w", err)
	}
	return msgs, nil
}

// Delete はメッセージを削除する。
// 投稿者本人以外が削除しようとした場合はauthのAppErrorを返す。
func (s *Service) Delete(ctx context.Context, requesterID, messageID int64) error {
	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("メッセージの取得に失敗しました: %w", err)
	}
	if msg == nil {
		return model.NewMessageNotFoundError(messageID)
	}
	if msg.UserID != requesterID {
		return model.NewForbiddenError()
	}

	if err := s.messageRepo.DeleteByID(ctx, messageID); err != nil {
		return fmt.Errorf("メッセージの削除に失敗しました: %w", err)
	}

	slog.Info("message deleted",
		slog.Int64("message_id", messageID),
		slog.Int64("user_id", requesterID),
	)

	return nil
}
