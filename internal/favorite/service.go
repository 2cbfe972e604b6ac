// Package favorite はお気に入り（いいね）のドメインロジックを提供する。
package favorite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/saezuri/internal/model"
	"github.com/hitoshi/saezuri/internal/repository"
)

// MetricsRecorder はお気に入り系メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordFavorite()
}

// Service はお気に入りのサービス層。
type Service struct {
	favoriteRepo repository.FavoriteRepository
	messageRepo  repository.MessageRepository
	metrics      MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容する。
func NewService(
	favoriteRepo repository.FavoriteRepository,
	messageRepo repository.MessageRepository,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		favoriteRepo: favoriteRepo,
		messageRepo:  messageRepo,
		metrics:      metrics,
	}
}

// Favorite はユーザーがメッセージをお気に入りに追加する。
// メッセージが存在しない場合はnot_found。
// 既にお気に入り済みの場合は何もしない（冪等）。
func (s *Service) Favorite(ctx context.Context, userID, messageID int64) error {
	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("メッセージの取得に失敗しました: %w", err)
	}
	if msg == nil {
		return model.NewMessageNotFoundError(messageID)
	}

	if err := s.favoriteRepo.Create(ctx, userID, messageID); err != nil {
		return fmt.Errorf("お気に入りの保存に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordFavorite()
	}
	slog.Info("message favorited",
		slog.Int64("user_id", userID),
		slog.Int64("message_id", messageID),
	)

	return nil
}

// Unfavorite はユーザーのお気に入りからメッセージを外す。
// 削除は(user, message)の組にスコープされるため、他のユーザーの
// お気に入りに影響しない。お気に入りでない場合は何もしない（冪等）。
func (s *Service) Unfavorite(ctx context.Context, userID, messageID int64) error {
	if err := s.favoriteRepo.Delete(ctx, userID, messageID); err != nil {
		return fmt.Errorf("お気に入りの削除に失敗しました: %w", err)
	}

	slog.Info("message unfavorited",
		slog.Int64("user_id", userID),
		slog.Int64("message_id", messageID),
	)

	return nil
}

// IsFavorited はユーザーがメッセージをお気に入りにしているかを返す。
func (s *Service) IsFavorited(ctx context.Context, userID, messageID int64) (bool, error) {
	exists, err := s.favoriteRepo.Exists(ctx, userID, messageID)
	if err != nil {
		return false, fmt.Errorf("お気に入り状態の取得に失敗しました: %w", err)
	}
	return exists, nil
}

// Count はユーザーのお気に入り件数を返す。
func (s *Service) Count(ctx context.Context, userID int64) (int, error) {
	count, err := s.favoriteRepo.CountByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("お気に入り件数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// LikeCount はメッセージに付いたお気に入り数を返す。
func (s *Service) LikeCount(ctx context.Context, messageID int64) (int, error) {
	count, err := s.favoriteRepo.CountByMessageID(ctx, messageID)
	if err != nil {
		return 0, fmt.Errorf("お気に入り数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// ListMessages はユーザーがお気に入りにしたメッセージ一覧を
// お気に入り登録の新しい順で返す。
func (s *Service) ListMessages(ctx context.Context, userID int64) ([]model.MessageWithAuthor, error) {
	msgs, err := s.favoriteRepo.ListMessagesFavoritedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}
	return msgs, nil
}
