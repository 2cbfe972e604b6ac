// Package timeline はホームタイムラインの組み立てロジックを提供する。
package timeline

import (
	"context"
	"fmt"

	"github.com/hitoshi/saezuri/internal/model"
	"github.com/hitoshi/saezuri/internal/repository"
)

// DefaultLimit はタイムラインに表示する最大メッセージ数。
const DefaultLimit = 100

// Service はタイムラインのサービス層。
// 本人とフォロー中ユーザーの投稿を新しい順にまとめ、
// 閲覧者自身のお気に入り状態を付与して返す。
type Service struct {
	messageRepo  repository.MessageRepository
	favoriteRepo repository.FavoriteRepository
	limit        int
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	messageRepo repository.MessageRepository,
	favoriteRepo repository.FavoriteRepository,
) *Service {
	return &Service{
		messageRepo:  messageRepo,
		favoriteRepo: favoriteRepo,
		limit:        DefaultLimit,
	}
}

// Home はユーザーのホームタイムラインを返す。
// 各エントリのFavoritedは閲覧者自身の状態であり、
// 他のユーザーのお気に入りは反映されない。
func (s *Service) Home(ctx context.Context, userID int64) ([]model.TimelineEntry, error) {
	msgs, err := s.messageRepo.ListTimeline(ctx, userID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("タイムラインの取得に失敗しました: %w", err)
	}

	ids := make([]int64, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}

	favorited, err := s.favoriteRepo.FilterFavorited(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("お気に入り状態の取得に失敗しました: %w", err)
	}

	entries := make([]model.TimelineEntry, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, model.TimelineEntry{
			MessageWithAuthor: m,
			Favorited:         favorited[m.ID],
		})
	}

	return entries, nil
}
