// Package social はフォロー関係のドメインロジックを提供する。
package social

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/saezuri/internal/model"
	"github.com/hitoshi/saezuri/internal/repository"
)

// MetricsRecorder はフォロー系メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordFollow()
}

// Service はフォロー関係のサービス層。
type Service struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	metrics    MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容する。
func NewService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		followRepo: followRepo,
		userRepo:   userRepo,
		metrics:    metrics,
	}
}

// Follow はfollowerがfolloweeをフォローする。
// 自分自身へのフォローはvalidationエラー、相手が存在しない場合はnot_found。
// 既にフォロー済みの場合は何もしない（冪等）。
func (s *Service) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return model.NewSelfFollowError()
	}

	target, err := s.userRepo.FindByID(ctx, followeeID)
	if err != nil {
		return fmt.Errorf("フォロー対象の取得に失敗しました: %w", err)
	}
	if target == nil {
		return model.NewUserNotFoundError(followeeID)
	}

	if err := s.followRepo.Create(ctx, followerID, followeeID); err != nil {
		return fmt.Errorf("フォローの保存に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordFollow()
	}
	slog.Info("user followed",
		slog.Int64("follower_id", followerID),
		slog.Int64("followee_id", followeeID),
	)

	return nil
}

// Unfollow はfollowerがfolloweeのフォローを解除する。
// フォローしていない場合は何もしない（冪等）。
func (s *Service) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if err := s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
		return fmt.Errorf("フォロー解除に失敗しました: %w", err)
	}

	slog.Info("user unfollowed",
		slog.Int64("follower_id", followerID),
		slog.Int64("followee_id", followeeID),
	)

	return nil
}

// IsFollowing はfollowerがfolloweeをフォローしているかを返す。
func (s *Service) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	exists, err := s.followRepo.Exists(ctx, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("フォロー状態の取得に失敗しました: %w", err)
	}
	return exists, nil
}

// ListFollowees はユーザーがフォローしているユーザー一覧を返す。
func (s *Service) ListFollowees(ctx context.Context, userID int64) ([]*model.User, error) {
	users, err := s.followRepo.ListFollowees(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("フォロー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}

// ListFollowers はユーザーをフォローしているユーザー一覧を返す。
func (s *Service) ListFollowers(ctx context.Context, userID int64) ([]*model.User, error) {
	users, err := s.followRepo.ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("フォロワー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}

// Counts はフォロー数とフォロワー数をまとめて返す。
// プロフィールページのヘッダー表示に使用する。
func (s *Service) Counts(ctx context.Context, userID int64) (followees, followers int, err error) {
	followees, err = s.followRepo.CountFollowees(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("フォロー数の取得に失敗しました: %w", err)
	}
	followers, err = s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("フォロワー数の取得に失敗しました: %w", err)
	}
	return followees, followers, nil
}
