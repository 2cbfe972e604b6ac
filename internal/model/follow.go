// Package model はドメインモデルを定義する。
package model

import "time"

// Follow はフォロー関係のエッジを表す。
// (FollowerID, FolloweeID) の組で一意であり、自己フォローは許可されない。
type Follow struct {
	FollowerID int64
	FolloweeID int64
	CreatedAt  time.Time
}

// Favorite はユーザーによるメッセージのお気に入りを表す。
// (UserID, MessageID) の組で一意。
type Favorite struct {
	ID        int64
	UserID    int64
	MessageID int64
	CreatedAt time.Time
}
