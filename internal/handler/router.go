package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/saezuri/internal/metrics"
	"github.com/hitoshi/saezuri/internal/middleware"
	"github.com/hitoshi/saezuri/internal/view"
)

// Pinger はヘルスチェックで使うDB疎通確認のインターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder middleware.SessionFinder
	UserFinder    middleware.UserFinder
	AuthLimiter   *middleware.RateLimiter
	Logger        *slog.Logger
	Metrics       middleware.HTTPMetricsRecorder

	// サービス
	AuthService     AuthServiceInterface
	AuthConfig      AuthHandlerConfig
	UserService     UserServiceInterface
	SocialService   SocialServiceInterface
	MessageService  MessageServiceInterface
	FavoriteService FavoriteServiceInterface
	MessageLister   UserMessageLister
	FavoriteReader  UserFavoriteReader
	TimelineService TimelineServiceInterface

	// 描画と運用
	Renderer *view.Renderer
	DB       Pinger
	Gatherer prometheus.Gatherer
}

// NewRouter は全ルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → NoCache → Metrics → Logging → Session
//
// NoCacheは全レスポンスに適用し、ログアウト後の
// ブラウザキャッシュからの情報漏えいを防ぐ。
// 書き込み系ルートはRequireAuthで保護し、未認証は/loginへ302する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewNoCacheMiddleware())
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	r.Use(middleware.NewSessionMiddleware(deps.SessionFinder, deps.UserFinder))

	authHandler := NewAuthHandler(deps.AuthService, deps.Renderer, deps.AuthConfig)
	homeHandler := NewHomeHandler(deps.TimelineService, deps.Renderer)
	userHandler := NewUserHandler(
		deps.UserService,
		deps.SocialService,
		deps.MessageLister,
		deps.FavoriteReader,
		deps.Renderer,
		authHandler.clearSessionCookie,
	)
	messageHandler := NewMessageHandler(deps.MessageService, deps.FavoriteService, deps.Renderer)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		renderNotFound(deps.Renderer, w, req)
	})

	// --- 運用系ルート ---

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if deps.DB != nil {
			if err := deps.DB.PingContext(req.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unhealthy"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Handle("/static/*", view.StaticHandler())

	// --- ページ系ルート ---

	r.Group(func(r chi.Router) {
		// 閲覧は未ログインでも可能
		r.Get("/", homeHandler.Index)
		r.Get("/signup", authHandler.ShowSignup)
		r.Get("/login", authHandler.ShowLogin)
		r.Get("/logout", authHandler.Logout)
		r.Get("/users", userHandler.Index)
		r.Get("/users/{id:[0-9]+}", userHandler.Show)
		r.Get("/users/{id:[0-9]+}/favorites", userHandler.Favorites)
		r.Get("/messages/{id:[0-9]+}", messageHandler.Show)

		// 認証エンドポイントは総当たり対策のレート制限を追加
		if deps.AuthLimiter != nil {
			r.With(deps.AuthLimiter.Middleware()).Post("/signup", authHandler.Signup)
			r.With(deps.AuthLimiter.Middleware()).Post("/login", authHandler.Login)
		} else {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		}

		// 書き込み系はログイン必須
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewRequireAuthMiddleware())

			r.Get("/messages/new", messageHandler.ShowNew)
			r.Post("/messages/new", messageHandler.Create)
			r.Post("/messages/{id:[0-9]+}/delete", messageHandler.Delete)
			r.Post("/messages/{id:[0-9]+}/favorite", messageHandler.Favorite)
			r.Post("/messages/{id:[0-9]+}/unfavorite", messageHandler.Unfavorite)

			r.Get("/users/{id:[0-9]+}/following", userHandler.Following)
			r.Get("/users/{id:[0-9]+}/followers", userHandler.Followers)
			r.Post("/users/follow/{id:[0-9]+}", userHandler.Follow)
			r.Post("/users/stop-following/{id:[0-9]+}", userHandler.Unfollow)
			r.Get("/users/profile", userHandler.ShowProfile)
			r.Post("/users/profile", userHandler.UpdateProfile)
			r.Post("/users/delete", userHandler.Withdraw)
		})
	})

	return r
}
