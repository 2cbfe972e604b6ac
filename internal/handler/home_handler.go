package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/saezuri/internal/middleware"
	"github.com/hitoshi/saezuri/internal/model"
	"github.com/hitoshi/saezuri/internal/view"
)

// TimelineServiceInterface はホームタイムラインのサービスインターフェース。
type TimelineServiceInterface interface {
	Home(ctx context.Context, userID int64) ([]model.TimelineEntry, error)
}

// HomeHandler はトップページのHTTPハンドラー。
type HomeHandler struct {
	timelineService TimelineServiceInterface
	renderer        *view.Renderer
}

// NewHomeHandler はHomeHandlerを生成する。
func NewHomeHandler(timelineService TimelineServiceInterface, renderer *view.Renderer) *HomeHandler {
	return &HomeHandler{
		timelineService: timelineService,
		renderer:        renderer,
	}
}

// Index はトップページを表示する。
// ログイン中はホームタイムライン、未ログインはランディングページを描画する。
// GET /
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	if current == nil {
		h.renderer.Render(w, http.StatusOK, "home_anon", pageData(w, r, "", nil))
		return
	}

	entries, err := h.timelineService.Home(r.Context(), current.ID)
	if err != nil {
		handleError(h.renderer, w, r, err, "/")
		return
	}

	h.renderer.Render(w, http.StatusOK, "home", pageData(w, r, "ホーム", &view.HomeContent{
		Entries: entries,
	}))
}
