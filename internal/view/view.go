// Package view は埋め込みHTMLテンプレートの描画を提供する。
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/hitoshi/saezuri/internal/flash"
	"github.com/hitoshi/saezuri/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pages はレイアウトと組み合わせて描画するページテンプレートの一覧。
var pages = []string{
	"home",
	"home_anon",
	"login",
	"signup",
	"users",
	"user_show",
	"user_edit",
	"user_list",
	"favorites",
	"message_new",
	"message_show",
	"not_found",
}

// Data はテンプレート描画に渡す共通データ。
type Data struct {
	Title       string
	CurrentUser *model.User
	Flash       *flash.Message
	Content     any
}

// Renderer はページ名ごとにパース済みテンプレートを保持する。
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer は埋め込みテンプレートをパースしてRendererを生成する。
// テンプレートの不備は起動時に検出する。
func NewRenderer() (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.ParseFS(templatesFS,
			"templates/layout.html",
			fmt.Sprintf("templates/%s.html", page),
		)
		if err != nil {
			return nil, fmt.Errorf("テンプレートのパースに失敗しました: %s: %w", page, err)
		}
		templates[page] = t
	}
	return &Renderer{templates: templates}, nil
}

// Render はページを描画してレスポンスに書き込む。
// 描画エラー時は500を返す。部分的な出力を避けるため一度バッファに描画する。
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data *Data) {
	t, ok := r.templates[page]
	if !ok {
		slog.Error("unknown template page", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &Data{}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
