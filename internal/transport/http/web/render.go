package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/andreanaya/go-account/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages lists every renderable page; each pairs with the base layout.
var pages = []string{"login", "register", "account", "update", "resetpassword"}

// PageData is the model handed to every template.
type PageData struct {
	Title        string
	Message      string
	Username     string
	Email        string
	Errors       map[string]string
	Notification *domain.Notification
}

// Renderer renders a named page into the base layout. Handlers only pick
// the page name and supply the model.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, name := range pages {
		t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data PageData) {
	t, ok := r.templates[page]
	if !ok {
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		slog.Error("template execution failed", "page", page, "err", err)
	}
}
