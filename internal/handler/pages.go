package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// PageHandler renders the HTML pages. Templates are parsed once at startup
// and reused on every request.
type PageHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewPageHandler parses the page templates from templateDir.
// base.html defines the page shell with a {{template "content" .}} slot;
// notes.html and login.html each {{define}} their own content block under a
// distinct name, so all three can be parsed into one template set.
func NewPageHandler(templateDir string, logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "notes.html"),
		filepath.Join(templateDir, "login.html"),
	)
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		templates: tmpl,
		logger:    logger,
	}, nil
}

// HandleNotes serves the main notes page.
//
// HTTP: GET /
func (p *PageHandler) HandleNotes(w http.ResponseWriter, r *http.Request) {
	p.render(w, "notes", map[string]any{
		"Title": "Notebox — My Notes",
	})
}

// HandleLogin serves the login/register page.
//
// HTTP: GET /login
func (p *PageHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	p.render(w, "login", map[string]any{
		"Title": "Notebox — Sign In",
	})
}

func (p *PageHandler) render(w http.ResponseWriter, page string, data map[string]any) {
	data["Page"] = page

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.templates.ExecuteTemplate(w, "base", data); err != nil {
		p.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
