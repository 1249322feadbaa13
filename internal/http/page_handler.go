package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/example/housekeeping/internal/application"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = map[string]*template.Template{
	"login": parsePage("login.html"),
	"rooms": parsePage("rooms.html"),
	"logs":  parsePage("logs.html"),
	"users": parsePage("users.html"),
}

func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

type pageData struct {
	Title      string
	Role       string
	IsAdmin    bool
	Categories []string
}

// PageHandler renders the server side pages. Data is loaded by the pages
// themselves through the JSON API.
type PageHandler struct {
	responder responder
	logger    *slog.Logger
}

func NewPageHandler(logger *slog.Logger) *PageHandler {
	base := defaultLogger(logger)
	return &PageHandler{responder: newResponder(base), logger: base}
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", pageData{Title: "Sign in"})
}

func (h *PageHandler) Rooms(w http.ResponseWriter, r *http.Request) {
	data := h.dataFor(r, "Rooms")
	data.Categories = []string{
		string(application.CategoryEmpty),
		string(application.CategoryOccupied),
		string(application.CategoryBeingCleaned),
		string(application.CategoryUnderRepair),
	}
	h.render(w, r, "rooms", data)
}

func (h *PageHandler) Logs(w http.ResponseWriter, r *http.Request) {
	h.adminOnly(w, r, application.ActionListLogs, "logs", "Activity log")
}

func (h *PageHandler) Users(w http.ResponseWriter, r *http.Request) {
	h.adminOnly(w, r, application.ActionListUsers, "users", "Users")
}

func (h *PageHandler) adminOnly(w http.ResponseWriter, r *http.Request, action application.Action, page, title string) {
	principal, _ := PrincipalFromContext(r.Context())
	if !application.CanPerform(principal.Role, action) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, page, h.dataFor(r, title))
}

func (h *PageHandler) dataFor(r *http.Request, title string) pageData {
	principal, _ := PrincipalFromContext(r.Context())
	return pageData{
		Title:   title,
		Role:    string(principal.Role),
		IsAdmin: principal.Role == application.RoleAdmin,
	}
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, page string, data pageData) {
	tmpl, ok := pageTemplates[page]
	if !ok {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		handlerLogger(r.Context(), h.logger, "PageHandler", "render", "page", page).
			ErrorContext(r.Context(), "failed to render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
