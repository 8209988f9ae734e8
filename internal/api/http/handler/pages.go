package handler

import (
	"html/template"
	"net/http"

	"github.com/dtroode/gophcheck-server/internal/logger"
	"github.com/dtroode/gophcheck-server/internal/model"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style nonce="{{.Nonce}}">body{font-family:sans-serif;margin:2rem}</style>
</head>
<body>
<main id="app" data-page="{{.Page}}"></main>
<script nonce="{{.Nonce}}" src="/static/{{.Page}}.js"></script>
</body>
</html>
`))

type pageData struct {
	Title string
	Page  string
	Nonce string
}

// Pages serves the HTML shells of the staff screens.
type Pages struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewPages creates a new Pages handler.
func NewPages(contextManager model.ContextManager, logger *logger.Logger) *Pages {
	return &Pages{contextManager: contextManager, logger: logger}
}

func (h *Pages) Check(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, pageData{Title: "Code check", Page: "check"})
}

func (h *Pages) StaffLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, pageData{Title: "Staff login", Page: "staff-login"})
}

func (h *Pages) render(w http.ResponseWriter, r *http.Request, data pageData) {
	data.Nonce, _ = h.contextManager.GetNonceFromContext(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.Error("Pages handler: failed to render page",
			"page", data.Page,
			"error", err.Error())
	}
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
