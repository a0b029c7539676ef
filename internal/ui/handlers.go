package ui

import (
	"net/http"

	"github.com/reelforge/pitchmail/pkg/queue"
	"github.com/reelforge/pitchmail/pkg/render"

	g "maragu.dev/gomponents"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
)

// Handlers provides the operator dashboard: queue stats, dispatch history,
// and a rendered preview of the pitch email.
type Handlers struct {
	renderer *render.Renderer
	queue    *queue.Queue
}

// NewHandlers creates new UI handlers.
func NewHandlers(renderer *render.Renderer, q *queue.Queue) *Handlers {
	return &Handlers{
		renderer: renderer,
		queue:    q,
	}
}

// Routes returns the UI routes for registration with rest.Server.
func (h *Handlers) Routes() []rest.Route {
	return []rest.Route{
		{Method: http.MethodGet, Path: "/", Handler: h.handleDashboard},
		{Method: http.MethodGet, Path: "/emails", Handler: h.handleEmails},
		{Method: http.MethodGet, Path: "/preview", Handler: h.handlePreview},
	}
}

func (h *Handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queue.Stats(r.Context())
	if err != nil {
		logx.WithContext(r.Context()).Errorf("load stats: %v", err)
		http.Error(w, "failed to load stats", http.StatusInternalServerError)
		return
	}

	recent, err := h.queue.List(r.Context(), "", 10)
	if err != nil {
		logx.WithContext(r.Context()).Errorf("load recent emails: %v", err)
		http.Error(w, "failed to load emails", http.StatusInternalServerError)
		return
	}

	h.renderPage(w, r, Dashboard(stats, recent))
}

func (h *Handlers) handleEmails(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	jobs, err := h.queue.List(r.Context(), status, 100)
	if err != nil {
		logx.WithContext(r.Context()).Errorf("load emails: %v", err)
		http.Error(w, "failed to load emails", http.StatusInternalServerError)
		return
	}

	h.renderPage(w, r, EmailsPage(status, jobs))
}

func (h *Handlers) handlePreview(w http.ResponseWriter, r *http.Request) {
	data := render.TestData()[render.PitchTemplate]

	html, err := h.renderer.RenderTemplate(render.PitchTemplate, data)
	if err != nil {
		logx.WithContext(r.Context()).Errorf("render preview: %v", err)
		http.Error(w, "failed to render preview", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(html)); err != nil {
		logx.WithContext(r.Context()).Errorf("write preview: %v", err)
	}
}

func (h *Handlers) renderPage(w http.ResponseWriter, r *http.Request, page g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		logx.WithContext(r.Context()).Errorf("render page: %v", err)
	}
}
