package web

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/stash/internal/config"
	"github.com/hpungsan/stash/internal/errors"
	"github.com/hpungsan/stash/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleDashboard handles GET /dashboard — the overview page.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Dashboard(h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "dashboard", DashboardPageData{
		PageData: PageData{
			Title:   "Dashboard",
			Version: h.renderer.version,
			Nav:     "dashboard",
		},
		Summary:    result.Summary,
		TodayCount: result.TodayCount,
		Buckets:    result.Buckets,
	})
}

// HandleItems handles GET /items — list items, optionally filtered.
func (h *Handlers) HandleItems(w http.ResponseWriter, r *http.Request) {
	bucket := r.URL.Query().Get("bucket")
	unread := parseBoolParam(r, "unread")

	input := ops.ListInput{
		Bucket: bucket,
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	}
	if unread {
		processed := false
		input.Processed = &processed
	}

	result, err := ops.List(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	buckets, err := ops.ListBuckets(h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "Items",
			Version: h.renderer.version,
			Nav:     "items",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Buckets:    buckets.Buckets,
		Bucket:     bucket,
		Unread:     unread,
	})
}

// HandleDetail handles GET /items/{id} — view a single item.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("item ID is required"))
		return
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	buckets, err := ops.ListBuckets(h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	rendered := renderMarkdown(derefString(result.Item.NoteBody))

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   result.Item.SmartDescription,
			Version: h.renderer.version,
			Nav:     "items",
		},
		Item:         result.Item,
		Buckets:      buckets.Buckets,
		RenderedNote: rendered,
	})
}

// HandleContent handles GET /items/{id}/content — the raw blob.
func (h *Handlers) HandleContent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	result, err := ops.Fetch(h.db, ops.FetchInput{ID: id, IncludeContent: true})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if len(result.Item.Content) == 0 {
		h.renderer.renderError(w, r, errors.NewNotFound(id+" content"))
		return
	}

	contentType := "application/octet-stream"
	switch result.Item.Type {
	case "photo", "screenshot":
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(result.Item.Content)
}

// HandleMove handles POST /items/{id}/move — re-bucket an item.
func (h *Handlers) HandleMove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	result, err := ops.Move(h.db, ops.MoveInput{
		ID:     id,
		Bucket: r.FormValue("bucket"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}
	http.Redirect(w, r, "/items/"+id, http.StatusFound)
}

// HandleDelete handles POST /items/{id}/delete.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := ops.Delete(h.db, ops.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}
	http.Redirect(w, r, "/items", http.StatusFound)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
