package handlers

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/export"
)

// maxHistory caps one history page.
const maxHistory = 50

func (a *App) ListGenerations(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	limit := maxHistory
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			a.fail(w, r, domain.Invalid("limit", "must be a positive integer"))
			return
		}
		limit = min(n, maxHistory)
	}
	items, err := a.Repos.Generations.ListByUser(r.Context(), userID, limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Generation{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var gen domain.Generation
	if !a.decode(w, r, &gen) {
		return
	}
	gen.ID = ""
	gen.UserID = userID
	gen.Normalize()
	if err := gen.Validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.checkImage("image_url", gen.ImageURL); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Repos.Generations.Create(r.Context(), &gen); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, gen)
}

func (a *App) DeleteGeneration(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	if err := a.Repos.Generations.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type exportRequest struct {
	Format        string          `json:"format"`
	GenerationIDs []string        `json:"generationIds,omitempty"`
	Records       []export.Record `json:"records,omitempty"`
}

// Export renders saved generations or inline records as a download.
func (a *App) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req exportRequest
	if !a.decode(w, r, &req) {
		return
	}
	records := req.Records
	for _, id := range req.GenerationIDs {
		gen, err := a.Repos.Generations.GetByID(r.Context(), userID, strings.TrimSpace(id))
		if err != nil {
			a.fail(w, r, err)
			return
		}
		records = append(records, export.FromGeneration(*gen))
	}
	if len(records) == 0 {
		a.fail(w, r, domain.Invalid("records", "nothing to export"))
		return
	}
	file, err := a.Exporter.Render(req.Format, records)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}
