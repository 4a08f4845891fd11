package handlers

import (
	"net/http"
	"strings"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/providers/llm"
	"vfxprompt/internal/subscription"
)

type uploadRequest struct {
	Image string `json:"imageBase64"`
}

// Upload stores a reference image sent as a data URI and returns its URL.
func (a *App) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req uploadRequest
	if !a.decode(w, r, &req) {
		return
	}
	_, data, err := llm.ParseDataURI(strings.TrimSpace(req.Image))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	up, err := a.Store.SaveImage(r.Context(), userID, data)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("user_id", userID).Str("key", up.Key).Int("size", up.Size).Msg("reference image stored")
	a.json(w, http.StatusCreated, up)
}

type analyzeRequest struct {
	Image string `json:"imageBase64"`
	URL   string `json:"imageUrl"`
}

func (req analyzeRequest) ref() string {
	if s := strings.TrimSpace(req.Image); s != "" {
		return s
	}
	return strings.TrimSpace(req.URL)
}

// Analyze describes a reference image for prompt generation.
func (a *App) Analyze(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}
	var req analyzeRequest
	if !a.decode(w, r, &req) {
		return
	}
	ref := req.ref()
	if ref == "" {
		a.fail(w, r, domain.Invalid("imageBase64", "image data is required"))
		return
	}
	if err := a.checkImage("imageUrl", ref); err != nil {
		a.fail(w, r, err)
		return
	}
	res, err := a.Analyzer.Analyze(r.Context(), ref)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, res)
}

// DeepAnalyze runs the category-by-category analysis. Pro only.
func (a *App) DeepAnalyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req analyzeRequest
	if !a.decode(w, r, &req) {
		return
	}
	ref := req.ref()
	if ref == "" {
		a.fail(w, r, domain.Invalid("imageUrl", "image is required"))
		return
	}
	if err := a.checkImage("imageUrl", ref); err != nil {
		a.fail(w, r, err)
		return
	}
	sub, err := a.Subs.Get(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := subscription.Require(sub, domain.FeatureAdvancedControls); err != nil {
		a.fail(w, r, err)
		return
	}
	deep, err := a.Deep.Analyze(r.Context(), ref)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"deepAnalysis": deep})
}
