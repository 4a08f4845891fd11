package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/middleware"
)

// listAll reports whether the caller asked for inactive rows too. Only
// admins may; anyone else gets 403.
func (a *App) listAll(w http.ResponseWriter, r *http.Request) (all, ok bool) {
	if r.URL.Query().Get("all") != "true" {
		return false, true
	}
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, r, http.StatusUnauthorized, middleware.CodeUnauthorized, "")
		return false, false
	}
	held, err := a.Repos.Roles.ListRoles(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return false, false
	}
	if !middleware.HasAnyRole(held, domain.RoleAdmin) {
		a.error(w, r, http.StatusForbidden, middleware.CodeForbidden, "")
		return false, false
	}
	return true, true
}

func (a *App) ListEffects(w http.ResponseWriter, r *http.Request) {
	all, ok := a.listAll(w, r)
	if !ok {
		return
	}
	items, err := a.Repos.Effects.List(r.Context(), !all)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Effect{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) CreateEffect(w http.ResponseWriter, r *http.Request) {
	effect := domain.Effect{IsActive: true}
	if !a.decode(w, r, &effect) {
		return
	}
	effect.ID = ""
	effect.Normalize()
	if err := effect.Validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Repos.Effects.Create(r.Context(), &effect); err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("effect_id", effect.ID).Str("name", effect.Name).Msg("effect created")
	a.json(w, http.StatusCreated, effect)
}

func (a *App) UpdateEffect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	current, err := a.Repos.Effects.GetByID(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	// Fields missing from the body keep their stored values.
	effect := *current
	if !a.decode(w, r, &effect) {
		return
	}
	effect.ID = current.ID
	effect.Normalize()
	if err := effect.Validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Repos.Effects.Update(r.Context(), &effect); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, effect)
}

func (a *App) DeleteEffect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Repos.Effects.Delete(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("effect_id", id).Msg("effect deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) ListPresets(w http.ResponseWriter, r *http.Request) {
	all, ok := a.listAll(w, r)
	if !ok {
		return
	}
	items, err := a.Repos.Presets.List(r.Context(), !all)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Preset{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) CreatePreset(w http.ResponseWriter, r *http.Request) {
	preset := domain.Preset{IsActive: true}
	if !a.decode(w, r, &preset) {
		return
	}
	preset.ID = ""
	preset.Normalize()
	if err := preset.Validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Repos.Presets.Create(r.Context(), &preset); err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("preset_id", preset.ID).Str("name", preset.Name).Msg("preset created")
	a.json(w, http.StatusCreated, preset)
}

func (a *App) UpdatePreset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	current, err := a.Repos.Presets.GetByID(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	preset := *current
	preset.Settings = nil
	if !a.decode(w, r, &preset) {
		return
	}
	if preset.Settings == nil {
		preset.Settings = current.Settings
	}
	preset.ID = current.ID
	preset.Normalize()
	if err := preset.Validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Repos.Presets.Update(r.Context(), &preset); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, preset)
}

func (a *App) DeletePreset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Repos.Presets.Delete(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
