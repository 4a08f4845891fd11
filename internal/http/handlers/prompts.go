package handlers

import (
	"context"
	"net/http"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/providers/prompt"
	"vfxprompt/internal/settings"
	"vfxprompt/internal/subscription"
	"vfxprompt/internal/variations"
)

type togglesRequest struct {
	Settings domain.ProSettings         `json:"proSettings"`
	Toggles  *domain.EnhancementToggles `json:"enhancementToggles,omitempty"`
	Policy   string                     `json:"policy,omitempty"`
}

type togglesResponse struct {
	settings.Decision
	Filtered     domain.ProSettings `json:"filteredSettings"`
	Instructions []string           `json:"instructions"`
}

// Toggles previews which categories a request would apply and the
// instruction lines the builder derives from them.
func (a *App) Toggles(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}
	var req togglesRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := req.Settings.Validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	decision, filtered := a.Reconciler.Reconcile(req.Settings, req.Toggles, settings.ParsePolicy(req.Policy))
	lines := a.Builder.InstructionLines(filtered)
	if lines == nil {
		lines = []string{}
	}
	a.json(w, http.StatusOK, togglesResponse{Decision: decision, Filtered: filtered, Instructions: lines})
}

type generateResponse struct {
	*prompt.GenerateResponse
	Subscription domain.Subscription `json:"subscription"`
}

// PromptGenerate writes a new prompt and counts it against the daily quota.
func (a *App) PromptGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req prompt.GenerateRequest
	if !a.decode(w, r, &req) {
		return
	}
	req.Policy = settings.ParsePolicy(string(req.Policy))
	if err := a.checkImage("imageBase64", req.Image); err != nil {
		a.fail(w, r, err)
		return
	}
	sub, err := a.Subs.Get(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := checkGenerateFeatures(sub, req); err != nil {
		a.fail(w, r, err)
		return
	}
	sub, release, err := a.Subs.Reserve(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	res, err := a.Generator.Generate(r.Context(), req)
	if err != nil {
		if rerr := release(context.WithoutCancel(r.Context())); rerr != nil {
			a.Logger.Warn().Err(rerr).Str("user_id", userID).Msg("failed generation still counted")
		}
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, generateResponse{GenerateResponse: res, Subscription: sub})
}

// checkGenerateFeatures rejects pro-only options on a freemium plan.
func checkGenerateFeatures(sub domain.Subscription, req prompt.GenerateRequest) error {
	if req.ProMode {
		if err := subscription.Require(sub, domain.FeatureAdvancedControls); err != nil {
			return err
		}
	}
	if req.Settings.PromptLength == domain.PromptLengthLong {
		return subscription.Require(sub, domain.FeatureLongPrompts)
	}
	return nil
}

// PromptEnhance rewrites a prompt to apply pro settings.
func (a *App) PromptEnhance(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}
	var req prompt.EnhanceRequest
	if !a.decode(w, r, &req) {
		return
	}
	req.Policy = settings.ParsePolicy(string(req.Policy))
	res, err := a.Enhancer.Enhance(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, res)
}

// PromptVariations returns up to five rewrites of a prompt, one per approach.
func (a *App) PromptVariations(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}
	var req variations.Request
	if !a.decode(w, r, &req) {
		return
	}
	list, err := a.Variations.Generate(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if list == nil {
		list = []variations.Variation{}
	}
	a.json(w, http.StatusOK, map[string]any{"variations": list})
}
