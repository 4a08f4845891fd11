package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"vfxprompt/internal/composer"
	"vfxprompt/internal/domain"
	"vfxprompt/internal/export"
	"vfxprompt/internal/middleware"
	"vfxprompt/internal/providers/llm"
	"vfxprompt/internal/providers/prompt"
	"vfxprompt/internal/providers/vision"
	"vfxprompt/internal/settings"
	"vfxprompt/internal/storage"
	"vfxprompt/internal/subscription"
	"vfxprompt/internal/variations"
)

// maxJSONBody bounds request bodies. Inline images are base64 encoded, so it
// sits above storage.MaxUploadBytes.
const maxJSONBody = 15 << 20

type App struct {
	Logger     zerolog.Logger
	Repos      domain.Repositories
	Store      *storage.FileStore
	Subs       *subscription.Service
	Reconciler *settings.Reconciler
	Builder    *composer.Builder
	Analyzer   *vision.Analyzer
	Deep       *vision.DeepAnalyzer
	Enhancer   *prompt.Enhancer
	Generator  *prompt.Generator
	Variations *variations.Generator
	Exporter   *export.Exporter
	// ImageHosts lists the hosts an image URL may point at. Data URIs are
	// always accepted.
	ImageHosts []string
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, r *http.Request, status int, code, details string) {
	middleware.WriteError(w, r, status, code, details)
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// decode reads a JSON body into v and answers 400 or 413 itself on failure.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			a.error(w, r, http.StatusRequestEntityTooLarge, middleware.CodeTooLarge, "")
		case errors.Is(err, io.EOF):
			a.error(w, r, http.StatusBadRequest, middleware.CodeBadRequest, "empty body")
		default:
			a.error(w, r, http.StatusBadRequest, middleware.CodeBadRequest, "invalid payload")
		}
		return false
	}
	return true
}

// fail maps a domain or transport error onto a response. Raw provider errors
// are logged, never returned.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		a.error(w, r, http.StatusBadRequest, middleware.CodeValidation, ve.Error())
	case errors.Is(err, domain.ErrValidation):
		a.error(w, r, http.StatusBadRequest, middleware.CodeValidation, "")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, r, http.StatusNotFound, middleware.CodeNotFound, "")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, r, http.StatusUnauthorized, middleware.CodeUnauthorized, "")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, r, http.StatusForbidden, middleware.CodeForbidden, "")
	case errors.Is(err, domain.ErrDailyLimitReached):
		a.error(w, r, http.StatusTooManyRequests, middleware.CodeDailyLimit, "")
	case errors.Is(err, domain.ErrRateLimited):
		a.error(w, r, http.StatusTooManyRequests, middleware.CodeRateLimited, "")
	case errors.Is(err, domain.ErrQuotaExhausted):
		a.error(w, r, http.StatusPaymentRequired, middleware.CodeQuotaExhausted, "")
	case errors.Is(err, domain.ErrNoCategories):
		a.error(w, r, http.StatusBadRequest, middleware.CodeNoCategories, "")
	case errors.Is(err, storage.ErrTooLarge):
		a.error(w, r, http.StatusRequestEntityTooLarge, middleware.CodeTooLarge, "")
	case errors.Is(err, domain.ErrProviderFailure):
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("provider failure")
		a.error(w, r, http.StatusBadGateway, middleware.CodeProviderFailure, "")
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, r, http.StatusInternalServerError, middleware.CodeInternal, "")
	}
}

// requireUser answers 401 when the request carries no user.
func (a *App) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, r, http.StatusUnauthorized, middleware.CodeUnauthorized, "")
		return "", false
	}
	return userID, true
}

// checkImage accepts data URIs and http(s) URLs on an allowed host.
func (a *App) checkImage(field, ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" || llm.IsDataURI(ref) {
		return nil
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return domain.Invalid(field, "must be a data URI or an http(s) URL")
	}
	if len(a.ImageHosts) == 0 {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range a.ImageHosts {
		if host == h {
			return nil
		}
	}
	return domain.Invalid(field, "image host is not allowed")
}
