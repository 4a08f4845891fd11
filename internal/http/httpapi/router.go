package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/http/handlers"
	"vfxprompt/internal/middleware"
)

// Options carries what the middleware stack needs beyond the handlers.
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	DefaultLocale  string
	// CountryLookup is optional.
	CountryLookup middleware.CountryLookup
	// Limiter is optional; nil disables per-IP rate limiting.
	Limiter   *middleware.IPLimiter
	StaticDir string
	Logger    zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)
	if opts.Limiter != nil {
		r.Use(middleware.RateLimit(opts.Limiter))
	}

	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	roles := app.Repos.Roles
	auth := middleware.AuthJWT(opts.JWTSecret)
	pro := middleware.RequireRole(roles, opts.Logger, domain.RolePro, domain.RoleAdmin)
	admin := middleware.RequireRole(roles, opts.Logger, domain.RoleAdmin)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		// Catalog reads are public; ?all=true needs an admin token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthJWT(opts.JWTSecret))
			r.Get("/effects", app.ListEffects)
			r.Get("/presets", app.ListPresets)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Get("/me/subscription", app.Subscription)
			r.Post("/uploads", app.Upload)
			r.Post("/analysis", app.Analyze)
			r.Post("/settings/toggles", app.Toggles)
			r.Post("/prompts/generate", app.PromptGenerate)

			r.Route("/generations", func(r chi.Router) {
				r.Get("/", app.ListGenerations)
				r.Post("/", app.CreateGeneration)
				r.Delete("/{id}", app.DeleteGeneration)
			})
			r.Post("/export", app.Export)

			r.Group(func(r chi.Router) {
				r.Use(pro)
				r.Post("/analysis/deep", app.DeepAnalyze)
				r.Post("/prompts/enhance", app.PromptEnhance)
				r.Post("/prompts/variations", app.PromptVariations)
			})

			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Post("/effects", app.CreateEffect)
				r.Put("/effects/{id}", app.UpdateEffect)
				r.Delete("/effects/{id}", app.DeleteEffect)
				r.Post("/presets", app.CreatePreset)
				r.Put("/presets/{id}", app.UpdatePreset)
				r.Delete("/presets/{id}", app.DeletePreset)
			})
		})
	})

	return r
}
