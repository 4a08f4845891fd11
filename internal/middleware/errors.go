package middleware

import (
	"encoding/json"
	"net/http"
)

// Error codes shared by middleware and handlers.
const (
	CodeBadRequest      = "bad_request"
	CodeValidation      = "validation"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeRateLimited     = "rate_limited"
	CodeQuotaExhausted  = "quota_exhausted"
	CodeDailyLimit      = "daily_limit"
	CodeProviderFailure = "provider_failure"
	CodeNoCategories    = "no_categories"
	CodeTooLarge        = "payload_too_large"
	CodeInternal        = "internal"
)

var messages = map[string]map[string]string{
	"en": {
		CodeBadRequest:      "Invalid request payload.",
		CodeValidation:      "Some fields are invalid.",
		CodeUnauthorized:    "Sign in to continue.",
		CodeForbidden:       "Your plan does not include this feature.",
		CodeNotFound:        "Not found.",
		CodeRateLimited:     "Too many requests. Please wait a moment and try again.",
		CodeQuotaExhausted:  "AI credits exhausted. Please add credits to continue.",
		CodeDailyLimit:      "Daily generation limit reached. Upgrade to Pro for unlimited generations.",
		CodeProviderFailure: "The AI service is unavailable. Please try again.",
		CodeNoCategories:    "No enhancement categories selected.",
		CodeTooLarge:        "The file is too large.",
		CodeInternal:        "Something went wrong.",
	},
	"es": {
		CodeBadRequest:      "Solicitud no válida.",
		CodeValidation:      "Algunos campos no son válidos.",
		CodeUnauthorized:    "Inicia sesión para continuar.",
		CodeForbidden:       "Tu plan no incluye esta función.",
		CodeNotFound:        "No encontrado.",
		CodeRateLimited:     "Demasiadas solicitudes. Espera un momento e inténtalo de nuevo.",
		CodeQuotaExhausted:  "Créditos de IA agotados. Añade créditos para continuar.",
		CodeDailyLimit:      "Has alcanzado el límite diario de generaciones. Pásate a Pro para generar sin límite.",
		CodeProviderFailure: "El servicio de IA no está disponible. Inténtalo de nuevo.",
		CodeNoCategories:    "No se seleccionó ninguna categoría de mejora.",
		CodeTooLarge:        "El archivo es demasiado grande.",
		CodeInternal:        "Algo salió mal.",
	},
}

// Message returns the short user-facing text for code in locale, falling
// back to English and then to the code itself.
func Message(locale, code string) string {
	if m, ok := messages[locale][code]; ok {
		return m
	}
	if m, ok := messages["en"][code]; ok {
		return m
	}
	return code
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// WriteError writes {"error":{"code","message"}} localized for the request.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]errorBody{
		"error": {Code: code, Message: Message(LocaleFromContext(r.Context()), code), Details: details},
	})
}
