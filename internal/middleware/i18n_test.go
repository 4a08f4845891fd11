package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDetectLocale(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		fallback string
		country  string
		want     string
	}{
		{name: "x-locale wins over country", headers: map[string]string{"X-Locale": "ES"}, country: "US", want: "es"},
		{name: "unsupported x-locale", headers: map[string]string{"X-Locale": "de"}, country: "MX", want: "en"},
		{name: "accept-language english", headers: map[string]string{"Accept-Language": "en-US,en;q=0.9"}, want: "en"},
		{name: "accept-language regional spanish", headers: map[string]string{"Accept-Language": "es-MX,en;q=0.8"}, want: "es"},
		{name: "accept-language quality order", headers: map[string]string{"Accept-Language": "en;q=0.3,es;q=0.9"}, want: "es"},
		{name: "unsupported accept-language uses country", headers: map[string]string{"Accept-Language": "ja"}, country: "CL", want: "es"},
		{name: "spanish speaking country", country: "AR", want: "es"},
		{name: "other country", country: "US", fallback: "es", want: "en"},
		{name: "configured fallback", fallback: "es", want: "es"},
		{name: "default", want: "en"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := detectLocale(req, tc.fallback, tc.country); got != tc.want {
				t.Fatalf("detectLocale() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveCountry(t *testing.T) {
	lookupMY := func(ip string) (string, error) {
		if ip != "203.0.113.4" {
			return "", errors.New("unexpected ip " + ip)
		}
		return "my", nil
	}
	tests := []struct {
		name    string
		headers map[string]string
		lookup  CountryLookup
		want    string
	}{
		{name: "cdn header first", headers: map[string]string{"X-Country-Code": "us", "CF-IPCountry": "id"}, want: "ID"},
		{name: "unknown cdn country skipped", headers: map[string]string{"CF-IPCountry": "XX"}, lookup: lookupMY, want: "MY"},
		{name: "x-locale region", headers: map[string]string{"X-Locale": "en-AU"}, want: "AU"},
		{name: "accept-language region", headers: map[string]string{"Accept-Language": "en-GB,en;q=0.9"}, want: "GB"},
		{name: "bare language is not a region", headers: map[string]string{"Accept-Language": "es;q=0.8"}, want: ""},
		{name: "geoip lookup", lookup: lookupMY, want: "MY"},
		{name: "lookup error", lookup: func(string) (string, error) { return "", errors.New("boom") }, want: ""},
		{name: "no lookup", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "203.0.113.4:80"
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := ResolveCountry(req, tc.lookup); got != tc.want {
				t.Fatalf("ResolveCountry() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLocaleFromContext(t *testing.T) {
	ctx := context.Background()
	if got := LocaleFromContext(ctx); got != LocaleEnglish {
		t.Fatalf("default locale = %q", got)
	}
	if got := LocaleFromContext(context.WithValue(ctx, LocaleKey, LocaleSpanish)); got != LocaleSpanish {
		t.Fatalf("stored locale = %q", got)
	}
}

func TestI18NSetsContext(t *testing.T) {
	var locale, country string
	h := I18N(LocaleEnglish, func(string) (string, error) { return "co", nil })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale = LocaleFromContext(r.Context())
		country = CountryFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if locale != LocaleSpanish || country != "CO" {
		t.Fatalf("locale/country = %q/%q, want es/CO", locale, country)
	}
	if got := rec.Header().Get("Content-Language"); got != LocaleSpanish {
		t.Fatalf("Content-Language = %q", got)
	}
}
