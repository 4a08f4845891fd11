// Package credentials stores LLM provider API keys in Postgres so the API
// can run without them in its environment.
package credentials

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/infra"
	"vfxprompt/internal/sqlinline"
)

const (
	ProviderGateway = "gateway"
	ProviderGemini  = "gemini"
)

// Providers lists the accepted provider names.
var Providers = []string{ProviderGateway, ProviderGemini}

func ValidProvider(p string) bool {
	for _, v := range Providers {
		if v == p {
			return true
		}
	}
	return false
}

// Entry describes a stored key without exposing it.
type Entry struct {
	Provider  string
	UpdatedAt time.Time
}

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Token returns the stored key for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("read %s token: %w", provider, err)
	}
	return strings.TrimSpace(token), nil
}

// Set stores or replaces the key for provider.
func (s *Store) Set(ctx context.Context, provider, key string) error {
	if !ValidProvider(provider) {
		return domain.Invalid("provider", "must be gateway or gemini")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Invalid("key", provider+" api key is required")
	}
	if _, err := s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, key); err != nil {
		return fmt.Errorf("store %s token: %w", provider, err)
	}
	return nil
}

// List reports which providers have a stored key.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QListIntegrationProviders)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Provider, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Resolve fills empty keys from the store. Lookup errors leave the key empty.
func (s *Store) Resolve(ctx context.Context, provider, fromEnv string) string {
	if fromEnv = strings.TrimSpace(fromEnv); fromEnv != "" {
		return fromEnv
	}
	key, err := s.Token(ctx, provider)
	if err != nil {
		return ""
	}
	return key
}
