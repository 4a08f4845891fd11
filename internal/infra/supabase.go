package infra

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// NewSupabaseClient builds the service-role client used when
// STORE_BACKEND=supabase.
func NewSupabaseClient(cfg *Config) (*supabase.Client, error) {
	if cfg == nil || cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		return nil, fmt.Errorf("supabase url and service key are required")
	}
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return client, nil
}
