// Package supabase implements the domain repositories on a Supabase
// project through its PostgREST API. Filters are exact matches; ordering
// and limits are applied after decoding.
package supabase

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	supa "github.com/supabase-community/supabase-go"

	"vfxprompt/internal/domain"
)

const (
	tableEffects     = "effects"
	tablePresets     = "director_presets"
	tableGenerations = "generations"
	tableRoles       = "user_roles"

	returnRows = "representation"
)

// NewRepositories wires every Supabase repository on one client.
func NewRepositories(client *supa.Client) domain.Repositories {
	return domain.Repositories{
		Effects:     NewEffectRepository(client),
		Presets:     NewPresetRepository(client),
		Generations: NewGenerationRepository(client),
		Roles:       NewRoleRepository(client),
	}
}

func decode[T any](data []byte, err error, what string) ([]T, error) {
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	var out []T
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", what, err)
	}
	return out, nil
}

func first[T any](rows []T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return &rows[0], nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
