package domain

import "context"

// EffectRepository persists the effect catalog. List returns rows ordered by
// category then name.
type EffectRepository interface {
	List(ctx context.Context, activeOnly bool) ([]Effect, error)
	GetByID(ctx context.Context, id string) (*Effect, error)
	// GetByName returns the active effect with the exact name.
	GetByName(ctx context.Context, name string) (*Effect, error)
	Create(ctx context.Context, effect *Effect) error
	Update(ctx context.Context, effect *Effect) error
	Delete(ctx context.Context, id string) error
}

// PresetRepository persists director presets.
type PresetRepository interface {
	List(ctx context.Context, activeOnly bool) ([]Preset, error)
	GetByID(ctx context.Context, id string) (*Preset, error)
	Create(ctx context.Context, preset *Preset) error
	Update(ctx context.Context, preset *Preset) error
	Delete(ctx context.Context, id string) error
}

// GenerationRepository stores generation history, newest first.
type GenerationRepository interface {
	Create(ctx context.Context, gen *Generation) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Generation, error)
	GetByID(ctx context.Context, userID, id string) (*Generation, error)
	Delete(ctx context.Context, userID, id string) error
}

// RoleRepository manages user roles.
type RoleRepository interface {
	ListRoles(ctx context.Context, userID string) ([]Role, error)
	Grant(ctx context.Context, userID string, role Role) error
	Revoke(ctx context.Context, userID string, role Role) error
}

// Repositories bundles the storage backends used by the API.
type Repositories struct {
	Effects     EffectRepository
	Presets     PresetRepository
	Generations GenerationRepository
	Roles       RoleRepository
}
