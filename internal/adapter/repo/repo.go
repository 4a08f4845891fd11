// Package repo implements the domain repositories on PostgreSQL through
// infra.SQLExecutor and the marker-tagged queries in sqlinline.
package repo

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/infra"
)

// NewRepositories wires every Postgres repository on one executor.
func NewRepositories(sql infra.SQLExecutor) domain.Repositories {
	return domain.Repositories{
		Effects:     NewEffectRepository(sql),
		Presets:     NewPresetRepository(sql),
		Generations: NewGenerationRepository(sql),
		Roles:       NewRoleRepository(sql),
	}
}

func notFound[T any](v *T, err error) (*T, error) {
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func deleted(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
