package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/infra"
	"vfxprompt/internal/sqlinline"
)

// EffectRepositoryPG implements domain.EffectRepository backed by PostgreSQL.
type EffectRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewEffectRepository(sql infra.SQLExecutor) *EffectRepositoryPG {
	return &EffectRepositoryPG{sql: sql}
}

func (r *EffectRepositoryPG) List(ctx context.Context, activeOnly bool) ([]domain.Effect, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListEffects, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list effects: %w", err)
	}
	defer rows.Close()
	out := []domain.Effect{}
	for rows.Next() {
		e, err := scanEffect(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *EffectRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Effect, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return notFound(scanEffect(r.sql.QueryRow(ctx, sqlinline.QSelectEffectByID, id)))
}

func (r *EffectRepositoryPG) GetByName(ctx context.Context, name string) (*domain.Effect, error) {
	return notFound(scanEffect(r.sql.QueryRow(ctx, sqlinline.QSelectEffectByName, name)))
}

// Create assigns an id when the effect has none.
func (r *EffectRepositoryPG) Create(ctx context.Context, e *domain.Effect) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertEffect, effectArgs(e)...)
	if err := row.Scan(&e.CreatedAt, &e.UpdatedAt); err != nil {
		return fmt.Errorf("insert effect: %w", err)
	}
	return nil
}

func (r *EffectRepositoryPG) Update(ctx context.Context, e *domain.Effect) error {
	if _, err := uuid.Parse(e.ID); err != nil {
		return domain.ErrNotFound
	}
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateEffect, effectArgs(e)...)
	if err := row.Scan(&e.CreatedAt, &e.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update effect: %w", err)
	}
	return nil
}

func (r *EffectRepositoryPG) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return deleted(r.sql.Exec(ctx, sqlinline.QDeleteEffect, id))
}

func effectArgs(e *domain.Effect) []any {
	return []any{
		e.ID,
		e.Name,
		string(e.Category),
		e.Description,
		e.Icon,
		e.Color,
		e.IsPremium,
		e.IsActive,
		e.PromptTemplate,
		e.DefaultIntensity,
		e.DefaultDuration,
	}
}

func scanEffect(row pgx.Row) (*domain.Effect, error) {
	var e domain.Effect
	var category string
	if err := row.Scan(
		&e.ID,
		&e.Name,
		&category,
		&e.Description,
		&e.Icon,
		&e.Color,
		&e.IsPremium,
		&e.IsActive,
		&e.PromptTemplate,
		&e.DefaultIntensity,
		&e.DefaultDuration,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Category = domain.EffectCategory(category)
	return &e, nil
}
