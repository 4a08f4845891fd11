package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/infra"
	"vfxprompt/internal/sqlinline"
)

// PresetRepositoryPG implements domain.PresetRepository backed by PostgreSQL.
type PresetRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewPresetRepository(sql infra.SQLExecutor) *PresetRepositoryPG {
	return &PresetRepositoryPG{sql: sql}
}

func (r *PresetRepositoryPG) List(ctx context.Context, activeOnly bool) ([]domain.Preset, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListPresets, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()
	out := []domain.Preset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PresetRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Preset, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return notFound(scanPreset(r.sql.QueryRow(ctx, sqlinline.QSelectPresetByID, id)))
}

func (r *PresetRepositoryPG) Create(ctx context.Context, p *domain.Preset) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertPreset, presetArgs(p)...)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("insert preset: %w", err)
	}
	return nil
}

func (r *PresetRepositoryPG) Update(ctx context.Context, p *domain.Preset) error {
	if _, err := uuid.Parse(p.ID); err != nil {
		return domain.ErrNotFound
	}
	row := r.sql.QueryRow(ctx, sqlinline.QUpdatePreset, presetArgs(p)...)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update preset: %w", err)
	}
	return nil
}

func (r *PresetRepositoryPG) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return deleted(r.sql.Exec(ctx, sqlinline.QDeletePreset, id))
}

func presetArgs(p *domain.Preset) []any {
	settings := []byte(p.Settings)
	if len(settings) == 0 {
		settings = []byte("{}")
	}
	return []any{p.ID, p.Name, string(p.Category), p.Description, p.Icon, p.IsActive, settings}
}

func scanPreset(row pgx.Row) (*domain.Preset, error) {
	var p domain.Preset
	var category string
	var settings []byte
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&category,
		&p.Description,
		&p.Icon,
		&p.IsActive,
		&settings,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Category = domain.PresetCategory(category)
	if len(settings) == 0 {
		settings = []byte("{}")
	}
	p.Settings = json.RawMessage(settings)
	return &p, nil
}
