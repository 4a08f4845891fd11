package supabase

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	supa "github.com/supabase-community/supabase-go"

	"vfxprompt/internal/domain"
)

type PresetRepository struct {
	client *supa.Client
}

func NewPresetRepository(client *supa.Client) *PresetRepository {
	return &PresetRepository{client: client}
}

func (r *PresetRepository) List(_ context.Context, activeOnly bool) ([]domain.Preset, error) {
	q := r.client.From(tablePresets).Select("*", "", false)
	if activeOnly {
		q = q.Eq("is_active", "true")
	}
	data, _, err := q.Execute()
	presets, err := decode[domain.Preset](data, err, "list presets")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(presets, func(i, j int) bool {
		if presets[i].Category != presets[j].Category {
			return presets[i].Category < presets[j].Category
		}
		return presets[i].Name < presets[j].Name
	})
	out := make([]domain.Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, withSettings(p))
	}
	return out, nil
}

func (r *PresetRepository) GetByID(_ context.Context, id string) (*domain.Preset, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	data, _, err := r.client.From(tablePresets).Select("*", "", false).Eq("id", id).Execute()
	p, err := first(decode[domain.Preset](data, err, "get preset"))
	if err != nil {
		return nil, err
	}
	out := withSettings(*p)
	return &out, nil
}

func (r *PresetRepository) Create(_ context.Context, p *domain.Preset) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	row := presetRow(p)
	row["id"] = p.ID
	data, _, err := r.client.From(tablePresets).Insert(row, false, "", returnRows, "").Execute()
	saved, err := first(decode[domain.Preset](data, err, "insert preset"))
	if err != nil {
		return err
	}
	p.CreatedAt, p.UpdatedAt = saved.CreatedAt, saved.UpdatedAt
	return nil
}

func (r *PresetRepository) Update(_ context.Context, p *domain.Preset) error {
	if !validID(p.ID) {
		return domain.ErrNotFound
	}
	row := presetRow(p)
	row["updated_at"] = time.Now().UTC()
	data, _, err := r.client.From(tablePresets).Update(row, returnRows, "").Eq("id", p.ID).Execute()
	saved, err := first(decode[domain.Preset](data, err, "update preset"))
	if err != nil {
		return err
	}
	p.CreatedAt, p.UpdatedAt = saved.CreatedAt, saved.UpdatedAt
	return nil
}

func (r *PresetRepository) Delete(_ context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	data, _, err := r.client.From(tablePresets).Delete(returnRows, "").Eq("id", id).Execute()
	_, err = first(decode[domain.Preset](data, err, "delete preset"))
	return err
}

func presetRow(p *domain.Preset) map[string]any {
	settings := p.Settings
	if len(settings) == 0 {
		settings = json.RawMessage("{}")
	}
	return map[string]any{
		"name":        p.Name,
		"category":    string(p.Category),
		"description": nullable(p.Description),
		"icon":        p.Icon,
		"is_active":   p.IsActive,
		"settings":    settings,
	}
}

// withSettings turns a null settings column into an empty object.
func withSettings(p domain.Preset) domain.Preset {
	if len(p.Settings) == 0 || string(p.Settings) == "null" {
		p.Settings = json.RawMessage("{}")
	}
	return p
}
