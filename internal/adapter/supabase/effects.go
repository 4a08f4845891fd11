package supabase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	supa "github.com/supabase-community/supabase-go"

	"vfxprompt/internal/domain"
)

type EffectRepository struct {
	client *supa.Client
}

func NewEffectRepository(client *supa.Client) *EffectRepository {
	return &EffectRepository{client: client}
}

func (r *EffectRepository) List(_ context.Context, activeOnly bool) ([]domain.Effect, error) {
	q := r.client.From(tableEffects).Select("*", "", false)
	if activeOnly {
		q = q.Eq("is_active", "true")
	}
	data, _, err := q.Execute()
	effects, err := decode[domain.Effect](data, err, "list effects")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(effects, func(i, j int) bool {
		if effects[i].Category != effects[j].Category {
			return effects[i].Category < effects[j].Category
		}
		return effects[i].Name < effects[j].Name
	})
	if effects == nil {
		effects = []domain.Effect{}
	}
	return effects, nil
}

func (r *EffectRepository) GetByID(_ context.Context, id string) (*domain.Effect, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	data, _, err := r.client.From(tableEffects).Select("*", "", false).Eq("id", id).Execute()
	return first(decode[domain.Effect](data, err, "get effect"))
}

func (r *EffectRepository) GetByName(_ context.Context, name string) (*domain.Effect, error) {
	data, _, err := r.client.From(tableEffects).Select("*", "", false).Eq("name", name).Eq("is_active", "true").Execute()
	return first(decode[domain.Effect](data, err, "get effect by name"))
}

func (r *EffectRepository) Create(_ context.Context, e *domain.Effect) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	row := effectRow(e)
	row["id"] = e.ID
	data, _, err := r.client.From(tableEffects).Insert(row, false, "", returnRows, "").Execute()
	saved, err := first(decode[domain.Effect](data, err, "insert effect"))
	if err != nil {
		return err
	}
	e.CreatedAt, e.UpdatedAt = saved.CreatedAt, saved.UpdatedAt
	return nil
}

func (r *EffectRepository) Update(_ context.Context, e *domain.Effect) error {
	if !validID(e.ID) {
		return domain.ErrNotFound
	}
	row := effectRow(e)
	row["updated_at"] = time.Now().UTC()
	data, _, err := r.client.From(tableEffects).Update(row, returnRows, "").Eq("id", e.ID).Execute()
	saved, err := first(decode[domain.Effect](data, err, "update effect"))
	if err != nil {
		return err
	}
	e.CreatedAt, e.UpdatedAt = saved.CreatedAt, saved.UpdatedAt
	return nil
}

func (r *EffectRepository) Delete(_ context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	data, _, err := r.client.From(tableEffects).Delete(returnRows, "").Eq("id", id).Execute()
	_, err = first(decode[domain.Effect](data, err, "delete effect"))
	return err
}

func effectRow(e *domain.Effect) map[string]any {
	return map[string]any{
		"name":              e.Name,
		"category":          string(e.Category),
		"description":       nullable(e.Description),
		"icon":              e.Icon,
		"color":             e.Color,
		"is_premium":        e.IsPremium,
		"is_active":         e.IsActive,
		"prompt_template":   nullable(e.PromptTemplate),
		"default_intensity": e.DefaultIntensity,
		"default_duration":  e.DefaultDuration,
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
