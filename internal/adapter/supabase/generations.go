package supabase

import (
	"context"
	"sort"

	"github.com/google/uuid"
	supa "github.com/supabase-community/supabase-go"

	"vfxprompt/internal/domain"
)

const defaultHistoryLimit = 50

type GenerationRepository struct {
	client *supa.Client
}

func NewGenerationRepository(client *supa.Client) *GenerationRepository {
	return &GenerationRepository{client: client}
}

func (r *GenerationRepository) Create(_ context.Context, g *domain.Generation) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	row := map[string]any{
		"id":               g.ID,
		"user_id":          g.UserID,
		"effect_type":      g.EffectType,
		"effect_category":  nullable(g.EffectCategory),
		"image_url":        nullable(g.ImageURL),
		"ai_analysis":      g.AIAnalysis,
		"generated_prompt": g.GeneratedPrompt,
		"intensity":        g.Intensity,
		"duration":         g.Duration,
		"style":            g.Style,
	}
	data, _, err := r.client.From(tableGenerations).Insert(row, false, "", returnRows, "").Execute()
	saved, err := first(decode[domain.Generation](data, err, "insert generation"))
	if err != nil {
		return err
	}
	g.CreatedAt = saved.CreatedAt
	return nil
}

func (r *GenerationRepository) ListByUser(_ context.Context, userID string, limit int) ([]domain.Generation, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	data, _, err := r.client.From(tableGenerations).Select("*", "", false).Eq("user_id", userID).Execute()
	gens, err := decode[domain.Generation](data, err, "list generations")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(gens, func(i, j int) bool { return gens[i].CreatedAt.After(gens[j].CreatedAt) })
	if len(gens) > limit {
		gens = gens[:limit]
	}
	if gens == nil {
		gens = []domain.Generation{}
	}
	return gens, nil
}

func (r *GenerationRepository) GetByID(_ context.Context, userID, id string) (*domain.Generation, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	data, _, err := r.client.From(tableGenerations).Select("*", "", false).Eq("user_id", userID).Eq("id", id).Execute()
	return first(decode[domain.Generation](data, err, "get generation"))
}

func (r *GenerationRepository) Delete(_ context.Context, userID, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	data, _, err := r.client.From(tableGenerations).Delete(returnRows, "").Eq("user_id", userID).Eq("id", id).Execute()
	_, err = first(decode[domain.Generation](data, err, "delete generation"))
	return err
}
