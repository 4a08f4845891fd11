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

// DefaultHistoryLimit caps history reads when the caller passes no limit.
const DefaultHistoryLimit = 50

// GenerationRepositoryPG implements domain.GenerationRepository backed by PostgreSQL.
type GenerationRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewGenerationRepository(sql infra.SQLExecutor) *GenerationRepositoryPG {
	return &GenerationRepositoryPG{sql: sql}
}

func (r *GenerationRepositoryPG) Create(ctx context.Context, g *domain.Generation) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	var analysis []byte
	if g.AIAnalysis != nil {
		b, err := json.Marshal(g.AIAnalysis)
		if err != nil {
			return fmt.Errorf("encode analysis: %w", err)
		}
		analysis = b
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertGeneration,
		g.ID,
		g.UserID,
		g.EffectType,
		g.EffectCategory,
		g.ImageURL,
		analysis,
		g.GeneratedPrompt,
		g.Intensity,
		g.Duration,
		g.Style,
	)
	if err := row.Scan(&g.CreatedAt); err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

func (r *GenerationRepositoryPG) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Generation, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListGenerationsByUser, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()
	out := []domain.Generation{}
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *GenerationRepositoryPG) GetByID(ctx context.Context, userID, id string) (*domain.Generation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return notFound(scanGeneration(r.sql.QueryRow(ctx, sqlinline.QSelectGenerationByID, userID, id)))
}

// Delete removes the user's own generation; another user's id is not found.
func (r *GenerationRepositoryPG) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return deleted(r.sql.Exec(ctx, sqlinline.QDeleteGeneration, userID, id))
}

func scanGeneration(row pgx.Row) (*domain.Generation, error) {
	var g domain.Generation
	var analysis []byte
	if err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.EffectType,
		&g.EffectCategory,
		&g.ImageURL,
		&analysis,
		&g.GeneratedPrompt,
		&g.Intensity,
		&g.Duration,
		&g.Style,
		&g.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(analysis) > 0 && string(analysis) != "null" {
		var a domain.ImageAnalysis
		if err := json.Unmarshal(analysis, &a); err != nil {
			return nil, fmt.Errorf("decode analysis for generation %s: %w", g.ID, err)
		}
		g.AIAnalysis = &a
	}
	return &g, nil
}
