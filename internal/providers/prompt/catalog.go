package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"vfxprompt/internal/domain"
)

// EffectLookup finds an active catalog effect by its exact name.
type EffectLookup interface {
	GetByName(ctx context.Context, name string) (*domain.Effect, error)
}

// CatalogResolver resolves effect descriptions from the effect catalog,
// preferring the prompt template over the description.
type CatalogResolver struct {
	effects EffectLookup
	log     zerolog.Logger
}

func NewCatalogResolver(effects EffectLookup, log zerolog.Logger) *CatalogResolver {
	return &CatalogResolver{effects: effects, log: log}
}

func (c *CatalogResolver) ResolveEffect(ctx context.Context, effect string) (string, bool) {
	if c == nil || c.effects == nil || strings.TrimSpace(effect) == "" {
		return "", false
	}
	e, err := c.effects.GetByName(ctx, effect)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.log.Warn().Err(err).Str("effect", effect).Msg("effect catalog lookup failed")
		}
		return "", false
	}
	if t := strings.TrimSpace(e.PromptTemplate); t != "" {
		return t, true
	}
	if d := strings.TrimSpace(e.Description); d != "" {
		return d, true
	}
	return "", false
}
