package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/providers/llm"
)

const (
	deepTemperature = 0.4
	deepMaxTokens   = 2048
)

// DeepAnalyzer extracts the eight detail categories.
type DeepAnalyzer struct {
	gateway llm.Gateway
	log     zerolog.Logger
}

func NewDeepAnalyzer(gw llm.Gateway, log zerolog.Logger) *DeepAnalyzer {
	if gw == nil {
		gw = llm.Nop{}
	}
	return &DeepAnalyzer{gateway: gw, log: log}
}

func (d *DeepAnalyzer) Analyze(ctx context.Context, imageURL string) (*domain.DeepAnalysis, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, domain.Invalid("imageUrl", "image URL is required")
	}
	resp, err := d.gateway.Complete(ctx, llm.Request{
		System:          deepSystem,
		User:            deepUser,
		ImageURL:        imageURL,
		Temperature:     deepTemperature,
		MaxOutputTokens: deepMaxTokens,
		JSON:            true,
	})
	if err != nil {
		return nil, err
	}

	out, dropped, err := ParseDeep(resp.Text)
	if err != nil {
		return nil, err
	}
	for _, name := range dropped {
		d.log.Warn().Str("category", name).Msg("deep analysis category undecodable")
	}
	if missing := out.Missing(); len(missing) > 0 {
		d.log.Warn().Strs("categories", missing).Msg("deep analysis missing categories")
	}
	return out, nil
}

// ParseDeep decodes each category on its own and returns the names of the
// categories it had to drop. A reply with no JSON object is a provider
// failure.
func ParseDeep(text string) (*domain.DeepAnalysis, []string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(llm.ExtractJSON(text)), &obj); err != nil || obj == nil {
		return nil, nil, fmt.Errorf("%w: no valid JSON found in deep analysis reply", domain.ErrProviderFailure)
	}

	out := &domain.DeepAnalysis{}
	targets := map[string]any{
		domain.DeepHair:             &out.Hair,
		domain.DeepAccessories:      &out.Accessories,
		domain.DeepTextures:         &out.Textures,
		domain.DeepWardrobe:         &out.Wardrobe,
		domain.DeepMakeup:           &out.Makeup,
		domain.DeepProps:            &out.Props,
		domain.DeepAdvancedLighting: &out.AdvancedLighting,
		domain.DeepSceneContext:     &out.SceneContext,
	}
	var dropped []string
	for _, name := range domain.DeepCategories {
		raw, ok := obj[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, targets[name]); err != nil {
			dropped = append(dropped, name)
			resetCategory(out, name)
		}
	}
	return out, dropped, nil
}

// resetCategory clears a partially decoded category.
func resetCategory(d *domain.DeepAnalysis, name string) {
	switch name {
	case domain.DeepHair:
		d.Hair = nil
	case domain.DeepAccessories:
		d.Accessories = nil
	case domain.DeepTextures:
		d.Textures = nil
	case domain.DeepWardrobe:
		d.Wardrobe = nil
	case domain.DeepMakeup:
		d.Makeup = nil
	case domain.DeepProps:
		d.Props = nil
	case domain.DeepAdvancedLighting:
		d.AdvancedLighting = nil
	case domain.DeepSceneContext:
		d.SceneContext = nil
	}
}
