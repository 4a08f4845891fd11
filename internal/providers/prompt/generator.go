package prompt

import (
	"context"
	"strings"

	"vfxprompt/internal/composer"
	"vfxprompt/internal/domain"
	"vfxprompt/internal/providers/llm"
	"vfxprompt/internal/settings"
)

const generateTemperature = 0.7

// EffectResolver looks an effect up in the catalog and returns its prompt
// description.
type EffectResolver interface {
	ResolveEffect(ctx context.Context, effect string) (string, bool)
}

type GenerateRequest struct {
	Effect    string                `json:"effect"`
	Intensity int                   `json:"intensity"`
	Duration  string                `json:"duration"`
	Style     string                `json:"style"`
	Analysis  *domain.ImageAnalysis `json:"analysis,omitempty"`
	// Image is the reference image as a data URI or URL.
	Image    string                     `json:"imageBase64,omitempty"`
	ProMode  bool                       `json:"isProMode"`
	Settings domain.ProSettings         `json:"proSettings"`
	Toggles  *domain.EnhancementToggles `json:"enhancementToggles,omitempty"`
	Policy   settings.Policy            `json:"policy,omitempty"`
}

type GenerateResponse struct {
	Prompt       string            `json:"prompt"`
	WordCount    int               `json:"wordCount"`
	MinWords     int               `json:"minWords"`
	MaxWords     int               `json:"maxWords"`
	Effect       string            `json:"effectDescription"`
	Provider     string            `json:"provider"`
	RepairSteps  []string          `json:"repairSteps,omitempty"`
	UsedFallback bool              `json:"usedFallback"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Generator writes new prompts.
type Generator struct {
	opts    Options
	effects EffectResolver
	static  *StaticComposer
}

// NewGenerator builds a Generator. effects may be nil.
func NewGenerator(opts Options, effects EffectResolver) *Generator {
	opts = opts.withDefaults()
	return &Generator{opts: opts, effects: effects, static: NewStaticComposer(opts.Vocab)}
}

// EffectDescription resolves an effect through the catalog, then the
// built-in table, then the raw name.
func (g *Generator) EffectDescription(ctx context.Context, effect string) string {
	effect = strings.TrimSpace(effect)
	if g.effects != nil {
		if d, ok := g.effects.ResolveEffect(ctx, effect); ok && strings.TrimSpace(d) != "" {
			return d
		}
	}
	return g.opts.Vocab.Effect(effect)
}

func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if strings.TrimSpace(req.Effect) == "" {
		return nil, domain.Invalid("effect", "effect is required")
	}
	if err := req.Settings.Validate(); err != nil {
		return nil, err
	}
	if req.Intensity < 0 || req.Intensity > 100 {
		return nil, domain.Invalid("intensity", "must be between 0 and 100")
	}

	in := composer.GenerateInput{
		Effect:       g.EffectDescription(ctx, req.Effect),
		Intensity:    req.Intensity,
		Duration:     coalesce(req.Duration, domain.DefaultEffectDuration),
		Style:        coalesce(req.Style, domain.DefaultGenerationStyle),
		Analysis:     req.Analysis,
		ProMode:      req.ProMode,
		PromptLength: req.Settings.PromptLength,
	}
	if in.Intensity == 0 {
		in.Intensity = domain.DefaultEffectIntensity
	}
	if req.ProMode {
		decision, filtered := g.opts.Reconciler.Reconcile(req.Settings, req.Toggles, req.Policy)
		in.Filtered = filtered
		g.opts.Logger.Debug().Interface("applied", decision.Applied).Msg("generate toggles resolved")
	}

	lo, hi := composer.WordRange(in.PromptLength)
	res := &GenerateResponse{MinWords: lo, MaxWords: hi, Effect: in.Effect}

	msgs := g.opts.Builder.Generate(in)
	resp, err := g.opts.Gateway.Complete(ctx, llm.Request{
		System:      msgs.System,
		User:        msgs.User,
		ImageURL:    strings.TrimSpace(req.Image),
		Temperature: generateTemperature,
	})

	var text string
	switch {
	case err != nil && llm.Surfaced(err):
		return nil, err
	case err != nil:
		reason := llm.FailureReason(err)
		g.opts.Logger.Warn().Err(err).Str("reason", reason).Msg("generate using static composition")
		if g.opts.OnFallback != nil {
			g.opts.OnFallback(reason, err)
		}
		text = g.static.Compose(in)
		res.Provider = staticProviderName
		res.UsedFallback = true
		res.Metadata = fallbackMetadata(reason)
	default:
		text = llm.TrimCodeFence(resp.Text)
		res.Provider = resp.Provider
	}

	if req.ProMode && !in.Filtered.Empty() {
		out := g.opts.Enforcer.Enforce(text, text, in.Filtered)
		text = out.Text
		res.RepairSteps = out.Steps
	}

	text, adjust := fitWords(text, g.opts.Vocab.Padding, lo, hi)
	if adjust != "" {
		g.opts.Logger.Debug().Str("adjust", adjust).Int("min", lo).Int("max", hi).Msg("generated prompt word count adjusted")
	}
	res.Prompt = text
	res.WordCount = wordCount(text)
	return res, nil
}
