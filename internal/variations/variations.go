// Package variations rewrites one prompt five ways, one request per
// approach, and keeps whatever comes back.
package variations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/providers/llm"
	"vfxprompt/internal/vocab"
)

const (
	temperature = 0.9
	maxTokens   = 500

	DefaultConcurrency = 2
)

type Request struct {
	Prompt   string                `json:"originalPrompt"`
	Analysis *domain.ImageAnalysis `json:"aiAnalysis,omitempty"`
	Settings *domain.ProSettings   `json:"proSettings,omitempty"`
}

type Variation struct {
	Approach string   `json:"approach"`
	Prompt   string   `json:"prompt"`
	Changes  []string `json:"changes"`
}

// Generator fans requests out over the vocabulary's approaches. A nil
// Limiter disables pacing.
type Generator struct {
	Gateway     llm.Gateway
	Vocab       *vocab.Vocabulary
	Limiter     *rate.Limiter
	Concurrency int
	Logger      zerolog.Logger
}

func New(gw llm.Gateway, v *vocab.Vocabulary, limiter *rate.Limiter, concurrency int, log zerolog.Logger) *Generator {
	if gw == nil {
		gw = llm.Nop{}
	}
	if v == nil {
		v = vocab.Default()
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Generator{Gateway: gw, Vocab: v, Limiter: limiter, Concurrency: concurrency, Logger: log}
}

// Generate returns the successful variations in approach order. Failed and
// empty approaches are skipped; when every approach was rate limited the
// rate limit error is returned instead.
func (g *Generator) Generate(ctx context.Context, req Request) ([]Variation, error) {
	original := strings.TrimSpace(req.Prompt)
	if original == "" {
		return nil, domain.Invalid("originalPrompt", "original prompt is required")
	}

	if req.Settings != nil {
		if err := req.Settings.Validate(); err != nil {
			return nil, err
		}
	}
	scene := g.sceneContext(req)

	approaches := g.Vocab.Approaches
	results := make([]*Variation, len(approaches))
	errs := make([]error, len(approaches))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.Concurrency)
	for i, ap := range approaches {
		i, ap := i, ap
		eg.Go(func() error {
			// Approach failures are recorded, not returned, so one bad
			// approach does not cancel the others.
			v, err := g.one(egCtx, original, scene, ap)
			if err != nil {
				errs[i] = err
				g.Logger.Warn().Err(err).Str("approach", ap.Name).Str("reason", llm.FailureReason(err)).Msg("variation failed")
				return nil
			}
			results[i] = v
			return nil
		})
	}
	_ = eg.Wait()

	out := make([]Variation, 0, len(approaches))
	for _, v := range results {
		if v != nil {
			out = append(out, *v)
		}
	}
	g.Logger.Info().Int("generated", len(out)).Int("approaches", len(approaches)).Msg("variations generated")

	if len(out) == 0 && len(approaches) > 0 && allRateLimited(errs) {
		return nil, errs[0]
	}
	if err := ctx.Err(); err != nil && len(out) == 0 {
		return nil, err
	}
	return out, nil
}

func (g *Generator) one(ctx context.Context, original, scene string, ap vocab.Approach) (*Variation, error) {
	if g.Limiter != nil {
		if err := g.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	resp, err := g.Gateway.Complete(ctx, llm.Request{
		User:            fmt.Sprintf(promptTemplate, original, scene, ap.Name, ap.Instruction),
		Temperature:     temperature,
		MaxOutputTokens: maxTokens,
	})
	if err != nil {
		return nil, err
	}
	text := llm.TrimCodeFence(resp.Text)
	if text == "" {
		return nil, llm.ErrEmptyResponse
	}
	return &Variation{Approach: ap.Name, Prompt: text, Changes: []string{FirstSentence(ap.Instruction)}}, nil
}

// sceneContext renders the optional image analysis and locked settings as
// prompt lines. It returns "" when the request carries neither.
func (g *Generator) sceneContext(req Request) string {
	var b strings.Builder
	if a := req.Analysis; a != nil {
		line := func(label, v string) {
			if v = strings.TrimSpace(v); v != "" {
				fmt.Fprintf(&b, "%s: %s\n", label, v)
			}
		}
		line("Subject", a.Subject)
		line("Style", a.Style)
		line("Lighting", a.Lighting)
		line("Composition", a.Composition)
		if len(a.Colors) > 0 {
			line("Colors", strings.Join(a.Colors, ", "))
		}
	}
	if s := req.Settings; s != nil {
		var keep []string
		if p := g.Vocab.ShotPhrases[s.ShotType]; p != "" {
			keep = append(keep, p)
		}
		if p := g.Vocab.AnglePhrases[s.CameraAngle]; p != "" {
			keep = append(keep, p+" angle")
		}
		for _, v := range []string{s.LensType, s.LightingSetup, s.ArtisticStyle, s.Mood} {
			if v != "" {
				keep = append(keep, strings.ReplaceAll(v, "-", " "))
			}
		}
		if len(keep) > 0 {
			fmt.Fprintf(&b, "Keep: %s\n", strings.Join(keep, ", "))
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "\nScene Context:\n" + b.String()
}

// FirstSentence returns s up to its first period.
func FirstSentence(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func allRateLimited(errs []error) bool {
	for _, err := range errs {
		if err == nil || !errors.Is(err, domain.ErrRateLimited) {
			return false
		}
	}
	return true
}

const promptTemplate = `You are a creative VFX director generating prompt variations.

Original Prompt: "%s"
%s
Variation Approach: %s
Instruction: %s

Create a NEW prompt that follows the approach instruction while maintaining the core subject and effect.
Return ONLY the new prompt text, no explanations, no JSON.`
