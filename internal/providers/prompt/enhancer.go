// Package prompt orchestrates the enhance and generate flows: settings
// reconciliation, message building, the gateway call, repair and the local
// fallbacks.
package prompt

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"vfxprompt/internal/composer"
	"vfxprompt/internal/domain"
	"vfxprompt/internal/enforce"
	"vfxprompt/internal/providers/llm"
	"vfxprompt/internal/settings"
	"vfxprompt/internal/vocab"
)

const (
	enhanceTemperature = 0.01
	enhanceMaxTokens   = 500
)

// Enforcer repairs model output and rewrites prompts offline.
type Enforcer interface {
	Enforce(original, raw string, filtered domain.ProSettings) enforce.Result
	LocalFallback(original string, filtered domain.ProSettings) string
}

type EnhanceRequest struct {
	Prompt   string                     `json:"originalPrompt"`
	Settings domain.ProSettings         `json:"proSettings"`
	Toggles  *domain.EnhancementToggles `json:"enhancementToggles,omitempty"`
	Policy   settings.Policy            `json:"policy,omitempty"`
	// TargetWords defaults to the prompt's word count.
	TargetWords int `json:"targetWordCount,omitempty"`
}

type EnhanceResponse struct {
	EnhancedPrompt    string                    `json:"enhancedPrompt"`
	OriginalWordCount int                       `json:"originalWordCount"`
	FinalWordCount    int                       `json:"finalWordCount"`
	Message           string                    `json:"message,omitempty"`
	Policy            settings.Policy           `json:"policy"`
	AppliedToggles    domain.EnhancementToggles `json:"appliedToggles"`
	SuggestedToggles  domain.EnhancementToggles `json:"suggestedToggles"`
	Provider          string                    `json:"provider"`
	RepairSteps       []string                  `json:"repairSteps,omitempty"`
	UsedFallback      bool                      `json:"usedFallback"`
	Metadata          map[string]string         `json:"metadata,omitempty"`
}

// Options wires an Enhancer or Generator. Nil fields get defaults.
type Options struct {
	Gateway    llm.Gateway
	Vocab      *vocab.Vocabulary
	Reconciler *settings.Reconciler
	Builder    *composer.Builder
	Enforcer   Enforcer
	Logger     zerolog.Logger
	OnFallback func(reason string, err error)
}

func (o Options) withDefaults() Options {
	if o.Vocab == nil {
		o.Vocab = vocab.Default()
	}
	if o.Gateway == nil {
		o.Gateway = llm.Nop{}
	}
	if o.Reconciler == nil {
		o.Reconciler = settings.New(o.Vocab)
	}
	if o.Builder == nil {
		o.Builder = composer.New(o.Vocab)
	}
	if o.Enforcer == nil {
		o.Enforcer = enforce.NewRegex(o.Vocab, o.Logger)
	}
	return o
}

// Enhancer rewrites an existing prompt to apply pro settings.
type Enhancer struct {
	opts Options
}

func NewEnhancer(opts Options) *Enhancer {
	return &Enhancer{opts: opts.withDefaults()}
}

func (e *Enhancer) Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResponse, error) {
	original := strings.TrimSpace(req.Prompt)
	if original == "" {
		return nil, domain.Invalid("originalPrompt", "original prompt is required")
	}
	if err := req.Settings.Validate(); err != nil {
		return nil, err
	}

	decision, filtered := e.opts.Reconciler.Reconcile(req.Settings, req.Toggles, req.Policy)
	e.opts.Logger.Debug().
		Str("policy", string(decision.Policy)).
		Interface("suggested", decision.Suggested).
		Interface("applied", decision.Applied).
		Msg("enhancement toggles resolved")

	originalWords := wordCount(original)
	res := &EnhanceResponse{
		OriginalWordCount: originalWords,
		Policy:            decision.Policy,
		AppliedToggles:    decision.Applied,
		SuggestedToggles:  decision.Suggested,
	}
	if !decision.Applied.Any() || filtered.Empty() {
		res.EnhancedPrompt = original
		res.FinalWordCount = originalWords
		res.Message = NoCategoriesMessage
		res.Provider = noneProviderName
		return res, nil
	}

	target := req.TargetWords
	if target <= 0 {
		target = originalWords
	}
	msgs := e.opts.Builder.Enhance(original, filtered, target)
	resp, err := e.opts.Gateway.Complete(ctx, llm.Request{
		System:          msgs.System,
		User:            msgs.User,
		Temperature:     enhanceTemperature,
		MaxOutputTokens: enhanceMaxTokens,
	})
	if err != nil {
		if llm.Surfaced(err) {
			return nil, err
		}
		reason := llm.FailureReason(err)
		e.fallback(reason, err)
		res.EnhancedPrompt = e.opts.Enforcer.LocalFallback(original, filtered)
		res.FinalWordCount = wordCount(res.EnhancedPrompt)
		res.Provider = localProviderName
		res.UsedFallback = true
		res.Metadata = fallbackMetadata(reason)
		return res, nil
	}

	out := e.opts.Enforcer.Enforce(original, llm.TrimCodeFence(resp.Text), filtered)
	res.EnhancedPrompt = out.Text
	res.FinalWordCount = wordCount(out.Text)
	res.Provider = resp.Provider
	res.RepairSteps = out.Steps
	res.UsedFallback = out.UsedFallback
	if out.UsedFallback {
		e.fallback("unrepairable_response", nil)
		res.Metadata = fallbackMetadata("unrepairable_response")
	}
	return res, nil
}

func (e *Enhancer) fallback(reason string, err error) {
	e.opts.Logger.Warn().Err(err).Str("reason", reason).Msg("enhance using local fallback")
	if e.opts.OnFallback != nil {
		e.opts.OnFallback(reason, err)
	}
}
