// Package vision turns a reference image into a structured ImageAnalysis
// and an optional deep, multi-category breakdown.
package vision

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vfxprompt/internal/cache"
	"vfxprompt/internal/domain"
	"vfxprompt/internal/providers/llm"
	"vfxprompt/internal/vocab"
)

const (
	analyzeTemperature = 0.7
	defaultCacheTTL    = 24 * time.Hour
)

type AnalyzerOptions struct {
	Gateway llm.Gateway
	Vocab   *vocab.Vocabulary
	// Cache is optional.
	Cache  cache.Store
	TTL    time.Duration
	Logger zerolog.Logger
}

// Analyzer requests and normalizes image analyses.
type Analyzer struct {
	gateway llm.Gateway
	vocab   *vocab.Vocabulary
	cache   cache.Store
	ttl     time.Duration
	log     zerolog.Logger
}

// Result is an analysis plus how it was obtained.
type Result struct {
	Analysis domain.ImageAnalysis `json:"analysis"`
	// Filled lists fields taken from defaults.
	Filled []string `json:"filledFields,omitempty"`
	// Fallback is set when the reply held no JSON object.
	Fallback bool   `json:"fallback"`
	Cached   bool   `json:"cached"`
	Provider string `json:"provider,omitempty"`
}

func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	v := opts.Vocab
	if v == nil {
		v = vocab.Default()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	gw := opts.Gateway
	if gw == nil {
		gw = llm.Nop{}
	}
	return &Analyzer{gateway: gw, vocab: v, cache: opts.Cache, ttl: ttl, log: opts.Logger}
}

// Analyze describes image, a data URI or URL. Transport errors are returned;
// a reply that cannot be parsed never is.
func (a *Analyzer) Analyze(ctx context.Context, image string) (*Result, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, domain.Invalid("image", "image data is required")
	}

	key := cache.AnalysisKey(image)
	if res, ok := a.cached(ctx, key); ok {
		return res, nil
	}

	resp, err := a.gateway.Complete(ctx, llm.Request{
		System:      analyzeSystem,
		User:        analyzeUser,
		ImageURL:    image,
		Temperature: analyzeTemperature,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		a.log.Warn().Str("reason", llm.FailureReason(err)).Err(err).Str("provider", a.gateway.Name()).Msg("image analysis request failed")
		return nil, err
	}

	analysis, filled, fallback := Parse(resp.Text, a.vocab)
	if fallback {
		a.log.Warn().Str("provider", resp.Provider).Msg("image analysis reply was not json, using default record")
	} else if len(filled) > 0 {
		a.log.Debug().Strs("fields", filled).Msg("image analysis fields filled from defaults")
	}
	res := &Result{Analysis: analysis, Filled: filled, Fallback: fallback, Provider: resp.Provider}
	a.store(ctx, key, res)
	return res, nil
}

func (a *Analyzer) cached(ctx context.Context, key string) (*Result, bool) {
	if a.cache == nil {
		return nil, false
	}
	raw, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		a.log.Warn().Err(err).Msg("analysis cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		a.log.Warn().Err(err).Msg("analysis cache entry unreadable")
		return nil, false
	}
	res.Cached = true
	return &res, true
}

func (a *Analyzer) store(ctx context.Context, key string, res *Result) {
	if a.cache == nil || res.Fallback {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, raw, a.ttl); err != nil {
		a.log.Warn().Err(err).Msg("analysis cache write failed")
	}
}

// Parse normalizes a model reply. A reply without a JSON object yields the
// whole-failure record; otherwise empty fields are filled from defaults.
func Parse(text string, v *vocab.Vocabulary) (domain.ImageAnalysis, []string, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(llm.ExtractJSON(text)), &obj); err != nil || obj == nil {
		failure := v.AnalysisFailure
		failure.Colors = append(domain.StringList(nil), v.AnalysisFailure.Colors...)
		return failure, nil, true
	}

	var out domain.ImageAnalysis
	for _, field := range domain.AnalysisFields {
		raw, ok := obj[field]
		if !ok || raw == nil {
			continue
		}
		if field == domain.FieldColors {
			out.Colors = colors(raw)
			continue
		}
		out.SetValue(field, domain.Stringify(raw))
	}
	filled := out.Fill(v.AnalysisDefaults)
	return out, filled, false
}

func colors(raw any) domain.StringList {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var list domain.StringList
	if err := json.Unmarshal(b, &list); err != nil {
		return nil
	}
	return list
}
