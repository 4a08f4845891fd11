package domain

import (
	"strings"
	"time"
)

// DefaultGenerationStyle is used when a request names no style.
const DefaultGenerationStyle = "cinematic"

// Generation is one saved prompt generation. Rows are never updated.
type Generation struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	EffectType      string         `json:"effect_type"`
	EffectCategory  string         `json:"effect_category"`
	ImageURL        string         `json:"image_url,omitempty"`
	AIAnalysis      *ImageAnalysis `json:"ai_analysis,omitempty"`
	GeneratedPrompt string         `json:"generated_prompt"`
	Intensity       int            `json:"intensity"`
	Duration        string         `json:"duration"`
	Style           string         `json:"style"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (g *Generation) Normalize() {
	g.GeneratedPrompt = strings.TrimSpace(g.GeneratedPrompt)
	if g.Style == "" {
		g.Style = DefaultGenerationStyle
	}
}

func (g Generation) Validate() error {
	if g.UserID == "" {
		return Invalid("user_id", "is required")
	}
	if g.EffectType == "" {
		return Invalid("effect_type", "is required")
	}
	if g.GeneratedPrompt == "" {
		return Invalid("generated_prompt", "is required")
	}
	if g.Intensity < 0 || g.Intensity > MaxIntensity {
		return Invalid("intensity", "must be between 0 and 100")
	}
	return nil
}

// Tier is a subscription level.
type Tier string

const (
	TierFreemium Tier = "freemium"
	TierPro      Tier = "pro"
)

// Subscription features.
const (
	FeatureBasicEffects     = "basic_effects"
	FeatureShortPrompts     = "short_prompts"
	FeatureAllEffects       = "all_effects"
	FeatureLongPrompts      = "long_prompts"
	FeatureAdvancedControls = "advanced_controls"
)

// Subscription describes what a user may do today.
type Subscription struct {
	UserID     string   `json:"user_id"`
	Tier       Tier     `json:"tier"`
	IsAdmin    bool     `json:"is_admin"`
	DailyLimit int      `json:"daily_limit"`
	UsedToday  int      `json:"used_today"`
	Remaining  int      `json:"remaining"`
	Unlimited  bool     `json:"unlimited"`
	Features   []string `json:"features"`
}

func (s Subscription) IsPro() bool { return s.Tier == TierPro }

// Has reports whether the subscription includes a feature.
func (s Subscription) Has(feature string) bool {
	for _, f := range s.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// CanGenerate reports whether another generation fits today's quota.
func (s Subscription) CanGenerate() bool {
	return s.Unlimited || s.UsedToday < s.DailyLimit
}
