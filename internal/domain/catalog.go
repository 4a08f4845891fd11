package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// EffectCategory groups effects in the catalog.
type EffectCategory string

const (
	EffectVisual      EffectCategory = "visual"
	EffectEyes        EffectCategory = "eyes"
	EffectCamera      EffectCategory = "camera"
	EffectEnergy      EffectCategory = "energy"
	EffectAtmospheric EffectCategory = "atmospheric"
)

var EffectCategories = []EffectCategory{EffectVisual, EffectEyes, EffectCamera, EffectEnergy, EffectAtmospheric}

func (c EffectCategory) Valid() bool {
	for _, v := range EffectCategories {
		if v == c {
			return true
		}
	}
	return false
}

// PresetCategory groups director presets.
type PresetCategory string

const (
	PresetAction   PresetCategory = "action"
	PresetDrama    PresetCategory = "drama"
	PresetHorror   PresetCategory = "horror"
	PresetComedy   PresetCategory = "comedy"
	PresetThriller PresetCategory = "thriller"
)

var PresetCategories = []PresetCategory{PresetAction, PresetDrama, PresetHorror, PresetComedy, PresetThriller}

func (c PresetCategory) Valid() bool {
	for _, v := range PresetCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Effect defaults applied on create when a field is left blank.
const (
	DefaultEffectIcon      = "✨"
	DefaultEffectColor     = "#8B5CF6"
	DefaultEffectIntensity = 80
	DefaultEffectDuration  = "3s"
	DefaultPresetIcon      = "🎬"
)

// Effect is a catalog entry selectable in the generation flow.
type Effect struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Category         EffectCategory `json:"category"`
	Description      string         `json:"description"`
	Icon             string         `json:"icon"`
	Color            string         `json:"color"`
	IsPremium        bool           `json:"is_premium"`
	IsActive         bool           `json:"is_active"`
	PromptTemplate   string         `json:"prompt_template"`
	DefaultIntensity int            `json:"default_intensity"`
	DefaultDuration  string         `json:"default_duration"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Normalize trims text fields and applies create defaults.
func (e *Effect) Normalize() {
	e.Name = strings.TrimSpace(e.Name)
	e.Description = strings.TrimSpace(e.Description)
	if strings.TrimSpace(e.Icon) == "" {
		e.Icon = DefaultEffectIcon
	}
	if strings.TrimSpace(e.Color) == "" {
		e.Color = DefaultEffectColor
	}
	if e.DefaultIntensity == 0 {
		e.DefaultIntensity = DefaultEffectIntensity
	}
	if strings.TrimSpace(e.DefaultDuration) == "" {
		e.DefaultDuration = DefaultEffectDuration
	}
}

func (e Effect) Validate() error {
	if e.Name == "" {
		return Invalid("name", "is required")
	}
	if !e.Category.Valid() {
		return Invalid("category", "unknown effect category")
	}
	if e.DefaultIntensity < 0 || e.DefaultIntensity > MaxIntensity {
		return Invalid("default_intensity", "must be between 0 and 100")
	}
	return nil
}

// Preset is a named bundle of ProSettings.
type Preset struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    PresetCategory  `json:"category"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	IsActive    bool            `json:"is_active"`
	Settings    json.RawMessage `json:"settings"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p *Preset) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if strings.TrimSpace(p.Icon) == "" {
		p.Icon = DefaultPresetIcon
	}
	if len(p.Settings) == 0 {
		p.Settings = json.RawMessage("{}")
	}
}

// Validate checks the preset and that Settings decodes into ProSettings.
func (p Preset) Validate() error {
	if p.Name == "" {
		return Invalid("name", "is required")
	}
	if !p.Category.Valid() {
		return Invalid("category", "unknown preset category")
	}
	if _, err := p.ProSettings(); err != nil {
		return Invalid("settings", "invalid JSON in settings")
	}
	return nil
}

// ProSettings decodes the stored settings.
func (p Preset) ProSettings() (ProSettings, error) {
	var s ProSettings
	if len(p.Settings) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(p.Settings, &s); err != nil {
		return ProSettings{}, err
	}
	return s, s.Validate()
}

// Role is a privilege granted to a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RolePro   Role = "pro"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RolePro }

// UserRole links a user to a role.
type UserRole struct {
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
