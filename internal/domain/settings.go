package domain

import (
	"strconv"
	"strings"
)

// ProSettings field names.
const (
	SettingShotType                 = "shotType"
	SettingCameraAngle              = "cameraAngle"
	SettingCameraMovement           = "cameraMovement"
	SettingMovementDirection        = "movementDirection"
	SettingMovementSpeed            = "movementSpeed"
	SettingMovementStyle            = "movementStyle"
	SettingLensType                 = "lensType"
	SettingAperture                 = "aperture"
	SettingFocusType                = "focusType"
	SettingLightingSetup            = "lightingSetup"
	SettingKeyLight                 = "keyLight"
	SettingFillLight                = "fillLight"
	SettingRimLight                 = "rimLight"
	SettingColorGrade               = "colorGrade"
	SettingCoverage                 = "coverage"
	SettingIntensity                = "intensity"
	SettingParticleType             = "particleType"
	SettingDirection                = "direction"
	SettingArtisticStyle            = "artisticStyle"
	SettingGenre                    = "genre"
	SettingMood                     = "mood"
	SettingPromptLength             = "promptLength"
	SettingOptimizationInstructions = "optimizationInstructions"
)

// SettingFields lists every ProSettings field in declaration order.
var SettingFields = []string{
	SettingShotType, SettingCameraAngle, SettingCameraMovement,
	SettingMovementDirection, SettingMovementSpeed, SettingMovementStyle,
	SettingLensType, SettingAperture, SettingFocusType, SettingLightingSetup,
	SettingKeyLight, SettingFillLight, SettingRimLight, SettingColorGrade,
	SettingCoverage, SettingIntensity, SettingParticleType, SettingDirection,
	SettingArtisticStyle, SettingGenre, SettingMood, SettingPromptLength,
	SettingOptimizationInstructions,
}

const (
	MinIntensity = 30
	MaxIntensity = 100
)

// Prompt length modes.
const (
	PromptLengthShort = "short"
	PromptLengthLong  = "long"
)

// ProSettings is the flat set of cinematography controls. A zero field is
// treated as absent.
type ProSettings struct {
	ShotType                 string `json:"shotType,omitempty"`
	CameraAngle              string `json:"cameraAngle,omitempty"`
	CameraMovement           string `json:"cameraMovement,omitempty"`
	MovementDirection        string `json:"movementDirection,omitempty"`
	MovementSpeed            string `json:"movementSpeed,omitempty"`
	MovementStyle            string `json:"movementStyle,omitempty"`
	LensType                 string `json:"lensType,omitempty"`
	Aperture                 string `json:"aperture,omitempty"`
	FocusType                string `json:"focusType,omitempty"`
	LightingSetup            string `json:"lightingSetup,omitempty"`
	KeyLight                 string `json:"keyLight,omitempty"`
	FillLight                string `json:"fillLight,omitempty"`
	RimLight                 string `json:"rimLight,omitempty"`
	ColorGrade               string `json:"colorGrade,omitempty"`
	Coverage                 string `json:"coverage,omitempty"`
	Intensity                int    `json:"intensity,omitempty"`
	ParticleType             string `json:"particleType,omitempty"`
	Direction                string `json:"direction,omitempty"`
	ArtisticStyle            string `json:"artisticStyle,omitempty"`
	Genre                    string `json:"genre,omitempty"`
	Mood                     string `json:"mood,omitempty"`
	PromptLength             string `json:"promptLength,omitempty"`
	OptimizationInstructions string `json:"optimizationInstructions,omitempty"`
}

func (s *ProSettings) textFields() map[string]*string {
	return map[string]*string{
		SettingShotType:                 &s.ShotType,
		SettingCameraAngle:              &s.CameraAngle,
		SettingCameraMovement:           &s.CameraMovement,
		SettingMovementDirection:        &s.MovementDirection,
		SettingMovementSpeed:            &s.MovementSpeed,
		SettingMovementStyle:            &s.MovementStyle,
		SettingLensType:                 &s.LensType,
		SettingAperture:                 &s.Aperture,
		SettingFocusType:                &s.FocusType,
		SettingLightingSetup:            &s.LightingSetup,
		SettingKeyLight:                 &s.KeyLight,
		SettingFillLight:                &s.FillLight,
		SettingRimLight:                 &s.RimLight,
		SettingColorGrade:               &s.ColorGrade,
		SettingCoverage:                 &s.Coverage,
		SettingParticleType:             &s.ParticleType,
		SettingDirection:                &s.Direction,
		SettingArtisticStyle:            &s.ArtisticStyle,
		SettingGenre:                    &s.Genre,
		SettingMood:                     &s.Mood,
		SettingPromptLength:             &s.PromptLength,
		SettingOptimizationInstructions: &s.OptimizationInstructions,
	}
}

// Value returns a field by name as text; intensity is rendered in base 10
// and is "" when unset.
func (s ProSettings) Value(field string) string {
	if field == SettingIntensity {
		if s.Intensity == 0 {
			return ""
		}
		return strconv.Itoa(s.Intensity)
	}
	if p, ok := s.textFields()[field]; ok {
		return strings.TrimSpace(*p)
	}
	return ""
}

// SetValue assigns a field by name. Unknown fields and non-numeric
// intensities are ignored.
func (s *ProSettings) SetValue(field, value string) {
	if field == SettingIntensity {
		if value == "" {
			s.Intensity = 0
			return
		}
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			s.Intensity = n
		}
		return
	}
	if p, ok := s.textFields()[field]; ok {
		*p = value
	}
}

// Has reports whether a field is present.
func (s ProSettings) Has(field string) bool {
	return s.Value(field) != ""
}

// Empty reports whether no field is present.
func (s ProSettings) Empty() bool {
	for _, f := range SettingFields {
		if s.Has(f) {
			return false
		}
	}
	return true
}

// Validate checks numeric ranges.
func (s ProSettings) Validate() error {
	if s.Intensity != 0 && (s.Intensity < MinIntensity || s.Intensity > MaxIntensity) {
		return Invalid(SettingIntensity, "must be between 30 and 100")
	}
	if s.PromptLength != "" && s.PromptLength != PromptLengthShort && s.PromptLength != PromptLengthLong {
		return Invalid(SettingPromptLength, "must be short or long")
	}
	return nil
}

// Category is one of the six enhancement groups.
type Category string

const (
	CategoryCamera    Category = "camera"
	CategoryMovement  Category = "movement"
	CategoryVFX       Category = "vfx"
	CategoryParticles Category = "particles"
	CategoryLighting  Category = "lighting"
	CategoryStyle     Category = "style"
)

// Categories lists the six groups in display order.
var Categories = []Category{
	CategoryCamera, CategoryMovement, CategoryVFX,
	CategoryParticles, CategoryLighting, CategoryStyle,
}

// EnhancementToggles gates which categories take part in an enhancement.
type EnhancementToggles struct {
	Camera    bool `json:"camera"`
	Movement  bool `json:"movement"`
	VFX       bool `json:"vfx"`
	Particles bool `json:"particles"`
	Lighting  bool `json:"lighting"`
	Style     bool `json:"style"`
}

func (t *EnhancementToggles) ref(c Category) *bool {
	switch c {
	case CategoryCamera:
		return &t.Camera
	case CategoryMovement:
		return &t.Movement
	case CategoryVFX:
		return &t.VFX
	case CategoryParticles:
		return &t.Particles
	case CategoryLighting:
		return &t.Lighting
	case CategoryStyle:
		return &t.Style
	}
	return nil
}

func (t EnhancementToggles) Get(c Category) bool {
	if p := t.ref(c); p != nil {
		return *p
	}
	return false
}

func (t *EnhancementToggles) Set(c Category, on bool) {
	if p := t.ref(c); p != nil {
		*p = on
	}
}

// Count returns how many categories are on.
func (t EnhancementToggles) Count() int {
	n := 0
	for _, c := range Categories {
		if t.Get(c) {
			n++
		}
	}
	return n
}

func (t EnhancementToggles) Any() bool { return t.Count() > 0 }

// Union returns a map with every category on in either input.
func (t EnhancementToggles) Union(o EnhancementToggles) EnhancementToggles {
	var out EnhancementToggles
	for _, c := range Categories {
		out.Set(c, t.Get(c) || o.Get(c))
	}
	return out
}
