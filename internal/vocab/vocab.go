// Package vocab holds the lookup tables that drive settings reconciliation,
// prompt building and response repair. Default returns a fresh copy so
// callers and tests can substitute their own entries.
package vocab

import "vfxprompt/internal/domain"

// AngleToken is a recognizable camera angle mention. Angles lists the angle
// codes the token agrees with; any other requested angle conflicts with it.
type AngleToken struct {
	Pattern string
	Angles  []string
	InLead  bool
}

// Approach is one variation strategy.
type Approach struct {
	Name        string
	Instruction string
}

// Fallback holds the phrase tables used by the offline rewrite.
type Fallback struct {
	Lighting map[string]string
	Style    map[string]string
	Lens     map[string]string
	Movement map[string]string
}

// Vocabulary is the full set of tables.
type Vocabulary struct {
	SettingDefaults map[string]string
	Categories      map[domain.Category][]string
	AlwaysIncluded  []string
	ForcesCategory  map[string]domain.Category

	// SkipValues maps a field to a value that produces no instruction line.
	SkipValues map[string]string
	// Phrases maps a field to its code-to-phrase table.
	Phrases          map[string]map[string]string
	Templates        map[string]string
	InstructionOrder []string
	SpecialMovements map[string]string
	// MovementModifiers is the lookup order for special combinations.
	MovementModifiers []string
	AdvancedTemplate  []string

	ShotPhrases        map[string]string
	AnglePhrases       map[string]string
	AngleTokens        []AngleToken
	ForbiddenPreambles []string
	Headers            []string
	DefaultShot        string
	DefaultAngle       string
	DefaultSubject     string

	Fallback Fallback

	AnalysisDefaults domain.ImageAnalysis
	AnalysisFailure  domain.ImageAnalysis

	Effects    map[string]string
	Approaches []Approach
	Padding    string
}

// Default returns the built-in vocabulary.
func Default() *Vocabulary {
	return &Vocabulary{
		SettingDefaults: map[string]string{
			domain.SettingShotType:                 "medium",
			domain.SettingCameraAngle:              "high-angle",
			domain.SettingCameraMovement:           "dolly-in",
			domain.SettingMovementDirection:        "",
			domain.SettingMovementSpeed:            "",
			domain.SettingMovementStyle:            "",
			domain.SettingLensType:                 "35mm-anamorphic",
			domain.SettingAperture:                 "f2.8",
			domain.SettingFocusType:                "sharp",
			domain.SettingLightingSetup:            "studio",
			domain.SettingKeyLight:                 "above-right",
			domain.SettingFillLight:                "soft",
			domain.SettingRimLight:                 "blue",
			domain.SettingColorGrade:               "high-contrast",
			domain.SettingCoverage:                 "entire-body",
			domain.SettingIntensity:                "85",
			domain.SettingParticleType:             "dust",
			domain.SettingDirection:                "center-outward",
			domain.SettingArtisticStyle:            "cinematic",
			domain.SettingGenre:                    "dramatic",
			domain.SettingMood:                     "intense",
			domain.SettingPromptLength:             domain.PromptLengthShort,
			domain.SettingOptimizationInstructions: "",
		},
		Categories: map[domain.Category][]string{
			domain.CategoryCamera:    {domain.SettingShotType, domain.SettingCameraAngle, domain.SettingLensType},
			domain.CategoryMovement:  {domain.SettingCameraMovement, domain.SettingMovementDirection, domain.SettingMovementSpeed, domain.SettingMovementStyle},
			domain.CategoryVFX:       {domain.SettingCoverage, domain.SettingIntensity},
			domain.CategoryParticles: {domain.SettingParticleType, domain.SettingDirection},
			domain.CategoryLighting:  {domain.SettingLightingSetup, domain.SettingKeyLight, domain.SettingFillLight, domain.SettingRimLight},
			domain.CategoryStyle:     {domain.SettingArtisticStyle, domain.SettingMood},
		},
		AlwaysIncluded: []string{domain.SettingOptimizationInstructions},
		ForcesCategory: map[string]domain.Category{
			domain.SettingOptimizationInstructions: domain.CategoryMovement,
		},

		SkipValues: map[string]string{
			domain.SettingCameraMovement: "dolly-in",
			domain.SettingParticleType:   "dust",
			domain.SettingIntensity:      "85",
		},
		Phrases: map[string]map[string]string{
			domain.SettingShotType: {
				"medium":        "medium shot",
				"wide":          "wide shot",
				"close-up":      "close-up shot",
				"extreme-close": "extreme close-up shot",
			},
			domain.SettingCameraAngle: {
				"high-angle": "high-angle",
				"eye-level":  "eye-level angle",
				"low-angle":  "low-angle",
				"birds-eye":  "bird's eye view",
			},
			domain.SettingCameraMovement: {
				"dolly-out":  "dolly-out movement (camera pulls back)",
				"static":     "static camera (no movement)",
				"pan":        "panning movement (left to right)",
				"crash-zoom": "crash zoom in - dramatic high-speed zoom towards subject",
				"dolly-zoom": "dolly zoom (Vertigo effect) - counter zoom while moving",
				"fpv-drone":  "FPV drone shot - dynamic first-person view drone cinematography",
				"360-orbit":  "360-degree orbital drone movement - complete circular orbit around subject",
				"crane-shot": "crane movement - vertical camera elevation change (up or down)",
				"handheld":   "handheld camera - documentary-style natural camera shake",
			},
			domain.SettingLensType: {
				"24mm-wide":       "24mm wide-angle lens",
				"35mm-anamorphic": "35mm anamorphic lens",
				"50mm-prime":      "50mm prime lens",
				"85mm-portrait":   "85mm portrait lens",
			},
			domain.SettingLightingSetup: {
				"studio":   "studio professional lighting setup",
				"natural":  "natural lighting",
				"dramatic": "dramatic moody lighting",
				"soft":     "soft portrait lighting",
			},
			domain.SettingKeyLight: {
				"above-right": "key light from above-right",
				"above-left":  "key light from above-left",
				"front":       "front key lighting",
				"side":        "side key lighting",
			},
			domain.SettingFillLight: {
				"soft":   "soft fill lighting",
				"hard":   "hard fill lighting",
				"bounce": "bounce fill lighting",
				"none":   "no fill lighting",
			},
			domain.SettingRimLight: {
				"blue":  "blue rim lighting",
				"white": "white rim lighting",
				"warm":  "warm rim lighting",
				"none":  "no rim lighting",
			},
			domain.SettingArtisticStyle: {
				"cinematic":   "cinematic style",
				"documentary": "documentary style",
				"commercial":  "commercial style",
				"artistic":    "artistic style",
			},
			domain.SettingMood: {
				"intense":   "intense mood",
				"dramatic":  "dramatic mood",
				"energetic": "energetic mood",
				"calm":      "calm mood",
			},
		},
		Templates: map[string]string{
			domain.SettingShotType:       "- Change camera framing to: %s",
			domain.SettingCameraAngle:    "- Change camera angle to: %s",
			domain.SettingCameraMovement: "- Change camera movement to: %s",
			domain.SettingLensType:       "- Use lens: %s",
			domain.SettingParticleType:   "- Change particle effects to: %s particles",
			domain.SettingIntensity:      "- Set effect intensity to: %s%%",
			domain.SettingLightingSetup:  "- Change lighting setup to: %s",
			domain.SettingKeyLight:       "- Set key light direction: %s",
			domain.SettingFillLight:      "- Configure fill light: %s",
			domain.SettingRimLight:       "- Add rim light: %s",
			domain.SettingArtisticStyle:  "- Apply artistic style: %s",
			domain.SettingMood:           "- Set mood to: %s",
		},
		InstructionOrder: []string{
			domain.SettingShotType,
			domain.SettingCameraAngle,
			domain.SettingCameraMovement,
			domain.SettingLensType,
			domain.SettingParticleType,
			domain.SettingIntensity,
			domain.SettingLightingSetup,
			domain.SettingKeyLight,
			domain.SettingFillLight,
			domain.SettingRimLight,
			domain.SettingArtisticStyle,
			domain.SettingMood,
		},
		SpecialMovements: map[string]string{
			"fpv-drone+top-view":  "FPV drone 360 movement",
			"fpv-drone+spiral":    "FPV drone spiral 360 movement",
			"360-orbit+top-view":  "360 degree orbital movement",
			"360-orbit+spiral":    "spiral 360 degree orbital movement",
			"crash-zoom+dramatic": "dramatic crash zoom movement",
			"crash-zoom+fast":     "high-speed crash zoom movement",
			"dolly-zoom+dramatic": "dramatic dolly zoom (Vertigo effect)",
			"crane-shot+spiral":   "spiral crane movement",
		},
		MovementModifiers: []string{
			domain.SettingMovementDirection,
			domain.SettingMovementSpeed,
			domain.SettingMovementStyle,
		},
		AdvancedTemplate: []string{
			"- 🚨 ADVANCED INSTRUCTIONS (ABSOLUTE PRIORITY): %s",
			"- This OVERRIDES all other camera movement settings",
			`- If it says "360 orbit movement", the camera MUST do a complete 360-degree orbital shot`,
		},

		ShotPhrases: map[string]string{
			"medium":           "medium shot",
			"wide":             "wide shot",
			"close-up":         "close-up shot",
			"extreme-close":    "extreme close-up shot",
			"extreme-close-up": "extreme close-up shot",
		},
		AnglePhrases: map[string]string{
			"high-angle": "high-angle",
			"low-angle":  "low-angle",
			"eye-level":  "eye-level",
			"birds-eye":  "bird's eye view",
			"worms-eye":  "worm's-eye view",
		},
		AngleTokens: []AngleToken{
			{Pattern: `high[- ]angle`, Angles: []string{"high-angle"}, InLead: true},
			{Pattern: `low[- ]angle`, Angles: []string{"low-angle"}, InLead: true},
			{Pattern: `eye[- ]level`, Angles: []string{"eye-level"}, InLead: true},
			{Pattern: `bird['’]?s[- ]eye(?:[- ]view)?`, Angles: []string{"birds-eye"}, InLead: true},
			{Pattern: `worm['’]?s[- ]eye(?:[- ]view)?`, Angles: []string{"worms-eye"}, InLead: true},
			{Pattern: `from above`, Angles: []string{"high-angle", "birds-eye"}},
			{Pattern: `from below`, Angles: []string{"low-angle", "worms-eye"}},
		},
		ForbiddenPreambles: []string{
			`^here['’]?s an?\b[^:]*:`,
			`^here is an?\b[^:]*:`,
			`^[^:]*cinematic vfx prompt[^:]*:`,
		},
		Headers:        []string{"Shot Description:", "Camera Movement:", "VFX Details:"},
		DefaultShot:    "medium shot",
		DefaultAngle:   "eye-level",
		DefaultSubject: "the subject",

		Fallback: Fallback{
			Lighting: map[string]string{
				"studio":   "studio lighting",
				"natural":  "natural lighting",
				"dramatic": "dramatic lighting",
				"soft":     "soft lighting",
			},
			Style: map[string]string{
				"cinematic":   "cinematic",
				"documentary": "documentary-style",
				"commercial":  "commercial-style",
				"artistic":    "artistic",
			},
			Lens: map[string]string{
				"24mm-wide":       "24mm wide-angle lens",
				"35mm-anamorphic": "35mm anamorphic lens",
				"50mm-prime":      "50mm prime lens",
				"85mm-portrait":   "85mm portrait lens",
			},
			Movement: map[string]string{
				"dolly-in":  "dolly-in movement",
				"dolly-out": "dolly-out movement",
				"pan-left":  "pan left movement",
				"pan-right": "pan right movement",
				"tilt-up":   "tilt up movement",
				"tilt-down": "tilt down movement",
				"static":    "static camera",
				"pan":       "panning movement",
			},
		},

		AnalysisDefaults: analysisRecord("Portrait subject", "Cinematic", "Studio"),
		AnalysisFailure:  analysisRecord("Professional portrait subject", "Cinematic portrait", "Studio lighting"),

		Effects: map[string]string{
			"portal-effect":      "Portal Effect - Dimensional portal opening behind the subject",
			"building-explosion": "Building Explosion - Realistic cinematic explosion",
			"disintegration":     "Disintegration - Disintegration into glowing particles",
			"turning-metal":      "Turning Metal - Realistic transformation into metal",
			"melting-effect":     "Melting Effect - Melting effect with real physics",
			"set-on-fire":        "Set on Fire - Realistic ignition with fire physics",

			"eyes-in":      "Eyes In (Mouth to Tunnel) - Zoom through the eyes",
			"laser-eyes":   "Laser Eyes - Laser beams from the eyes",
			"glowing-eyes": "Glowing Eyes - Eyes glowing with energy",
			"face-morph":   "Face Morph - Cinematic facial morphing",

			"crash-zoom": "Crash Zoom In - Dramatic high-speed zoom",
			"dolly-zoom": "Dolly Zoom - Vertigo effect (Hitchcock)",
			"fpv-drone":  "FPV Drone Shot - FPV drone cinematography",
			"360-orbit":  "360° Orbit - 360-degree orbital movement",
			"crane-shot": "Crane Up/Down - Revealing crane movement",
			"handheld":   "Handheld Camera - Documentary handheld camera",

			"lightning-strike": "Lightning Strike - Lightning bolt striking the subject",
			"energy-aura":      "Energy Aura - Enveloping energy aura",
			"hologram":         "Hologram - Futuristic holographic effect",
			"light-beams":      "Light Beams - Dramatic light beams",

			"smoke-reveal":   "Smoke Reveal - Reveal through smoke",
			"fog-roll":       "Fog Roll - Rolling cinematic fog",
			"dust-particles": "Dust Particles - Volumetric dust particles",
			"rain-effect":    "Rain Effect - Cinematic rain",

			"Portal Effect":  "Portal Effect - Dimensional portal opening behind the subject",
			"Explosion":      "Building Explosion - Realistic cinematic explosion",
			"Disintegration": "Disintegration - Disintegration into glowing particles",
		},
		Approaches: []Approach{
			{Name: "More Dramatic", Instruction: "Increase intensity by 30%, add more dramatic lighting, stronger shadows, and heightened emotional impact. Make it CINEMATIC and POWERFUL."},
			{Name: "Faster Pace", Instruction: "Reduce duration by 40%, add quick cuts, rapid camera movements, and energetic pacing. Make it DYNAMIC and FAST."},
			{Name: "Cinematic Wide", Instruction: "Change to wide-angle shot, add epic scale, sweeping camera movements, and grand composition. Make it EPIC and VAST."},
			{Name: "Minimalist", Instruction: "Simplify to essential elements, remove excessive details, clean composition, subtle effects. Make it CLEAN and FOCUSED."},
			{Name: "Experimental", Instruction: "Use unconventional angles, unusual color grading, abstract compositions, and creative camera work. Make it ARTISTIC and UNIQUE."},
		},
		Padding: "Additional technical specifications: Professional-grade cinematography with advanced color grading, precise focus pulling, and meticulous attention to lighting ratios. Enhanced post-production workflow includes detailed compositing, motion graphics integration, and comprehensive audio-visual synchronization for optimal cinematic impact.",
	}
}

func analysisRecord(subject, style, lighting string) domain.ImageAnalysis {
	return domain.ImageAnalysis{
		Subject:           subject,
		Style:             style,
		Colors:            domain.StringList{"Blue", "Silver", "Black"},
		Lighting:          lighting,
		CameraAngle:       "eye-level",
		ShotType:          "medium",
		Composition:       "centered",
		Depth:             "shallow",
		LightingSetup:     "studio",
		KeyLightDirection: "above-right",
		LightingMood:      "high-contrast",
		Shadows:           "soft",
		Gender:            "neutral",
		Age:               "adult",
		Expression:        "confident",
		Pose:              "standing",
		Clothing:          "casual",
		BackgroundType:    "studio",
		ImageQuality:      "professional",
		ColorGrade:        "cinematic",
		Energy:            "confident",
		Mood:              "dramatic",
		Vibe:              "professional",
	}
}

// Default reports a field's default value.
func (v *Vocabulary) Default(field string) string {
	return v.SettingDefaults[field]
}

// Phrase maps a field value to its instruction phrase, falling back to the
// raw value.
func (v *Vocabulary) Phrase(field, code string) string {
	if p, ok := v.Phrases[field][code]; ok {
		return p
	}
	return code
}

// CategoryOf returns the category owning a field.
func (v *Vocabulary) CategoryOf(field string) (domain.Category, bool) {
	for _, c := range domain.Categories {
		for _, f := range v.Categories[c] {
			if f == field {
				return c, true
			}
		}
	}
	return "", false
}

// Effect describes an effect id, falling back to the id itself.
func (v *Vocabulary) Effect(id string) string {
	if d, ok := v.Effects[id]; ok {
		return d
	}
	return id
}
