// Package composer builds the system and user messages sent to the LLM.
// Every function is pure: the same inputs always yield the same messages.
package composer

import (
	"fmt"
	"strings"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/enforce"
	"vfxprompt/internal/vocab"
)

// Messages is a system/user message pair.
type Messages struct {
	System string
	User   string
}

// Word ranges for generated prompts.
const (
	ShortMinWords = 220
	ShortMaxWords = 270
	LongMinWords  = 480
	LongMaxWords  = 520

	// TargetTolerance is the accepted distance from an enhance target.
	TargetTolerance = 15
)

// Builder renders prompts from a Vocabulary.
type Builder struct {
	Vocab *vocab.Vocabulary
}

// New returns a Builder. A nil vocabulary selects vocab.Default.
func New(v *vocab.Vocabulary) *Builder {
	if v == nil {
		v = vocab.Default()
	}
	return &Builder{Vocab: v}
}

// WordRange returns the generate word range for a prompt length mode.
func WordRange(promptLength string) (int, int) {
	if promptLength == domain.PromptLengthLong {
		return LongMinWords, LongMaxWords
	}
	return ShortMinWords, ShortMaxWords
}

// TargetRange returns target±TargetTolerance, floored at one word.
func TargetRange(target int) (int, int) {
	lo := target - TargetTolerance
	if lo < 1 {
		lo = 1
	}
	return lo, target + TargetTolerance
}

// Constraints returns the shot and angle tokens the response must carry.
func (b *Builder) Constraints(filtered domain.ProSettings) enforce.Constraints {
	return enforce.ConstraintsFor(b.Vocab, filtered)
}

// InstructionLines renders one line per populated field in InstructionOrder,
// followed by the advanced instruction block.
func (b *Builder) InstructionLines(filtered domain.ProSettings) []string {
	v := b.Vocab
	var lines []string
	for _, field := range v.InstructionOrder {
		if field == domain.SettingCameraMovement {
			if phrase := b.movementPhrase(filtered); phrase != "" {
				lines = append(lines, fmt.Sprintf(v.Templates[field], phrase))
			}
			continue
		}
		code := filtered.Value(field)
		if code == "" || code == v.SkipValues[field] {
			continue
		}
		tmpl, ok := v.Templates[field]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf(tmpl, v.Phrase(field, code)))
	}

	if adv := filtered.Value(domain.SettingOptimizationInstructions); adv != "" && len(v.AdvancedTemplate) > 0 {
		lines = append(lines, fmt.Sprintf(v.AdvancedTemplate[0], adv))
		lines = append(lines, v.AdvancedTemplate[1:]...)
	}
	return lines
}

// movementPhrase checks special combinations in MovementModifiers order
// before composing the base movement with its modifiers.
func (b *Builder) movementPhrase(s domain.ProSettings) string {
	v := b.Vocab
	code := s.Value(domain.SettingCameraMovement)
	if code != "" && code == v.SkipValues[domain.SettingCameraMovement] {
		return ""
	}

	var mods []string
	for _, field := range v.MovementModifiers {
		mod := s.Value(field)
		if mod == "" {
			continue
		}
		if code != "" {
			if special, ok := v.SpecialMovements[code+"+"+mod]; ok {
				return special
			}
		}
		mods = append(mods, mod+" "+modifierNoun(field))
	}

	parts := mods
	if code != "" {
		parts = append([]string{v.Phrase(domain.SettingCameraMovement, code)}, mods...)
	}
	return strings.Join(parts, ", ")
}

func modifierNoun(field string) string {
	switch field {
	case domain.SettingMovementDirection:
		return "direction"
	case domain.SettingMovementSpeed:
		return "speed"
	case domain.SettingMovementStyle:
		return "style"
	}
	return field
}

// lead renders the mandated opening, using placeholders for anything the
// constraints leave open.
func lead(c enforce.Constraints) string {
	shot, angle := "[shot type]", "[angle]"
	if c.Shot != "" {
		shot = c.Shot
	}
	if c.Angle != "" {
		angle = c.Angle
	}
	return fmt.Sprintf("A %s at %s", shot, angle)
}

// Enhance builds the rewrite request for an existing prompt.
func (b *Builder) Enhance(original string, filtered domain.ProSettings, target int) Messages {
	lo, hi := TargetRange(target)
	opening := lead(b.Constraints(filtered))

	var ins strings.Builder
	ins.WriteString("Rewrite this video prompt by naturally integrating ONLY these specific changes:\n")
	for _, line := range b.InstructionLines(filtered) {
		ins.WriteString(line)
		ins.WriteByte('\n')
	}
	fmt.Fprintf(&ins, requirementsBlock, target)
	if strings.Contains(original, "5 second") || strings.Contains(original, "5-second") {
		ins.WriteString("\n- PRESERVE TIMING: Keep 5-second duration from original prompt\n")
	}

	return Messages{
		System: fmt.Sprintf(enhanceSystem, lo, hi),
		User:   fmt.Sprintf(enhanceUser, ins.String(), original, opening),
	}
}

const requirementsBlock = `
🚨 CRITICAL CINEMATOGRAPHY REQUIREMENTS 🚨:
- Keep the same subject, setting, and basic scene
- MANDATORY: Apply ALL specified camera changes (shot type, angle, movement)
- DO NOT ignore camera angle specifications - they are REQUIRED
- DO NOT add separate sections, headers, or introductory phrases
- Target exactly %d words (±15 words acceptable)
- Include technical specs: aperture (f/2.8, f/4), shutter speed (1/60, 1/120), frame rate (24fps, 60fps)
- Specify color grading and lighting ratios
- Describe camera movements with professional precision
- Include VFX integration details and particle systems
- If Advanced Instructions conflict with basic settings, Advanced Instructions WIN
- START IMMEDIATELY with the scene description, no preamble

🎬 CAMERA ANGLE ENFORCEMENT:
- If specified "high-angle" → MUST use "high-angle" in result
- If specified "low-angle" → MUST use "low-angle" in result
- If specified "eye-level" → MUST use "eye-level" in result
- If specified "bird's eye" → MUST use "bird's eye view" in result

EXAMPLE CORRECT FORMAT:
"A wide shot at high-angle captures a stylish man in black sequined jacket, camera executing complete 360-degree orbital drone movement around the subject over 5 seconds using 24mm wide-angle lens at f/2.8 aperture..."

WRONG FORMAT:
"Here's a cinematic VFX prompt based on the provided image: **Shot Description:** A dynamic..."
`

const enhanceSystem = `You are a professional prompt rewriter. You MUST rewrite the given video prompt by integrating the specified changes.

🚨 CRITICAL RULES - VIOLATION = IMMEDIATE FAILURE 🚨

FORBIDDEN ACTIONS:
❌ NEVER write "Here's a..." or "Here is a..."
❌ NEVER use "**Shot Description:**" or any headers
❌ NEVER use bullet points or sections
❌ NEVER ignore camera angle specifications
❌ NEVER ignore shot type specifications
❌ NEVER ignore Advanced Instructions (they override everything)
❌ NEVER change the subject or basic scene

REQUIRED ACTIONS:
✅ START IMMEDIATELY with "A [shot type] at [angle] captures..."
✅ Write as ONE continuous paragraph
✅ Keep word count: %d to %d words
✅ Apply ALL specified changes naturally
✅ ENFORCE camera angle exactly as specified
✅ If Advanced Instructions mention "360 orbit", camera MUST do 360-degree orbital movement

🎬 CAMERA ANGLE ENFORCEMENT - ABSOLUTE PRIORITY:
- If instructions say "high-angle" → Result MUST contain "high-angle"
- If instructions say "low-angle" → Result MUST contain "low-angle"
- If instructions say "eye-level" → Result MUST contain "eye-level"
- If instructions say "bird's eye" → Result MUST contain "bird's eye view"

EXAMPLE CORRECT OUTPUT:
"A wide shot at high-angle captures a stylish man in black sequined jacket, camera executing complete 360-degree orbital drone movement around the subject over 5 seconds using 24mm wide-angle lens..."

You will be REJECTED if you start with introductory phrases, use headers, or ignore camera specifications.`

const enhanceUser = `TASK: Rewrite this video prompt by applying these changes:

%s
ORIGINAL PROMPT TO REWRITE:
%s

🚨 MANDATORY FORMAT 🚨
Your response MUST start with: "%s captures..."
NO introductions, NO headers, NO "Here's a..." - START IMMEDIATELY with the scene.

REWRITE:`

// GenerateInput carries everything a fresh prompt depends on.
type GenerateInput struct {
	// Effect is the resolved effect description.
	Effect    string
	Intensity int
	Duration  string
	Style     string
	Analysis  *domain.ImageAnalysis
	ProMode   bool
	// Filtered holds the reconciled pro settings, used only in pro mode.
	Filtered     domain.ProSettings
	PromptLength string
}

// Generate builds the request for a new prompt.
func (b *Builder) Generate(in GenerateInput) Messages {
	lo, hi := WordRange(in.PromptLength)

	var u strings.Builder
	u.WriteString("Create a cinematic VFX prompt with these parameters:\n\n")
	fmt.Fprintf(&u, "EFFECT: %s\n", in.Effect)
	fmt.Fprintf(&u, "INTENSITY: %d%%\n", in.Intensity)
	fmt.Fprintf(&u, "DURATION: %s seconds\n", strings.TrimSuffix(strings.TrimSpace(in.Duration), "s"))
	fmt.Fprintf(&u, "STYLE: %s", in.Style)

	if a := in.Analysis; a != nil {
		u.WriteString("\n\nIMAGE ANALYSIS:\n")
		fmt.Fprintf(&u, "- Subject: %s\n", a.Subject)
		fmt.Fprintf(&u, "- Style: %s\n", a.Style)
		fmt.Fprintf(&u, "- Colors: %s\n", strings.Join(a.Colors, ", "))
		fmt.Fprintf(&u, "- Lighting: %s", a.Lighting)
		if a.CameraAngle != "" {
			fmt.Fprintf(&u, "\n- Detected Camera Angle: %s", a.CameraAngle)
			fmt.Fprintf(&u, "\n- Detected Shot Type: %s", a.ShotType)
			fmt.Fprintf(&u, "\n- Subject Gender: %s", a.Gender)
			fmt.Fprintf(&u, "\n- Subject Age: %s", a.Age)
			fmt.Fprintf(&u, "\n- Expression: %s", a.Expression)
			fmt.Fprintf(&u, "\n- Pose: %s", a.Pose)
			fmt.Fprintf(&u, "\n- Energy: %s", a.Energy)
			fmt.Fprintf(&u, "\n- Vibe: %s", a.Vibe)
		}
	}

	if in.ProMode {
		if lines := b.InstructionLines(in.Filtered); len(lines) > 0 {
			u.WriteString("\n\nPRO CINEMATOGRAPHY (apply exactly):\n")
			u.WriteString(strings.Join(lines, "\n"))
		}
		if c := b.Constraints(in.Filtered); !c.Empty() {
			fmt.Fprintf(&u, "\n\nYour response MUST start with: \"%s captures...\"", lead(c))
		}
	}

	fmt.Fprintf(&u, generateTail, lo, hi)

	return Messages{
		System: fmt.Sprintf(generateSystem, lo, hi),
		User:   u.String(),
	}
}

const generateSystem = `You are an expert AI video prompt engineer and cinematographer.

🚨 CRITICAL WORD COUNT REQUIREMENT 🚨
- MINIMUM: %d words
- MAXIMUM: %d words
- Generate a comprehensive cinematic VFX prompt within this range

Create detailed, cinematic video prompts that include:
1. Scene description and subject details
2. VFX effect implementation
3. Camera work and cinematography
4. Lighting and mood
5. Technical specifications
6. Performance and timing

Focus on creating vivid, actionable prompts for video generation.`

const generateTail = `

Generate a comprehensive cinematic VFX prompt (%d-%d words) that includes:
1. Scene description and cinematography
2. VFX effect implementation details
3. Lighting and mood
4. Technical specifications
5. Subject performance and timing

Create a vivid, actionable prompt for video generation.

IMPORTANT: Base the prompt strictly on the reference image if one is provided. Do not invent scenarios that are not present.`
