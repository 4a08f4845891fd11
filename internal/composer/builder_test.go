package composer

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/enforce"
)

func TestInstructionLinesOrderAndSkips(t *testing.T) {
	b := New(nil)
	filtered := domain.ProSettings{
		Mood:                     "calm",
		ShotType:                 "wide",
		CameraAngle:              "birds-eye",
		ParticleType:             "dust",
		Intensity:                60,
		KeyLight:                 "side",
		LensType:                 "unknown-lens",
		OptimizationInstructions: "360 orbit movement",
	}

	got := b.InstructionLines(filtered)
	want := []string{
		"- Change camera framing to: wide shot",
		"- Change camera angle to: bird's eye view",
		"- Use lens: unknown-lens",
		"- Set effect intensity to: 60%",
		"- Set key light direction: side key lighting",
		"- Set mood to: calm mood",
		"- 🚨 ADVANCED INSTRUCTIONS (ABSOLUTE PRIORITY): 360 orbit movement",
		"- This OVERRIDES all other camera movement settings",
		`- If it says "360 orbit movement", the camera MUST do a complete 360-degree orbital shot`,
	}
	if len(got) != len(want) {
		t.Fatalf("InstructionLines() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMovementPhrase(t *testing.T) {
	t.Parallel()

	b := New(nil)
	tests := []struct {
		name string
		in   domain.ProSettings
		want string
	}{
		{name: "special direction", in: domain.ProSettings{CameraMovement: "fpv-drone", MovementDirection: "spiral"}, want: "FPV drone spiral 360 movement"},
		{name: "special speed", in: domain.ProSettings{CameraMovement: "crash-zoom", MovementSpeed: "fast"}, want: "high-speed crash zoom movement"},
		{name: "special style", in: domain.ProSettings{CameraMovement: "dolly-zoom", MovementStyle: "dramatic"}, want: "dramatic dolly zoom (Vertigo effect)"},
		{name: "generic composition", in: domain.ProSettings{CameraMovement: "pan", MovementSpeed: "slow"}, want: "panning movement (left to right), slow speed"},
		{name: "skipped base", in: domain.ProSettings{CameraMovement: "dolly-in", MovementSpeed: "slow"}, want: ""},
		{name: "modifier only", in: domain.ProSettings{MovementDirection: "spiral"}, want: "spiral direction"},
		{name: "raw code", in: domain.ProSettings{CameraMovement: "whip-pan"}, want: "whip-pan"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := b.movementPhrase(tc.in); got != tc.want {
				t.Fatalf("movementPhrase() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEnhanceMessages(t *testing.T) {
	b := New(nil)
	original := "A medium shot at eye-level captures a man over a 5-second sequence."
	msgs := b.Enhance(original, domain.ProSettings{ShotType: "wide", CameraAngle: "birds-eye"}, 40)

	for _, want := range []string{"Keep word count: 25 to 55 words", `START IMMEDIATELY with "A [shot type] at [angle] captures..."`} {
		if !strings.Contains(msgs.System, want) {
			t.Fatalf("System missing %q", want)
		}
	}
	for _, want := range []string{
		"- Change camera framing to: wide shot",
		"Target exactly 40 words",
		"PRESERVE TIMING",
		"ORIGINAL PROMPT TO REWRITE:\n" + original,
		`Your response MUST start with: "A wide shot at bird's eye view captures..."`,
	} {
		if !strings.Contains(msgs.User, want) {
			t.Fatalf("User missing %q:\n%s", want, msgs.User)
		}
	}

	if msgs := b.Enhance("a short clip", domain.ProSettings{ShotType: "wide"}, 3); strings.Contains(msgs.User, "PRESERVE TIMING") {
		t.Fatalf("User has timing line without a 5 second original")
	}
}

func TestEnhanceIsPure(t *testing.T) {
	b := New(nil)
	s := domain.ProSettings{CameraMovement: "360-orbit", MovementDirection: "top-view"}
	first := b.Enhance("A clip.", s, 10)
	second := b.Enhance("A clip.", s, 10)
	if first != second {
		t.Fatalf("Enhance not deterministic")
	}
}

func TestGenerateMessages(t *testing.T) {
	b := New(nil)
	analysis := &domain.ImageAnalysis{Subject: "a dancer", Style: "Cinematic", Colors: domain.StringList{"Red", "Gold"}, Lighting: "Studio", CameraAngle: "eye-level", Vibe: "edgy"}

	msgs := b.Generate(GenerateInput{
		Effect:       "Portal Effect",
		Intensity:    80,
		Duration:     "3s",
		Style:        "cinematic",
		Analysis:     analysis,
		ProMode:      true,
		Filtered:     domain.ProSettings{ShotType: "close-up", CameraAngle: "low-angle"},
		PromptLength: domain.PromptLengthLong,
	})

	if !strings.Contains(msgs.System, "MINIMUM: 480 words") || !strings.Contains(msgs.System, "MAXIMUM: 520 words") {
		t.Fatalf("System missing long range:\n%s", msgs.System)
	}
	for _, want := range []string{
		"EFFECT: Portal Effect",
		"INTENSITY: 80%",
		"DURATION: 3 seconds",
		"- Colors: Red, Gold",
		"- Vibe: edgy",
		"- Change camera framing to: close-up shot",
		`"A close-up shot at low-angle captures..."`,
		"(480-520 words)",
		"Base the prompt strictly on the reference image",
	} {
		if !strings.Contains(msgs.User, want) {
			t.Fatalf("User missing %q:\n%s", want, msgs.User)
		}
	}

	plain := b.Generate(GenerateInput{Effect: "x", Filtered: domain.ProSettings{ShotType: "wide"}})
	if strings.Contains(plain.User, "PRO CINEMATOGRAPHY") {
		t.Fatalf("pro lines rendered without pro mode")
	}
	if !strings.Contains(plain.User, "(220-270 words)") {
		t.Fatalf("User missing short range:\n%s", plain.User)
	}
}

func TestRanges(t *testing.T) {
	t.Parallel()

	if lo, hi := WordRange(domain.PromptLengthShort); lo != 220 || hi != 270 {
		t.Fatalf("WordRange(short) = %d-%d", lo, hi)
	}
	if lo, hi := WordRange(""); lo != 220 || hi != 270 {
		t.Fatalf("WordRange(\"\") = %d-%d", lo, hi)
	}
	if lo, hi := TargetRange(10); lo != 1 || hi != 25 {
		t.Fatalf("TargetRange(10) = %d-%d, want 1-25", lo, hi)
	}
}

func TestConstraintsMatchEnforcer(t *testing.T) {
	b := New(nil)
	r := enforce.NewRegex(b.Vocab, zerolog.Nop())
	s := domain.ProSettings{ShotType: "extreme-close", CameraAngle: "worms-eye"}

	got := b.Constraints(s)
	if got != r.ConstraintsFrom(s) {
		t.Fatalf("Constraints() = %+v, enforcer %+v", got, r.ConstraintsFrom(s))
	}
	if got.Shot != "extreme close-up shot" || got.Angle != "worm's-eye view" {
		t.Fatalf("Constraints() = %+v", got)
	}

	compliant := "A extreme close-up shot at worm's-eye view captures a lizard."
	if rep := r.Validate(compliant, got); !rep.Compliant() {
		t.Fatalf("Validate(%q) = %+v", compliant, rep.Violations)
	}
}
