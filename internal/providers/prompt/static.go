package prompt

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vfxprompt/internal/composer"
	"vfxprompt/internal/domain"
	"vfxprompt/internal/vocab"
)

// StaticComposer writes a prompt without a model. The same input always
// gives the same text.
type StaticComposer struct {
	vocab   *vocab.Vocabulary
	builder *composer.Builder
}

func NewStaticComposer(v *vocab.Vocabulary) *StaticComposer {
	if v == nil {
		v = vocab.Default()
	}
	return &StaticComposer{vocab: v, builder: composer.New(v)}
}

func (s *StaticComposer) Compose(in composer.GenerateInput) string {
	shot, angle := s.vocab.DefaultShot, s.vocab.DefaultAngle
	subject := s.vocab.DefaultSubject
	style := coalesce(in.Style, domain.DefaultGenerationStyle)
	lighting := "soft studio lighting"

	if a := in.Analysis; a != nil {
		if p, ok := s.vocab.ShotPhrases[a.ShotType]; ok {
			shot = p
		}
		if p, ok := s.vocab.AnglePhrases[a.CameraAngle]; ok {
			angle = p
		}
		subject = coalesce(a.Subject, subject)
		lighting = coalesce(strings.ToLower(a.Lighting), lighting)
	}
	if in.ProMode {
		c := s.builder.Constraints(in.Filtered)
		shot = coalesce(c.Shot, shot)
		angle = coalesce(c.Angle, angle)
	}

	effect := in.Effect
	name := effect
	if i := strings.Index(effect, " - "); i > 0 {
		name = effect[:i]
	}
	duration := strings.TrimSuffix(strings.TrimSpace(coalesce(in.Duration, domain.DefaultEffectDuration)), "s")

	title := cases.Title(language.Und)
	var b strings.Builder
	fmt.Fprintf(&b, "A %s at %s captures %s in a %s scene. ", shot, angle, subject, strings.ToLower(style))
	fmt.Fprintf(&b, "The %s effect unfolds at %d%% intensity over %s seconds: %s. ", title.String(name), in.Intensity, duration, effect)
	fmt.Fprintf(&b, "The frame holds %s, with %s shaping the subject and clean separation from the background. ", subject, lighting)
	if in.ProMode {
		if lines := s.builder.InstructionLines(in.Filtered); len(lines) > 0 {
			parts := make([]string, 0, len(lines))
			for _, l := range lines {
				if i := strings.Index(l, ": "); i > 0 {
					parts = append(parts, strings.TrimSpace(l[i+2:]))
				}
			}
			if len(parts) > 0 {
				fmt.Fprintf(&b, "Cinematography: %s. ", strings.Join(parts, ", "))
			}
		}
	}
	b.WriteString("The effect builds gradually, peaks with full energy, then settles while the subject keeps a steady, natural performance. ")
	b.WriteString("Render with photoreal detail, consistent lighting continuity and accurate physics for every element in motion.")
	return b.String()
}
