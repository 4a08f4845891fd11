// Package enforce validates LLM prompt output against the framing contract
// and repairs it, falling back to an offline rewrite of the original prompt
// when the output cannot be salvaged.
package enforce

import (
	"strings"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/vocab"
)

// Constraints are the tokens a response must carry.
type Constraints struct {
	// Shot is the canonical shot phrase, e.g. "wide shot".
	Shot string
	// Angle is the canonical angle phrase, e.g. "bird's eye view".
	Angle string
	// AngleCode is the requested angle code, e.g. "birds-eye".
	AngleCode   string
	TargetWords int
}

func (c Constraints) Empty() bool { return c.Shot == "" && c.Angle == "" }

// ViolationKind names a contract breach.
type ViolationKind string

const (
	ViolationPreamble         ViolationKind = "preamble"
	ViolationHeader           ViolationKind = "header"
	ViolationWhitespace       ViolationKind = "whitespace"
	ViolationConflictingAngle ViolationKind = "conflicting-angle"
	ViolationMissingAngle     ViolationKind = "missing-angle"
	ViolationMissingShot      ViolationKind = "missing-shot"
	ViolationOpening          ViolationKind = "opening"
)

type Violation struct {
	Kind   ViolationKind `json:"kind"`
	Detail string        `json:"detail,omitempty"`
}

// Report is the result of validation.
type Report struct {
	Violations []Violation
}

func (r Report) Compliant() bool { return len(r.Violations) == 0 }

func (r Report) Has(kind ViolationKind) bool {
	for _, v := range r.Violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

// Validator checks text against constraints.
type Validator interface {
	Validate(text string, c Constraints) Report
}

// Repairer rewrites text to clear the given violations.
type Repairer interface {
	Repair(text string, c Constraints, violations []Violation) string
}

// Result describes one pass through the pipeline.
type Result struct {
	Text         string      `json:"text"`
	Steps        []string    `json:"steps,omitempty"`
	UsedFallback bool        `json:"usedFallback"`
	Compliant    bool        `json:"compliant"`
	Violations   []Violation `json:"violations,omitempty"`
}

// WordCount counts whitespace separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// ConstraintsFor derives constraints from filtered settings. Codes missing
// from the phrase tables are not enforced.
func ConstraintsFor(v *vocab.Vocabulary, filtered domain.ProSettings) Constraints {
	var c Constraints
	if code := filtered.Value(domain.SettingShotType); code != "" {
		c.Shot = v.ShotPhrases[code]
	}
	if code := filtered.Value(domain.SettingCameraAngle); code != "" {
		if phrase, ok := v.AnglePhrases[code]; ok {
			c.Angle = phrase
			c.AngleCode = code
		}
	}
	return c
}

// ConstraintsFrom derives constraints using the tables r was built with.
func (r *Regex) ConstraintsFrom(filtered domain.ProSettings) Constraints {
	return ConstraintsFor(r.vocab, filtered)
}
