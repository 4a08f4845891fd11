// Package settings decides which enhancement categories are in scope for a
// ProSettings object and filters the settings down to those categories.
package settings

import (
	"vfxprompt/internal/domain"
	"vfxprompt/internal/vocab"
)

// Policy decides whether explicit or suggested toggles win.
type Policy string

const (
	PolicyExplicit  Policy = "explicit"
	PolicySuggested Policy = "suggested"
	PolicyUnion     Policy = "union"
)

// ParsePolicy maps a request value to a Policy. Unknown or empty values
// return "" so Resolve can pick its default.
func ParsePolicy(s string) Policy {
	switch Policy(s) {
	case PolicyExplicit, PolicySuggested, PolicyUnion:
		return Policy(s)
	}
	return ""
}

// Reconciler applies the category tables from a Vocabulary.
type Reconciler struct {
	Vocab *vocab.Vocabulary
}

// New returns a Reconciler. A nil vocabulary selects vocab.Default.
func New(v *vocab.Vocabulary) *Reconciler {
	if v == nil {
		v = vocab.Default()
	}
	return &Reconciler{Vocab: v}
}

// Suggest marks a category on when any of its fields is present and differs
// from that field's default. Fields in ForcesCategory turn their category on
// whenever they are present.
func (r *Reconciler) Suggest(s domain.ProSettings) domain.EnhancementToggles {
	var t domain.EnhancementToggles
	for _, c := range domain.Categories {
		for _, field := range r.Vocab.Categories[c] {
			if r.nonDefault(s, field) {
				t.Set(c, true)
				break
			}
		}
	}
	for field, c := range r.Vocab.ForcesCategory {
		if s.Has(field) {
			t.Set(c, true)
		}
	}
	return t
}

func (r *Reconciler) nonDefault(s domain.ProSettings, field string) bool {
	v := s.Value(field)
	return v != "" && v != r.Vocab.Default(field)
}

// Filter copies the present fields of every enabled category plus the
// always-included fields.
func (r *Reconciler) Filter(s domain.ProSettings, t domain.EnhancementToggles) domain.ProSettings {
	var out domain.ProSettings
	for _, c := range domain.Categories {
		if !t.Get(c) {
			continue
		}
		for _, field := range r.Vocab.Categories[c] {
			if v := s.Value(field); v != "" {
				out.SetValue(field, v)
			}
		}
	}
	for _, field := range r.Vocab.AlwaysIncluded {
		if v := s.Value(field); v != "" {
			out.SetValue(field, v)
		}
	}
	return out
}

// Decision is the outcome of Resolve. Both toggle maps are kept so callers
// can show what was detected next to what was applied.
type Decision struct {
	Policy    Policy                     `json:"policy"`
	Applied   domain.EnhancementToggles  `json:"appliedToggles"`
	Suggested domain.EnhancementToggles  `json:"suggestedToggles"`
	Explicit  *domain.EnhancementToggles `json:"explicitToggles,omitempty"`
}

// Resolve picks the applied toggles. With no policy, explicit toggles win
// when given and suggested toggles are used otherwise.
func (r *Reconciler) Resolve(explicit *domain.EnhancementToggles, suggested domain.EnhancementToggles, policy Policy) Decision {
	if policy == "" {
		policy = PolicySuggested
		if explicit != nil {
			policy = PolicyExplicit
		}
	}
	d := Decision{Policy: policy, Suggested: suggested, Explicit: explicit}
	switch {
	case policy == PolicyExplicit && explicit != nil:
		d.Applied = *explicit
	case policy == PolicyUnion && explicit != nil:
		d.Applied = explicit.Union(suggested)
	default:
		d.Applied = suggested
	}
	return d
}

// Reconcile runs Suggest, Resolve and Filter in one call.
func (r *Reconciler) Reconcile(s domain.ProSettings, explicit *domain.EnhancementToggles, policy Policy) (Decision, domain.ProSettings) {
	d := r.Resolve(explicit, r.Suggest(s), policy)
	return d, r.Filter(s, d.Applied)
}
