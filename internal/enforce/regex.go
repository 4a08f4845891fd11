package enforce

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/vocab"
)

// Pipeline step names recorded in Result.Steps.
const (
	StepStripPreamble  = "strip-preamble"
	StepStripHeaders   = "strip-headers"
	StepCollapseSpace  = "collapse-whitespace"
	StepForceAngle     = "force-angle"
	StepForceShot      = "force-shot"
	StepExtractOpening = "extract-opening"
	StepLocalFallback  = "local-fallback"
)

type angleToken struct {
	re     *regexp.Regexp
	bare   *regexp.Regexp
	angles map[string]bool
	inLead bool
}

func (t angleToken) conflicts(code string) bool { return !t.angles[code] }

// Regex is the pattern-matching Validator and Repairer.
type Regex struct {
	vocab *vocab.Vocabulary
	log   zerolog.Logger

	preambles   []*regexp.Regexp
	headers     []*regexp.Regexp
	boldHeader  *regexp.Regexp
	bold        *regexp.Regexp
	underline   *regexp.Regexp
	markers     *regexp.Regexp
	headingMark *regexp.Regexp
	space       *regexp.Regexp
	spacePunct  *regexp.Regexp
	dupPunct    *regexp.Regexp
	leadPunct   *regexp.Regexp

	lead     *regexp.Regexp
	opening  *regexp.Regexp
	anywhere *regexp.Regexp
	refusal  *regexp.Regexp
	tokens   []angleToken

	shotAny       *regexp.Regexp
	lens          *regexp.Regexp
	lighting      *regexp.Regexp
	style         *regexp.Regexp
	movement      *regexp.Regexp
	orbitDolly    *regexp.Regexp
	orbitBackward *regexp.Regexp
	subject       *regexp.Regexp
}

var (
	_ Validator = (*Regex)(nil)
	_ Repairer  = (*Regex)(nil)
)

// NewRegex compiles the patterns of v. A nil vocabulary selects
// vocab.Default.
func NewRegex(v *vocab.Vocabulary, log zerolog.Logger) *Regex {
	if v == nil {
		v = vocab.Default()
	}
	r := &Regex{
		vocab:       v,
		log:         log,
		boldHeader:  regexp.MustCompile(`\*\*[^*]*:\s*\*\*`),
		bold:        regexp.MustCompile(`\*\*([^*]*)\*\*`),
		underline:   regexp.MustCompile(`__([^_]*)__`),
		markers:     regexp.MustCompile(`\*+`),
		headingMark: regexp.MustCompile(`(?m)^\s*#{1,6}\s*`),
		space:       regexp.MustCompile(`\s+`),
		spacePunct:  regexp.MustCompile(`\s+([,.;:!?])`),
		dupPunct:    regexp.MustCompile(`([,;])(?:\s*[,;])+`),
		leadPunct:   regexp.MustCompile(`^[\s,;:]+`),
		opening:     regexp.MustCompile(`(?i)^A\s+(?:wide|medium|close-up|extreme)`),
		anywhere:    regexp.MustCompile(`(?i)\bA\s+(?:wide|medium|close-up|extreme)`),
		refusal:     regexp.MustCompile(`(?i)^(?:i\s+(?:am|cannot|can['’]?t|won['’]?t)|i['’]m|sorry|unfortunately|as an ai)\b`),
		shotAny:     regexp.MustCompile(`(?i)\b(?:extreme close-up|close-up|medium|wide)\s+shot\b|\bmid-shot\b`),
		lens:        regexp.MustCompile(`(?i)\b(?:24|35|50|85)mm[\w -]*?lens\b`),
		lighting:    regexp.MustCompile(`(?i)\b(?:studio|natural|dramatic|soft)\s+lighting\b`),
		style:       regexp.MustCompile(`(?i)\b(?:cinematic|documentary-style|commercial-style)\b`),
		movement:    regexp.MustCompile(`(?i)\b(?:dolly-in|dolly-out|pan\s+left|pan\s+right|tilt\s+up|tilt\s+down)(?:\s+movement)?\b`),
		orbitDolly:  regexp.MustCompile(`(?i)\bdolly[^.,]*?movement\b`),
		subject:     regexp.MustCompile(`(?i)\b(of|captures)\s+([^,.]+)`),
	}
	r.orbitBackward = regexp.MustCompile(`(?i)\bcamera[^.,]*?backward\b`)
	for _, p := range v.ForbiddenPreambles {
		r.preambles = append(r.preambles, regexp.MustCompile(`(?i)`+p))
	}
	for _, h := range v.Headers {
		r.headers = append(r.headers, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(h)))
	}

	var leadAngles []string
	for _, tok := range v.AngleTokens {
		set := make(map[string]bool, len(tok.Angles))
		for _, a := range tok.Angles {
			set[a] = true
		}
		r.tokens = append(r.tokens, angleToken{
			re:     regexp.MustCompile(`(?i)\b(?:(?:at|from|in)\s+)?(?:(?:an?|the)\s+)?(?:` + tok.Pattern + `)(?:\s+(?:angle|view|perspective))?\b`),
			bare:   regexp.MustCompile(`(?i)\b(?:` + tok.Pattern + `)\b`),
			angles: set,
			inLead: tok.InLead,
		})
		if tok.InLead {
			leadAngles = append(leadAngles, tok.Pattern)
		}
	}

	shots := uniqueValues(v.ShotPhrases)
	sort.Slice(shots, func(i, j int) bool {
		if len(shots[i]) != len(shots[j]) {
			return len(shots[i]) > len(shots[j])
		}
		return shots[i] < shots[j]
	})
	quoted := make([]string, len(shots))
	for i, s := range shots {
		quoted[i] = regexp.QuoteMeta(s)
	}
	r.lead = regexp.MustCompile(`(?i)^A\s+(` + strings.Join(quoted, "|") + `)` +
		`(?:\s+(?:at|from)\s+(?:(?:an?|the)\s+)?(?:` + strings.Join(leadAngles, "|") + `)(?:\s+angle)?)?`)
	return r
}

func uniqueValues(m map[string]string) []string {
	seen := make(map[string]bool, len(m))
	var out []string
	for _, v := range m {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Validate reports every contract breach in text.
func (r *Regex) Validate(text string, c Constraints) Report {
	var rep Report
	add := func(kind ViolationKind, detail string) {
		rep.Violations = append(rep.Violations, Violation{Kind: kind, Detail: detail})
	}

	for _, re := range r.preambles {
		if re.MatchString(strings.TrimSpace(text)) {
			add(ViolationPreamble, re.FindString(strings.TrimSpace(text)))
			break
		}
	}
	if r.hasMarkup(text) {
		add(ViolationHeader, "")
	}
	if text != r.collapse(text) {
		add(ViolationWhitespace, "")
	}
	if c.Angle != "" {
		for _, tok := range r.tokens {
			if tok.conflicts(c.AngleCode) && tok.bare.MatchString(text) {
				add(ViolationConflictingAngle, tok.bare.FindString(text))
			}
		}
		if !containsFold(text, c.Angle) {
			add(ViolationMissingAngle, c.Angle)
		}
	}
	if c.Shot != "" && !containsFold(text, c.Shot) {
		add(ViolationMissingShot, c.Shot)
	}
	switch {
	case !r.opening.MatchString(text):
		add(ViolationOpening, "missing leading shot clause")
	case r.leadRewrite(text, c) != text:
		add(ViolationOpening, "leading clause is not canonical")
	}
	return rep
}

func (r *Regex) hasMarkup(text string) bool {
	if strings.Contains(text, "*") || strings.Contains(text, "__") || r.headingMark.MatchString(text) {
		return true
	}
	for _, re := range r.headers {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Repair applies the steps that address the given violations, in pipeline
// order. It never falls back to an offline rewrite.
func (r *Regex) Repair(text string, c Constraints, violations []Violation) string {
	rep := Report{Violations: violations}
	if rep.Has(ViolationPreamble) {
		text = r.stripPreambles(text)
	}
	if rep.Has(ViolationHeader) {
		text = r.stripHeaders(text)
	}
	if rep.Has(ViolationWhitespace) || rep.Has(ViolationPreamble) || rep.Has(ViolationHeader) {
		text = r.collapse(text)
	}
	if c.Angle != "" && (rep.Has(ViolationConflictingAngle) || rep.Has(ViolationMissingAngle) || rep.Has(ViolationOpening)) {
		text = r.forceAngle(text, c)
	}
	if c.Shot != "" && (rep.Has(ViolationMissingShot) || rep.Has(ViolationOpening)) {
		text = r.forceShot(text, c)
	}
	if rep.Has(ViolationOpening) && !r.opening.MatchString(text) {
		if sub, ok := r.extractOpening(text, c); ok {
			text = sub
		}
	}
	return text
}

// Enforce runs the full pipeline on raw model output. original and filtered
// feed the offline rewrite used when the output cannot be repaired.
func (r *Regex) Enforce(original, raw string, filtered domain.ProSettings) Result {
	c := r.ConstraintsFrom(filtered)
	var steps []string
	apply := func(name string, fn func(string) string, text string) string {
		out := fn(text)
		if out != text {
			steps = append(steps, name)
		}
		return out
	}

	text := strings.TrimSpace(raw)
	text = apply(StepStripPreamble, r.stripPreambles, text)
	text = apply(StepStripHeaders, r.stripHeaders, text)
	text = apply(StepCollapseSpace, r.collapse, text)
	if c.Angle != "" {
		text = apply(StepForceAngle, func(s string) string { return r.forceAngle(s, c) }, text)
	}
	if c.Shot != "" {
		text = apply(StepForceShot, func(s string) string { return r.forceShot(s, c) }, text)
	}
	if !r.opening.MatchString(text) {
		if sub, ok := r.extractOpening(text, c); ok {
			text = sub
			steps = append(steps, StepExtractOpening)
		}
	}

	res := Result{}
	if !r.opening.MatchString(text) || r.missingMandated(text, c) {
		r.log.Warn().Str("reason", "unrepairable").Msg("enforce: model output discarded, using local fallback")
		text = r.LocalFallback(original, filtered)
		steps = append(steps, StepLocalFallback)
		res.UsedFallback = true
	}

	report := r.Validate(text, c)
	res.Text = text
	res.Steps = steps
	res.Compliant = report.Compliant()
	res.Violations = report.Violations

	ev := r.log.Debug()
	if !res.Compliant {
		ev = r.log.Info()
	}
	ev.Bool("compliant", res.Compliant).
		Bool("angle_present", c.Angle == "" || containsFold(text, c.Angle)).
		Bool("shot_present", c.Shot == "" || containsFold(text, c.Shot)).
		Strs("steps", steps).
		Int("words", WordCount(text)).
		Msg("enforce: verification")
	return res
}

func (r *Regex) missingMandated(text string, c Constraints) bool {
	if c.Angle != "" && !containsFold(text, c.Angle) {
		return true
	}
	return c.Shot != "" && !containsFold(text, c.Shot)
}

// LocalFallback rewrites the original prompt offline. It is a pure
// function of its inputs.
func (r *Regex) LocalFallback(original string, filtered domain.ProSettings) string {
	c := r.ConstraintsFrom(filtered)
	fb := r.vocab.Fallback

	text := r.collapse(r.stripHeaders(r.stripPreambles(strings.TrimSpace(original))))

	if c.Shot != "" {
		text = r.shotAny.ReplaceAllLiteralString(text, c.Shot)
	}
	if c.Angle != "" {
		removed := false
		for _, tok := range r.tokens {
			if tok.inLead {
				text = tok.bare.ReplaceAllLiteralString(text, c.Angle)
				continue
			}
			if tok.conflicts(c.AngleCode) && tok.re.MatchString(text) {
				text = tok.re.ReplaceAllLiteralString(text, "")
				removed = true
			}
		}
		if removed {
			text = r.tidy(text)
		}
	}
	if phrase, ok := fb.Lens[filtered.LensType]; ok {
		text = r.lens.ReplaceAllLiteralString(text, phrase)
	}
	if phrase, ok := fb.Lighting[filtered.LightingSetup]; ok {
		text = r.lighting.ReplaceAllLiteralString(text, phrase)
	}
	if phrase, ok := fb.Style[filtered.ArtisticStyle]; ok {
		text = r.style.ReplaceAllLiteralString(text, phrase)
	}
	if phrase, ok := fb.Movement[filtered.CameraMovement]; ok {
		text = r.movement.ReplaceAllLiteralString(text, phrase)
	}
	if containsFold(filtered.OptimizationInstructions, "360 orbit") {
		text = r.orbitDolly.ReplaceAllLiteralString(text, "360-degree orbital drone movement")
		text = r.orbitBackward.ReplaceAllLiteralString(text, "camera executes complete 360-degree orbital movement")
	}
	text = r.collapse(text)

	if r.lead.MatchString(text) {
		return r.leadRewrite(text, c)
	}
	return r.synthesizeLead(text, c)
}

func (r *Regex) synthesizeLead(text string, c Constraints) string {
	shot := c.Shot
	if shot == "" {
		shot = r.vocab.DefaultShot
	}
	angle := c.Angle
	if angle == "" {
		angle = r.vocab.DefaultAngle
	}
	subject := r.vocab.DefaultSubject
	rest := text
	if m := r.subject.FindStringSubmatchIndex(text); m != nil {
		if s := strings.TrimSpace(text[m[4]:m[5]]); s != "" {
			subject = s
			if strings.EqualFold(text[m[2]:m[3]], "captures") {
				rest = text[m[1]:]
			} else {
				rest = text[:m[0]] + text[m[1]:]
			}
		}
	}
	rest = strings.TrimSpace(r.leadPunct.ReplaceAllLiteralString(r.tidy(rest), ""))
	lead := "A " + shot + " at " + angle + " captures " + subject
	if rest == "" {
		return lead + "."
	}
	return lead + ", " + rest
}

func (r *Regex) stripPreambles(text string) string {
	for _, re := range r.preambles {
		text = strings.TrimSpace(re.ReplaceAllLiteralString(text, ""))
	}
	return text
}

func (r *Regex) stripHeaders(text string) string {
	text = r.boldHeader.ReplaceAllLiteralString(text, "")
	text = r.bold.ReplaceAllString(text, "$1")
	text = r.underline.ReplaceAllString(text, "$1")
	text = r.markers.ReplaceAllLiteralString(text, "")
	text = r.headingMark.ReplaceAllLiteralString(text, "")
	for _, re := range r.headers {
		text = re.ReplaceAllLiteralString(text, "")
	}
	return strings.TrimSpace(text)
}

func (r *Regex) collapse(text string) string {
	return strings.TrimSpace(r.space.ReplaceAllLiteralString(text, " "))
}

func (r *Regex) tidy(text string) string {
	text = r.collapse(text)
	text = r.spacePunct.ReplaceAllString(text, "$1")
	text = r.dupPunct.ReplaceAllString(text, "$1")
	return r.leadPunct.ReplaceAllLiteralString(text, "")
}

// forceAngle rewrites the leading clause to carry the requested angle and
// drops conflicting angle mentions elsewhere. Text with no leading clause
// gets one prepended.
func (r *Regex) forceAngle(text string, c Constraints) string {
	text = r.leadRewrite(text, Constraints{Angle: c.Angle, AngleCode: c.AngleCode})
	removed := false
	for _, tok := range r.tokens {
		if tok.conflicts(c.AngleCode) && tok.re.MatchString(text) {
			text = tok.re.ReplaceAllLiteralString(text, "")
			removed = true
		}
	}
	if removed {
		text = r.tidy(text)
	}
	if !containsFold(text, c.Angle) {
		text = r.prependLead(text, c)
	}
	return text
}

func (r *Regex) forceShot(text string, c Constraints) string {
	text = r.leadRewrite(text, Constraints{Shot: c.Shot})
	if !containsFold(text, c.Shot) {
		text = r.prependLead(text, c)
	}
	return text
}

// prependLead puts "A <shot> at <angle> captures" in front of text that has
// no opening clause anywhere. Empty text, text holding a later opening and
// refusals are returned unchanged.
func (r *Regex) prependLead(text string, c Constraints) string {
	if text == "" || r.opening.MatchString(text) || r.anywhere.MatchString(text) || r.refusal.MatchString(text) {
		return text
	}
	shot := c.Shot
	if shot == "" {
		shot = r.vocab.DefaultShot
	}
	angle := c.Angle
	if angle == "" {
		angle = r.vocab.DefaultAngle
	}
	return "A " + shot + " at " + angle + " captures " + lowerFirst(text)
}

// leadRewrite replaces the shot and angle of a leading "A <shot> [at
// <angle>]" clause. Unset constraints keep what the text already says.
func (r *Regex) leadRewrite(text string, c Constraints) string {
	m := r.lead.FindStringSubmatchIndex(text)
	if m == nil {
		return text
	}
	shot := text[m[2]:m[3]]
	if c.Shot != "" {
		shot = c.Shot
	}
	tail := text[m[3]:m[1]]
	if c.Angle != "" {
		tail = " at " + c.Angle
	}
	return "A " + shot + tail + text[m[1]:]
}

// extractOpening keeps the text from the first "A <shot>" occurrence and
// reapplies the leading clause repairs.
func (r *Regex) extractOpening(text string, c Constraints) (string, bool) {
	loc := r.anywhere.FindStringIndex(text)
	if loc == nil {
		return text, false
	}
	sub := upperFirst(text[loc[0]:])
	if c.Angle != "" {
		sub = r.forceAngle(sub, c)
	}
	if c.Shot != "" {
		sub = r.forceShot(sub, c)
	}
	return sub, true
}

func upperFirst(s string) string {
	ch, size := utf8.DecodeRuneInString(s)
	if ch == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(ch)) + s[size:]
}

// lowerFirst lowercases the first rune unless it opens an acronym.
func lowerFirst(s string) string {
	ch, size := utf8.DecodeRuneInString(s)
	if ch == utf8.RuneError {
		return s
	}
	if next, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(next) {
		return s
	}
	return string(unicode.ToLower(ch)) + s[size:]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
