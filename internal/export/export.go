// Package export serializes prompts and generation history for download.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vfxprompt/internal/domain"
	"vfxprompt/pkg/zip"
)

// Version is written into every JSON export.
const Version = "1.0"

const unknown = "unknown"

// Formats accepted by Render.
const (
	FormatTXT      = "txt"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatZIP      = "zip"
)

// Record is one prompt with the context it was generated in.
type Record struct {
	EffectType     string                `json:"effect_type"`
	EffectCategory string                `json:"effect_category"`
	Prompt         string                `json:"prompt"`
	Intensity      int                   `json:"intensity"`
	Duration       string                `json:"duration"`
	Style          string                `json:"style"`
	Analysis       *domain.ImageAnalysis `json:"ai_analysis,omitempty"`
	Deep           *domain.DeepAnalysis  `json:"deep_analysis,omitempty"`
	CreatedAt      time.Time             `json:"created_at,omitzero"`
}

// FromGeneration copies a saved generation into a Record.
func FromGeneration(g domain.Generation) Record {
	return Record{
		EffectType:     g.EffectType,
		EffectCategory: g.EffectCategory,
		Prompt:         g.GeneratedPrompt,
		Intensity:      g.Intensity,
		Duration:       g.Duration,
		Style:          g.Style,
		Analysis:       g.AIAnalysis,
		CreatedAt:      g.CreatedAt,
	}
}

// File is a rendered export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Exporter renders exports. Now defaults to time.Now.
type Exporter struct {
	Now func() time.Time
}

func New() *Exporter {
	return &Exporter{Now: time.Now}
}

func (e *Exporter) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now().UTC()
}

// TXT returns the prompt as is.
func (e *Exporter) TXT(prompt string) []byte {
	return []byte(prompt)
}

type envelope struct {
	Version     string                `json:"version"`
	GeneratedAt string                `json:"generated_at"`
	Effect      envelopeEffect        `json:"effect"`
	Prompt      string                `json:"prompt"`
	Settings    envelopeSettings      `json:"settings"`
	AIAnalysis  *domain.ImageAnalysis `json:"ai_analysis"`
	Deep        *domain.DeepAnalysis  `json:"deep_analysis"`
}

type envelopeEffect struct {
	Type     string `json:"type"`
	Category string `json:"category"`
}

type envelopeSettings struct {
	Intensity int    `json:"intensity"`
	Duration  string `json:"duration"`
	Style     string `json:"style"`
}

// JSON writes the versioned envelope, indented by two spaces.
func (e *Exporter) JSON(r Record) ([]byte, error) {
	env := envelope{
		Version:     Version,
		GeneratedAt: e.now().Format(time.RFC3339Nano),
		Effect: envelopeEffect{
			Type:     orDefault(r.EffectType, unknown),
			Category: orDefault(r.EffectCategory, unknown),
		},
		Prompt: r.Prompt,
		Settings: envelopeSettings{
			Intensity: r.Intensity,
			Duration:  orDefault(r.Duration, domain.DefaultEffectDuration),
			Style:     orDefault(r.Style, domain.DefaultGenerationStyle),
		},
		AIAnalysis: r.Analysis,
		Deep:       r.Deep,
	}
	if env.Settings.Intensity == 0 {
		env.Settings.Intensity = domain.DefaultEffectIntensity
	}
	b, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export json: %w", err)
	}
	return b, nil
}

var csvHeader = []string{"Effect Type", "Category", "Prompt", "Intensity", "Duration", "Created At"}

// CSV writes one row per record under a fixed header.
func (e *Exporter) CSV(records []Record) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}
	for _, r := range records {
		row := []string{r.EffectType, r.EffectCategory, r.Prompt, "", r.Duration, ""}
		if r.Intensity != 0 {
			row[3] = strconv.Itoa(r.Intensity)
		}
		if !r.CreatedAt.IsZero() {
			row[5] = r.CreatedAt.UTC().Format(time.RFC3339)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}
	return buf.Bytes(), nil
}

var camelBoundary = regexp.MustCompile(`([A-Z])`)

// Title turns a camelCase key into spaced title case: keyLightDirection
// becomes "Key Light Direction".
func Title(key string) string {
	spaced := strings.TrimSpace(camelBoundary.ReplaceAllString(key, " $1"))
	return cases.Title(language.English, cases.NoLower).String(spaced)
}

// Markdown renders the prompt with the analysis as a bullet list.
func (e *Exporter) Markdown(prompt string, analysis *domain.ImageAnalysis) []byte {
	var b strings.Builder
	b.WriteString("# VFX Prompt\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", e.now().Format(time.RFC3339Nano))
	b.WriteString("## Prompt\n")
	b.WriteString(prompt)
	b.WriteString("\n\n## AI Analysis\n")
	if analysis == nil {
		b.WriteString("No analysis available\n")
		return []byte(b.String())
	}
	for _, f := range analysis.Fields() {
		if f.Value == "" {
			continue
		}
		fmt.Fprintf(&b, "- **%s**: %s\n", Title(f.Name), f.Value)
	}
	return []byte(b.String())
}

// Bundle zips the txt, json and md renderings of r.
func (e *Exporter) Bundle(r Record) ([]byte, error) {
	now := e.now()
	js, err := e.JSON(r)
	if err != nil {
		return nil, err
	}
	base := baseName(r, now)
	return zip.Archive([]zip.Entry{
		{Name: base + ".txt", Data: e.TXT(r.Prompt)},
		{Name: base + ".json", Data: js},
		{Name: base + ".md", Data: e.Markdown(r.Prompt, r.Analysis)},
	}, now)
}

// Render produces a download for format. CSV uses every record, the other
// formats use the first.
func (e *Exporter) Render(format string, records []Record) (*File, error) {
	if len(records) == 0 {
		return nil, domain.Invalid("records", "at least one record is required")
	}
	now := e.now()
	first := records[0]
	base := baseName(first, now)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatTXT:
		return &File{Name: base + ".txt", ContentType: "text/plain; charset=utf-8", Data: e.TXT(first.Prompt)}, nil
	case FormatJSON:
		data, err := e.JSON(first)
		if err != nil {
			return nil, err
		}
		return &File{Name: base + ".json", ContentType: "application/json", Data: data}, nil
	case FormatCSV:
		data, err := e.CSV(records)
		if err != nil {
			return nil, err
		}
		return &File{Name: fmt.Sprintf("vfx-history-%d.csv", now.UnixMilli()), ContentType: "text/csv; charset=utf-8", Data: data}, nil
	case FormatMarkdown:
		return &File{Name: base + ".md", ContentType: "text/markdown; charset=utf-8", Data: e.Markdown(first.Prompt, first.Analysis)}, nil
	case FormatZIP:
		data, err := e.Bundle(first)
		if err != nil {
			return nil, err
		}
		return &File{Name: base + ".zip", ContentType: "application/zip", Data: data}, nil
	}
	return nil, domain.Invalid("format", "must be one of txt, json, csv, md, zip")
}

func baseName(r Record, now time.Time) string {
	effect := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(r.EffectType), " ", "-"))
	if effect == "" {
		effect = "prompt"
	}
	return fmt.Sprintf("vfx-%s-%d", effect, now.UnixMilli())
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
