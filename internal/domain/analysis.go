package domain

import (
	"encoding/json"
	"strings"
)

// Analysis field names in the order they are requested and exported.
const (
	FieldSubject           = "subject"
	FieldStyle             = "style"
	FieldColors            = "colors"
	FieldLighting          = "lighting"
	FieldCameraAngle       = "cameraAngle"
	FieldShotType          = "shotType"
	FieldComposition       = "composition"
	FieldDepth             = "depth"
	FieldLightingSetup     = "lightingSetup"
	FieldKeyLightDirection = "keyLightDirection"
	FieldLightingMood      = "lightingMood"
	FieldShadows           = "shadows"
	FieldGender            = "gender"
	FieldAge               = "age"
	FieldExpression        = "expression"
	FieldPose              = "pose"
	FieldClothing          = "clothing"
	FieldBackgroundType    = "backgroundType"
	FieldImageQuality      = "imageQuality"
	FieldColorGrade        = "colorGrade"
	FieldEnergy            = "energy"
	FieldMood              = "mood"
	FieldVibe              = "vibe"
)

// AnalysisFields lists every required ImageAnalysis field.
var AnalysisFields = []string{
	FieldSubject, FieldStyle, FieldColors, FieldLighting, FieldCameraAngle,
	FieldShotType, FieldComposition, FieldDepth, FieldLightingSetup,
	FieldKeyLightDirection, FieldLightingMood, FieldShadows, FieldGender,
	FieldAge, FieldExpression, FieldPose, FieldClothing, FieldBackgroundType,
	FieldImageQuality, FieldColorGrade, FieldEnergy, FieldMood, FieldVibe,
}

// StringList decodes from either a JSON array of strings or a single
// (optionally comma separated) string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var many []any
	if err := json.Unmarshal(data, &many); err == nil {
		out := make([]string, 0, len(many))
		for _, v := range many {
			if s := strings.TrimSpace(stringify(v)); s != "" {
				out = append(out, s)
			}
		}
		*l = out
		return nil
	}
	var one any
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = SplitList(stringify(one))
	return nil
}

// SplitList splits a comma separated string into trimmed, non-empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ImageAnalysis is the structured description of a reference image.
type ImageAnalysis struct {
	Subject           string     `json:"subject"`
	Style             string     `json:"style"`
	Colors            StringList `json:"colors"`
	Lighting          string     `json:"lighting"`
	CameraAngle       string     `json:"cameraAngle"`
	ShotType          string     `json:"shotType"`
	Composition       string     `json:"composition"`
	Depth             string     `json:"depth"`
	LightingSetup     string     `json:"lightingSetup"`
	KeyLightDirection string     `json:"keyLightDirection"`
	LightingMood      string     `json:"lightingMood"`
	Shadows           string     `json:"shadows"`
	Gender            string     `json:"gender"`
	Age               string     `json:"age"`
	Expression        string     `json:"expression"`
	Pose              string     `json:"pose"`
	Clothing          string     `json:"clothing"`
	BackgroundType    string     `json:"backgroundType"`
	ImageQuality      string     `json:"imageQuality"`
	ColorGrade        string     `json:"colorGrade"`
	Energy            string     `json:"energy"`
	Mood              string     `json:"mood"`
	Vibe              string     `json:"vibe"`
}

func (a *ImageAnalysis) stringFields() map[string]*string {
	return map[string]*string{
		FieldSubject:           &a.Subject,
		FieldStyle:             &a.Style,
		FieldLighting:          &a.Lighting,
		FieldCameraAngle:       &a.CameraAngle,
		FieldShotType:          &a.ShotType,
		FieldComposition:       &a.Composition,
		FieldDepth:             &a.Depth,
		FieldLightingSetup:     &a.LightingSetup,
		FieldKeyLightDirection: &a.KeyLightDirection,
		FieldLightingMood:      &a.LightingMood,
		FieldShadows:           &a.Shadows,
		FieldGender:            &a.Gender,
		FieldAge:               &a.Age,
		FieldExpression:        &a.Expression,
		FieldPose:              &a.Pose,
		FieldClothing:          &a.Clothing,
		FieldBackgroundType:    &a.BackgroundType,
		FieldImageQuality:      &a.ImageQuality,
		FieldColorGrade:        &a.ColorGrade,
		FieldEnergy:            &a.Energy,
		FieldMood:              &a.Mood,
		FieldVibe:              &a.Vibe,
	}
}

// Value returns the field's value rendered as a string. Colors are joined
// with ", ".
func (a ImageAnalysis) Value(field string) string {
	if field == FieldColors {
		return strings.Join(a.Colors, ", ")
	}
	if p, ok := a.stringFields()[field]; ok {
		return *p
	}
	return ""
}

// SetValue assigns a field by name. Unknown names are ignored.
func (a *ImageAnalysis) SetValue(field, value string) {
	if field == FieldColors {
		a.Colors = SplitList(value)
		return
	}
	if p, ok := a.stringFields()[field]; ok {
		*p = strings.TrimSpace(value)
	}
}

// Fill replaces every empty field with the value from defaults and returns
// the names of the fields it filled.
func (a *ImageAnalysis) Fill(defaults ImageAnalysis) []string {
	var filled []string
	if len(a.Colors) == 0 {
		a.Colors = append(StringList(nil), defaults.Colors...)
		filled = append(filled, FieldColors)
	}
	own := a.stringFields()
	def := defaults.stringFields()
	for _, name := range AnalysisFields {
		p, ok := own[name]
		if !ok {
			continue
		}
		if strings.TrimSpace(*p) == "" {
			*p = *def[name]
			filled = append(filled, name)
		}
	}
	return filled
}

// Missing lists required fields that are empty.
func (a ImageAnalysis) Missing() []string {
	var missing []string
	for _, name := range AnalysisFields {
		if strings.TrimSpace(a.Value(name)) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// AnalysisField is a name/value pair.
type AnalysisField struct {
	Name  string
	Value string
}

// Fields returns the analysis as ordered name/value pairs.
func (a ImageAnalysis) Fields() []AnalysisField {
	out := make([]AnalysisField, 0, len(AnalysisFields))
	for _, name := range AnalysisFields {
		out = append(out, AnalysisField{Name: name, Value: a.Value(name)})
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		b, _ := json.Marshal(t)
		return string(b)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Stringify renders a decoded JSON scalar as text. Nil becomes "".
func Stringify(v any) string { return stringify(v) }
