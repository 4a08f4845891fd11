package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStringListAcceptsArrayOrString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "array", raw: `["Blue"," Red",""]`, want: []string{"Blue", "Red"}},
		{name: "comma string", raw: `"Blue, Red ,Gold"`, want: []string{"Blue", "Red", "Gold"}},
		{name: "null", raw: `null`, want: nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got StringList
			if err := json.Unmarshal([]byte(tc.raw), &got); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("len = %d, want %d (%v)", len(got), len(tc.want), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestImageAnalysisFill(t *testing.T) {
	defaults := ImageAnalysis{Colors: StringList{"Blue"}}
	for _, f := range AnalysisFields {
		if f != FieldColors {
			defaults.SetValue(f, "default-"+f)
		}
	}

	a := ImageAnalysis{Subject: "a man", Mood: "  "}
	filled := a.Fill(defaults)

	if a.Subject != "a man" {
		t.Fatalf("Subject = %q, want kept", a.Subject)
	}
	if a.Mood != "default-mood" {
		t.Fatalf("Mood = %q, want default", a.Mood)
	}
	if got := len(a.Missing()); got != 0 {
		t.Fatalf("Missing = %v, want none", a.Missing())
	}
	if len(filled) != len(AnalysisFields)-1 {
		t.Fatalf("filled %d fields, want %d", len(filled), len(AnalysisFields)-1)
	}
	if got := a.Value(FieldColors); got != "Blue" {
		t.Fatalf("colors = %q, want Blue", got)
	}
}

func TestProSettingsValueRoundTrip(t *testing.T) {
	var s ProSettings
	for _, f := range SettingFields {
		if f == SettingIntensity {
			s.SetValue(f, "55")
			continue
		}
		s.SetValue(f, "v-"+f)
	}
	for _, f := range SettingFields {
		want := "v-" + f
		if f == SettingIntensity {
			want = "55"
		}
		if got := s.Value(f); got != want {
			t.Fatalf("Value(%s) = %q, want %q", f, got, want)
		}
	}
	s.SetValue(SettingIntensity, "abc")
	if s.Intensity != 55 {
		t.Fatalf("Intensity = %d, want unchanged 55", s.Intensity)
	}
}

func TestProSettingsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      ProSettings
		wantErr bool
	}{
		{name: "empty", in: ProSettings{}},
		{name: "in range", in: ProSettings{Intensity: 30, PromptLength: PromptLengthLong}},
		{name: "too low", in: ProSettings{Intensity: 29}, wantErr: true},
		{name: "too high", in: ProSettings{Intensity: 101}, wantErr: true},
		{name: "bad length", in: ProSettings{PromptLength: "medium"}, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.in.Validate()
			if tc.wantErr != (err != nil) {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestEnhancementTogglesUnion(t *testing.T) {
	a := EnhancementToggles{Camera: true}
	b := EnhancementToggles{Style: true}
	u := a.Union(b)
	if u.Count() != 2 || !u.Camera || !u.Style {
		t.Fatalf("Union = %+v, want camera and style", u)
	}
	if (EnhancementToggles{}).Any() {
		t.Fatalf("zero toggles reported Any")
	}
}

func TestPresetValidateSettingsJSON(t *testing.T) {
	p := Preset{Name: "Noir", Category: PresetThriller, Settings: json.RawMessage(`{"shotType":"wide"`)}
	if err := p.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want invalid settings error")
	}
	p.Settings = json.RawMessage(`{"shotType":"wide","intensity":90}`)
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	s, _ := p.ProSettings()
	if s.ShotType != "wide" || s.Intensity != 90 {
		t.Fatalf("ProSettings = %+v", s)
	}
}

func TestDeepAnalysisMissing(t *testing.T) {
	d := DeepAnalysis{Hair: &HairDetails{Color: "black"}}
	if d.Empty() {
		t.Fatalf("Empty() = true with hair present")
	}
	if got := len(d.Missing()); got != len(DeepCategories)-1 {
		t.Fatalf("Missing = %d, want %d", got, len(DeepCategories)-1)
	}
}
