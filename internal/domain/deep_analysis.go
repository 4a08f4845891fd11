package domain

// DeepAnalysis is the optional multi-category breakdown of an image. Every
// category may be nil.
type DeepAnalysis struct {
	Hair             *HairDetails      `json:"hair,omitempty"`
	Accessories      *AccessoryDetails `json:"accessories,omitempty"`
	Textures         *TextureDetails   `json:"textures,omitempty"`
	Wardrobe         *WardrobeDetails  `json:"wardrobe,omitempty"`
	Makeup           *MakeupDetails    `json:"makeup,omitempty"`
	Props            *PropDetails      `json:"props,omitempty"`
	AdvancedLighting *AdvancedLighting `json:"advancedLighting,omitempty"`
	SceneContext     *SceneContext     `json:"sceneContext,omitempty"`
}

// Deep analysis category keys.
const (
	DeepHair             = "hair"
	DeepAccessories      = "accessories"
	DeepTextures         = "textures"
	DeepWardrobe         = "wardrobe"
	DeepMakeup           = "makeup"
	DeepProps            = "props"
	DeepAdvancedLighting = "advancedLighting"
	DeepSceneContext     = "sceneContext"
)

// DeepCategories lists the categories in display order.
var DeepCategories = []string{
	DeepHair, DeepAccessories, DeepTextures, DeepWardrobe,
	DeepMakeup, DeepProps, DeepAdvancedLighting, DeepSceneContext,
}

type HairDetails struct {
	Color     string `json:"color,omitempty"`
	Style     string `json:"style,omitempty"`
	Length    string `json:"length,omitempty"`
	Texture   string `json:"texture,omitempty"`
	Condition string `json:"condition,omitempty"`
}

type AccessoryDetails struct {
	Jewelry  StringList `json:"jewelry,omitempty"`
	Glasses  string     `json:"glasses,omitempty"`
	Headwear string     `json:"headwear,omitempty"`
	Other    StringList `json:"other,omitempty"`
}

type TextureDetails struct {
	Skin      string     `json:"skin,omitempty"`
	Fabrics   StringList `json:"fabrics,omitempty"`
	Materials StringList `json:"materials,omitempty"`
	Surfaces  string     `json:"surfaces,omitempty"`
}

type WardrobeDetails struct {
	Upper  string     `json:"upper,omitempty"`
	Lower  string     `json:"lower,omitempty"`
	Shoes  string     `json:"shoes,omitempty"`
	Layers int        `json:"layers,omitempty"`
	Style  string     `json:"style,omitempty"`
	Colors StringList `json:"colors,omitempty"`
	Fit    string     `json:"fit,omitempty"`
}

type MakeupDetails struct {
	Foundation string `json:"foundation,omitempty"`
	Eyes       string `json:"eyes,omitempty"`
	Lips       string `json:"lips,omitempty"`
	Special    string `json:"special,omitempty"`
	Intensity  string `json:"intensity,omitempty"`
}

type PropDetails struct {
	HandHeld    string     `json:"handHeld,omitempty"`
	Nearby      StringList `json:"nearby,omitempty"`
	Stage       string     `json:"stage,omitempty"`
	Furniture   string     `json:"furniture,omitempty"`
	Environment string     `json:"environment,omitempty"`
}

type LightSource struct {
	Present     *bool  `json:"present,omitempty"`
	Direction   string `json:"direction,omitempty"`
	Intensity   string `json:"intensity,omitempty"`
	Color       string `json:"color,omitempty"`
	Temperature string `json:"temperature,omitempty"`
}

type AdvancedLighting struct {
	KeyLight  *LightSource `json:"keyLight,omitempty"`
	FillLight *LightSource `json:"fillLight,omitempty"`
	RimLight  *LightSource `json:"rimLight,omitempty"`
	Shadows   string       `json:"shadows,omitempty"`
	Mood      string       `json:"mood,omitempty"`
	TimeOfDay string       `json:"timeOfDay,omitempty"`
}

type SceneContext struct {
	Location   string `json:"location,omitempty"`
	Weather    string `json:"weather,omitempty"`
	Atmosphere string `json:"atmosphere,omitempty"`
	Depth      string `json:"depth,omitempty"`
}

// Missing lists the categories that are absent.
func (d DeepAnalysis) Missing() []string {
	present := map[string]bool{
		DeepHair:             d.Hair != nil,
		DeepAccessories:      d.Accessories != nil,
		DeepTextures:         d.Textures != nil,
		DeepWardrobe:         d.Wardrobe != nil,
		DeepMakeup:           d.Makeup != nil,
		DeepProps:            d.Props != nil,
		DeepAdvancedLighting: d.AdvancedLighting != nil,
		DeepSceneContext:     d.SceneContext != nil,
	}
	var missing []string
	for _, name := range DeepCategories {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// Empty reports whether no category is present.
func (d DeepAnalysis) Empty() bool {
	return len(d.Missing()) == len(DeepCategories)
}
