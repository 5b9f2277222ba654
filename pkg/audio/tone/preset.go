package tone

// Kind is the kind of sound a preset plays.
type Kind int

const (
	// Pure is a single sine tone at Hz.
	Pure Kind = iota
	// Binaural is a beat of Hz on top of a BaseHz carrier.
	Binaural
)

func (k Kind) String() string {
	if k == Binaural {
		return "binaural"
	}
	return "pure"
}

// Preset is a named healing sound.
type Preset struct {
	ID       string            `json:"id" yaml:"id"`
	Category string            `json:"category" yaml:"category"`
	Kind     Kind              `json:"kind" yaml:"kind"`
	Hz       float64           `json:"hz" yaml:"hz"`
	BaseHz   float64           `json:"base_hz,omitempty" yaml:"base_hz,omitempty"`
	Name     map[string]string `json:"name" yaml:"name"`
}

// Label returns the preset name in lang, falling back to English.
func (p Preset) Label(lang string) string {
	if n, ok := p.Name[lang]; ok {
		return n
	}
	return p.Name["en"]
}

// Categories of the built-in presets.
const (
	CategoryBinaural = "binaural"
	CategoryHertz    = "hertz"
	CategoryChakra   = "chakra"
)

// Presets is the built-in healing sound catalog.
var Presets = []Preset{
	binaural("delta", 5, "Deep Meditation", "Meditación Profunda"),
	binaural("theta", 9, "Deep Trance", "Trance Profundo"),
	binaural("alpha", 11, "Concentration", "Concentración"),

	pure(CategoryHertz, "restoration", 74, "Restoration", "Restauración"),
	pure(CategoryHertz, "winddown", 132, "Winding Down", "Relajación"),
	pure(CategoryHertz, "harmony", 144, "Harmony", "Armonía"),
	pure(CategoryHertz, "grounding", 432, "Grounding", "Conexión a Tierra"),

	pure(CategoryChakra, "root", 396, "1st - Root", "1° - Raíz"),
	pure(CategoryChakra, "sacral", 417, "2nd - Sacral", "2° - Sacro"),
	pure(CategoryChakra, "solar", 528, "3rd - Solar Plexus", "3° - Plexo Solar"),
	pure(CategoryChakra, "heart", 639, "4th - Heart", "4° - Corazón"),
	pure(CategoryChakra, "throat", 741, "5th - Throat", "5° - Garganta"),
	pure(CategoryChakra, "third_eye", 852, "6th - Third Eye", "6° - Tercer Ojo"),
	pure(CategoryChakra, "crown", 963, "7th - Crown", "7° - Corona"),
}

// binauralBaseHz is the carrier all built-in binaural presets use.
const binauralBaseHz = 200

func binaural(id string, beat float64, en, es string) Preset {
	return Preset{
		ID:       id,
		Category: CategoryBinaural,
		Kind:     Binaural,
		Hz:       beat,
		BaseHz:   binauralBaseHz,
		Name:     map[string]string{"en": en, "es": es},
	}
}

func pure(category, id string, hz float64, en, es string) Preset {
	return Preset{
		ID:       id,
		Category: category,
		Kind:     Pure,
		Hz:       hz,
		Name:     map[string]string{"en": en, "es": es},
	}
}

// Lookup returns the built-in preset with the given id.
func Lookup(id string) (Preset, bool) {
	for _, p := range Presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}
