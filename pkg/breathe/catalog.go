package breathe

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Exercises is the built-in catalog.
var Exercises = []Exercise{
	{
		ID:          "relaxing",
		Phases:      PhaseDurations{Inhale: seconds(4), Hold: seconds(4), Exhale: seconds(6)},
		Cycles:      4,
		Name:        map[string]string{"en": "Relaxing Breath", "es": "Respiración Relajante"},
		Description: map[string]string{"en": "4-4-6 pattern for calm", "es": "Patrón 4-4-6 para calma"},
	},
	{
		ID:          "energizing",
		Phases:      PhaseDurations{Inhale: seconds(4), Hold: seconds(2), Exhale: seconds(4)},
		Cycles:      6,
		Name:        map[string]string{"en": "Energizing Breath", "es": "Respiración Energizante"},
		Description: map[string]string{"en": "4-2-4 pattern for focus", "es": "Patrón 4-2-4 para enfoque"},
	},
	{
		ID:          "box",
		Phases:      PhaseDurations{Inhale: seconds(4), Hold: seconds(4), Exhale: seconds(4), HoldEmpty: seconds(4)},
		Cycles:      4,
		Name:        map[string]string{"en": "Box Breathing", "es": "Respiración Cuadrada"},
		Description: map[string]string{"en": "4-4-4-4 pattern for balance", "es": "Patrón 4-4-4-4 para equilibrio"},
	},
	{
		ID:          "sleep",
		Phases:      PhaseDurations{Inhale: seconds(4), Hold: seconds(7), Exhale: seconds(8)},
		Cycles:      3,
		Name:        map[string]string{"en": "4-7-8 Sleep", "es": "4-7-8 Para Dormir"},
		Description: map[string]string{"en": "Deep relaxation for sleep", "es": "Relajación profunda para dormir"},
	},
}

// Lookup returns the exercise with the given id from exercises.
func Lookup(exercises []Exercise, id string) (Exercise, bool) {
	for _, e := range exercises {
		if e.ID == id {
			return e.clone(), true
		}
	}
	return Exercise{}, false
}

// exerciseDoc is the YAML shape of one exercise. Phases is kept as a node so
// durations may be written as "4s" or as milliseconds.
type exerciseDoc struct {
	ID          string            `yaml:"id"`
	Cycles      int               `yaml:"cycles"`
	Phases      yaml.Node         `yaml:"phases"`
	Name        map[string]string `yaml:"name"`
	Description map[string]string `yaml:"description"`
}

type catalogDoc struct {
	Exercises []exerciseDoc `yaml:"exercises"`
}

// LoadExercises reads a YAML catalog of the form
//
//	exercises:
//	  - id: calm
//	    cycles: 5
//	    phases:
//	      inhale: 4s
//	      hold: 2000   # milliseconds
//	      exhale: 6s
//	    name: {en: Calm, es: Calma}
//
// Phases may appear in any order; only inhale, hold, exhale and holdEmpty
// are accepted. Every exercise is validated.
func LoadExercises(r io.Reader) ([]Exercise, error) {
	var doc catalogDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("breathe: parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(doc.Exercises))
	exercises := make([]Exercise, 0, len(doc.Exercises))
	for i, d := range doc.Exercises {
		phases, err := parsePhases(&d.Phases)
		if err != nil {
			return nil, fmt.Errorf("breathe: exercise %d (%s): %w", i, d.ID, err)
		}
		e := Exercise{
			ID:          d.ID,
			Phases:      phases,
			Cycles:      d.Cycles,
			Name:        d.Name,
			Description: d.Description,
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidExercise, e.ID)
		}
		seen[e.ID] = true
		exercises = append(exercises, e)
	}
	return exercises, nil
}

func parsePhases(n *yaml.Node) (PhaseDurations, error) {
	var d PhaseDurations
	if n.Kind == 0 {
		return d, fmt.Errorf("missing phases")
	}
	if n.Kind != yaml.MappingNode {
		return d, fmt.Errorf("line %d: phases must be a mapping", n.Line)
	}
	seen := make(map[Phase]bool, 4)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		p := Phase(key.Value)
		var slot *time.Duration
		switch p {
		case Inhale:
			slot = &d.Inhale
		case Hold:
			slot = &d.Hold
		case Exhale:
			slot = &d.Exhale
		case HoldEmpty:
			slot = &d.HoldEmpty
		default:
			return d, fmt.Errorf("line %d: unknown phase %q", key.Line, key.Value)
		}
		if seen[p] {
			return d, fmt.Errorf("line %d: phase %s given twice", key.Line, p)
		}
		seen[p] = true
		dur, err := parseDuration(val)
		if err != nil {
			return d, fmt.Errorf("line %d: %s: %w", val.Line, p, err)
		}
		*slot = dur
	}
	return d, nil
}

// parseDuration accepts a Go duration string or a whole number of
// milliseconds.
func parseDuration(n *yaml.Node) (time.Duration, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("duration must be a scalar")
	}
	if ms, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(n.Value)
}
