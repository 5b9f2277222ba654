package breathe

// Display parameters of the breathing circle.
const (
	ExpandedScale      = 1.4
	ContractedScale    = 1.0
	OpaqueOpacity      = 1.0
	TranslucentOpacity = 0.6
)

// VisualState is the target appearance of the breathing circle.
type VisualState struct {
	Scale   float64 `json:"scale"`
	Opacity float64 `json:"opacity"`
}

var (
	expanded   = VisualState{Scale: ExpandedScale, Opacity: OpaqueOpacity}
	contracted = VisualState{Scale: ContractedScale, Opacity: TranslucentOpacity}
	// After an exhale the circle stays small but returns to full opacity.
	emptied = VisualState{Scale: ContractedScale, Opacity: OpaqueOpacity}
)

// Visual maps a phase to the circle's appearance. A hold keeps whatever the
// previous phase showed.
func Visual(phase, previous Phase) VisualState {
	switch phase {
	case Inhale:
		return expanded
	case Hold:
		if previous == Hold {
			return expanded
		}
		return Visual(previous, Inhale)
	case HoldEmpty:
		return emptied
	}
	return contracted
}
