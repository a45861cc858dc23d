package sim

// State is the activity state of a [Simulation].
type State int

const (
	Idle State = iota
	Running
	Cooling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Cooling:
		return "cooling"
	}
	return "unknown"
}

// MarshalText lets states travel as strings in JSON frames.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
