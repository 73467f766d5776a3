package prefabs

// TraceSpec is a scripted input sequence replayed against a character by the
// simulator.
type TraceSpec struct {
	Character string      `yaml:"character"`
	Ticks     int         `yaml:"ticks"`
	Steps     []TraceStep `yaml:"steps"`
}

// TraceStep applies its inputs at the start of Tick, before input
// processing.
type TraceStep struct {
	Tick       int      `yaml:"tick"`
	Press      []string `yaml:"press"`
	Release    []string `yaml:"release"`
	AddTags    []string `yaml:"add_tags"`
	RemoveTags []string `yaml:"remove_tags"`
	// Cancel names a canned cancellation: "input", "all", or an activation
	// group name.
	Cancel       string `yaml:"cancel"`
	CancelScript string `yaml:"cancel_script"`
	// Replicate flags the step's cancels for replication.
	Replicate bool `yaml:"replicate"`
}

func LoadTraceSpec(path string) (TraceSpec, error) {
	return LoadFile[TraceSpec](path)
}

// LastTick returns the number of ticks the trace needs to run.
func (t TraceSpec) LastTick() int {
	last := t.Ticks
	for _, s := range t.Steps {
		if s.Tick+1 > last {
			last = s.Tick + 1
		}
	}
	return last
}
