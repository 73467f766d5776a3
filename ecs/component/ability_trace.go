package component

// AbilityTrace keeps the most recent ability lifecycle lines of an entity for
// the debug overlay and the simulator.
type AbilityTrace struct {
	Lines []string
	// Max caps Lines; zero keeps everything.
	Max int
}

func (t *AbilityTrace) Append(line string) {
	t.Lines = append(t.Lines, line)
	if t.Max > 0 && len(t.Lines) > t.Max {
		t.Lines = append(t.Lines[:0], t.Lines[len(t.Lines)-t.Max:]...)
	}
}

var AbilityTraceComponent = NewComponent[AbilityTrace]()
