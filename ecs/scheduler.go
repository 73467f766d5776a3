package ecs

type System interface {
	Update(w *World)
}

// Phase groups systems within one tick. Phases run in declaration order;
// systems of the same phase run in the order they were added.
type Phase uint8

const (
	// PhaseInput collects device input, scripted steps and reloads.
	PhaseInput Phase = iota
	// PhaseAbilities runs the activation scheduler and tick bookkeeping.
	PhaseAbilities
	// PhaseReport consumes the events of the tick.
	PhaseReport

	phaseCount
)

var phaseNames = [...]string{
	PhaseInput:     "input",
	PhaseAbilities: "abilities",
	PhaseReport:    "report",
}

func (p Phase) String() string {
	if p >= phaseCount {
		return "unknown"
	}
	return phaseNames[p]
}

type Scheduler struct {
	phases [phaseCount][]System
}

// Add appends system to PhaseAbilities.
func (s *Scheduler) Add(system System) {
	s.AddPhase(PhaseAbilities, system)
}

// AddPhase appends system to phase. Nil systems and unknown phases are
// ignored.
func (s *Scheduler) AddPhase(phase Phase, system System) {
	if system == nil || phase >= phaseCount {
		return
	}
	s.phases[phase] = append(s.phases[phase], system)
}

func (s *Scheduler) Update(w *World) {
	for _, systems := range s.phases {
		for _, system := range systems {
			system.Update(w)
		}
	}
}

// Systems returns every system in run order.
func (s *Scheduler) Systems() []System {
	var systems []System
	for _, phase := range s.phases {
		systems = append(systems, phase...)
	}
	return systems
}
