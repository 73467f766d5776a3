package ability

import (
	"fmt"
	"strings"
	"testing"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) contains(sub string) bool {
	for _, line := range l.lines {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

func newTestSystem(t *testing.T) (*System, *recordingLogger) {
	t.Helper()
	logger := &recordingLogger{}
	return NewSystem(Config{Logger: logger}), logger
}

// countingSystem wraps the standard activator so tests can count attempts.
func countingSystem(t *testing.T, cfg Config) (*System, *[]Handle) {
	t.Helper()
	var sys *System
	attempts := &[]Handle{}
	cfg.Activator = ActivatorFunc(func(h Handle) bool {
		*attempts = append(*attempts, h)
		return sys.TryActivate(h)
	})
	if cfg.Logger == nil {
		cfg.Logger = &recordingLogger{}
	}
	sys = NewSystem(cfg)
	return sys, attempts
}

type behaviorCounts struct {
	activated int
	pressed   int
	released  int
	ended     int
	canceled  int
}

func (c *behaviorCounts) behavior() BehaviorFuncs {
	return BehaviorFuncs{
		OnActivate:      func(*BehaviorContext) { c.activated++ },
		OnInputPressed:  func(*BehaviorContext) { c.pressed++ },
		OnInputReleased: func(*BehaviorContext) { c.released++ },
		OnEnd: func(_ *BehaviorContext, canceled bool) {
			c.ended++
			if canceled {
				c.canceled++
			}
		},
	}
}

func mustActivate(t *testing.T, sys *System, h Handle) {
	t.Helper()
	if err := sys.TryActivateAbility(h); err != nil {
		t.Fatalf("activate %s: %v", h, err)
	}
}

func mustSpec(t *testing.T, sys *System, h Handle) *Spec {
	t.Helper()
	spec, ok := sys.FindSpec(h)
	if !ok {
		t.Fatalf("spec %s not found", h)
	}
	return spec
}

func expectPanic(t *testing.T, fn func()) *PreconditionError {
	t.Helper()
	var got *PreconditionError
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err, ok := r.(*PreconditionError)
			if !ok {
				t.Fatalf("expected *PreconditionError panic, got %T: %v", r, r)
			}
			got = err
		}()
		fn()
	}()
	if got == nil {
		t.Fatalf("expected precondition panic")
	}
	return got
}
