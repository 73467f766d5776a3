package ability

import (
	"fmt"
	"log"
)

// Logger receives diagnostics. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// PreconditionError is the panic value raised for programmer errors when
// strict assertions are enabled.
type PreconditionError struct {
	Op  string
	Msg string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("abilities: %s: precondition failed: %s", e.Op, e.Msg)
}

type diagnostics struct {
	logger Logger
	strict bool
}

func newDiagnostics(logger Logger, strict bool) diagnostics {
	if logger == nil {
		logger = log.Default()
	}
	return diagnostics{logger: logger, strict: strict || debugAssertions}
}

func (d diagnostics) warnf(op, format string, args ...any) {
	d.logger.Printf("abilities: %s: warning: %s", op, fmt.Sprintf(format, args...))
}

func (d diagnostics) errorf(op, format string, args ...any) {
	d.logger.Printf("abilities: %s: error: %s", op, fmt.Sprintf(format, args...))
}

// assertf reports cond. A false cond panics with a PreconditionError in strict
// mode and is logged otherwise; callers must leave state untouched when it
// returns false.
func (d diagnostics) assertf(cond bool, op, format string, args ...any) bool {
	if cond {
		return true
	}
	err := &PreconditionError{Op: op, Msg: fmt.Sprintf(format, args...)}
	if d.strict {
		panic(err)
	}
	d.logger.Printf("%s", err.Error())
	return false
}
