package graphite

import (
	"errors"
	"fmt"
)

// Font-load (Face construction) errors. These are fatal: they propagate
// to the caller of NewFace, matching §7's "font-load errors are fatal"
// policy.
var (
	ErrMissingTable        = errors.New("graphite: required table missing")
	ErrOffsetOutOfRange    = errors.New("graphite: table offset out of range")
	ErrMalformedHeader     = errors.New("graphite: malformed table header")
	ErrUnsupportedVersion  = errors.New("graphite: unsupported table version")
	ErrCyclicAttachment    = errors.New("graphite: cyclic slot attachment rejected by rule loader")
)

func tableErrorf(tag Tag, sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s table %q: %w", fmt.Sprintf(format, args...), tag, sentinel)
}

// CodeStatus reports the outcome of loading a bytecode Rule Code
// program, per §4.3 and §7. A Code whose status is not StatusLoaded is
// inert: running it is defined to be a no-op (see machine.run).
type CodeStatus uint8

const (
	StatusLoaded CodeStatus = iota
	StatusAllocFailed
	StatusInvalidOpcode
	StatusUnimplementedOpcode
	StatusOutOfRangeData
	StatusJumpPastEnd
	StatusArgumentsExhausted
	StatusMissingReturn
)

func (s CodeStatus) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusAllocFailed:
		return "alloc_failed"
	case StatusInvalidOpcode:
		return "invalid_opcode"
	case StatusUnimplementedOpcode:
		return "unimplemented_opcode_used"
	case StatusOutOfRangeData:
		return "out_of_range_data"
	case StatusJumpPastEnd:
		return "jump_past_end"
	case StatusArgumentsExhausted:
		return "arguments_exhausted"
	case StatusMissingReturn:
		return "missing_return"
	default:
		return "unknown_code_status"
	}
}

// MachineStatus reports how a Machine run ended. A zero value means the
// run ended without a runtime error: a return opcode executed, the
// program ran off its end, or the Code was not loaded and did not run.
type MachineStatus uint8

const (
	MachineFinished MachineStatus = iota
	MachineStackUnderflow
	MachineStackOverflow
	MachineSlotOffsetOutOfBounds
	MachineDivByZero
	MachineBudgetExhausted
)

func (s MachineStatus) String() string {
	switch s {
	case MachineFinished:
		return "finished"
	case MachineStackUnderflow:
		return "stack_underflow"
	case MachineStackOverflow:
		return "stack_overflow"
	case MachineSlotOffsetOutOfBounds:
		return "slot_offset_out_bounds"
	case MachineDivByZero:
		return "div_by_zero"
	case MachineBudgetExhausted:
		return "runtime_budget_exhausted"
	default:
		return "unknown_machine_status"
	}
}

// IsFatal reports whether status represents a runtime error that must
// abort the current rule's execution (§7: "runtime errors abort the
// current rule's execution ... and cause the Silf driver to skip to the
// next position").
func (s MachineStatus) IsFatal() bool { return s != MachineFinished }
