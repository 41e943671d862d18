// internal/plan/plan.go
package plan

import (
	"errors"
	"fmt"

	"github.com/tamzrod/modbus-fantimer/internal/schedule"
)

// RegisterWrite is one multi-register write (FC16) batch.
type RegisterWrite struct {
	Address uint16
	Values  []uint16
}

// ---- ERRORS ----

// Kind classifies a plan failure.
type Kind int

const (
	// WrongDayCount means the week did not have exactly 7 days.
	WrongDayCount Kind = iota + 1
	// DayParseFailed means one day's wire text was rejected.
	DayParseFailed
	// AddressOverflow means the week block does not fit above base.
	AddressOverflow
)

var (
	ErrWrongDayCount   = errors.New("plan: week must contain exactly 7 days")
	ErrDayParse        = errors.New("plan: day parse failed")
	ErrAddressOverflow = errors.New("plan: week block exceeds register address space")
)

// Error is returned by Build and Emit.
type Error struct {
	Kind  Kind
	Day   int // 0-indexed; DayParseFailed only
	Count int // WrongDayCount only
	Err   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case WrongDayCount:
		return fmt.Sprintf("%v: got %d", ErrWrongDayCount, e.Count)
	case DayParseFailed:
		return fmt.Sprintf("%v: day index %d: %v", ErrDayParse, e.Day, e.Err)
	case AddressOverflow:
		return ErrAddressOverflow.Error()
	default:
		return "plan: unknown error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match the kind sentinels.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case WrongDayCount:
		return target == ErrWrongDayCount
	case DayParseFailed:
		return target == ErrDayParse
	case AddressOverflow:
		return target == ErrAddressOverflow
	}
	return false
}

// ---- ADDRESSING ----

// TimeAddress returns the first time register of 0-indexed day d.
func TimeAddress(base uint16, d int) uint16 {
	return base + uint16(schedule.TimeRegister(d, 0))
}

// SpeedAddress returns the speed_before register of 0-indexed day d.
func SpeedAddress(base uint16, d int) uint16 {
	return base + uint16(schedule.SpeedBeforeRegister(d))
}

// ---- PLANNING ----

// Emit parses each day in order and passes its two batches to sink:
// the 8 time registers, then the 9 speed registers.
// It stops at the first failing day; batches of earlier days have
// already been passed to sink. A sink error aborts and is returned as is.
func Emit(base uint16, days []string, sink func(RegisterWrite) error) error {
	if len(days) != schedule.DaysPerWeek {
		return &Error{Kind: WrongDayCount, Count: len(days)}
	}
	if int(base)+schedule.WeekRegisterCount-1 > 0xFFFF {
		return &Error{Kind: AddressOverflow}
	}

	for d, text := range days {
		regs, err := schedule.ParseDay(text)
		if err != nil {
			return &Error{Kind: DayParseFailed, Day: d, Err: err}
		}

		if err := sink(RegisterWrite{
			Address: TimeAddress(base, d),
			Values:  append([]uint16(nil), regs.Time[:]...),
		}); err != nil {
			return err
		}
		if err := sink(RegisterWrite{
			Address: SpeedAddress(base, d),
			Values:  append([]uint16(nil), regs.Speed[:]...),
		}); err != nil {
			return err
		}
	}

	return nil
}

// Build collects the batches of Emit. It is all-or-nothing: on any
// failure no batches are returned. Use Emit to act on earlier days
// before a later one fails.
func Build(base uint16, days []string) ([]RegisterWrite, error) {
	out := make([]RegisterWrite, 0, 2*schedule.DaysPerWeek)
	err := Emit(base, days, func(w RegisterWrite) error {
		out = append(out, w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BuildWeek builds the plan for a structured week.
func BuildWeek(base uint16, w schedule.WeekSchedule) ([]RegisterWrite, error) {
	return Build(base, w.Texts())
}

// RegisterCount sums the registers written by batches.
func RegisterCount(batches []RegisterWrite) int {
	n := 0
	for _, b := range batches {
		n += len(b.Values)
	}
	return n
}
