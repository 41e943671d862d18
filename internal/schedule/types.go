// internal/schedule/types.go
package schedule

import (
	"errors"
	"fmt"
)

// ---- REGISTER LAYOUT ----
// These values are fixed by the device firmware and MUST NOT be configurable.

// DaysPerWeek is the number of day programs in a week block.
const DaysPerWeek = 7

// IntervalsPerDay is the number of time/speed breakpoints per day.
const IntervalsPerDay = 8

// SpeedRegistersPerDay is speed_before plus one speed per interval.
const SpeedRegistersPerDay = IntervalsPerDay + 1

// SpeedBlockOffset is the register index of the first speed block,
// right after the 7 x 8 time registers.
const SpeedBlockOffset = DaysPerWeek * IntervalsPerDay

// WeekRegisterCount is the size of the full week block in registers.
const WeekRegisterCount = DaysPerWeek * (IntervalsPerDay + SpeedRegistersPerDay)

// TimeRegister returns the register index of interval i on 0-indexed day d.
func TimeRegister(d, i int) int {
	return d*IntervalsPerDay + i
}

// SpeedBeforeRegister returns the register index of speed_before on
// 0-indexed day d. Interval speeds follow it.
func SpeedBeforeRegister(d int) int {
	return SpeedBlockOffset + d*SpeedRegistersPerDay
}

// ---- VALUES ----

// ErrInvalidData is returned when a decoded value is outside its domain.
var ErrInvalidData = errors.New("schedule: invalid data")

// Speed is a fan speed 0-4, or SpeedDisabled.
type Speed uint16

// MaxSpeed is the highest numeric fan speed.
const MaxSpeed Speed = 4

// SpeedDisabled marks an interval as not applicable.
const SpeedDisabled Speed = 255

// IsValidSpeed reports whether v is 0-4 or 255.
func IsValidSpeed(v uint16) bool {
	return v <= uint16(MaxSpeed) || v == uint16(SpeedDisabled)
}

// Valid reports whether s is a known speed.
func (s Speed) Valid() bool { return IsValidSpeed(uint16(s)) }

// Clock is a time of day as stored in a time register (hour high byte,
// minute low byte).
type Clock struct {
	Hour   uint8
	Minute uint8
}

// ClockFromRegister unpacks a time register. It does not validate.
func ClockFromRegister(v uint16) Clock {
	return Clock{Hour: uint8(v >> 8), Minute: uint8(v)}
}

// Register packs c as hour<<8 | minute.
func (c Clock) Register() uint16 {
	return uint16(c.Hour)<<8 | uint16(c.Minute)
}

// Valid reports whether c is within 00:00-23:59.
func (c Clock) Valid() bool { return c.Hour <= 23 && c.Minute <= 59 }

// String renders c as zero-padded HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// IsValidTime reports whether a packed time register holds a valid clock.
func IsValidTime(v uint16) bool {
	return ClockFromRegister(v).Valid()
}

// Interval is one timer breakpoint.
type Interval struct {
	Time  Clock
	Speed Speed
}

// DaySchedule is the timer program of one day.
// Intervals are not required to be sorted.
type DaySchedule struct {
	Day         int // 1-7
	SpeedBefore Speed
	Intervals   [IntervalsPerDay]Interval
}

// Validate checks every field against its domain.
func (s DaySchedule) Validate() error {
	if s.Day < 1 || s.Day > DaysPerWeek {
		return fmt.Errorf("%w: day %d out of range 1-%d", ErrInvalidData, s.Day, DaysPerWeek)
	}
	if !s.SpeedBefore.Valid() {
		return fmt.Errorf("%w: day %d speed_before %d", ErrInvalidData, s.Day, s.SpeedBefore)
	}
	for i, iv := range s.Intervals {
		if !iv.Time.Valid() {
			return fmt.Errorf("%w: day %d interval %d time %02d:%02d", ErrInvalidData, s.Day, i, iv.Time.Hour, iv.Time.Minute)
		}
		if !iv.Speed.Valid() {
			return fmt.Errorf("%w: day %d interval %d speed %d", ErrInvalidData, s.Day, i, iv.Speed)
		}
	}
	return nil
}

// Registers packs s into its time and speed register values.
func (s DaySchedule) Registers() DayRegisters {
	var r DayRegisters
	r.Speed[0] = uint16(s.SpeedBefore)
	for i, iv := range s.Intervals {
		r.Time[i] = iv.Time.Register()
		r.Speed[i+1] = uint16(iv.Speed)
	}
	return r
}

// DayRegisters holds one day exactly as written to the device:
// 8 time registers and 9 speed registers (speed_before first).
type DayRegisters struct {
	Time  [IntervalsPerDay]uint16
	Speed [SpeedRegistersPerDay]uint16
}

// Schedule validates r and converts it into a DaySchedule for day (1-7).
func (r DayRegisters) Schedule(day int) (DaySchedule, error) {
	s := DaySchedule{Day: day, SpeedBefore: Speed(r.Speed[0])}
	for i := range s.Intervals {
		s.Intervals[i] = Interval{
			Time:  ClockFromRegister(r.Time[i]),
			Speed: Speed(r.Speed[i+1]),
		}
	}
	if err := s.Validate(); err != nil {
		return DaySchedule{}, err
	}
	return s, nil
}

// WeekSchedule holds days 1-7 at positions 0-6.
type WeekSchedule [DaysPerWeek]DaySchedule

// Texts encodes every day as wire text, in day order.
func (w WeekSchedule) Texts() []string {
	out := make([]string, 0, DaysPerWeek)
	for _, d := range w {
		out = append(out, EncodeDay(d))
	}
	return out
}
