// internal/schedule/decode.go
package schedule

import (
	"fmt"

	"github.com/tamzrod/modbus-fantimer/internal/register"
)

// DecodeDay decodes day (1-7) from buf, the week block starting at its
// first register. Any invalid field fails the whole day.
// A buffer too short for the day's registers returns register.ErrOutOfBounds.
func DecodeDay(buf []byte, day int) (DaySchedule, error) {
	if day < 1 || day > DaysPerWeek {
		return DaySchedule{}, fmt.Errorf("%w: day %d out of range 1-%d", ErrInvalidData, day, DaysPerWeek)
	}
	d := day - 1
	sbReg := SpeedBeforeRegister(d)

	sb, err := readRegister(buf, sbReg)
	if err != nil {
		return DaySchedule{}, fmt.Errorf("schedule: day %d speed_before: %w", day, err)
	}
	if !IsValidSpeed(sb) {
		return DaySchedule{}, fmt.Errorf("%w: day %d speed_before %d", ErrInvalidData, day, sb)
	}

	s := DaySchedule{Day: day, SpeedBefore: Speed(sb)}

	for i := 0; i < IntervalsPerDay; i++ {
		tv, err := readRegister(buf, TimeRegister(d, i))
		if err != nil {
			return DaySchedule{}, fmt.Errorf("schedule: day %d interval %d time: %w", day, i, err)
		}
		if !IsValidTime(tv) {
			return DaySchedule{}, fmt.Errorf("%w: day %d interval %d time 0x%04X", ErrInvalidData, day, i, tv)
		}

		sv, err := readRegister(buf, sbReg+i+1)
		if err != nil {
			return DaySchedule{}, fmt.Errorf("schedule: day %d interval %d speed: %w", day, i, err)
		}
		if !IsValidSpeed(sv) {
			return DaySchedule{}, fmt.Errorf("%w: day %d interval %d speed %d", ErrInvalidData, day, i, sv)
		}

		s.Intervals[i] = Interval{Time: ClockFromRegister(tv), Speed: Speed(sv)}
	}

	return s, nil
}

// DecodeWeek decodes all 7 days. The first failing day aborts.
func DecodeWeek(buf []byte) (WeekSchedule, error) {
	var w WeekSchedule
	for day := 1; day <= DaysPerWeek; day++ {
		s, err := DecodeDay(buf, day)
		if err != nil {
			return WeekSchedule{}, err
		}
		w[day-1] = s
	}
	return w, nil
}

// DecodeDayText decodes day and renders it as wire text.
// On failure it returns ErrorPayload.
func DecodeDayText(buf []byte, day int) string {
	s, err := DecodeDay(buf, day)
	if err != nil {
		return ErrorPayload
	}
	return EncodeDay(s)
}

func readRegister(buf []byte, reg int) (uint16, error) {
	return register.ReadUint16(buf, reg*2)
}
