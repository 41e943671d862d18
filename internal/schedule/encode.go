// internal/schedule/encode.go
package schedule

import (
	"strconv"
	"strings"
)

// ErrorPayload is emitted instead of a day text when encoding fails.
const ErrorPayload = `{"error":"invalid_data"}`

// EncodeDay renders s as wire text:
//
//	{"d":1,"sb":2,"i":[{"t":"06:00","s":3},...]}
//
// Field order is fixed and there is no whitespace.
// An invalid schedule yields ErrorPayload.
func EncodeDay(s DaySchedule) string {
	if err := s.Validate(); err != nil {
		return ErrorPayload
	}

	var b strings.Builder
	b.Grow(200)

	b.WriteString(`{"d":`)
	b.WriteString(strconv.Itoa(s.Day))
	b.WriteString(`,"sb":`)
	b.WriteString(strconv.Itoa(int(s.SpeedBefore)))
	b.WriteString(`,"i":[`)
	for i, iv := range s.Intervals {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"t":"`)
		b.WriteString(iv.Time.String())
		b.WriteString(`","s":`)
		b.WriteString(strconv.Itoa(int(iv.Speed)))
		b.WriteByte('}')
	}
	b.WriteString(`]}`)

	return b.String()
}
