// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/modbus-fantimer/internal/schedule"
)

// ReadBlock describes one holding-register read geometry.
type ReadBlock struct {
	Address  uint16
	Quantity uint16
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	At time.Time

	// Raw is the week block exactly as read (big-endian registers).
	Raw []byte

	// Week is valid only when Err is nil.
	Week schedule.WeekSchedule

	// Version is the firmware version, or register.VersionUnknown when
	// no version register is configured or it could not be read.
	Version string

	Err error // non-nil means the poll cycle failed
}

// Days renders the week as 7 wire texts, one per day.
func (r PollResult) Days() []string {
	if r.Err != nil {
		return nil
	}
	return r.Week.Texts()
}
