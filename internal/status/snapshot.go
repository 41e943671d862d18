// internal/status/snapshot.go
package status

import (
	"errors"

	"github.com/goburrow/modbus"
)

// Snapshot is the runner-owned health of one device.
// It contains no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}

// HealthName renders a health code for logs.
func HealthName(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	default:
		return "unknown"
	}
}

// Observe folds one poll outcome into s and reports whether it changed.
// seconds_in_error is only advanced by Tick.
func (s *Snapshot) Observe(err error) bool {
	changed := false

	if err == nil {
		// Recovery / OK
		if s.Health != HealthOK {
			s.Health = HealthOK
			changed = true
		}
		if s.LastErrorCode != 0 {
			s.LastErrorCode = 0
			changed = true
		}
		if s.SecondsInError != 0 {
			s.SecondsInError = 0
			changed = true
		}
		return changed
	}

	if s.Health != HealthError {
		s.Health = HealthError
		changed = true
	}
	if code := ErrorCode(err); s.LastErrorCode != code {
		s.LastErrorCode = code
		changed = true
	}
	return changed
}

// Tick advances seconds_in_error by one while not OK.
// It saturates instead of wrapping.
func (s *Snapshot) Tick() bool {
	if s.Health == HealthOK || s.SecondsInError >= MaxSecondsInError {
		return false
	}
	s.SecondsInError++
	return true
}

// ErrorCode extracts a best-effort uint16 code from an error.
// Modbus exceptions yield their exception code; anything else is ErrorGeneric.
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return uint16(me.ExceptionCode)
	}

	type coder interface{ Code() uint16 }
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}

	return ErrorGeneric
}
