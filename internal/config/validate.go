// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/modbus-fantimer/internal/schedule"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	d := cfg.Device

	if d.Endpoint == "" {
		return fmt.Errorf("device: endpoint is required")
	}

	switch strings.ToLower(d.Transport) {
	case "", TransportTCP:
	case TransportRTU:
		if d.BaudRate < 0 {
			return fmt.Errorf("device: baud_rate must be >= 0")
		}
		if d.DataBits != 0 && (d.DataBits < 5 || d.DataBits > 8) {
			return fmt.Errorf("device: data_bits must be 5-8, got %d", d.DataBits)
		}
		switch strings.ToUpper(d.Parity) {
		case "", "N", "E", "O":
		default:
			return fmt.Errorf("device: parity must be N, E or O, got %q", d.Parity)
		}
		if d.StopBits != 0 && d.StopBits != 1 && d.StopBits != 2 {
			return fmt.Errorf("device: stop_bits must be 1 or 2, got %d", d.StopBits)
		}
	default:
		return fmt.Errorf("device: unknown transport %q", d.Transport)
	}

	if d.TimeoutMs < 0 {
		return fmt.Errorf("device: timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// SCHEDULE BLOCK GEOMETRY
	// ------------------------------------------------------------

	start := int(cfg.Schedule.BaseAddress)
	end := start + schedule.WeekRegisterCount - 1
	if end > 0xFFFF {
		return fmt.Errorf(
			"schedule: block %d-%d exceeds register address space",
			start,
			end,
		)
	}

	if va := cfg.Schedule.VersionAddress; va != nil {
		// overlap check (inclusive)
		if int(*va) >= start && int(*va) <= end {
			return fmt.Errorf(
				"schedule: version_address %d overlaps schedule block %d-%d",
				*va,
				start,
				end,
			)
		}
	}

	// ------------------------------------------------------------
	// TIMING
	// ------------------------------------------------------------

	if cfg.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll: interval_ms must be >= 0")
	}
	if cfg.Write.BatchDelayMs != nil && *cfg.Write.BatchDelayMs < 0 {
		return fmt.Errorf("write: batch_delay_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	switch strings.ToLower(cfg.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("logging: unknown level %q", cfg.Logging.Level)
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging: unknown format %q", cfg.Logging.Format)
	}

	return nil
}
