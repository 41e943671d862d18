// internal/config/normalize.go
package config

import "strings"

// Defaults applied by Normalize.
const (
	DefaultTimeoutMs    = 2000
	DefaultBaudRate     = 9600
	DefaultDataBits     = 8
	DefaultParity       = "E"
	DefaultStopBits     = 1
	DefaultPollMs       = 60000
	DefaultBatchDelayMs = 100
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	d := &cfg.Device

	d.Transport = strings.ToLower(d.Transport)
	if d.Transport == "" {
		d.Transport = TransportTCP
	}
	if d.TimeoutMs == 0 {
		d.TimeoutMs = DefaultTimeoutMs
	}

	// Serial line settings only matter for rtu
	if d.Transport == TransportRTU {
		if d.BaudRate == 0 {
			d.BaudRate = DefaultBaudRate
		}
		if d.DataBits == 0 {
			d.DataBits = DefaultDataBits
		}
		d.Parity = strings.ToUpper(d.Parity)
		if d.Parity == "" {
			d.Parity = DefaultParity
		}
		if d.StopBits == 0 {
			d.StopBits = DefaultStopBits
		}
	}

	if cfg.Poll.IntervalMs == 0 {
		cfg.Poll.IntervalMs = DefaultPollMs
	}

	if cfg.Write.BatchDelayMs == nil {
		v := DefaultBatchDelayMs
		cfg.Write.BatchDelayMs = &v
	}

	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}
