// internal/config/config.go
package config

type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Poll     PollConfig     `yaml:"poll"`
	Write    WriteConfig    `yaml:"write"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ---- DEVICE ----

const (
	TransportTCP = "tcp"
	TransportRTU = "rtu"
)

type DeviceConfig struct {
	Transport string `yaml:"transport"` // tcp | rtu
	Endpoint  string `yaml:"endpoint"`  // host:port or serial device
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// Serial line (rtu only)
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"` // N | E | O
	StopBits int    `yaml:"stop_bits"`
}

// ---- SCHEDULE BLOCK ----

type ScheduleConfig struct {
	BaseAddress uint16 `yaml:"base_address"`

	// Firmware version register (optional, opt-in)
	VersionAddress *uint16 `yaml:"version_address"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- WRITE ----

type WriteConfig struct {
	// Pause between write batches; nil => DefaultBatchDelayMs, 0 disables
	BatchDelayMs *int `yaml:"batch_delay_ms"`
}

// ---- LOGGING ----

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}
