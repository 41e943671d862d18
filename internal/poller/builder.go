// internal/poller/builder.go
package poller

import (
	"time"

	"github.com/rs/zerolog"

	cfg "github.com/tamzrod/modbus-fantimer/internal/config"
)

// Build constructs a Poller from a normalized config.
// The client is owned by the caller.
func Build(c *cfg.Config, client Client, log zerolog.Logger) (*Poller, error) {
	return New(
		Config{
			UnitID:         c.Device.UnitID,
			BaseAddress:    c.Schedule.BaseAddress,
			VersionAddress: c.Schedule.VersionAddress,
			Interval:       time.Duration(c.Poll.IntervalMs) * time.Millisecond,
		},
		client,
		log.With().Str("component", "poller").Logger(),
	)
}
