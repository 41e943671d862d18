// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	cfg "github.com/tamzrod/modbus-fantimer/internal/config"
)

// Build constructs a Writer from a normalized config.
// The client is owned by the caller.
func Build(c *cfg.Config, client endpointClient, log zerolog.Logger) (*Writer, error) {
	if client == nil {
		return nil, errors.New("writer: client required")
	}

	delay := time.Duration(0)
	if c.Write.BatchDelayMs != nil {
		delay = time.Duration(*c.Write.BatchDelayMs) * time.Millisecond
	}

	return New(
		Config{
			UnitID:      c.Device.UnitID,
			BaseAddress: c.Schedule.BaseAddress,
			BatchDelay:  delay,
		},
		client,
		log.With().Str("component", "writer").Logger(),
	), nil
}
