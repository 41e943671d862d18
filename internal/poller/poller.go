// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-fantimer/internal/register"
	"github.com/tamzrod/modbus-fantimer/internal/schedule"
)

// Client abstracts the Modbus operation needed by the poller.
// The poller depends on geometry only.
type Client interface {
	ReadHoldingRegisters(unitID uint8, addr, qty uint16) ([]byte, error) // FC 3
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	UnitID         uint8
	BaseAddress    uint16
	VersionAddress *uint16
	Interval       time.Duration
}

// Poller is a dumb, clock-driven reader of the week block.
type Poller struct {
	cfg    Config
	client Client
	log    zerolog.Logger
}

// New creates a poller with immutable config.
func New(cfg Config, client Client, log zerolog.Logger) (*Poller, error) {
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	if cfg.Interval < 0 {
		return nil, errors.New("poller: interval must be >= 0")
	}
	if int(cfg.BaseAddress)+schedule.WeekRegisterCount-1 > 0xFFFF {
		return nil, errors.New("poller: week block exceeds register address space")
	}
	return &Poller{cfg: cfg, client: client, log: log}, nil
}

// Block returns the read geometry of the week block.
func (p *Poller) Block() ReadBlock {
	return ReadBlock{Address: p.cfg.BaseAddress, Quantity: schedule.WeekRegisterCount}
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: a read or decode failure fails the cycle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		At:      time.Now(),
		Version: register.VersionUnknown,
	}

	if p.cfg.VersionAddress != nil {
		raw, err := p.client.ReadHoldingRegisters(p.cfg.UnitID, *p.cfg.VersionAddress, 1)
		if err != nil {
			// Version is informational; the schedule read decides the cycle.
			p.log.Warn().Err(err).Uint16("address", *p.cfg.VersionAddress).Msg("version read failed")
		} else {
			res.Version = register.FormatVersion(raw)
		}
	}

	b := p.Block()
	raw, err := p.client.ReadHoldingRegisters(p.cfg.UnitID, b.Address, b.Quantity)
	if err != nil {
		res.Err = fmt.Errorf("poller: read %d registers at %d: %w", b.Quantity, b.Address, err)
		return res
	}

	week, err := schedule.DecodeWeek(raw)
	if err != nil {
		res.Err = fmt.Errorf("poller: decode: %w", err)
		return res
	}

	// Commit only if the read and every day decoded
	res.Raw = raw
	res.Week = week

	p.log.Debug().
		Uint16("address", b.Address).
		Uint16("quantity", b.Quantity).
		Str("version", res.Version).
		Msg("week block decoded")

	return res
}
