// internal/writer/writer.go
package writer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-fantimer/internal/plan"
)

// endpointClient is the exact contract the writer uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// Writer executes register write plans against one device.
// Batches go out strictly in plan order; the first failure stops the run.
type Writer struct {
	cfg    Config
	client endpointClient
	log    zerolog.Logger
}

func New(cfg Config, client endpointClient, log zerolog.Logger) *Writer {
	return &Writer{
		cfg:    cfg,
		client: client,
		log:    log,
	}
}

// Write executes batches in order.
// The returned Result counts what was written before any failure.
func (w *Writer) Write(ctx context.Context, batches []plan.RegisterWrite) (Result, error) {
	var res Result
	for _, b := range batches {
		if err := w.send(ctx, &res, b); err != nil {
			return res, err
		}
	}
	return res, nil
}

// WriteDays parses and writes a week of day texts, one day at a time.
// A day that fails to parse stops the run after the earlier days were
// written, matching how the device firmware queued its writes.
func (w *Writer) WriteDays(ctx context.Context, days []string) (Result, error) {
	var res Result
	err := plan.Emit(w.cfg.BaseAddress, days, func(b plan.RegisterWrite) error {
		return w.send(ctx, &res, b)
	})
	return res, err
}

func (w *Writer) send(ctx context.Context, res *Result, b plan.RegisterWrite) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if res.Batches > 0 && w.cfg.BatchDelay > 0 {
		t := time.NewTimer(w.cfg.BatchDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	if err := w.client.WriteRegisters(w.cfg.UnitID, b.Address, b.Values); err != nil {
		return fmt.Errorf(
			"writer: unit=%d addr=%d qty=%d: %w",
			w.cfg.UnitID, b.Address, len(b.Values), err,
		)
	}

	res.Batches++
	res.Registers += len(b.Values)

	w.log.Debug().
		Uint16("address", b.Address).
		Int("quantity", len(b.Values)).
		Msg("batch written")

	return nil
}
