// internal/writer/types.go
package writer

import "time"

// Config is the minimal runtime config the writer needs.
type Config struct {
	UnitID      uint8
	BaseAddress uint16

	// BatchDelay is the pause between consecutive batches.
	// The device firmware needs time to commit each block.
	BatchDelay time.Duration
}

// Result summarizes one executed plan.
type Result struct {
	Batches   int
	Registers int
}
