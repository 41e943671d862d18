// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-fantimer/internal/config"
	"github.com/tamzrod/modbus-fantimer/internal/register"
	"github.com/tamzrod/modbus-fantimer/internal/schedule"
)

type readCall struct {
	unitID uint8
	addr   uint16
	qty    uint16
}

type fakeClient struct {
	regs     map[uint16]uint16
	failAddr *uint16
	reads    []readCall
}

func newFakeClient() *fakeClient {
	return &fakeClient{regs: map[uint16]uint16{}}
}

func (f *fakeClient) ReadHoldingRegisters(unitID uint8, addr, qty uint16) ([]byte, error) {
	f.reads = append(f.reads, readCall{unitID: unitID, addr: addr, qty: qty})
	if f.failAddr != nil && *f.failAddr == addr {
		return nil, errors.New("fail fc3")
	}
	out := make([]byte, int(qty)*2)
	for i := uint16(0); i < qty; i++ {
		v := f.regs[addr+i]
		out[2*i] = byte(v >> 8)
		out[2*i+1] = byte(v)
	}
	return out, nil
}

func testConfig(base uint16) Config {
	return Config{
		UnitID:      2,
		BaseAddress: base,
		Interval:    10 * time.Millisecond,
	}
}

// ---- tests ----

func TestPollOnce_Success(t *testing.T) {
	fc := newFakeClient()
	// day 1, interval 0: 06:00 speed 3; speed_before 2
	fc.regs[1000] = 0x0600
	fc.regs[1000+56] = 2
	fc.regs[1000+57] = 3

	p, err := New(testConfig(1000), fc, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce()
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if len(fc.reads) != 1 {
		t.Fatalf("expected 1 read, got %d", len(fc.reads))
	}
	if got := fc.reads[0]; got != (readCall{unitID: 2, addr: 1000, qty: 119}) {
		t.Fatalf("unexpected read geometry: %+v", got)
	}
	if len(res.Raw) != 238 {
		t.Fatalf("expected 238 raw bytes, got %d", len(res.Raw))
	}

	d1 := res.Week[0]
	if d1.Day != 1 || d1.SpeedBefore != 2 {
		t.Fatalf("day 1 mismatch: %+v", d1)
	}
	if d1.Intervals[0].Time != (schedule.Clock{Hour: 6}) || d1.Intervals[0].Speed != 3 {
		t.Fatalf("day 1 interval 0 mismatch: %+v", d1.Intervals[0])
	}
	if res.Version != register.VersionUnknown {
		t.Fatalf("expected unknown version, got %q", res.Version)
	}
	if days := res.Days(); len(days) != 7 {
		t.Fatalf("expected 7 day texts, got %d", len(days))
	}
}

func TestPollOnce_ReadFailure(t *testing.T) {
	fc := newFakeClient()
	base := uint16(0)
	fc.failAddr = &base

	p, err := New(testConfig(base), fc, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce()
	if res.Err == nil {
		t.Fatalf("expected error, got nil")
	}
	if res.Days() != nil {
		t.Fatalf("failed result must not render days")
	}
}

func TestPollOnce_DecodeFailure(t *testing.T) {
	fc := newFakeClient()
	fc.regs[56+2*9] = 9 // day 3 speed_before

	p, err := New(testConfig(0), fc, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce()
	if !errors.Is(res.Err, schedule.ErrInvalidData) {
		t.Fatalf("expected invalid data, got %v", res.Err)
	}
	if res.Raw != nil {
		t.Fatalf("raw must not be committed on failure")
	}
}

func TestPollOnce_Version(t *testing.T) {
	fc := newFakeClient()
	va := uint16(500)
	fc.regs[va] = 0x0105

	c := testConfig(0)
	c.VersionAddress = &va
	p, err := New(c, fc, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce()
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if res.Version != "1.5" {
		t.Fatalf("expected version 1.5, got %q", res.Version)
	}
}

func TestPollOnce_VersionFailureIsNotFatal(t *testing.T) {
	fc := newFakeClient()
	va := uint16(500)
	fc.failAddr = &va

	c := testConfig(0)
	c.VersionAddress = &va
	p, _ := New(c, fc, zerolog.Nop())

	res := p.PollOnce()
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if res.Version != register.VersionUnknown {
		t.Fatalf("expected unknown version, got %q", res.Version)
	}
}

func TestNew_Rejects(t *testing.T) {
	if _, err := New(testConfig(0), nil, zerolog.Nop()); err == nil {
		t.Fatalf("expected nil client error")
	}
	if _, err := New(testConfig(65500), newFakeClient(), zerolog.Nop()); err == nil {
		t.Fatalf("expected address space error")
	}
}

func TestBuild_FromConfig(t *testing.T) {
	va := uint16(9)
	c := &config.Config{
		Device:   config.DeviceConfig{Endpoint: "ep", UnitID: 4},
		Schedule: config.ScheduleConfig{BaseAddress: 200, VersionAddress: &va},
		Poll:     config.PollConfig{IntervalMs: 250},
	}

	p, err := Build(c, newFakeClient(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}
	if p.cfg.UnitID != 4 || p.cfg.BaseAddress != 200 || p.cfg.Interval != 250*time.Millisecond {
		t.Fatalf("unexpected poller config: %+v", p.cfg)
	}
}

func TestRun_EmitsUntilCancelled(t *testing.T) {
	p, err := New(testConfig(0), newFakeClient(), zerolog.Nop())
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan PollResult)
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, out) }()

	for i := 0; i < 2; i++ {
		select {
		case res := <-out:
			if res.Err != nil {
				t.Fatalf("poll %d err=%v", i, res.Err)
			}
		case <-time.After(time.Second):
			t.Fatalf("no poll result %d", i)
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop")
	}
}

func TestRun_RequiresInterval(t *testing.T) {
	c := testConfig(0)
	c.Interval = 0
	p, _ := New(c, newFakeClient(), zerolog.Nop())

	if err := p.Run(context.Background(), make(chan PollResult)); err == nil {
		t.Fatalf("expected interval error")
	}
}
