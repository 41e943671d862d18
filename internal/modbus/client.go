// internal/modbus/client.go
package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Client is a single connection to the ventilation unit, TCP or RTU.
// It serializes requests because it mutates SlaveId per request.
// It satisfies both poller.Client and the writer's endpoint client.
type Client struct {
	mu      sync.Mutex
	handler handler
	client  modbus.Client
}

// handler is the part of the goburrow handlers the client drives.
type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
	setUnitID(id uint8)
}

type Config struct {
	Transport string // tcp | rtu
	Endpoint  string // host:port or serial device
	UnitID    uint8
	Timeout   time.Duration

	BaudRate int
	DataBits int
	Parity   string
	StopBits int
}

// New creates a connected client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus client: endpoint required")
	}

	var h handler
	switch cfg.Transport {
	case "", "tcp":
		th := modbus.NewTCPClientHandler(cfg.Endpoint)
		th.Timeout = cfg.Timeout
		th.SlaveId = cfg.UnitID
		h = &tcpHandler{th}
	case "rtu":
		rh := modbus.NewRTUClientHandler(cfg.Endpoint)
		rh.BaudRate = cfg.BaudRate
		rh.DataBits = cfg.DataBits
		rh.Parity = cfg.Parity
		rh.StopBits = cfg.StopBits
		rh.Timeout = cfg.Timeout
		rh.SlaveId = cfg.UnitID
		h = &rtuHandler{rh}
	default:
		return nil, fmt.Errorf("modbus client: unknown transport %q", cfg.Transport)
	}

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("modbus client: connect %s: %w", cfg.Endpoint, err)
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ReadHoldingRegisters reads qty registers (FC3) and returns them as raw
// big-endian bytes.
func (c *Client) ReadHoldingRegisters(unitID uint8, addr, qty uint16) ([]byte, error) {
	if qty == 0 {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.setUnitID(unitID)

	raw, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}

	// Best-effort sanity check (geometry only).
	if len(raw) != int(qty)*2 {
		return nil, fmt.Errorf("modbus: read-registers payload %d bytes, want %d", len(raw), int(qty)*2)
	}
	return raw, nil
}

// WriteRegisters writes regs starting at addr in one FC16 request.
func (c *Client) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.setUnitID(unitID)

	qty := uint16(len(regs))
	payload := packRegisters(regs)

	_, err := c.client.WriteMultipleRegisters(addr, qty, payload)
	return err
}

// ---- handler adapters ----

type tcpHandler struct {
	*modbus.TCPClientHandler
}

func (h *tcpHandler) setUnitID(id uint8) { h.SlaveId = id }

type rtuHandler struct {
	*modbus.RTUClientHandler
}

func (h *rtuHandler) setUnitID(id uint8) { h.SlaveId = id }

// ---- helpers (pure geometry) ----

// packRegisters lays regs out in Modbus register order, big-endian.
func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		binary.BigEndian.PutUint16(out[2*i:], r)
	}
	return out
}
