// internal/modbus/client_test.go
package modbus

import (
	"encoding/binary"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice is a minimal Modbus TCP server backed by a register array.
// It answers FC3 and FC16 only.
type fakeDevice struct {
	mu    sync.Mutex
	regs  [512]uint16
	units []uint8
	ln    net.Listener
}

func startFakeDevice(t *testing.T) *fakeDevice {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	d := &fakeDevice{ln: ln}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go d.serve(conn)
		}
	}()
	return d
}

func (d *fakeDevice) serve(conn net.Conn) {
	defer conn.Close()
	for {
		var hdr [7]byte
		if _, err := io.ReadFull(conn, hdr[:]); err != nil {
			return
		}
		length := binary.BigEndian.Uint16(hdr[4:6])
		pdu := make([]byte, length-1)
		if _, err := io.ReadFull(conn, pdu); err != nil {
			return
		}

		resp := d.handle(hdr[6], pdu)

		out := make([]byte, 7+len(resp))
		copy(out[0:4], hdr[0:4])
		binary.BigEndian.PutUint16(out[4:6], uint16(len(resp)+1))
		out[6] = hdr[6]
		copy(out[7:], resp)
		if _, err := conn.Write(out); err != nil {
			return
		}
	}
}

func (d *fakeDevice) handle(unit uint8, pdu []byte) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.units = append(d.units, unit)

	fc := pdu[0]
	addr := binary.BigEndian.Uint16(pdu[1:3])
	qty := binary.BigEndian.Uint16(pdu[3:5])

	switch fc {
	case 3:
		resp := []byte{fc, byte(qty * 2)}
		for i := uint16(0); i < qty; i++ {
			resp = binary.BigEndian.AppendUint16(resp, d.regs[addr+i])
		}
		return resp
	case 16:
		data := pdu[6:]
		for i := uint16(0); i < qty; i++ {
			d.regs[addr+i] = binary.BigEndian.Uint16(data[2*i:])
		}
		return pdu[0:5]
	default:
		return []byte{fc | 0x80, 0x01}
	}
}

func newTestClient(t *testing.T, d *fakeDevice) *Client {
	t.Helper()
	c, err := New(Config{
		Transport: "tcp",
		Endpoint:  d.ln.Addr().String(),
		UnitID:    1,
		Timeout:   time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// ---- tests ----

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_UnknownTransport(t *testing.T) {
	_, err := New(Config{Transport: "udp", Endpoint: "127.0.0.1:502"})
	assert.Error(t, err)
}

func TestNew_ConnectionFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = New(Config{Endpoint: addr, Timeout: time.Second})
	assert.Error(t, err)
}

func TestClient_WriteThenRead(t *testing.T) {
	d := startFakeDevice(t)
	c := newTestClient(t, d)

	require.NoError(t, c.WriteRegisters(7, 56, []uint16{2, 3, 0, 255}))

	raw, err := c.ReadHoldingRegisters(7, 56, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x02, 0x00, 0x03, 0x00, 0x00, 0x00, 0xFF}, raw)

	d.mu.Lock()
	defer d.mu.Unlock()
	assert.Equal(t, []uint8{7, 7}, d.units, "unit id applied per request")
}

func TestClient_ReadZeroQuantity(t *testing.T) {
	d := startFakeDevice(t)
	c := newTestClient(t, d)

	raw, err := c.ReadHoldingRegisters(1, 0, 0)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestClient_CloseNil(t *testing.T) {
	var c *Client
	assert.NoError(t, c.Close())
}

func TestPackRegisters(t *testing.T) {
	assert.Equal(t, []byte{0x06, 0x00, 0x17, 0x3B}, packRegisters([]uint16{0x0600, 0x173B}))
	assert.Empty(t, packRegisters(nil))
}
