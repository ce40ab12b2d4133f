// SPDX-License-Identifier: Apache-2.0

package firmware

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eggwerks/eggprinter/pkg/eggwire"
)

// pipeConn glues one end of two unidirectional io.Pipes into a single
// io.ReadWriter, the same in-memory duplex-loopback shape
// pkg/l0/comm/client_test.go uses to exercise a request/response client
// without real I/O.
type pipeConn struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (c pipeConn) Read(p []byte) (int, error)  { return c.r.Read(p) }
func (c pipeConn) Write(p []byte) (int, error) { return c.w.Write(p) }

func newLoopback() (host, firmware pipeConn) {
	hostToFirmware := newPipe()
	firmwareToHost := newPipe()
	host = pipeConn{r: firmwareToHost.r, w: hostToFirmware.w}
	firmware = pipeConn{r: hostToFirmware.r, w: firmwareToHost.w}
	return host, firmware
}

type rawPipe struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func newPipe() rawPipe {
	r, w := io.Pipe()
	return rawPipe{r: r, w: w}
}

func runListenerOnce(t *testing.T, l *Listener) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- l.RunOnce() }()
	return done
}

func sendRequestAndAwaitResponse(t *testing.T, host pipeConn, req eggwire.Request) eggwire.Response {
	t.Helper()

	_, err := host.Write(eggwire.SyncPreambleBytes())
	require.NoError(t, err)

	ack, err := eggwire.ReadN(host, 4, time.Second)
	require.NoError(t, err)
	require.Equal(t, eggwire.SyncAckBytes(), ack)

	header, err := req.Header()
	require.NoError(t, err)
	_, err = host.Write(header)
	require.NoError(t, err)

	echo, err := eggwire.ReadN(host, 3, time.Second)
	require.NoError(t, err)
	require.Equal(t, req.ExpectedHeaderEcho(), echo)

	_, err = host.Write(req.Body())
	require.NoError(t, err)

	resp, err := eggwire.DecodeResponse(host)
	require.NoError(t, err)
	return resp
}

func TestListenerHandshakeExchange(t *testing.T) {
	host, firmwareConn := newLoopback()
	machine, _, _, _, _ := NewSimMachine()
	l := NewListener(firmwareConn, machine)

	done := runListenerOnce(t, l)
	resp := sendRequestAndAwaitResponse(t, host, eggwire.NewHandshakeRequest())
	require.NoError(t, <-done)

	require.Equal(t, eggwire.CmdHandshakeAck, resp.Command)
	ack, err := eggwire.DecodeHandshakeAck(resp.Payload)
	require.NoError(t, err)
	require.Equal(t, uint8(eggwire.ProtocolVersionMajor), ack.Major)
	require.Equal(t, uint8(eggwire.ProtocolVersionMinor), ack.Minor)
}

func TestListenerBeginEnable(t *testing.T) {
	host, firmwareConn := newLoopback()
	machine, stepperX, stepperY, _, _ := NewSimMachine()
	l := NewListener(firmwareConn, machine)

	done := runListenerOnce(t, l)
	resp := sendRequestAndAwaitResponse(t, host, eggwire.NewBeginRequest())
	require.NoError(t, <-done)

	require.Equal(t, eggwire.CmdBeginAck, resp.Command)
	require.True(t, stepperX.Enabled)
	require.True(t, stepperY.Enabled)
}

func TestListenerPenTogglesServoAndAcks(t *testing.T) {
	host, firmwareConn := newLoopback()
	machine, _, _, servo, _ := NewSimMachine()
	l := NewListener(firmwareConn, machine)

	done := runListenerOnce(t, l)
	resp := sendRequestAndAwaitResponse(t, host, eggwire.NewPenRequest(eggwire.PenDown))
	require.NoError(t, <-done)

	require.Equal(t, eggwire.CmdPenAck, resp.Command)
	require.Equal(t, []byte{eggwire.PenDown.Byte()}, resp.Payload)
	require.Equal(t, 140, servo.Angle)
}

func TestListenerMoveAcksPointCount(t *testing.T) {
	host, firmwareConn := newLoopback()
	machine, _, _, _, _ := NewSimMachine()
	l := NewListener(firmwareConn, machine)

	points := []eggwire.Point{{X: -1, Y: 0}, {X: 0, Y: 0}}
	done := runListenerOnce(t, l)
	resp := sendRequestAndAwaitResponse(t, host, eggwire.NewMoveRequest(points))
	require.NoError(t, <-done)

	require.Equal(t, eggwire.CmdMoveAck, resp.Command)
	require.Equal(t, []byte{2}, resp.Payload)
}

func TestListenerDotSequencesPenAndPosition(t *testing.T) {
	host, firmwareConn := newLoopback()
	machine, _, _, servo, _ := NewSimMachine()
	l := NewListener(firmwareConn, machine)

	done := runListenerOnce(t, l)
	resp := sendRequestAndAwaitResponse(t, host, eggwire.NewDotRequest(eggwire.Point{X: 100, Y: 50}))
	require.NoError(t, <-done)

	require.Equal(t, eggwire.CmdDotAck, resp.Command)
	// Dot ends with the pen down.
	require.Equal(t, 140, servo.Angle)
	x, y := machine.Position()
	require.Equal(t, 100, x)
	require.Equal(t, 50+eggwire.CanvasHeight/2, y)
}

func TestListenerLineSequencesPenAndEndpoints(t *testing.T) {
	host, firmwareConn := newLoopback()
	machine, _, _, _, _ := NewSimMachine()
	l := NewListener(firmwareConn, machine)

	done := runListenerOnce(t, l)
	resp := sendRequestAndAwaitResponse(t, host, eggwire.NewLineRequest(eggwire.Point{X: 0, Y: 0}, eggwire.Point{X: 5, Y: 5}))
	require.NoError(t, <-done)

	require.Equal(t, eggwire.CmdLineAck, resp.Command)
	x, y := machine.Position()
	require.Equal(t, 5, x)
	require.Equal(t, 5+eggwire.CanvasHeight/2, y)
}

func TestListenerSilentlyResyncsOnBadPreamble(t *testing.T) {
	host, firmwareConn := newLoopback()
	machine, _, _, _, _ := NewSimMachine()
	l := NewListener(firmwareConn, machine)

	done := runListenerOnce(t, l)
	_, err := host.Write([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	require.NoError(t, err)

	require.NoError(t, <-done)
}

func TestListenerAbortsOnChecksumMismatch(t *testing.T) {
	host, firmwareConn := newLoopback()
	machine, _, _, _, _ := NewSimMachine()
	l := NewListener(firmwareConn, machine)

	var reportedPhase phase
	var reportedErr error
	l.OnPhaseError = func(p phase, err error) {
		reportedPhase = p
		reportedErr = err
	}

	done := runListenerOnce(t, l)

	_, err := host.Write(eggwire.SyncPreambleBytes())
	require.NoError(t, err)
	_, err = eggwire.ReadN(host, 4, time.Second)
	require.NoError(t, err)

	req := eggwire.NewPenRequest(eggwire.PenDown)
	header, err := req.Header()
	require.NoError(t, err)
	_, err = host.Write(header)
	require.NoError(t, err)
	_, err = eggwire.ReadN(host, 3, time.Second)
	require.NoError(t, err)

	body := req.Body()
	body[len(body)-2] ^= 0xFF // flip a checksum byte
	_, err = host.Write(body)
	require.NoError(t, err)

	_, decodeErr := eggwire.DecodeResponse(host)
	require.ErrorIs(t, decodeErr, eggwire.ErrEndpointAbort)
	require.NoError(t, <-done)

	require.Equal(t, phaseVerify, reportedPhase)
	require.Error(t, reportedErr)
}
