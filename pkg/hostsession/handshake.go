// SPDX-License-Identifier: Apache-2.0

package hostsession

import (
	"time"

	"github.com/eggwerks/eggprinter/pkg/eggwire"
)

// Bootstrapper reflashes a stale listener. It is an external collaborator
// (spec.md §6): the core only calls UploadHex when a handshake reports an
// older protocol version, and never inspects the hex contents itself.
type Bootstrapper interface {
	UploadHex(model, portName string, hexLines []string) error
}

// PortEnumerator lists candidate serial ports, used only when the caller
// omits an explicit port name (spec.md §6).
type PortEnumerator interface {
	ListPorts() ([]string, error)
}

// HexProvider resolves a model name to the firmware image lines to
// upload. Opaque to the core beyond that (spec.md §6: "Embedded hex
// resource: indexed by model name; opaque to the core").
type HexProvider func(model string) ([]string, error)

// Options configures Open's synchronization and handshake behavior.
type Options struct {
	// Model names the target hardware, passed through to Bootstrapper and
	// HexProvider and checked against AlwaysRedeploy.
	Model string

	// PortName is the already-resolved port; if empty and PortEnumerator
	// is set, handshake uses it to find a single unambiguous port before
	// calling Bootstrapper.UploadHex. Port resolution for opening the
	// connection itself is a cmd/-level concern; this field and
	// PortEnumerator exist only to name the port a bootstrap reflash
	// should target.
	PortName string

	// PortEnumerator lists candidate ports when PortName is empty and a
	// bootstrap reflash is about to happen. If it reports anything other
	// than exactly one port, the bootstrap fails with a protocol error
	// rather than guessing (spec.md §6).
	PortEnumerator PortEnumerator

	// AutoBootstrap enables reflashing on a stale handshake. If false, a
	// stale listener is a fatal Open error.
	AutoBootstrap bool

	// AlwaysRedeploy lists model names that should always be reflashed
	// on Open regardless of the reported version. This is the corrected
	// form of a version check that could never fire in the original
	// host implementation (spec.md §9): a plain membership test against
	// the model name is what a numeric comparison of a fixed count
	// could never express.
	AlwaysRedeploy []string

	Bootstrapper Bootstrapper
	HexProvider  HexProvider

	// BootstrapGracePeriod is how long Open waits after UploadHex
	// succeeds before retrying the handshake (spec.md §4.1: "a
	// model-dependent grace period").
	BootstrapGracePeriod time.Duration
}

func containsModel(models []string, model string) bool {
	for _, m := range models {
		if m == model {
			return true
		}
	}
	return false
}

const localVersion = eggwire.ProtocolVersionMajor*10 + eggwire.ProtocolVersionMinor

// handshake sends the Handshake request and, if the reported listener
// version is stale (or the model is always redeployed), performs exactly
// one bootstrap/retry cycle before giving up (spec.md §4.1's retry
// policy).
func (s *Session) handshake(opts Options) error {
	ack, err := s.requestHandshake()
	if err != nil {
		return err
	}

	if ack.Version() >= localVersion && !containsModel(opts.AlwaysRedeploy, opts.Model) {
		return nil
	}

	if !opts.AutoBootstrap || opts.Bootstrapper == nil || opts.HexProvider == nil {
		return eggwire.NewProtocolError(eggwire.ErrKindProtocol, "listener version is stale and auto-bootstrap is unavailable", map[string]any{
			"listenerVersion": ack.Version(),
			"hostVersion":     localVersion,
		})
	}

	hexLines, err := opts.HexProvider(opts.Model)
	if err != nil {
		return err
	}

	portName := opts.PortName
	if portName == "" && opts.PortEnumerator != nil {
		ports, err := opts.PortEnumerator.ListPorts()
		if err != nil {
			return err
		}
		if len(ports) != 1 {
			return eggwire.NewProtocolError(eggwire.ErrKindProtocol, "cannot auto-bootstrap: port is ambiguous", map[string]any{
				"candidates": ports,
			})
		}
		portName = ports[0]
	}

	if err := opts.Bootstrapper.UploadHex(opts.Model, portName, hexLines); err != nil {
		return err
	}

	if opts.BootstrapGracePeriod > 0 {
		time.Sleep(opts.BootstrapGracePeriod)
	}

	retryAck, err := s.requestHandshake()
	if err != nil {
		return err
	}
	if retryAck.Version() < localVersion {
		return eggwire.NewProtocolError(eggwire.ErrKindProtocol, "listener still stale after bootstrap retry", map[string]any{
			"listenerVersion": retryAck.Version(),
			"hostVersion":     localVersion,
		})
	}
	return nil
}

func (s *Session) requestHandshake() (eggwire.HandshakeAckPayload, error) {
	resp, err := s.send(eggwire.NewHandshakeRequest())
	if err != nil {
		return eggwire.HandshakeAckPayload{}, err
	}
	return eggwire.DecodeHandshakeAck(resp.Payload)
}
