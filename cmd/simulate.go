// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eggwerks/eggprinter/pkg/diagnostics"
	"github.com/eggwerks/eggprinter/pkg/eggwire"
	"github.com/eggwerks/eggprinter/pkg/firmware"
	"github.com/eggwerks/eggprinter/pkg/hostsession"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Exercise the full protocol against an in-process firmware simulator",
	Long: `Run the printer protocol end to end without any physical hardware
attached: a firmware.Listener drives an in-memory motion simulator on one
end of a pipe, and a hostsession.Session drives it from the other.

This is useful for verifying the host-side code path (handshake, begin,
pen, move, dot, line, end) is wired correctly before ever touching a real
port, the same role cmd/packet_test.go filled for the wire codec this
protocol replaces.

Exit codes:
  0 - every step succeeded
  1 - a step failed`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}

type pipeConn struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (c pipeConn) Read(p []byte) (int, error)  { return c.r.Read(p) }
func (c pipeConn) Write(p []byte) (int, error) { return c.w.Write(p) }
func (c pipeConn) Close() error {
	c.r.Close()
	return c.w.Close()
}

func newSimulatedLoopback() (host, listener pipeConn) {
	hostToListenerR, hostToListenerW := io.Pipe()
	listenerToHostR, listenerToHostW := io.Pipe()

	host = pipeConn{r: listenerToHostR, w: hostToListenerW}
	listener = pipeConn{r: hostToListenerR, w: listenerToHostW}
	return host, listener
}

func runSimulate(cmd *cobra.Command, args []string) error {
	fmt.Println("eggprinter - Simulate")

	host, listenerConn := newSimulatedLoopback()
	machine, _, _, _, _ := firmware.NewSimMachine()
	l := firmware.NewListener(listenerConn, machine)

	serve := func() <-chan error {
		done := make(chan error, 1)
		go func() { done <- l.RunOnce() }()
		return done
	}

	failed := 0
	step := func(name string, fn func() error) {
		fmt.Printf("%-12s ", name)
		done := serve()
		err := fn()
		if err == nil {
			err = <-done
		} else {
			<-done
		}
		if err != nil {
			fmt.Printf("FAIL: %v\n", err)
			failed++
			return
		}
		fmt.Println("ok")
	}

	var sess *hostsession.Session
	step("open", func() error {
		var err error
		sess, err = hostsession.Open(host, hostsession.Options{Model: "simulated"})
		return err
	})
	if sess == nil {
		fmt.Fprintln(os.Stderr, "cannot continue without an open session")
		os.Exit(1)
	}
	defer sess.Close()

	step("begin", func() error { return sess.SendBegin() })
	step("pen-down", func() error { _, err := sess.SendPen(eggwire.PenDown); return err })
	step("move", func() error {
		_, err := sess.SendMove([]eggwire.Point{{X: 10, Y: 10}, {X: 20, Y: -10}})
		return err
	})
	step("dot", func() error { return sess.SendDot(eggwire.Point{X: 0, Y: 0}) })
	step("line", func() error { return sess.SendLine(eggwire.Point{X: 0, Y: 0}, eggwire.Point{X: 50, Y: 50}) })
	step("pen-up", func() error { _, err := sess.SendPen(eggwire.PenUp); return err })
	step("end", func() error { return sess.SendEnd() })

	fmt.Println()
	fmt.Print(diagnostics.Report(sess.Stats.Snapshot()))

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d step(s) failed\n", failed)
		os.Exit(1)
	}
	return nil
}
