// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/eggwerks/eggprinter/pkg/diagnostics"
	"github.com/eggwerks/eggprinter/pkg/eggwire"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Display response frames arriving from the printer in human-readable form",
	Long: `Continuously decode and display response frames as they arrive from the
printer's firmware.

Unlike a passive packet sniffer, this reads response frames only: it does
not send requests itself, so it is meant to be run alongside another tool
(or a second connection) that is actually driving the printer, or against a
firmware that emits unsolicited frames outside its normal request/response
cycle for debugging.

Supports both serial and WebSocket connections.`,
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("eggprinter - Trace\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	for {
		resp, err := eggwire.DecodeResponse(conn)
		if err != nil {
			if err == eggwire.ErrEndpointAbort {
				fmt.Printf("[%s] ABORT\n", time.Now().Format("15:04:05.000"))
				continue
			}
			log.Printf("decode error: %v", err)
			continue
		}

		fmt.Print(diagnostics.FormatFrame(time.Now(), diagnostics.DirectionFirmwareToHost, resp.Command, resp.Payload))
	}
}
