// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eggwerks/eggprinter/pkg/diagnostics"
	"github.com/eggwerks/eggprinter/pkg/hostsession"
)

var pingCount int

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Repeatedly handshake the printer to test connectivity and firmware version",
	Long: `Open a connection, then send Handshake requests in a loop, reporting the
firmware's reported protocol version and round-trip time for each.

This is useful for verifying:
  - the serial port or WebSocket bridge is reachable
  - the firmware answers the synchronization preamble
  - the firmware's protocol version matches this build

Exit codes:
  0 - all handshakes succeeded
  1 - one or more handshakes failed or timed out
  2 - connection error`,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().IntVar(&pingCount, "count", 3, "Number of handshakes to send")
}

func runPing(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("eggprinter - Ping\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Count: %d\n\n", pingCount)

	sess, err := hostsession.Open(conn, hostsession.Options{Model: printerModel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Open failed: %v\n", err)
		os.Exit(2)
	}
	defer sess.Close()

	successCount := 0
	failCount := 0

	for i := 1; i <= pingCount; i++ {
		fmt.Printf("Ping %d/%d: ", i, pingCount)

		start := time.Now()
		result, err := sess.SendHandshake()
		rtt := time.Since(start)

		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
			failCount++
			continue
		}

		fmt.Printf("OK version=%d.%d rtt=%s\n", result.Major, result.Minor, diagnostics.FormatUptime(rtt))
		successCount++

		if i < pingCount {
			time.Sleep(100 * time.Millisecond)
		}
	}

	fmt.Printf("\n--- ping statistics ---\n")
	fmt.Printf("%d sent, %d succeeded, %.0f%% loss\n",
		pingCount, successCount, float64(failCount)/float64(pingCount)*100)
	fmt.Print(diagnostics.Report(sess.Stats.Snapshot()))

	if failCount > 0 {
		os.Exit(1)
	}
	return nil
}
