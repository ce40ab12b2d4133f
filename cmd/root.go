// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Handshake flags
	printerModel string
)

var rootCmd = &cobra.Command{
	Use:   "eggprinter",
	Short: "Two-axis egg printer controller",
	Long: `eggprinter drives a two-axis pen plotter that draws on the surface of a
slowly rotating egg.

It speaks a small binary protocol to firmware listening on a serial port or
a WebSocket bridge: synchronize, handshake, then one request/response
exchange at a time for pen, move, dot, and line commands.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the
EGGPRINTER_PASSWORD environment variable, or prompted interactively if not
set. The --password flag is intentionally not provided to avoid leaking
credentials in shell history.`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().StringVar(&printerModel, "model", "", "Printer model name, passed to the handshake")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
