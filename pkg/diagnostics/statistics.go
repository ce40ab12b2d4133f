// SPDX-License-Identifier: Apache-2.0

package diagnostics

import (
	"fmt"
	"time"

	"github.com/eggwerks/eggprinter/pkg/hostsession"
)

// Report renders a hostsession.Counters snapshot as a multi-line summary,
// adapted from pkg/helios_protocol/statistics.go's String() (percentage
// breakdown plus a rates line), with counters renamed from packet-validation
// anomalies to session-level send outcomes.
func Report(c hostsession.Counters) string {
	elapsed := c.LastEvent.Sub(c.StartedAt)

	var ackedPercent, timeoutPercent, protocolPercent, abortPercent, ioPercent float64
	if c.Sent > 0 {
		total := float64(c.Sent)
		ackedPercent = float64(c.Acked) * 100.0 / total
		timeoutPercent = float64(c.Timeouts) * 100.0 / total
		protocolPercent = float64(c.ProtocolErrors) * 100.0 / total
		abortPercent = float64(c.EndpointAborts) * 100.0 / total
		ioPercent = float64(c.IOErrors) * 100.0 / total
	}

	result := fmt.Sprintf("=== Session Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Sent:             %8d\n", c.Sent)
	result += fmt.Sprintf("Acked:            %8d (%.1f%%)\n", c.Acked, ackedPercent)

	if c.Timeouts > 0 {
		result += fmt.Sprintf("Timeouts:         %8d (%.1f%%)\n", c.Timeouts, timeoutPercent)
	}
	if c.ProtocolErrors > 0 {
		result += fmt.Sprintf("Protocol Errors:  %8d (%.1f%%)\n", c.ProtocolErrors, protocolPercent)
	}
	if c.EndpointAborts > 0 {
		result += fmt.Sprintf("Endpoint Aborts:  %8d (%.1f%%)\n", c.EndpointAborts, abortPercent)
	}
	if c.IOErrors > 0 {
		result += fmt.Sprintf("IO Errors:        %8d (%.1f%%)\n", c.IOErrors, ioPercent)
	}

	rate := 0.0
	if elapsed.Seconds() > 0 {
		rate = float64(c.Sent) / elapsed.Seconds()
	}
	result += fmt.Sprintf("Send Rate:        %8.2f req/sec\n", rate)
	result += "==========================================\n"

	return result
}

// FormatUptime renders a duration the way an embedded firmware ping
// response would (spec.md carries no uptime field, but cmd/ping.go reports
// round-trip wall time using this same shape for consistency with the rest
// of the trace output).
func FormatUptime(d time.Duration) string {
	d = d.Round(time.Millisecond)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d.Seconds()
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}
