// SPDX-License-Identifier: Apache-2.0

package hostsession

import (
	"fmt"
	"sync"
	"time"

	"github.com/eggwerks/eggprinter/pkg/eggwire"
)

// Counters is a point-in-time, lock-free copy of Stats, adapted from
// pkg/helios_protocol/statistics.go's counter set (renamed from
// packet-validation anomalies to session-level events).
type Counters struct {
	Sent           uint64
	Acked          uint64
	Timeouts       uint64
	ProtocolErrors uint64
	EndpointAborts uint64
	IOErrors       uint64

	StartedAt time.Time
	LastEvent time.Time
}

func (c Counters) String() string {
	elapsed := c.LastEvent.Sub(c.StartedAt)
	return fmt.Sprintf(
		"sent=%d acked=%d timeouts=%d protocol_errors=%d endpoint_aborts=%d io_errors=%d elapsed=%s",
		c.Sent, c.Acked, c.Timeouts, c.ProtocolErrors, c.EndpointAborts, c.IOErrors, elapsed.Round(time.Millisecond),
	)
}

// Stats accumulates session-level outcomes behind a mutex so a monitor
// goroutine (cmd/monitor_tui.go) can read counters while sends continue
// concurrently with other callers of the same Session's underlying
// connection lock.
type Stats struct {
	mu       sync.Mutex
	counters Counters
}

// Record accounts for one send outcome. cmd is the request command that
// was attempted; err is what send returned (nil on success).
func (st *Stats) Record(cmd eggwire.Command, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.counters.StartedAt.IsZero() {
		st.counters.StartedAt = time.Now()
	}
	st.counters.LastEvent = time.Now()
	st.counters.Sent++

	if err == nil {
		st.counters.Acked++
		return
	}

	perr, ok := err.(*eggwire.ProtocolError)
	if !ok {
		st.counters.IOErrors++
		return
	}
	switch perr.Kind {
	case eggwire.ErrKindTimeout:
		st.counters.Timeouts++
	case eggwire.ErrKindEndpointAbort:
		st.counters.EndpointAborts++
	case eggwire.ErrKindIO:
		st.counters.IOErrors++
	default:
		st.counters.ProtocolErrors++
	}
}

// Snapshot returns a copy of the current counters.
func (st *Stats) Snapshot() Counters {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.counters
}

func (st *Stats) String() string {
	return st.Snapshot().String()
}
