// SPDX-License-Identifier: Apache-2.0

package jobfile

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Encode serializes a Job to CBOR via github.com/fxamacker/cbor/v2, the
// same library the teacher's Fusain Encoder.encodeCBORPayload uses to
// marshal a packet's payload map (see
// _examples/Thermoquad-heliostat/pkg/fusain/encoder.go), chosen here for
// the job file itself so tooling that already understands one binary
// format in this codebase understands both.
func Encode(job Job) ([]byte, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	data, err := cbor.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("jobfile: encode: %w", err)
	}
	return data, nil
}

// Decode parses a CBOR-encoded Job and validates it.
func Decode(data []byte) (Job, error) {
	var job Job
	if err := cbor.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("jobfile: decode: %w", err)
	}
	if err := job.Validate(); err != nil {
		return Job{}, err
	}
	return job, nil
}
