package metric

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch reports that the hypothesis stream and a reference
// stream disagree in length during corpus alignment. Streams must be
// exactly equal length; there is no padding or truncation, and no
// partial score is returned.
var ErrLengthMismatch = errors.New("hypothesis and reference streams have different lengths")

// ErrNoReferences reports that a scoring call received an empty or nil
// reference set where at least one reference segment was required. It
// is checked eagerly, before any statistics are computed.
var ErrNoReferences = errors.New("at least one reference is required")

func lengthMismatch(stream, got, want int) error {
	return fmt.Errorf("reference stream %d has %d segments, expected %d: %w",
		stream, got, want, ErrLengthMismatch)
}
