package pixelwise

import "fmt"

// OutOfRangeError reports a DPI or pixel dimension outside its valid domain.
type OutOfRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %g out of range [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

// NoCandidatesError reports that not even the fallback candidate could be
// constructed for a recommendation request.
type NoCandidatesError struct {
	SourceWidth  int
	SourceHeight int
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("no candidates for source %dx%d: dimensions must be positive", e.SourceWidth, e.SourceHeight)
}

// InsufficientMemoryError reports that the optimization pipeline could not
// secure its memory budget, even after a cache cleanup pass.
type InsufficientMemoryError struct {
	RequiredBytes  uint64
	AvailableBytes uint64
}

func (e *InsufficientMemoryError) Error() string {
	return fmt.Sprintf("insufficient memory for optimization: need %d bytes, %d available after cleanup", e.RequiredBytes, e.AvailableBytes)
}

// RenderTimeoutError reports that an optimization run exceeded its
// configured render timeout.
type RenderTimeoutError struct {
	Timeout string
}

func (e *RenderTimeoutError) Error() string {
	return fmt.Sprintf("optimization exceeded render timeout of %s", e.Timeout)
}

// StoreUnavailableError reports a persistence backend failure. It is always
// recovered locally with an in-memory fallback and never surfaced to callers.
type StoreUnavailableError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}
