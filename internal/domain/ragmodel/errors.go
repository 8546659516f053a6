package ragmodel

import "fmt"

// ExtractionError means the document has no usable text. It is the only
// failure that aborts an ingestion outright; there is no retry.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// DimensionError is returned by a fragment store when a vector does not
// match the store's fixed dimension. A mismatched vector must never be
// written because it breaks similarity search for the whole table.
type DimensionError struct {
	Got  int
	Want int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("vector dimension %d, store requires %d", e.Got, e.Want)
}
