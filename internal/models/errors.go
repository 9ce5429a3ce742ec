// ABOUTME: Sentinel errors shared by the board store, storage backends, and callers.
// ABOUTME: Wrap with fmt.Errorf("...: %w") and match with errors.Is.
package models

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAmbiguous     = errors.New("ambiguous prefix")
	ErrDuplicateSlug = errors.New("duplicate slug")
	ErrInvalidMetric = errors.New("invalid metric")
	ErrInvalidDate   = errors.New("invalid date")
	ErrValueType     = errors.New("value does not match metric type")
)
