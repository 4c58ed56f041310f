package geom

import "errors"

var (
	// ErrInsufficientGeometry is returned when a path cannot yield the
	// requested number of control points (zero length, too few samples).
	ErrInsufficientGeometry = errors.New("insufficient geometry")

	// ErrBadPath is returned for malformed SVG path data.
	ErrBadPath = errors.New("bad path")

	// ErrZeroSize is returned when a viewport has no intrinsic size or no
	// on-screen bounds, so device points cannot be mapped.
	ErrZeroSize = errors.New("viewport has zero size")

	// ErrNonFinite is returned for NaN or infinite coordinates.
	ErrNonFinite = errors.New("non-finite coordinate")
)
