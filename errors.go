package readback

import "errors"

// Errors returned by Read. Every failure leaves the destination untouched.
var (
	// ErrOutOfBounds is returned when the requested rectangle does not
	// overlap the surface.
	ErrOutOfBounds = errors.New("readback: rectangle does not overlap surface")

	// ErrIncompatibleFormat is returned when the surface encoding cannot be
	// converted into the destination encoding.
	ErrIncompatibleFormat = errors.New("readback: incompatible pixel format")

	// ErrConditionallyIncompatible is returned when a conversion is only
	// legal for opaque contents and the read region is not opaque. It also
	// matches ErrIncompatibleFormat.
	ErrConditionallyIncompatible error = &conditionalError{}

	// ErrInvalidDestination is returned for a destination pixmap that cannot
	// hold the requested pixels.
	ErrInvalidDestination = errors.New("readback: invalid destination")

	// ErrSurfaceUnavailable is returned when the surface contents cannot be
	// accessed, for example after Close or a failed GPU download.
	ErrSurfaceUnavailable = errors.New("readback: surface unavailable")
)

type conditionalError struct{}

func (*conditionalError) Error() string {
	return "readback: source not opaque for opaque-only conversion"
}

func (*conditionalError) Is(target error) bool {
	return target == ErrIncompatibleFormat
}
