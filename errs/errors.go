// Package errs defines sentinel errors shared across the ziggurat encoder
// packages. Callers match them with errors.Is after unwrapping.
package errs

import "errors"

var (
	// ErrNameTooLong is returned when a component name exceeds 12 ASCII bytes.
	ErrNameTooLong = errors.New("component name exceeds 12 ASCII bytes")

	// ErrCommentTooLong is returned when a container comment, including the
	// encoder attribution suffix, does not fit the 72-byte header field.
	ErrCommentTooLong = errors.New("container comment exceeds 72 byte field")

	// ErrInvalidContainerType is returned for a container type triplet that is
	// not exactly three ASCII characters.
	ErrInvalidContainerType = errors.New("container type must be 3 ASCII characters")

	// ErrTooManyComponents is returned when a container declares more than 255
	// components.
	ErrTooManyComponents = errors.New("container holds more than 255 components")

	// ErrSizeMismatch is returned when an input iterator or slice disagrees
	// with the declared number of positions, or when a component writes a
	// different number of bytes than it reported for BOM layout.
	ErrSizeMismatch = errors.New("length disagrees with declared size")

	// ErrPointerOutOfRange is returned for a pointer head outside {-1} ∪ [0, n-1].
	ErrPointerOutOfRange = errors.New("pointer head out of range")

	// ErrInvalidRange is returned for segmentation ranges that are empty,
	// negative, or not monotonically increasing.
	ErrInvalidRange = errors.New("invalid segmentation range")

	// ErrInputChanged is returned when a resettable input iterator yields
	// different data on a subsequent pass of a multi-pass builder.
	ErrInputChanged = errors.New("input changed between iterator passes")

	// ErrNotInteger is returned when an integer attribute value cannot be
	// parsed and no default value was configured.
	ErrNotInteger = errors.New("value is not an integer")

	// ErrUnknownCompression is returned when a reader is requested for a
	// compression format value that has no decompressor. Streams whose magic
	// bytes match no supported format are read as uncompressed instead.
	ErrUnknownCompression = errors.New("unknown compression format")
)
