//go:build !cgo

package compress

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// newZstdReader wraps r with the pure Go Zstandard decoder.
// Decoding runs single-threaded; VRT ingestion is line-bound anyway.
func newZstdReader(r io.Reader) (io.Reader, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}

	return dec.IOReadCloser(), nil
}
