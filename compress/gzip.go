package compress

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// newGzipReader wraps r with a gzip decompressor. Multistream mode stays
// enabled so concatenated gzip members, as produced by parallel compressors,
// read as one stream.
func newGzipReader(r io.Reader) (io.Reader, error) {
	return gzip.NewReader(r)
}
