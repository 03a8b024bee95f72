package compress

import (
	"io"

	"github.com/klauspost/compress/s2"
)

// newSnappyReader wraps r with an s2 decompressor, which also reads plain
// snappy framed streams.
func newSnappyReader(r io.Reader) (io.Reader, error) {
	return s2.NewReader(r), nil
}
