// Package compress provides transparent decompression for VRT input streams.
//
// Corpus sources are routinely stored compressed; the reader sniffs the
// stream's magic bytes and wraps it with the matching decompressor, so the
// ingestion front-end can treat every input as plain text. Supported formats
// are gzip, Zstandard, LZ4 frames, and the s2/snappy framed stream.
package compress

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/etemenanki/ziggurat/errs"
)

// Format identifies the compression format of an input stream.
type Format uint8

const (
	FormatNone   Format = 0x0 // FormatNone is uncompressed input.
	FormatGzip   Format = 0x1 // FormatGzip is a gzip stream.
	FormatZstd   Format = 0x2 // FormatZstd is a Zstandard stream.
	FormatLZ4    Format = 0x3 // FormatLZ4 is an LZ4 frame stream.
	FormatSnappy Format = 0x4 // FormatSnappy is an s2/snappy framed stream.
)

func (f Format) String() string {
	switch f {
	case FormatNone:
		return "None"
	case FormatGzip:
		return "Gzip"
	case FormatZstd:
		return "Zstd"
	case FormatLZ4:
		return "LZ4"
	case FormatSnappy:
		return "Snappy"
	default:
		return "Unknown"
	}
}

// magicLen is the number of leading bytes needed to identify all formats.
const magicLen = 4

// Detect identifies the compression format from the first bytes of a stream.
// Streams shorter than four bytes are treated as uncompressed unless they
// begin with the two-byte gzip magic.
func Detect(magic []byte) Format {
	if len(magic) < 2 {
		return FormatNone
	}
	if magic[0] == 0x1f && magic[1] == 0x8b {
		return FormatGzip
	}
	if len(magic) < magicLen {
		return FormatNone
	}

	switch {
	case magic[0] == 0x28 && magic[1] == 0xb5 && magic[2] == 0x2f && magic[3] == 0xfd:
		return FormatZstd
	case magic[0] == 0x04 && magic[1] == 0x22 && magic[2] == 0x4d && magic[3] == 0x18:
		return FormatLZ4
	case magic[0] == 0xff && magic[1] == 0x06 && magic[2] == 0x00 && magic[3] == 0x00:
		return FormatSnappy
	default:
		return FormatNone
	}
}

// NewReader sniffs r's magic bytes and wraps it with the matching
// decompressor. Uncompressed input is passed through buffered.
func NewReader(r io.Reader) (io.Reader, Format, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(magicLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, FormatNone, fmt.Errorf("sniff input: %w", err)
	}

	format := Detect(magic)
	wrapped, err := newFormatReader(br, format)
	if err != nil {
		return nil, format, fmt.Errorf("open %s input: %w", format, err)
	}

	return wrapped, format, nil
}

// newFormatReader constructs the decompressing reader for a known format.
func newFormatReader(r io.Reader, format Format) (io.Reader, error) {
	switch format {
	case FormatNone:
		return r, nil
	case FormatGzip:
		return newGzipReader(r)
	case FormatZstd:
		return newZstdReader(r)
	case FormatLZ4:
		return newLZ4Reader(r)
	case FormatSnappy:
		return newSnappyReader(r)
	default:
		return nil, errs.ErrUnknownCompression
	}
}
