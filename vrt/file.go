// Package vrt reads corpora in the VRT line format: one token per line with
// tab-separated positional attributes, and XML-style tag lines delimiting
// structural spans.
//
// The package provides the two resettable iteration interfaces the encoder
// consumes: a positional column iterator yielding one attribute value per
// corpus position, and a structural span iterator yielding (start, end)
// ranges with their tag attributes. Input files may be compressed; the
// stream format is sniffed on open.
package vrt

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/etemenanki/ziggurat/compress"
)

// maxLineSize bounds a single VRT line. Token lines are short; attribute
// values on tag lines can be long, so the cap is generous.
const maxLineSize = 16 * 1024 * 1024

// File is a resettable VRT input. Every Reset seeks the underlying file back
// to the start and rebuilds the decompression stream, so iterators can make
// multiple passes.
type File struct {
	path    string
	f       *os.File
	format  compress.Format
	scanner *bufio.Scanner
}

// Open opens a VRT file and sniffs its compression format.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open VRT input: %w", err)
	}

	vf := &File{path: path, f: f}
	if err := vf.Reset(); err != nil {
		f.Close()
		return nil, err
	}

	return vf, nil
}

// Path returns the input file path.
func (f *File) Path() string {
	return f.path
}

// Format returns the detected compression format.
func (f *File) Format() compress.Format {
	return f.format
}

// Reset seeks back to the start of the input.
func (f *File) Reset() error {
	if _, err := f.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("reset VRT input %s: %w", f.path, err)
	}

	r, format, err := compress.NewReader(f.f)
	if err != nil {
		return fmt.Errorf("reset VRT input %s: %w", f.path, err)
	}
	f.format = format

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	f.scanner = scanner

	return nil
}

// ReadLine returns the next line without its terminator, or io.EOF.
// The returned slice is only valid until the next ReadLine or Reset.
func (f *File) ReadLine() ([]byte, error) {
	if f.scanner.Scan() {
		return f.scanner.Bytes(), nil
	}
	if err := f.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read VRT input %s: %w", f.path, err)
	}

	return nil, io.EOF
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}
