package vrt

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// PosIter is a resettable iterator over one positional attribute column.
// It yields the column's raw value for every token line and checksums the
// yielded values so multi-pass consumers can verify the input did not change
// between passes.
type PosIter struct {
	file      *File
	column    int
	totalCols int
	line      int64
	digest    *xxhash.Digest
}

// NewPosIter creates an iterator over the given zero-based column.
// totalCols caps the tab split so a value in the last declared column may
// itself contain tabs; pass 0 when unknown.
func NewPosIter(f *File, column, totalCols int) *PosIter {
	return &PosIter{file: f, column: column, totalCols: totalCols, digest: xxhash.New()}
}

// Reset seeks the input back to the first token line.
func (it *PosIter) Reset() error {
	it.line = 0
	it.digest.Reset()

	return it.file.Reset()
}

// Next returns the column value of the next token line, or io.EOF.
// The returned slice is only valid until the next call.
func (it *PosIter) Next() ([]byte, error) {
	for {
		line, err := it.file.ReadLine()
		if err != nil {
			return nil, err
		}
		it.line++

		if len(line) == 0 || line[0] == '<' {
			continue
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var cols [][]byte
		if it.totalCols > 0 {
			cols = bytes.SplitN(line, []byte{'\t'}, it.totalCols)
		} else {
			cols = bytes.Split(line, []byte{'\t'})
		}
		if it.column >= len(cols) {
			return nil, fmt.Errorf("not enough columns in line %d", it.line)
		}

		v := cols[it.column]
		it.digest.Write(v)             //nolint:errcheck // never fails per hash.Hash contract
		it.digest.Write([]byte{0x00}) //nolint:errcheck
		return v, nil
	}
}

// Sum64 returns the checksum of all values yielded since the last Reset.
func (it *PosIter) Sum64() uint64 {
	return it.digest.Sum64()
}

// Span is one structural region: token positions [Start, End) plus the
// attributes of its opening tag.
type Span struct {
	Start int64
	End   int64
	Attrs map[string]string
}

// SpanIter is a resettable iterator over the spans of one structural tag.
// Spans are yielded in document order of their closing tags, which for
// non-nested tags equals document order of the spans.
type SpanIter struct {
	file    *File
	tag     string
	lenient bool

	pos   int64
	stack []openSpan
}

type openSpan struct {
	start int64
	attrs map[string]string
}

// NewSpanIter creates an iterator over the spans of tag. With lenient set,
// malformed tag lines are skipped instead of aborting the scan.
func NewSpanIter(f *File, tag string, lenient bool) *SpanIter {
	return &SpanIter{file: f, tag: tag, lenient: lenient}
}

// Reset seeks the input back to the start of the document.
func (it *SpanIter) Reset() error {
	it.pos = 0
	it.stack = it.stack[:0]

	return it.file.Reset()
}

// Next returns the next complete span of the iterator's tag, or io.EOF.
func (it *SpanIter) Next() (Span, error) {
	for {
		line, err := it.file.ReadLine()
		if err != nil {
			return Span{}, err
		}

		if len(line) == 0 {
			continue
		}
		if line[0] != '<' {
			if len(bytes.TrimSpace(line)) > 0 {
				it.pos++
			}
			continue
		}

		name, attrs, closing, err := parseTagLine(line)
		if err != nil {
			if it.lenient {
				continue
			}
			return Span{}, err
		}
		if name != it.tag {
			continue
		}

		if !closing {
			it.stack = append(it.stack, openSpan{start: it.pos, attrs: attrs})
			continue
		}
		if len(it.stack) > 0 {
			open := it.stack[len(it.stack)-1]
			it.stack = it.stack[:len(it.stack)-1]

			return Span{Start: open.start, End: it.pos, Attrs: open.attrs}, nil
		}
	}
}

// parseTagLine parses one XML-style tag line into its name, attributes, and
// open/close disposition.
func parseTagLine(line []byte) (string, map[string]string, bool, error) {
	trimmed := bytes.TrimSpace(line)
	if bytes.HasPrefix(trimmed, []byte("</")) {
		name := bytes.TrimSpace(bytes.TrimSuffix(bytes.TrimPrefix(trimmed, []byte("</")), []byte(">")))
		return string(name), nil, true, nil
	}

	dec := xml.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return "", nil, false, fmt.Errorf("malformed tag line %q: %w", trimmed, err)
	}
	start, ok := tok.(xml.StartElement)
	if !ok {
		return "", nil, false, fmt.Errorf("malformed tag line %q", trimmed)
	}

	var attrs map[string]string
	if len(start.Attr) > 0 {
		attrs = make(map[string]string, len(start.Attr))
		for _, a := range start.Attr {
			attrs[a.Name.Local] = a.Value
		}
	}

	return start.Name.Local, attrs, false, nil
}
