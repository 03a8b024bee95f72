package vrt

import (
	"bytes"
	"errors"
	"io"
)

// Stats summarizes one scan over a VRT input.
type Stats struct {
	// Positions is the number of token lines, i.e. corpus positions.
	Positions int64
	// Columns is the number of tab-separated columns on the first token line.
	Columns int
	// SpanCounts maps each structural tag to its number of complete spans.
	SpanCounts map[string]int64
}

// Scan reads the whole input once and collects corpus dimensions. Malformed
// tag lines are skipped; the encoding passes report them when strict parsing
// is requested.
func Scan(f *File) (Stats, error) {
	if err := f.Reset(); err != nil {
		return Stats{}, err
	}

	stats := Stats{SpanCounts: make(map[string]int64)}
	open := make(map[string]int64)

	for {
		line, err := f.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Stats{}, err
		}

		if len(line) == 0 {
			continue
		}
		if line[0] == '<' {
			name, _, closing, err := parseTagLine(line)
			if err != nil {
				continue
			}
			if closing {
				if open[name] > 0 {
					open[name]--
					stats.SpanCounts[name]++
				}
			} else {
				open[name]++
			}
			continue
		}

		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		if stats.Positions == 0 {
			stats.Columns = bytes.Count(trimmed, []byte{'\t'}) + 1
		}
		stats.Positions++
	}

	return stats, nil
}
