package vrt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/store"
)

// ParseSet splits a raw set attribute value on '|' and drops empty and
// duplicate members. The conventional VRT form wraps members in pipes, as in
// "|a|b|", so leading and trailing separators are harmless.
func ParseSet(v []byte) []string {
	parts := bytes.Split(bytes.TrimSpace(v), []byte{'|'})
	seen := make(map[string]struct{}, len(parts))
	members := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		s := string(p)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		members = append(members, s)
	}

	return members
}

// Ints drains it and parses exactly n integer values. A value that does not
// parse takes the default when one is given; otherwise the scan aborts.
func Ints(it store.ValueIter, n int64, def *int64) ([]int64, error) {
	if err := it.Reset(); err != nil {
		return nil, fmt.Errorf("reset input: %w", err)
	}

	vals := make([]int64, 0, n)
	for {
		v, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		parsed, perr := strconv.ParseInt(string(bytes.TrimSpace(v)), 10, 64)
		if perr != nil {
			if def == nil {
				return nil, fmt.Errorf("position %d: %q: %w", len(vals), v, errs.ErrNotInteger)
			}
			parsed = *def
		}
		if int64(len(vals)) == n {
			return nil, errs.ErrSizeMismatch
		}
		vals = append(vals, parsed)
	}
	if int64(len(vals)) != n {
		return nil, errs.ErrSizeMismatch
	}

	return vals, nil
}
