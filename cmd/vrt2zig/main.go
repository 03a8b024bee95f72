// Command vrt2zig converts a VRT corpus file into a Ziggurat datastore.
//
// Positional attributes are declared in column order with -p and encoded as
// variables on the primary layer; structural attributes are declared with -s
// and encoded as segmentation layers, with their XML tag attributes encoded
// as variables via -a. Compressed input (gzip, zstd, lz4, snappy) is
// detected automatically.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/etemenanki/ziggurat/store"
	"github.com/etemenanki/ziggurat/vrt"
)

// stringList collects values of a repeatable flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// pAttr is one declared positional attribute.
type pAttr struct {
	name string
	typ  string
}

// sAnno is one declared structural annotation.
type sAnno struct {
	name string
	typ  string
}

var pAttrTypes = map[string]bool{
	"indexed": true, "plain": true, "int": true, "delta": true,
	"set": true, "ptr": true, "skip": true,
}

var annoTypes = map[string]bool{
	"indexed": true, "plain": true, "int": true, "delta": true, "set": true,
}

func main() {
	log.SetFlags(0)
	if err := run(); err != nil {
		log.Fatalf("vrt2zig: %v", err)
	}
}

func run() error {
	var (
		pFlags  stringList
		sFlags  stringList
		aFlags  stringList
		output  = flag.String("o", env.Str("VRT2ZIG_OUTPUT", ""), "output directory for the datastore (default: input name without extension)")
		force   = flag.Bool("f", env.Bool("VRT2ZIG_FORCE"), "overwrite the output directory if it exists")
		uncomp  = flag.Bool("u", false, "write every component that has a raw form uncompressed (storage mode 0x00); set and inverted index components stay compressed")
		lenient = flag.Bool("x", false, "skip malformed XML tag lines instead of aborting")
		intDef  = flag.String("int-default", "", "default value for unparseable integer attributes")
		ptrBase = flag.String("ptr-base", "", "p-attribute used as reference for pointer calculation")
	)
	flag.Var(&pFlags, "p", "declare a p-attribute as name[:type]; types: indexed, plain, int, delta, set, ptr, skip (repeatable, column order)")
	flag.Var(&sFlags, "s", "declare an s-attribute by its XML tag name (repeatable)")
	flag.Var(&aFlags, "a", "declare an s-attribute annotation as tag+name:type (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		return errors.New("exactly one VRT input file expected")
	}
	input := flag.Arg(0)

	pAttrs, err := parsePAttrs(pFlags, *ptrBase)
	if err != nil {
		return err
	}
	sAnnos, err := parseAnnos(aFlags)
	if err != nil {
		return err
	}

	var intDefault *int64
	if *intDef != "" {
		var v int64
		if _, err := fmt.Sscanf(*intDef, "%d", &v); err != nil {
			return fmt.Errorf("invalid -int-default %q: %w", *intDef, err)
		}
		intDefault = &v
	}

	file, err := vrt.Open(input)
	if err != nil {
		return err
	}
	defer file.Close()

	log.Printf("Scanning VRT input %s (compression: %s)...", input, file.Format())
	stats, err := vrt.Scan(file)
	if err != nil {
		return err
	}
	log.Printf("\tfound %d p-attr columns", stats.Columns)
	log.Printf("\tfound %d s-attrs: %v", len(stats.SpanCounts), stats.SpanCounts)
	log.Printf("Input corpus has %d corpus positions", stats.Positions)

	if len(pAttrs) > stats.Columns {
		return fmt.Errorf("input has %d columns but %d p-attributes declared", stats.Columns, len(pAttrs))
	}
	for _, tag := range sFlags {
		if _, ok := stats.SpanCounts[tag]; !ok {
			return fmt.Errorf("s-attribute %q not present in input", tag)
		}
	}
	for tag := range sAnnos {
		if _, ok := stats.SpanCounts[tag]; !ok {
			return fmt.Errorf("s-attribute %q for annotations not present in input", tag)
		}
	}
	if len(pAttrs) == 0 && len(sFlags) == 0 && len(sAnnos) == 0 {
		return errors.New("no attributes to encode; declare some with -p, -s, or -a")
	}

	outDir := *output
	if outDir == "" {
		outDir = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	ds, err := store.Create(outDir, *force)
	if err != nil {
		return err
	}
	log.Printf("Using output directory %s", ds.Dir())

	enc := &encoder{
		file:       file,
		ds:         ds,
		stats:      stats,
		pAttrs:     pAttrs,
		ptrBase:    *ptrBase,
		intDefault: intDefault,
		uncomp:     *uncomp,
		lenient:    *lenient,
	}

	return enc.encode(sFlags, sAnnos)
}

// parsePAttrs validates the p-attribute declarations and the pointer plan.
func parsePAttrs(flags stringList, ptrBase string) ([]pAttr, error) {
	attrs := make([]pAttr, 0, len(flags))
	ptrCount := 0
	for _, p := range flags {
		name, typ, found := strings.Cut(p, ":")
		if !found {
			typ = "indexed"
		}
		if !pAttrTypes[typ] {
			return nil, fmt.Errorf("invalid type %q for p-attribute %q", typ, name)
		}
		if typ == "ptr" {
			ptrCount++
		}
		attrs = append(attrs, pAttr{name: name, typ: typ})
	}

	if ptrCount > 1 {
		return nil, errors.New("at most one pointer attribute can be encoded per run")
	}
	if ptrCount == 1 {
		if ptrBase == "" {
			return nil, errors.New("-ptr-base must be given for pointer attributes")
		}
		found := false
		for _, a := range attrs {
			if a.name == ptrBase {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("ptr-base %q is not a declared p-attribute", ptrBase)
		}
	}

	return attrs, nil
}

// parseAnnos validates the s-attribute annotation declarations.
func parseAnnos(flags stringList) (map[string][]sAnno, error) {
	annos := make(map[string][]sAnno)
	for _, a := range flags {
		tag, rest, found := strings.Cut(a, "+")
		if !found {
			return nil, fmt.Errorf("invalid annotation spec %q", a)
		}
		name, typ, found := strings.Cut(rest, ":")
		if !found || !annoTypes[typ] {
			return nil, fmt.Errorf("invalid annotation spec %q", a)
		}
		annos[tag] = append(annos[tag], sAnno{name: name, typ: typ})
	}

	return annos, nil
}
