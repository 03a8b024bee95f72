package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePAttrs(t *testing.T) {
	attrs, err := parsePAttrs(stringList{"word", "pos:indexed", "idx:skip", "head:ptr"}, "idx")
	require.NoError(t, err)
	require.Equal(t, []pAttr{
		{name: "word", typ: "indexed"},
		{name: "pos", typ: "indexed"},
		{name: "idx", typ: "skip"},
		{name: "head", typ: "ptr"},
	}, attrs)

	_, err = parsePAttrs(stringList{"word:bogus"}, "")
	require.Error(t, err)

	_, err = parsePAttrs(stringList{"a:ptr", "b:ptr"}, "a")
	require.Error(t, err, "only one pointer attribute per run")

	_, err = parsePAttrs(stringList{"head:ptr"}, "")
	require.Error(t, err, "pointer attributes need a ptr-base")

	_, err = parsePAttrs(stringList{"head:ptr"}, "missing")
	require.Error(t, err, "ptr-base must be declared")
}

func TestParseAnnos(t *testing.T) {
	annos, err := parseAnnos(stringList{"text+url:plain", "text+year:int", "s+type:indexed"})
	require.NoError(t, err)
	require.Equal(t, []sAnno{{name: "url", typ: "plain"}, {name: "year", typ: "int"}}, annos["text"])
	require.Equal(t, []sAnno{{name: "type", typ: "indexed"}}, annos["s"])

	_, err = parseAnnos(stringList{"nosep"})
	require.Error(t, err)

	_, err = parseAnnos(stringList{"text+url:bogus"})
	require.Error(t, err)
}
