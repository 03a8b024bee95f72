package container

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/etemenanki/ziggurat/component"
	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
)

var testUUID = uuid.MustParse("a0b1c2d3-e4f5-4789-8abc-def012345678")

func writeContainer(t *testing.T, c *Container) []byte {
	t.Helper()

	var buf bytes.Buffer
	n, err := c.Write(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	return buf.Bytes()
}

// bomEntry is a parsed Block Offset Map descriptor.
type bomEntry struct {
	ctype  format.ComponentType
	mode   format.StorageMode
	name   string
	offset int64
	size   int64
	p1, p2 int64
}

func parseBOM(t *testing.T, raw []byte) []bomEntry {
	t.Helper()

	count := int(raw[14])
	require.Equal(t, raw[14], raw[15], "allocated and used counters must match")

	entries := make([]bomEntry, 0, count)
	for i := 0; i < count; i++ {
		e := raw[HeaderSize+i*BOMEntrySize:]
		require.Equal(t, byte(0x01), e[0], "present marker")
		entries = append(entries, bomEntry{
			ctype:  format.ComponentType(e[1]),
			mode:   format.StorageMode(e[2]),
			name:   strings.TrimRight(string(e[3:16]), "\x00"),
			offset: int64(binary.LittleEndian.Uint64(e[16:24])),
			size:   int64(binary.LittleEndian.Uint64(e[24:32])),
			p1:     int64(binary.LittleEndian.Uint64(e[32:40])),
			p2:     int64(binary.LittleEndian.Uint64(e[40:48])),
		})
	}

	return entries
}

func TestContainer_EmptyPrimary(t *testing.T) {
	c, err := New(format.ContainerPrimaryLayer, nil, 0, 0, testUUID)
	require.NoError(t, err)

	raw := writeContainer(t, c)
	require.Len(t, raw, HeaderSize, "a component-less container is exactly the header")

	require.Equal(t, "Ziggurat", string(raw[0:8]))
	require.Equal(t, "1.0", string(raw[8:11]))
	require.Equal(t, "ZLp", string(raw[11:14]))
	require.Equal(t, byte(0), raw[14])
	require.Equal(t, byte(0), raw[15])
	require.Equal(t, testUUID[:], raw[16:32])
	require.Equal(t, make([]byte, 32), raw[32:64], "absent base UUIDs are zero")
	require.Equal(t, uint64(0), binary.LittleEndian.Uint64(raw[64:72]))
	require.Equal(t, uint64(0), binary.LittleEndian.Uint64(raw[72:80]))
	require.Equal(t, make([]byte, 8), raw[80:88], "extensions reserved")
}

func TestContainer_HeaderFields(t *testing.T) {
	base := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")
	v, err := component.NewVector([]int64{7}, "IntStream", 1, 1)
	require.NoError(t, err)

	c, err := New(format.ContainerInteger, []component.Component{v}, 1, 1, testUUID,
		WithBase(base), WithComment("p-attr idx"))
	require.NoError(t, err)

	raw := writeContainer(t, c)
	require.Equal(t, "ZVi", string(raw[11:14]))
	require.Equal(t, base[:], raw[32:48])
	require.Equal(t, make([]byte, 16), raw[48:64])
	require.Equal(t, uint64(1), binary.LittleEndian.Uint64(raw[64:72]))
	require.Equal(t, uint64(1), binary.LittleEndian.Uint64(raw[72:80]))

	comment := raw[88:160]
	require.True(t, bytes.HasPrefix(comment, []byte("p-attr idx encoded with ziggurat-go")))
	require.Equal(t, byte(0), comment[len(comment)-1], "comment is NUL padded")
}

func TestContainer_OffsetsAlignedAndMonotonic(t *testing.T) {
	// Component sizes 4, 24, 17 provoke padding before and after.
	s, err := component.NewStringList([][]byte{[]byte("cat")}, "StringData", 1)
	require.NoError(t, err)
	v, err := component.NewVector([]int64{0, 4, 9}, "OffsetStream", 3, 1)
	require.NoError(t, err)
	s2, err := component.NewStringList([][]byte{[]byte("0123456789abcdef")}, "Extra", 1)
	require.NoError(t, err)

	c, err := New(format.ContainerPlainString, []component.Component{s, v, s2}, 1, 0, testUUID)
	require.NoError(t, err)

	raw := writeContainer(t, c)
	entries := parseBOM(t, raw)
	require.Len(t, entries, 3)

	prevEnd := DataStart(3)
	for i, e := range entries {
		require.Zero(t, e.offset%8, "offset of component %d must be 8-byte aligned", i)
		require.GreaterOrEqual(t, e.offset, prevEnd)
		require.Less(t, e.offset-prevEnd, int64(8), "padding must stay below 8 bytes")
		prevEnd = e.offset + e.size
	}
	require.Equal(t, int64(304), entries[0].offset)
	require.Equal(t, int64(312), entries[1].offset, "4-byte StringData is padded to the next 8-byte boundary")
	require.Equal(t, int64(336), entries[2].offset)
	require.Equal(t, int64(len(raw)), prevEnd, "file ends with the last component")

	// The pad bytes between components must be zero.
	require.Equal(t, make([]byte, entries[1].offset-(entries[0].offset+entries[0].size)),
		raw[entries[0].offset+entries[0].size:entries[1].offset])
}

func TestContainer_CommentTooLong(t *testing.T) {
	_, err := New(format.ContainerPrimaryLayer, nil, 0, 0, testUUID,
		WithComment(strings.Repeat("x", 72)))
	require.ErrorIs(t, err, errs.ErrCommentTooLong)

	// The attribution suffix counts against the cap.
	_, err = New(format.ContainerPrimaryLayer, nil, 0, 0, testUUID,
		WithComment(strings.Repeat("x", 50)))
	require.ErrorIs(t, err, errs.ErrCommentTooLong)
}

func TestContainer_InvalidType(t *testing.T) {
	_, err := New("ZV", nil, 0, 0, testUUID)
	require.ErrorIs(t, err, errs.ErrInvalidContainerType)

	_, err = New("ZVcc", nil, 0, 0, testUUID)
	require.ErrorIs(t, err, errs.ErrInvalidContainerType)
}

func TestContainer_TooManyComponents(t *testing.T) {
	comps := make([]component.Component, 0, MaxComponents+1)
	for i := 0; i <= MaxComponents; i++ {
		v, err := component.NewVector(nil, "V", 0, 1)
		require.NoError(t, err)
		comps = append(comps, v)
	}

	_, err := New(format.ContainerPlainString, comps, 0, 0, testUUID)
	require.ErrorIs(t, err, errs.ErrTooManyComponents)
}

func TestAlignOffset(t *testing.T) {
	require.Equal(t, int64(0), AlignOffset(0))
	require.Equal(t, int64(8), AlignOffset(1))
	require.Equal(t, int64(8), AlignOffset(8))
	require.Equal(t, int64(16), AlignOffset(9))
}

func TestDataStart(t *testing.T) {
	require.Equal(t, int64(160), DataStart(0))
	require.Equal(t, int64(304), DataStart(3))
}
