package edi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/testutil"
)

func TestTokenize_SampleDocument(t *testing.T) {
	segments, err := Tokenize(testutil.SamplePurchaseOrder, DefaultDelimiters())
	require.NoError(t, err)
	require.Len(t, segments, 21)

	assert.Equal(t, "ISA", segments[0].ID)
	assert.Equal(t, "IEA", segments[len(segments)-1].ID)

	var po1Count int
	for _, seg := range segments {
		if seg.ID == "PO1" {
			po1Count++
		}
	}
	assert.Equal(t, 3, po1Count)
}

func TestTokenize_EmptyInput(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\t\n"} {
		_, err := Tokenize(content, DefaultDelimiters())
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeMalformedInput))
	}
}

func TestTokenize_NoSegmentTerminator(t *testing.T) {
	_, err := Tokenize("BEG*00*NE*PO-1**20240115", DefaultDelimiters())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeMalformedInput))
	assert.Contains(t, err.Error(), "segment terminator")
}

func TestTokenize_SplitsElements(t *testing.T) {
	segments, err := Tokenize("BEG*00*NE*PO-1**20240115~CTT*0~", DefaultDelimiters())
	require.NoError(t, err)
	require.Len(t, segments, 2)

	beg := segments[0]
	assert.Equal(t, "BEG", beg.ID)
	assert.Equal(t, []string{"BEG", "00", "NE", "PO-1", "", "20240115"}, beg.Elements)
	assert.Equal(t, "PO-1", beg.Element(3))
	assert.Equal(t, "", beg.Element(4))
	assert.Equal(t, "", beg.Element(99))
}

func TestTokenize_SubElements(t *testing.T) {
	segments, err := Tokenize("SLN*1*A:B:C~", DefaultDelimiters())
	require.NoError(t, err)
	require.Len(t, segments, 1)

	assert.Equal(t, []string{"A", "B", "C"}, segments[0].Components[2])
	assert.Equal(t, []string{"1"}, segments[0].Components[1])
}

func TestTokenize_SkipsEmptyFragments(t *testing.T) {
	segments, err := Tokenize("BEG*00~~~\n~CTT*0~", DefaultDelimiters())
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "BEG", segments[0].ID)
	assert.Equal(t, "CTT", segments[1].ID)
}

func TestTokenize_CustomDelimiters(t *testing.T) {
	content := "BEG|00|NE|PO-9||20240115\nCTT|0\n"
	delims := Delimiters{Segment: "\n", Element: "|", SubElement: "^"}

	segments, err := Tokenize(content, delims)
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "PO-9", segments[0].Element(3))
}

func TestTokenize_ZeroDelimitersUseDefaults(t *testing.T) {
	segments, err := Tokenize("BEG*00*NE*PO-1**20240115~", Delimiters{})
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "BEG", segments[0].ID)
}

func TestTokenize_TrimsWhitespaceAroundSegments(t *testing.T) {
	segments, err := Tokenize("  BEG*00*NE*PO-1**20240115~\n  CTT*0~  ", DefaultDelimiters())
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "BEG", segments[0].ID)
}

func TestTokenize_UnknownIdentifiersPassThrough(t *testing.T) {
	segments, err := Tokenize("ZZZ*custom*data~BEG*00~", DefaultDelimiters())
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "ZZZ", segments[0].ID)
	assert.Equal(t, "custom", segments[0].Element(1))
}

func TestSegment_ElementTrims(t *testing.T) {
	segments, err := Tokenize("ISA*00*   padded   ~", DefaultDelimiters())
	require.NoError(t, err)
	assert.Equal(t, "padded", segments[0].Element(2))
	// Raw element keeps its padding.
	assert.True(t, strings.HasPrefix(segments[0].Elements[2], " "))
}
