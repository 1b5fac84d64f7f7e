package edi

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/testutil"
)

func buildSample(t *testing.T, content string) *Document {
	t.Helper()
	segments, err := Tokenize(content, DefaultDelimiters())
	require.NoError(t, err)
	doc, err := BuildDocument(segments)
	require.NoError(t, err)
	return doc
}

func TestBuildDocument_SampleDocument(t *testing.T) {
	doc := buildSample(t, testutil.SamplePurchaseOrder)

	assert.Equal(t, "00", doc.Purpose)
	assert.Equal(t, "NE", doc.POType)
	assert.Equal(t, "PO-2024-0001", doc.PONumber)
	assert.Equal(t, "20240115", doc.PODate)

	assert.Equal(t, "4405197800", doc.Interchange.SenderID)
	assert.Equal(t, "999999999", doc.Interchange.ReceiverID)
	assert.Equal(t, "000000101", doc.Interchange.ControlNumber)
	assert.Equal(t, "P", doc.Interchange.UsageIndicator)

	assert.Equal(t, "PO", doc.Group.FunctionalCode)
	assert.Equal(t, "004010", doc.Group.Version)
	assert.Equal(t, "101", doc.Group.ControlNumber)

	require.Len(t, doc.References, 2)
	assert.Equal(t, Reference{Qualifier: "DP", Value: "054"}, doc.References[0])
	assert.Equal(t, Reference{Qualifier: "CO", Value: "CUST-88421"}, doc.References[1])

	require.Len(t, doc.Parties, 3)
	assert.Equal(t, "BY", doc.Parties[0].Role)
	assert.Equal(t, "Meridian Retail Group", doc.Parties[0].Name)

	shipTo := doc.Parties[1]
	assert.Equal(t, "ST", shipTo.Role)
	assert.Equal(t, "DC-EAST-42", shipTo.ID)
	assert.Equal(t, []string{"450 Logistics Parkway"}, shipTo.AddressLines)
	assert.Equal(t, "Columbus", shipTo.City)
	assert.Equal(t, "OH", shipTo.State)
	assert.Equal(t, "43004", shipTo.PostalCode)

	vendor := doc.Parties[2]
	assert.Equal(t, "VN", vendor.Role)
	assert.Equal(t, "Global Supply Co", vendor.Name)
	assert.Equal(t, "VEND-7731", vendor.ID)

	require.Len(t, doc.LineItems, 3)
	first := doc.LineItems[0]
	assert.Equal(t, 1, first.LineNumber)
	assert.True(t, first.Quantity.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "EA", first.UnitOfMeasure)
	assert.True(t, first.UnitPrice.Equal(decimal.RequireFromString("25.50")))
	assert.Equal(t, "VN", first.ProductIDQualifier)
	assert.Equal(t, "SKU-001122", first.ProductID)
	assert.Equal(t, "Industrial Widget Type A", first.Description)

	assert.Equal(t, "Bulk Packing Material", doc.LineItems[2].Description)

	assert.Equal(t, 3, doc.Summary.LineItemCount)
	require.NotNil(t, doc.Summary.HashTotal)
	assert.Equal(t, 350, *doc.Summary.HashTotal)

	assert.Equal(t, "17", doc.Control.SegmentCount)
	assert.Equal(t, "0001", doc.Control.TransactionSetControl)
	assert.Equal(t, "1", doc.Control.GroupTransactionCount)
	assert.Equal(t, "1", doc.Control.InterchangeGroupCount)
	assert.Equal(t, "000000101", doc.Control.InterchangeControl)

	assert.Len(t, doc.SegmentIDs, 21)
	assert.Equal(t, "ISA", doc.SegmentIDs[0])
}

func TestBuildDocument_MissingRequiredSegments(t *testing.T) {
	tests := []struct {
		name    string
		drop    string
		segment string
	}{
		{"missing transaction header", "BEG*00*NE*PO-2024-0001**20240115~", "BEG"},
		{"missing summary trailer", "CTT*3*350~", "CTT"},
		{"missing interchange header", "ISA*00*          *00*          *ZZ*4405197800     *ZZ*999999999      *240115*1200*U*00401*000000101*0*P*:~", "ISA"},
		{"missing group header", "GS*PO*4405197800*999999999*20240115*1200*101*X*004010~", "GS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.Replace(testutil.SamplePurchaseOrder, tt.drop, "", 1)
			segments, err := Tokenize(content, DefaultDelimiters())
			require.NoError(t, err)

			_, err = BuildDocument(segments)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeMissingSegment))
			assert.Contains(t, err.Error(), tt.segment)
		})
	}
}

func TestBuildDocument_IncompleteHeaders(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"short ISA", "ISA*00*x~GS*PO*a*b*c*d*e*f*g~BEG*00*NE*P**20240101~CTT*0~"},
		{"short GS", "ISA*00* *00* *ZZ*a*ZZ*b*240101*1200*U*00401*1*0*P*:~GS*PO~BEG*00*NE*P**20240101~CTT*0~"},
		{"short BEG", "ISA*00* *00* *ZZ*a*ZZ*b*240101*1200*U*00401*1*0*P*:~GS*PO*a*b*c*d*e*f*g~BEG*00~CTT*0~"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := Tokenize(tt.content, DefaultDelimiters())
			require.NoError(t, err)

			_, err = BuildDocument(segments)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeMalformedInput))
		})
	}
}

func TestBuildDocument_NumericLineItemErrors(t *testing.T) {
	tests := []struct {
		name     string
		original string
		replaced string
		contains string
	}{
		{"bad quantity", "PO1*1*100*EA*25.50**VN*SKU-001122~", "PO1*1*abc*EA*25.50**VN*SKU-001122~", "quantity"},
		{"bad unit price", "PO1*2*50*EA*47.25**VN*SKU-003344~", "PO1*2*50*EA*$$$**VN*SKU-003344~", "unit price"},
		{"bad line number", "PO1*3*200*EA*12.00**VN*SKU-005566~", "PO1*x*200*EA*12.00**VN*SKU-005566~", "line number"},
		{"truncated line item", "PO1*1*100*EA*25.50**VN*SKU-001122~", "PO1*1*100~", "PO1 segment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.Replace(testutil.SamplePurchaseOrder, tt.original, tt.replaced, 1)
			segments, err := Tokenize(content, DefaultDelimiters())
			require.NoError(t, err)

			_, err = BuildDocument(segments)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeMalformedInput))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestBuildDocument_BadTrailerTotals(t *testing.T) {
	content := strings.Replace(testutil.SamplePurchaseOrder, "CTT*3*350~", "CTT*three*350~", 1)
	segments, err := Tokenize(content, DefaultDelimiters())
	require.NoError(t, err)

	_, err = BuildDocument(segments)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeMalformedInput))
	assert.Contains(t, err.Error(), "line item count")
}

func TestBuildDocument_TrailerWithoutHash(t *testing.T) {
	content := strings.Replace(testutil.SamplePurchaseOrder, "CTT*3*350~", "CTT*3~", 1)
	doc := buildSample(t, content)

	assert.Equal(t, 3, doc.Summary.LineItemCount)
	assert.Nil(t, doc.Summary.HashTotal)
}

func TestBuildDocument_UnknownSegmentsIgnored(t *testing.T) {
	content := strings.Replace(testutil.SamplePurchaseOrder,
		"REF*DP*054~", "REF*DP*054~\nZZZ*extension*data~", 1)
	doc := buildSample(t, content)

	assert.Equal(t, "PO-2024-0001", doc.PONumber)
	assert.Contains(t, doc.SegmentIDs, "ZZZ")
	assert.Len(t, doc.LineItems, 3)
}

func TestBuildDocument_DescriptionOutsideLoopIgnored(t *testing.T) {
	// A PID before any line item loop has no item to attach to.
	content := strings.Replace(testutil.SamplePurchaseOrder,
		"N1*BY*Meridian Retail Group*92*BUY-001~", "PID*F****Orphan Description~\nN1*BY*Meridian Retail Group*92*BUY-001~", 1)
	doc := buildSample(t, content)

	assert.Equal(t, "Industrial Widget Type A", doc.LineItems[0].Description)
}

func TestBuildDocument_AddressOutsideLoopIgnored(t *testing.T) {
	// Line item loops close the party loop, so a trailing N3 attaches nowhere.
	content := strings.Replace(testutil.SamplePurchaseOrder,
		"PID*F****Industrial Widget Type A~", "PID*F****Industrial Widget Type A~\nN3*999 Stray Street~", 1)
	doc := buildSample(t, content)

	for _, party := range doc.Parties {
		assert.NotContains(t, party.AddressLines, "999 Stray Street")
	}
}

func TestBuildDocument_ShortPartyLoopSkipped(t *testing.T) {
	content := strings.Replace(testutil.SamplePurchaseOrder,
		"N1*BY*Meridian Retail Group*92*BUY-001~", "N1*BY~", 1)
	doc := buildSample(t, content)

	require.Len(t, doc.Parties, 2)
	assert.Equal(t, "ST", doc.Parties[0].Role)
}

func TestBuildDocument_Empty(t *testing.T) {
	_, err := BuildDocument(nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeMalformedInput))
}
