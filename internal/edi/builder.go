package edi

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"edi-bridge/internal/common/errors"
)

// BuildDocument walks the segment sequence once and assembles a Document,
// dispatching on each segment's identifier. Unrecognized identifiers are
// ignored so documents with extension segments still parse. Party and line
// item loops open at their N1 or PO1 loop-start segment and accumulate
// trailing address or description segments until the next loop opens or the
// trailer is reached.
//
// The interchange header, group header, transaction header, and summary
// trailer are required; a document missing any of them fails rather than
// producing a partial result.
func BuildDocument(segments []Segment) (*Document, error) {
	if len(segments) == 0 {
		return nil, errors.MalformedInputError("no segments to build a document from", nil)
	}

	doc := &Document{}
	partyIdx, itemIdx := -1, -1
	var seenISA, seenGS, seenBEG, seenCTT bool

	for _, seg := range segments {
		doc.SegmentIDs = append(doc.SegmentIDs, seg.ID)

		switch seg.ID {
		case "ISA":
			if len(seg.Elements) < 17 {
				return nil, errors.MalformedInputError(
					fmt.Sprintf("ISA segment has %d elements, expected at least 17", len(seg.Elements)), nil)
			}
			doc.Interchange = InterchangeHeader{
				AuthorizationInfo: seg.Element(2),
				SecurityInfo:      seg.Element(4),
				SenderID:          seg.Element(6),
				ReceiverID:        seg.Element(8),
				Date:              seg.Element(9),
				Time:              seg.Element(10),
				ControlNumber:     seg.Element(13),
				AckRequested:      seg.Element(14),
				UsageIndicator:    seg.Element(15),
			}
			seenISA = true

		case "GS":
			if len(seg.Elements) < 9 {
				return nil, errors.MalformedInputError(
					fmt.Sprintf("GS segment has %d elements, expected at least 9", len(seg.Elements)), nil)
			}
			doc.Group = GroupHeader{
				FunctionalCode:    seg.Element(1),
				SenderCode:        seg.Element(2),
				ReceiverCode:      seg.Element(3),
				Date:              seg.Element(4),
				Time:              seg.Element(5),
				ControlNumber:     seg.Element(6),
				ResponsibleAgency: seg.Element(7),
				Version:           seg.Element(8),
			}
			seenGS = true

		case "BEG":
			if len(seg.Elements) < 6 {
				return nil, errors.MalformedInputError(
					fmt.Sprintf("BEG segment has %d elements, expected at least 6", len(seg.Elements)), nil)
			}
			doc.Purpose = seg.Element(1)
			doc.POType = seg.Element(2)
			doc.PONumber = seg.Element(3)
			doc.PODate = seg.Element(5)
			seenBEG = true

		case "REF":
			if len(seg.Elements) >= 3 {
				doc.References = append(doc.References, Reference{
					Qualifier: seg.Element(1),
					Value:     seg.Element(2),
				})
			}

		case "N1":
			itemIdx = -1
			if len(seg.Elements) < 3 {
				partyIdx = -1
				continue
			}
			doc.Parties = append(doc.Parties, Party{
				Role:        seg.Element(1),
				Name:        seg.Element(2),
				IDQualifier: seg.Element(3),
				ID:          seg.Element(4),
			})
			partyIdx = len(doc.Parties) - 1

		case "N3":
			if partyIdx >= 0 {
				if line := seg.Element(1); line != "" {
					doc.Parties[partyIdx].AddressLines = append(doc.Parties[partyIdx].AddressLines, line)
				}
				if line := seg.Element(2); line != "" {
					doc.Parties[partyIdx].AddressLines = append(doc.Parties[partyIdx].AddressLines, line)
				}
			}

		case "N4":
			if partyIdx >= 0 {
				doc.Parties[partyIdx].City = seg.Element(1)
				doc.Parties[partyIdx].State = seg.Element(2)
				doc.Parties[partyIdx].PostalCode = seg.Element(3)
			}

		case "PO1":
			partyIdx = -1
			item, err := buildLineItem(seg)
			if err != nil {
				return nil, err
			}
			doc.LineItems = append(doc.LineItems, item)
			itemIdx = len(doc.LineItems) - 1

		case "PID":
			if itemIdx >= 0 && doc.LineItems[itemIdx].Description == "" {
				doc.LineItems[itemIdx].Description = seg.Element(5)
			}

		case "CTT":
			partyIdx, itemIdx = -1, -1
			if len(seg.Elements) < 2 {
				return nil, errors.MalformedInputError("CTT segment is missing the line item count", nil)
			}
			count, err := strconv.Atoi(seg.Element(1))
			if err != nil {
				return nil, errors.MalformedInputError(
					fmt.Sprintf("CTT line item count %q is not numeric", seg.Element(1)), err)
			}
			doc.Summary.LineItemCount = count
			if raw := seg.Element(2); raw != "" {
				hash, err := strconv.Atoi(raw)
				if err != nil {
					return nil, errors.MalformedInputError(
						fmt.Sprintf("CTT hash total %q is not numeric", raw), err)
				}
				doc.Summary.HashTotal = &hash
			}
			seenCTT = true

		case "SE":
			if len(seg.Elements) >= 3 {
				doc.Control.SegmentCount = seg.Element(1)
				doc.Control.TransactionSetControl = seg.Element(2)
			}

		case "GE":
			if len(seg.Elements) >= 3 {
				doc.Control.GroupTransactionCount = seg.Element(1)
				doc.Control.GroupControl = seg.Element(2)
			}

		case "IEA":
			if len(seg.Elements) >= 3 {
				doc.Control.InterchangeGroupCount = seg.Element(1)
				doc.Control.InterchangeControl = seg.Element(2)
			}
		}
	}

	switch {
	case !seenISA:
		return nil, errors.MissingSegmentError("ISA")
	case !seenGS:
		return nil, errors.MissingSegmentError("GS")
	case !seenBEG:
		return nil, errors.MissingSegmentError("BEG")
	case !seenCTT:
		return nil, errors.MissingSegmentError("CTT")
	}

	return doc, nil
}

func buildLineItem(seg Segment) (LineItem, error) {
	if len(seg.Elements) < 7 {
		return LineItem{}, errors.MalformedInputError(
			fmt.Sprintf("PO1 segment has %d elements, expected at least 7", len(seg.Elements)), nil)
	}

	lineNumber, err := strconv.Atoi(seg.Element(1))
	if err != nil {
		return LineItem{}, errors.MalformedInputError(
			fmt.Sprintf("PO1 line number %q is not numeric", seg.Element(1)), err)
	}

	quantity, err := decimal.NewFromString(seg.Element(2))
	if err != nil {
		return LineItem{}, errors.MalformedInputError(
			fmt.Sprintf("line %d quantity %q is not numeric", lineNumber, seg.Element(2)), err)
	}

	unitPrice, err := decimal.NewFromString(seg.Element(4))
	if err != nil {
		return LineItem{}, errors.MalformedInputError(
			fmt.Sprintf("line %d unit price %q is not numeric", lineNumber, seg.Element(4)), err)
	}

	return LineItem{
		LineNumber:         lineNumber,
		Quantity:           quantity,
		UnitOfMeasure:      seg.Element(3),
		UnitPrice:          unitPrice,
		ProductIDQualifier: seg.Element(6),
		ProductID:          seg.Element(7),
		Description:        seg.Element(9),
	}, nil
}
