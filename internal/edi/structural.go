package edi

import "edi-bridge/internal/common/errors"

// envelopeOrder is the relative order required of envelope and control
// segments when present in a document.
var envelopeOrder = []string{"ISA", "GS", "ST", "BEG", "CTT", "SE", "GE", "IEA"}

// ValidateStructure checks a parsed Document's self-consistency: envelope
// segments must appear in interchange order, the trailer-declared line item
// count must equal the number of parsed line items, and the declared hash
// total, when present, must equal the recomputed one. It inspects no
// business semantics.
func ValidateStructure(doc *Document) error {
	if err := validateEnvelopeOrder(doc.SegmentIDs); err != nil {
		return err
	}

	actual := len(doc.LineItems)
	if doc.Summary.LineItemCount != actual {
		return errors.StructuralMismatchError("line item count", doc.Summary.LineItemCount, actual)
	}

	if doc.Summary.HashTotal != nil {
		computed := HashTotal(doc.LineItems)
		if *doc.Summary.HashTotal != computed {
			return errors.StructuralMismatchError("hash total", *doc.Summary.HashTotal, computed)
		}
	}

	return nil
}

// HashTotal computes the trailer hash for a set of line items: the sum of
// each item's quantity truncated toward zero, the CTT02 hash-total
// convention for purchase orders.
func HashTotal(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += int(item.Quantity.IntPart())
	}
	return total
}

func validateEnvelopeOrder(segmentIDs []string) error {
	first := make(map[string]int, len(segmentIDs))
	for i, id := range segmentIDs {
		if _, seen := first[id]; !seen {
			first[id] = i
		}
	}

	last := -1
	for _, id := range envelopeOrder {
		pos, present := first[id]
		if !present {
			continue
		}
		if pos < last {
			return errors.SegmentOrderError(id)
		}
		last = pos
	}

	return nil
}
