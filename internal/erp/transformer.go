package erp

import (
	"time"

	"github.com/shopspring/decimal"

	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/edi"
)

// Transform maps a parsed document onto the receiving system's purchase
// order schema: party loops are selected by role, the order type code is
// resolved to its label, the order date is normalized to an ISO calendar
// date, and line totals plus the order total are computed with exact
// decimal arithmetic.
func Transform(doc *edi.Document) (*PurchaseOrder, error) {
	poType, err := POTypeLabel(doc.POType)
	if err != nil {
		return nil, err
	}

	vendor, err := selectVendor(doc.Parties)
	if err != nil {
		return nil, err
	}

	shipTo, err := selectShipTo(doc.Parties)
	if err != nil {
		return nil, err
	}

	poDate, err := normalizeDate(doc.PODate)
	if err != nil {
		return nil, err
	}

	lineItems := make([]LineItem, 0, len(doc.LineItems))
	total := decimal.Zero
	for _, item := range doc.LineItems {
		lineTotal := item.Quantity.Mul(item.UnitPrice)
		lineItems = append(lineItems, LineItem{
			LineNumber:    item.LineNumber,
			SKU:           item.ProductID,
			Description:   item.Description,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			UnitOfMeasure: unitOrDefault(item.UnitOfMeasure),
			TotalPrice:    lineTotal,
		})
		total = total.Add(lineTotal)
	}

	return &PurchaseOrder{
		PONumber:         doc.PONumber,
		PODate:           poDate,
		POType:           poType,
		Vendor:           vendor,
		ShipTo:           shipTo,
		LineItems:        lineItems,
		TotalAmount:      total,
		TotalLines:       len(lineItems),
		ReferenceNumbers: referenceNumbers(doc.References),
	}, nil
}

func selectVendor(parties []edi.Party) (Vendor, error) {
	for _, party := range parties {
		if party.Role == RoleVendor {
			return Vendor{ID: party.ID, Name: party.Name}, nil
		}
	}
	return Vendor{}, errors.MissingPartyError(RoleVendor)
}

func selectShipTo(parties []edi.Party) (ShipTo, error) {
	for _, party := range parties {
		if party.Role == RoleShipTo {
			return ShipTo{LocationID: party.ID, LocationName: party.Name}, nil
		}
	}
	return ShipTo{}, errors.MissingPartyError(RoleShipTo)
}

// normalizeDate converts a raw CCYYMMDD document date to an ISO calendar
// date, rejecting values that do not denote a real date.
func normalizeDate(raw string) (string, error) {
	parsed, err := time.Parse("20060102", raw)
	if err != nil {
		return "", errors.InvalidDateError(raw, err)
	}
	return parsed.Format("2006-01-02"), nil
}

func unitOrDefault(unit string) string {
	if unit == "" {
		return "EA"
	}
	return unit
}

func referenceNumbers(refs []edi.Reference) map[string]string {
	if len(refs) == 0 {
		return nil
	}
	numbers := make(map[string]string, len(refs))
	for _, ref := range refs {
		numbers[referenceKey(ref.Qualifier)] = ref.Value
	}
	return numbers
}
