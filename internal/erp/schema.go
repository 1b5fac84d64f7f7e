// Package erp maps parsed purchase order documents onto the receiving
// system's payload schema. Transformation is pure: the same document always
// produces the same payload, and all money arithmetic uses exact decimals.
package erp

import "github.com/shopspring/decimal"

// Vendor identifies the selling party of a purchase order.
type Vendor struct {
	ID   string `json:"vendor_id"`
	Name string `json:"vendor_name"`
}

// ShipTo identifies the delivery location of a purchase order.
type ShipTo struct {
	LocationID   string `json:"location_id,omitempty"`
	LocationName string `json:"location_name"`
}

// LineItem is one normalized order line. TotalPrice is always
// Quantity times UnitPrice with no intermediate rounding.
type LineItem struct {
	LineNumber    int             `json:"line_number"`
	SKU           string          `json:"sku"`
	Description   string          `json:"description,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// PurchaseOrder is the payload submitted to the receiving system.
type PurchaseOrder struct {
	PONumber         string            `json:"po_number"`
	PODate           string            `json:"po_date"`
	POType           string            `json:"po_type"`
	Vendor           Vendor            `json:"vendor"`
	ShipTo           ShipTo            `json:"ship_to"`
	LineItems        []LineItem        `json:"line_items"`
	TotalAmount      decimal.Decimal   `json:"total_amount"`
	TotalLines       int               `json:"total_lines"`
	ReferenceNumbers map[string]string `json:"reference_numbers,omitempty"`
}
