// Package rules evaluates the fixed business acceptance battery over a
// transformed purchase order payload. Every rule runs independently so a
// caller sees the complete list of violations in one pass; a violation is
// data, not an error.
package rules

import (
	"fmt"
	"strings"

	"edi-bridge/internal/erp"
)

// Validate runs the full rule battery and returns the ordered list of
// violations, empty when the payload is acceptable.
func Validate(po *erp.PurchaseOrder) []string {
	var violations []string

	if !po.TotalAmount.IsPositive() {
		violations = append(violations, "Total amount must be greater than zero")
	}

	if po.TotalLines < 1 {
		violations = append(violations, "Purchase order must contain at least one line item")
	}

	if len(po.LineItems) != po.TotalLines {
		violations = append(violations,
			fmt.Sprintf("Line items count mismatch: expected %d, got %d", po.TotalLines, len(po.LineItems)))
	}

	for i, item := range po.LineItems {
		line := i + 1
		if !item.Quantity.IsPositive() {
			violations = append(violations, fmt.Sprintf("Line %d: Quantity must be greater than zero", line))
		}
		if item.UnitPrice.IsNegative() {
			violations = append(violations, fmt.Sprintf("Line %d: Unit price cannot be negative", line))
		}
		if item.TotalPrice.IsNegative() {
			violations = append(violations, fmt.Sprintf("Line %d: Total price cannot be negative", line))
		}
	}

	if po.Vendor.ID == "" {
		violations = append(violations, "Vendor identifier is required")
	}
	if po.Vendor.Name == "" {
		violations = append(violations, "Vendor name is required")
	}

	if po.ShipTo.LocationID == "" {
		violations = append(violations, "Ship-to identifier is required")
	}
	if po.ShipTo.LocationName == "" {
		violations = append(violations, "Ship-to location name is required")
	}

	if strings.TrimSpace(po.PONumber) == "" {
		violations = append(violations, "Purchase order number is required")
	}

	return violations
}
