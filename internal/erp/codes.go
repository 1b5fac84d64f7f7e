package erp

import (
	"strings"

	"edi-bridge/internal/common/errors"
)

// Party role codes the transformer selects from document party loops.
const (
	RoleBuyer  = "BY"
	RoleShipTo = "ST"
	RoleVendor = "VN"
)

// poTypeLabels maps purchase order type codes to their readable labels.
var poTypeLabels = map[string]string{
	"NE": "New Order",
	"RE": "Reorder",
	"SA": "Stand Alone",
	"CN": "Confirmation",
	"RL": "Release",
}

// referenceKeys maps common reference qualifier codes to payload key names.
// Qualifiers outside the table fall back to the lowercased code.
var referenceKeys = map[string]string{
	"DP": "department",
	"CO": "customer_order",
	"CR": "customer_reference",
	"PO": "previous_po",
	"VN": "vendor_order",
}

// POTypeLabel resolves an order type code. An unrecognized code is a
// business-data defect, reported rather than passed through.
func POTypeLabel(code string) (string, error) {
	label, ok := poTypeLabels[code]
	if !ok {
		return "", errors.UnmappedCodeError("purchase order type", code)
	}
	return label, nil
}

func referenceKey(qualifier string) string {
	if key, ok := referenceKeys[qualifier]; ok {
		return key
	}
	return strings.ToLower(qualifier)
}
