package erp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edi-bridge/internal/common/errors"
)

func TestPOTypeLabel(t *testing.T) {
	tests := []struct {
		code  string
		label string
	}{
		{"NE", "New Order"},
		{"RE", "Reorder"},
		{"SA", "Stand Alone"},
		{"CN", "Confirmation"},
		{"RL", "Release"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			label, err := POTypeLabel(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestPOTypeLabel_Unmapped(t *testing.T) {
	for _, code := range []string{"", "XX", "ne"} {
		_, err := POTypeLabel(code)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeUnmappedCode))
	}
}

func TestReferenceKey(t *testing.T) {
	assert.Equal(t, "department", referenceKey("DP"))
	assert.Equal(t, "customer_order", referenceKey("CO"))
	assert.Equal(t, "customer_reference", referenceKey("CR"))
	assert.Equal(t, "previous_po", referenceKey("PO"))
	assert.Equal(t, "vendor_order", referenceKey("VN"))
	assert.Equal(t, "zz", referenceKey("ZZ"))
}
