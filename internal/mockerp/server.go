// Package mockerp implements an in-process stand-in for the receiving ERP
// system. It accepts transformed purchase orders, applies the shared business
// rule battery, and can simulate failure modes on demand through the
// X-Simulate-Error request header: validation, duplicate, inventory, timeout.
package mockerp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"edi-bridge/internal/common/logging"
	"edi-bridge/internal/common/utils"
	"edi-bridge/internal/erp"
	"edi-bridge/internal/rules"
)

// SimulateErrorHeader selects a canned failure mode for a single request.
const SimulateErrorHeader = "X-Simulate-Error"

// CreateResponse is the body returned for an accepted purchase order.
type CreateResponse struct {
	Success       bool                   `json:"success"`
	TransactionID string                 `json:"transaction_id"`
	Message       string                 `json:"message"`
	ERPPOID       string                 `json:"erp_po_id"`
	Timestamp     string                 `json:"timestamp"`
	Details       map[string]interface{} `json:"details"`
}

// ErrorResponse is the body returned for a refused purchase order.
type ErrorResponse struct {
	Success      bool                   `json:"success"`
	ErrorCode    string                 `json:"error_code"`
	ErrorMessage string                 `json:"error_message"`
	Timestamp    string                 `json:"timestamp"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// StoredOrder is an accepted purchase order as held by the receiver.
type StoredOrder struct {
	ERPPOID    string             `json:"erp_po_id"`
	Status     string             `json:"status"`
	ReceivedAt string             `json:"received_at"`
	Order      *erp.PurchaseOrder `json:"purchase_order"`
}

// MockERP is the simulated receiving system. Accepted orders are kept in
// memory so duplicate submissions are refused and lookups work.
type MockERP struct {
	logger       logging.Logger
	timeoutDelay time.Duration

	mu     sync.RWMutex
	orders map[string]*StoredOrder
}

// New creates a mock receiver.
func New(logger logging.Logger) *MockERP {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &MockERP{
		logger:       logger,
		timeoutDelay: 2 * time.Second,
		orders:       make(map[string]*StoredOrder),
	}
}

// RegisterRoutes mounts the receiver's endpoints on the router.
func (m *MockERP) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/erp/purchase-orders", m.CreatePurchaseOrder).Methods("POST")
	router.HandleFunc("/api/erp/purchase-orders/{poNumber}", m.GetPurchaseOrder).Methods("GET")
	router.HandleFunc("/api/erp/health", m.Health).Methods("GET")
}

// CreatePurchaseOrder accepts or refuses a submitted purchase order
// @Summary Create purchase order
// @Description Accepts a purchase order, applying business rules and optional simulated failures
// @Tags mock-erp
// @Accept json
// @Produce json
// @Param X-Simulate-Error header string false "Failure mode: validation, duplicate, inventory, timeout"
// @Success 201 {object} CreateResponse "Purchase order accepted"
// @Router /api/erp/purchase-orders [post]
func (m *MockERP) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var po erp.PurchaseOrder
	if err := json.NewDecoder(r.Body).Decode(&po); err != nil {
		m.writeError(w, http.StatusBadRequest, "MALFORMED_PAYLOAD",
			"request body is not a valid purchase order", nil)
		return
	}

	if simulate := r.Header.Get(SimulateErrorHeader); simulate != "" {
		if m.simulateError(w, r, simulate, &po) {
			return
		}
	}

	if violations := rules.Validate(&po); len(violations) > 0 {
		m.logger.Warn("Mock receiver refused purchase order",
			logging.String("po_number", po.PONumber),
			logging.Int("violations", len(violations)),
		)
		m.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Purchase order validation failed",
			map[string]interface{}{"validation_errors": violations})
		return
	}

	m.mu.Lock()
	if existing, ok := m.orders[po.PONumber]; ok {
		m.mu.Unlock()
		m.writeError(w, http.StatusConflict, "DUPLICATE_PO",
			fmt.Sprintf("Purchase order %s already exists", po.PONumber),
			map[string]interface{}{"existing_erp_po_id": existing.ERPPOID})
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	erpPOID := fmt.Sprintf("ERP-%s-%s", po.PONumber, utils.RandomDigits(4))
	m.orders[po.PONumber] = &StoredOrder{
		ERPPOID:    erpPOID,
		Status:     "PENDING_APPROVAL",
		ReceivedAt: now,
		Order:      &po,
	}
	m.mu.Unlock()

	m.logger.Info("Mock receiver accepted purchase order",
		logging.String("po_number", po.PONumber),
		logging.String("erp_po_id", erpPOID),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateResponse{
		Success:       true,
		TransactionID: uuid.New().String(),
		Message:       "Purchase order created successfully",
		ERPPOID:       erpPOID,
		Timestamp:     now,
		Details: map[string]interface{}{
			"po_number":                 po.PONumber,
			"vendor":                    po.Vendor.Name,
			"total_amount":              po.TotalAmount.StringFixed(2),
			"line_items_count":          po.TotalLines,
			"status":                    "PENDING_APPROVAL",
			"estimated_processing_time": "2-4 hours",
		},
	})
}

// GetPurchaseOrder returns a previously accepted purchase order
// @Summary Get purchase order
// @Description Returns an accepted purchase order by its number
// @Tags mock-erp
// @Produce json
// @Param poNumber path string true "Purchase order number"
// @Success 200 {object} StoredOrder "Stored purchase order"
// @Router /api/erp/purchase-orders/{poNumber} [get]
func (m *MockERP) GetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	poNumber := mux.Vars(r)["poNumber"]

	m.mu.RLock()
	stored, ok := m.orders[poNumber]
	m.mu.RUnlock()

	if !ok {
		m.writeError(w, http.StatusNotFound, "PO_NOT_FOUND",
			fmt.Sprintf("Purchase order %s not found", poNumber), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stored)
}

// Health reports the receiver's health
// @Summary Mock receiver health
// @Tags mock-erp
// @Produce json
// @Success 200 {object} map[string]string "Health status"
// @Router /api/erp/health [get]
func (m *MockERP) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "healthy",
		"service":   "mock-erp",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// simulateError writes the canned failure selected by the header value and
// reports whether the request was handled. Unknown values are ignored so a
// stray header cannot block real processing.
func (m *MockERP) simulateError(w http.ResponseWriter, r *http.Request, mode string, po *erp.PurchaseOrder) bool {
	m.logger.Warn("Mock receiver simulating failure",
		logging.String("mode", mode),
		logging.String("po_number", po.PONumber),
	)

	switch mode {
	case "validation":
		m.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Purchase order validation failed",
			map[string]interface{}{"simulated": true})
	case "duplicate":
		m.writeError(w, http.StatusConflict, "DUPLICATE_PO",
			fmt.Sprintf("Purchase order %s already exists", po.PONumber),
			map[string]interface{}{"existing_erp_po_id": fmt.Sprintf("ERP-%s-5678", po.PONumber)})
	case "inventory":
		details := map[string]interface{}{"simulated": true}
		if len(po.LineItems) > 0 {
			details["unavailable_skus"] = []string{po.LineItems[0].SKU}
		}
		m.writeError(w, http.StatusUnprocessableEntity, "INVENTORY_UNAVAILABLE",
			"Insufficient inventory for one or more items", details)
	case "timeout":
		select {
		case <-r.Context().Done():
		case <-time.After(m.timeoutDelay):
		}
		m.writeError(w, http.StatusGatewayTimeout, "TIMEOUT",
			"ERP system did not respond in time", nil)
	default:
		return false
	}
	return true
}

func (m *MockERP) writeError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success:      false,
		ErrorCode:    code,
		ErrorMessage: message,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Details:      details,
	})
}
