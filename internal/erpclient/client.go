// Package erpclient submits transformed purchase orders to the receiving
// system over HTTP and classifies every outcome as accepted, rejected, or
// transient. Rejections are terminal: the receiver refused the payload and
// a retry cannot change that. Transient failures (connection errors,
// timeouts, availability status codes, an open circuit) are safe to retry.
package erpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/common/logging"
	"edi-bridge/internal/erp"
)

// Response is the receiving system's acceptance payload.
type Response struct {
	Success       bool                   `json:"success"`
	TransactionID string                 `json:"transaction_id"`
	Message       string                 `json:"message"`
	ERPPOID       string                 `json:"erp_po_id,omitempty"`
	Timestamp     string                 `json:"timestamp"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// Submitter delivers a validated purchase order to the receiving system.
// A nil error means the order was accepted. Any other outcome is reported
// through the error's type: rejected for a semantic refusal, transient for
// an availability failure worth retrying.
type Submitter interface {
	Submit(ctx context.Context, po *erp.PurchaseOrder) (*Response, error)
	Health(ctx context.Context) error
}

// Config holds the HTTP submitter settings.
type Config struct {
	// BaseURL is the receiving system's API root, for example
	// http://localhost:8080/api/erp.
	BaseURL string
	Timeout time.Duration
}

// HTTPSubmitter posts purchase orders to the receiving system's REST API,
// guarded by a circuit breaker so a dead receiver fails fast instead of
// holding every run for a full timeout.
type HTTPSubmitter struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  logging.Logger
}

// NewHTTPSubmitter creates a submitter for the receiving system at
// cfg.BaseURL.
func NewHTTPSubmitter(cfg Config, logger logging.Logger) *HTTPSubmitter {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPSubmitter{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: newBreaker("erp-submit", logger),
		logger:  logger,
	}
}

func newBreaker(name string, logger logging.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				logging.String("breaker", name),
				logging.String("from", from.String()),
				logging.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Rejections and caller cancellations say nothing about the
			// receiver's availability; they must not trip the breaker.
			if err == context.Canceled || err == context.DeadlineExceeded {
				return true
			}
			return errors.IsType(err, errors.ErrTypeRejected)
		},
	})
}

// Submit posts the purchase order once. Retry policy belongs to the caller.
func (s *HTTPSubmitter) Submit(ctx context.Context, po *erp.PurchaseOrder) (*Response, error) {
	body, err := json.Marshal(po)
	if err != nil {
		return nil, errors.InternalError("failed to encode purchase order", err)
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.post(ctx, body)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, errors.TransientError("receiving system circuit is open", err)
	}
	if err != nil {
		return nil, err
	}

	response := result.(*Response)
	s.logger.Debug("Purchase order accepted by receiving system",
		logging.String("po_number", po.PONumber),
		logging.String("erp_po_id", response.ERPPOID),
		logging.String("transaction_id", response.TransactionID),
	)
	return response, nil
}

// Health checks the receiving system's health endpoint.
func (s *HTTPSubmitter) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return errors.InternalError("failed to create health request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.ConnectionError("receiving system unreachable", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errors.ConnectionError(fmt.Sprintf("receiving system health returned %d", resp.StatusCode), nil)
	}
	return nil
}

func (s *HTTPSubmitter) post(ctx context.Context, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/purchase-orders", bytes.NewReader(body))
	if err != nil {
		return nil, errors.InternalError("failed to create submit request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// A run aborted by the caller is not retryable; report the
		// cancellation itself.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.TransientError("receiving system unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.TransientError("failed to read receiving system response", err)
	}

	return classify(resp.StatusCode, respBody)
}

// classify maps an HTTP response onto the submission taxonomy: 2xx is
// accepted, 408/429 and every 5xx are transient, any other 4xx is a
// terminal rejection.
func classify(status int, body []byte) (*Response, error) {
	switch {
	case status >= 200 && status < 300:
		var response Response
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, errors.InternalError("failed to decode acceptance response", err)
		}
		return &response, nil

	case status == http.StatusRequestTimeout,
		status == http.StatusTooManyRequests,
		status >= 500:
		return nil, errors.TransientError(
			fmt.Sprintf("receiving system returned %d: %s", status, receiverMessage(body)), nil).
			WithContext("status", status)

	default:
		return nil, errors.RejectedError(
			fmt.Sprintf("purchase order rejected (%d): %s", status, receiverMessage(body))).
			WithContext("status", status)
	}
}

// receiverMessage extracts the receiver's error description from a failure
// body, falling back to the raw body when it is not the expected shape.
func receiverMessage(body []byte) string {
	var failure struct {
		ErrorCode    string `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.Unmarshal(body, &failure); err == nil && failure.ErrorMessage != "" {
		if failure.ErrorCode != "" {
			return fmt.Sprintf("%s: %s", failure.ErrorCode, failure.ErrorMessage)
		}
		return failure.ErrorMessage
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "no response body"
	}
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return trimmed
}
