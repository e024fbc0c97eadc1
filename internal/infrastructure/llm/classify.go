package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/infrastructure/resilience"
)

// StatusFunc reports the upstream HTTP status carried by a provider error.
type StatusFunc func(err error) (int, bool)

// statusOverloaded is returned by hosted APIs when the model is saturated.
const statusOverloaded = 529

func RetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout, statusOverloaded:
		return true
	}
	return false
}

// Classify decides whether a provider call is retried and whether it counts
// against the circuit breaker. Caller cancellation is neither.
func Classify(err error, status StatusFunc) resilience.ErrorClassification {
	switch {
	case err == nil:
		return resilience.ErrorClassification{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.ErrorClassification{}
	case resilience.IsCircuitOpen(err):
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	if status != nil {
		if code, ok := status(err); ok {
			retry := RetryableStatus(code)
			return resilience.ErrorClassification{Retryable: retry, RecordFailure: retry}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{RecordFailure: true}
}

// WrapTemporary marks outages the caller may retry later as domain.ErrTemporary.
func WrapTemporary(operation string, err error, status StatusFunc) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if Classify(err, status).Retryable {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}
