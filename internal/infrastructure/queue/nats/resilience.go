package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/infrastructure/resilience"
)

// transientErrors clear once the client reconnects.
var transientErrors = []error{
	nats.ErrNoServers,
	nats.ErrTimeout,
	nats.ErrConnectionClosed,
	nats.ErrConnectionReconnecting,
	nats.ErrDisconnected,
	nats.ErrNoResponders,
}

func isTransient(err error) bool {
	for _, target := range transientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return resilience.IsCircuitOpen(err)
}

func classifyNATSError(err error) resilience.ErrorClassification {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{}
	}
	return resilience.ErrorClassification{Retryable: isTransient(err), RecordFailure: true}
}

// asTemporary lets the API answer 503 while the broker is unreachable.
func asTemporary(operation string, err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) || !isTransient(err) {
		return err
	}
	return domain.WrapError(domain.ErrTemporary, operation, err)
}
