// Package eventstore persists per-event QR rotation state.  Both
// implementations honour the policy's atomicity contract: the whole
// read-increment-maybe-advance sequence is applied as a single atomic update
// per event, so concurrent payment confirmations can never observe the same
// pre-increment usage count.
package eventstore

import (
	"context"
	"errors"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
	"github.com/savishkar/mediakit/rotation"
)

// ErrNotFound is returned when an event does not exist.
var ErrNotFound = errors.New("event not found")

// Store is the persistence boundary the rotation policy runs behind.
type Store interface {
	// GetActive returns what the payer should currently be shown.
	// Never mutates state.
	GetActive(ctx context.Context, eventID string) (rotation.ActiveQR, error)
	// RecordUsage atomically applies one usage increment and any resulting
	// rotation, returning the slot that is active after the update.
	RecordUsage(ctx context.Context, eventID string) (rotation.ActiveQR, error)
}

// fallback handles a consistency failure from the policy: the payment flow
// keeps working on the legacy QR fields instead of surfacing the error to the
// payer; state is left untouched.
func fallback(log core.Logger, eventID string, ev *rotation.Event, cause error) (rotation.ActiveQR, error) {
	if !apperrors.IsCategory(cause, apperrors.CategoryConsistency) {
		return rotation.ActiveQR{}, cause
	}
	log.Warn("rotation.inconsistent", "event_id", eventID, "error", cause.Error())
	return rotation.ActiveQR{
		ImageURL:     ev.LegacyQR,
		PaymentID:    ev.LegacyPaymentID,
		AccountLabel: ev.LegacyAccountLabel,
	}, nil
}
