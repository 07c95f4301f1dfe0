// Package rotation implements the payment QR slot selection policy: a pure
// state machine over an event's ordered slot list and usage counters.
// Persistence and locking belong to the event store; every function here is
// side-effect free apart from mutating the passed Event value.
package rotation

import (
	"fmt"
	"time"

	apperrors "github.com/savishkar/mediakit/errors"
)

// DefaultCapacity is how many payments a slot absorbs before rotation.
const DefaultCapacity = 40

// QRSlot is one rotating payment destination belonging to an event.
// Slots are appended by administrative action and never deleted by the
// pipeline; deactivation is an external concern.
type QRSlot struct {
	ImageURL     string    `json:"qrCodeUrl"`
	PaymentID    string    `json:"upiId,omitempty"`
	AccountLabel string    `json:"accountName,omitempty"`
	UsageCount   int       `json:"usageCount"`
	Capacity     int       `json:"maxUsage"`
	Active       bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Event carries the rotation state persisted on the event entity.  When Slots
// is empty the legacy single-QR fields are served instead.
type Event struct {
	ID          string
	Slots       []QRSlot
	ActiveIndex int

	LegacyQR           string
	LegacyPaymentID    string
	LegacyAccountLabel string
}

// ActiveQR is what a payer is shown.
type ActiveQR struct {
	ImageURL     string
	PaymentID    string
	AccountLabel string
	UsageCount   int
	Capacity     int
}

// ActiveSlot returns the slot at the active index, or the legacy fallback
// when the event has no slots or the indexed slot has been deactivated.
// An out-of-bounds index is a consistency failure: defensive, not user-facing.
func ActiveSlot(ev *Event) (ActiveQR, error) {
	if len(ev.Slots) == 0 {
		return legacy(ev), nil
	}
	if ev.ActiveIndex < 0 || ev.ActiveIndex >= len(ev.Slots) {
		return ActiveQR{}, apperrors.New(apperrors.CategoryConsistency, "rotation.active",
			fmt.Errorf("%w: index %d, %d slots", apperrors.ErrIndexOutOfRange,
				ev.ActiveIndex, len(ev.Slots)))
	}
	slot := ev.Slots[ev.ActiveIndex]
	if !slot.Active {
		return legacy(ev), nil
	}
	return ActiveQR{
		ImageURL:     slot.ImageURL,
		PaymentID:    slot.PaymentID,
		AccountLabel: slot.AccountLabel,
		UsageCount:   slot.UsageCount,
		Capacity:     slot.Capacity,
	}, nil
}

// RecordUsage increments the active slot's usage count and, once the count
// reaches capacity, scans forward for the next active slot.  A deactivated
// earlier slot is never revisited.  When no active successor exists the
// current slot stays active past its capacity: availability is preferred over
// strict enforcement.  Returns whether the index advanced.
//
// Callers must apply this whole read-modify-write atomically per event; see
// the eventstore package.
func RecordUsage(ev *Event) (switched bool, err error) {
	if len(ev.Slots) == 0 {
		return false, nil // nothing to rotate
	}
	if ev.ActiveIndex < 0 || ev.ActiveIndex >= len(ev.Slots) {
		return false, apperrors.New(apperrors.CategoryConsistency, "rotation.record",
			fmt.Errorf("%w: index %d, %d slots", apperrors.ErrIndexOutOfRange,
				ev.ActiveIndex, len(ev.Slots)))
	}

	slot := &ev.Slots[ev.ActiveIndex]
	slot.UsageCount++

	if slot.UsageCount < capacity(slot) {
		return false, nil
	}
	for next := ev.ActiveIndex + 1; next < len(ev.Slots); next++ {
		if ev.Slots[next].Active {
			ev.ActiveIndex = next
			return true, nil
		}
	}
	return false, nil
}

func capacity(s *QRSlot) int {
	if s.Capacity <= 0 {
		return DefaultCapacity
	}
	return s.Capacity
}

func legacy(ev *Event) ActiveQR {
	return ActiveQR{
		ImageURL:     ev.LegacyQR,
		PaymentID:    ev.LegacyPaymentID,
		AccountLabel: ev.LegacyAccountLabel,
	}
}
