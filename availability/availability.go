// Package availability computes remaining ticket capacity and keeps the
// stored event status in line with the derived one. Status is a pure
// function of the clock and the booking totals (models.Event.DeriveStatus);
// the persisted value is only a cache, refreshed lazily on the read paths
// that need freshness.
package availability

import (
	"context"
	"time"

	"seminarhub/models"
)

// Remaining clamps capacity minus booked at zero so over-counted bookings
// can never surface a negative count.
func Remaining(capacity, booked int) int {
	r := capacity - booked
	if r < 0 {
		return 0
	}
	return r
}

// Resolver derives availability from the denormalized booking records and
// writes back status changes.
type Resolver struct {
	events   models.EventRepository
	bookings models.BookingRepository
}

func NewResolver(events models.EventRepository, bookings models.BookingRepository) *Resolver {
	return &Resolver{events: events, bookings: bookings}
}

// Remaining returns the event's remaining ticket count.
func (r *Resolver) Remaining(ctx context.Context, e models.Event) (int, error) {
	booked, err := r.bookings.BookedQuantity(ctx, e.ID)
	if err != nil {
		return 0, err
	}
	return Remaining(e.Capacity, booked), nil
}

// Refresh recomputes the event's status and persists it when it differs
// from the stored value. The event is updated in place so the caller sees
// the fresh status within the same request.
func (r *Resolver) Refresh(ctx context.Context, e *models.Event, now time.Time) (bool, error) {
	remaining, err := r.Remaining(ctx, *e)
	if err != nil {
		return false, err
	}
	next := e.DeriveStatus(remaining, now)
	if next == e.Status {
		return false, nil
	}
	if err := r.events.UpdateStatus(ctx, e.ID, next); err != nil {
		return false, err
	}
	e.Status = next
	return true, nil
}
