package availability

import (
	"context"
	"testing"
	"time"

	"seminarhub/models"
)

func TestRemaining_Clamped(t *testing.T) {
	if got := Remaining(10, 3); got != 7 {
		t.Fatalf("want 7, got %d", got)
	}
	if got := Remaining(10, 10); got != 0 {
		t.Fatalf("want 0, got %d", got)
	}
	// over-counted bookings must never read negative
	if got := Remaining(10, 12); got != 0 {
		t.Fatalf("want 0, got %d", got)
	}
	if got := Remaining(0, 0); got != 0 {
		t.Fatalf("want 0, got %d", got)
	}
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(2 * time.Hour)
	past := now.Add(-2 * time.Hour)

	cases := []struct {
		name      string
		status    string
		endDT     time.Time
		remaining int
		want      string
	}{
		{"open", models.EventOpen, future, 5, models.EventOpen},
		{"sold out", models.EventOpen, future, 0, models.EventSoldOut},
		{"ended", models.EventOpen, past, 5, models.EventInactive},
		{"ended beats sold out", models.EventOpen, past, 0, models.EventInactive},
		{"ends exactly now", models.EventOpen, now, 5, models.EventInactive},
		{"cancelled sticky", models.EventCancelled, future, 5, models.EventCancelled},
		{"cancelled sticky past end", models.EventCancelled, past, 0, models.EventCancelled},
		{"sold out reopens", models.EventSoldOut, future, 3, models.EventOpen},
	}
	for _, c := range cases {
		e := models.Event{Status: c.status, EndDT: c.endDT}
		if got := e.DeriveStatus(c.remaining, now); got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

/* resolver against tiny in-test fakes */

type fakeEvents struct {
	statuses map[string]string
}

func (f *fakeEvents) GetAll(context.Context) ([]models.Event, error)            { return nil, nil }
func (f *fakeEvents) GetByID(context.Context, string) (models.Event, error)     { return models.Event{}, nil }
func (f *fakeEvents) GetByOwner(context.Context, int64) ([]models.Event, error) { return nil, nil }
func (f *fakeEvents) Create(context.Context, *models.Event) error               { return nil }
func (f *fakeEvents) Update(context.Context, *models.Event) error               { return nil }
func (f *fakeEvents) Search(context.Context, []string) ([]models.Event, error)  { return nil, nil }
func (f *fakeEvents) UpdateStatus(_ context.Context, id, status string) error {
	f.statuses[id] = status
	return nil
}

type fakeBookings struct {
	booked map[string]int
}

func (f *fakeBookings) Register(context.Context, *models.Booking, int) error { return nil }
func (f *fakeBookings) GetByID(context.Context, int64) (models.Booking, error) {
	return models.Booking{}, nil
}
func (f *fakeBookings) GetByNumber(context.Context, string) (models.Booking, error) {
	return models.Booking{}, nil
}
func (f *fakeBookings) ListByUser(context.Context, int64) ([]models.Booking, error) { return nil, nil }
func (f *fakeBookings) Cancel(context.Context, int64) error                         { return nil }
func (f *fakeBookings) NumberExists(context.Context, string) (bool, error)          { return false, nil }
func (f *fakeBookings) SearchOwned(context.Context, int64, string) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookings) ListOwnedByEvents(context.Context, int64, []string) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookings) BookedQuantity(_ context.Context, eventID string) (int, error) {
	return f.booked[eventID], nil
}

func TestResolver_RefreshPersistsAndMutates(t *testing.T) {
	fe := &fakeEvents{statuses: map[string]string{}}
	fb := &fakeBookings{booked: map[string]int{"e1": 10}}
	r := NewResolver(fe, fb)

	now := time.Now()
	e := models.Event{ID: "e1", Capacity: 10, Status: models.EventOpen, EndDT: now.Add(time.Hour)}

	changed, err := r.Refresh(context.Background(), &e, now)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !changed || e.Status != models.EventSoldOut {
		t.Fatalf("want Sold Out in place, got changed=%v status=%q", changed, e.Status)
	}
	if fe.statuses["e1"] != models.EventSoldOut {
		t.Fatalf("status not persisted: %v", fe.statuses)
	}

	// already correct status: no write
	fe.statuses = map[string]string{}
	changed, err = r.Refresh(context.Background(), &e, now)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if changed || len(fe.statuses) != 0 {
		t.Fatalf("no-op refresh wrote: changed=%v %v", changed, fe.statuses)
	}
}
