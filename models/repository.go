package models

import (
	"context"
	"time"
)

// Event statuses. Cancelled is terminal: once stored, derived
// recomputation never overwrites it.
const (
	EventOpen      = "Open"
	EventSoldOut   = "Sold Out"
	EventInactive  = "Inactive"
	EventCancelled = "Cancelled"
)

// Booking statuses.
const (
	BookingConfirmed = "Confirmed"
	BookingCompleted = "Completed"
	BookingCancelled = "Cancelled"
)

type User struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`
}

// Event lives in Mongo; the UUID in ID is the cross-store key referenced
// by bookings.event_id and comments.event_id in Postgres.
type Event struct {
	ID          string    `json:"id" bson:"id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"`
	Location    string    `json:"location" bson:"location"`
	Capacity    int       `json:"capacity" bson:"capacity"`
	Status      string    `json:"status" bson:"status"`
	StartDT     time.Time `json:"startDT" bson:"start_dt"`
	EndDT       time.Time `json:"endDT" bson:"end_dt"`
	Speaker     string    `json:"speaker" bson:"speaker"`
	SpeakerBio  string    `json:"speakerBio" bson:"speaker_bio"`
	ImageURL    string    `json:"imageUrl" bson:"image_url"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	OwnerID     int64     `json:"ownerId" bson:"owner_id"`
}

// DeriveStatus computes the display status from the stored status, the
// remaining ticket count and the clock. Cancelled is sticky; otherwise the
// result is a pure function of now and remaining.
func (e Event) DeriveStatus(remaining int, now time.Time) string {
	if e.Status == EventCancelled {
		return EventCancelled
	}
	if !now.Before(e.EndDT) {
		return EventInactive
	}
	if remaining == 0 {
		return EventSoldOut
	}
	return EventOpen
}

type Booking struct {
	ID            int64     `json:"id"`
	BookingNumber string    `json:"bookingNumber"`
	Quantity      int       `json:"quantity"`
	BookingDate   time.Time `json:"bookingDate"`
	Status        string    `json:"status"`
	UserID        int64     `json:"userId"`
	EventID       string    `json:"eventId"`
}

type Comment struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    int64     `json:"userId"`
	EventID   string    `json:"eventId"`
}

// ===== Users =====
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	ValidateCredentials(ctx context.Context, email, plain string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	SearchByName(ctx context.Context, query string) ([]User, error)
	TouchLastSeen(ctx context.Context, id int64) error
}

// ===== Events =====
type EventRepository interface {
	GetAll(ctx context.Context) ([]Event, error)
	GetByID(ctx context.Context, id string) (Event, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]Event, error)
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	UpdateStatus(ctx context.Context, id, status string) error
	// Search matches any of the given terms as a case-insensitive substring
	// across the text columns; datetime columns are cast to text first.
	Search(ctx context.Context, terms []string) ([]Event, error)
}

// ===== Bookings =====
type BookingRepository interface {
	// Register inserts a Confirmed booking after re-checking remaining
	// capacity under a per-event lock, so two concurrent registrations
	// cannot both pass the availability gate.
	Register(ctx context.Context, b *Booking, capacity int) error
	GetByID(ctx context.Context, id int64) (Booking, error)
	GetByNumber(ctx context.Context, number string) (Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]Booking, error)
	// BookedQuantity sums quantity over non-cancelled bookings for an event.
	BookedQuantity(ctx context.Context, eventID string) (int, error)
	Cancel(ctx context.Context, id int64) error
	NumberExists(ctx context.Context, number string) (bool, error)
	SearchOwned(ctx context.Context, userID int64, query string) ([]Booking, error)
	ListOwnedByEvents(ctx context.Context, userID int64, eventIDs []string) ([]Booking, error)
}

// ===== Comments =====
type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id int64) (Comment, error)
	ListByEvent(ctx context.Context, eventID string) ([]Comment, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]Comment, error)
	ListByUsers(ctx context.Context, userIDs []int64) ([]Comment, error)
}
