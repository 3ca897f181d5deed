package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/lib/pq"
)

type sqlBookingRepo struct{ db *sql.DB }

func NewSQLBookingRepository(db *sql.DB) BookingRepository { return &sqlBookingRepo{db} }

// eventLockKey maps an event UUID onto the int64 key space of Postgres
// advisory locks.
func eventLockKey(eventID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(eventID))
	return int64(h.Sum64())
}

// Register inserts the booking inside a transaction that first takes a
// per-event advisory lock. The lock serialises the availability check
// against concurrent registrations for the same event, so the sum it reads
// cannot go stale before the insert commits. Without it two requests can
// both see enough remaining capacity and oversell the event.
func (r *sqlBookingRepo) Register(ctx context.Context, b *Booking, capacity int) (err error) {
	if b.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock($1)`, eventLockKey(b.EventID)); err != nil {
		return fmt.Errorf("lock event: %w", err)
	}

	var booked int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM bookings
		 WHERE event_id=$1 AND status <> $2`,
		b.EventID, BookingCancelled,
	).Scan(&booked)
	if err != nil {
		return fmt.Errorf("sum booked quantity: %w", err)
	}

	remaining := capacity - booked
	if remaining < 0 {
		remaining = 0
	}
	if b.Quantity > remaining {
		return ErrInsufficientAvailability
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO bookings(booking_number, quantity, booking_date, status, user_id, event_id)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		b.BookingNumber, b.Quantity, b.BookingDate, b.Status, b.UserID, b.EventID,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit booking: %w", err)
	}
	return nil
}

func (r *sqlBookingRepo) GetByID(ctx context.Context, id int64) (Booking, error) {
	var b Booking
	err := r.db.QueryRowContext(ctx,
		`SELECT id, booking_number, quantity, booking_date, status, user_id, event_id
		 FROM bookings WHERE id=$1`,
		id,
	).Scan(&b.ID, &b.BookingNumber, &b.Quantity, &b.BookingDate, &b.Status, &b.UserID, &b.EventID)
	if errors.Is(err, sql.ErrNoRows) {
		return Booking{}, ErrNotFound
	}
	if err != nil {
		return Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *sqlBookingRepo) GetByNumber(ctx context.Context, number string) (Booking, error) {
	var b Booking
	err := r.db.QueryRowContext(ctx,
		`SELECT id, booking_number, quantity, booking_date, status, user_id, event_id
		 FROM bookings WHERE booking_number=$1`,
		number,
	).Scan(&b.ID, &b.BookingNumber, &b.Quantity, &b.BookingDate, &b.Status, &b.UserID, &b.EventID)
	if errors.Is(err, sql.ErrNoRows) {
		return Booking{}, ErrNotFound
	}
	if err != nil {
		return Booking{}, fmt.Errorf("get booking by number: %w", err)
	}
	return b, nil
}

func (r *sqlBookingRepo) ListByUser(ctx context.Context, userID int64) ([]Booking, error) {
	return r.query(ctx,
		`SELECT id, booking_number, quantity, booking_date, status, user_id, event_id
		 FROM bookings WHERE user_id=$1 ORDER BY booking_date DESC`,
		userID)
}

func (r *sqlBookingRepo) BookedQuantity(ctx context.Context, eventID string) (int, error) {
	var booked int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM bookings
		 WHERE event_id=$1 AND status <> $2`,
		eventID, BookingCancelled,
	).Scan(&booked)
	if err != nil {
		return 0, fmt.Errorf("sum booked quantity: %w", err)
	}
	return booked, nil
}

// Cancel only moves Confirmed bookings to Cancelled; Completed and already
// cancelled ones are left untouched.
func (r *sqlBookingRepo) Cancel(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status=$1 WHERE id=$2 AND status=$3`,
		BookingCancelled, id, BookingConfirmed)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM bookings WHERE id=$1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrBookingNotCancellable
	}
	return nil
}

func (r *sqlBookingRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE booking_number=$1)`, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check booking number: %w", err)
	}
	return exists, nil
}

// SearchOwned matches the caller's own bookings by booking number and by the
// booking date cast to text, so normalized date/time tokens can hit inside
// the serialized timestamp.
func (r *sqlBookingRepo) SearchOwned(ctx context.Context, userID int64, query string) ([]Booking, error) {
	return r.query(ctx,
		`SELECT id, booking_number, quantity, booking_date, status, user_id, event_id
		 FROM bookings
		 WHERE user_id=$1
		   AND (booking_number ILIKE '%' || $2 || '%'
		        OR booking_date::text ILIKE '%' || $2 || '%')
		 ORDER BY booking_date DESC`,
		userID, query)
}

func (r *sqlBookingRepo) ListOwnedByEvents(ctx context.Context, userID int64, eventIDs []string) ([]Booking, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}
	return r.query(ctx,
		`SELECT id, booking_number, quantity, booking_date, status, user_id, event_id
		 FROM bookings
		 WHERE user_id=$1 AND event_id = ANY($2::uuid[])
		 ORDER BY booking_date DESC`,
		userID, pq.Array(eventIDs))
}

func (r *sqlBookingRepo) query(ctx context.Context, q string, args ...any) ([]Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.BookingNumber, &b.Quantity, &b.BookingDate, &b.Status, &b.UserID, &b.EventID); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
