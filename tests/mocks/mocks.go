package mocks

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"seminarhub/models"
)

// Map-backed fakes for the four repositories. Handlers are exercised
// against these; the real SQL/Mongo implementations are covered by the
// integration test.

/* ---------- users ---------- */

type MockUserRepo struct {
	Users  map[string]models.User // keyed by email
	nextID int64
}

func (m *MockUserRepo) Create(_ context.Context, u *models.User) error {
	if _, ok := m.Users[u.Email]; ok {
		return errors.New("email already registered") // handler answers 409
	}
	m.nextID++
	u.ID = m.nextID
	m.Users[u.Email] = *u
	return nil
}

func (m *MockUserRepo) ValidateCredentials(_ context.Context, email, plain string) (models.User, error) {
	u, ok := m.Users[email]
	if !ok || u.Password != plain {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

func (m *MockUserRepo) GetByID(_ context.Context, id int64) (models.User, error) {
	for _, u := range m.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, models.ErrNotFound
}

func (m *MockUserRepo) SearchByName(_ context.Context, query string) ([]models.User, error) {
	q := strings.ToLower(query)
	var out []models.User
	for _, u := range m.Users {
		if strings.Contains(strings.ToLower(u.FirstName), q) ||
			strings.Contains(strings.ToLower(u.LastName), q) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockUserRepo) TouchLastSeen(_ context.Context, id int64) error {
	for email, u := range m.Users {
		if u.ID == id {
			now := time.Now()
			u.LastSeen = &now
			m.Users[email] = u
		}
	}
	return nil
}

/* ---------- events ---------- */

type MockEventRepo struct {
	Items map[string]models.Event
}

func (m *MockEventRepo) GetAll(_ context.Context) ([]models.Event, error) {
	out := make([]models.Event, 0, len(m.Items))
	for _, e := range m.Items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockEventRepo) GetByID(_ context.Context, id string) (models.Event, error) {
	e, ok := m.Items[id]
	if !ok {
		return models.Event{}, models.ErrNotFound
	}
	return e, nil
}

func (m *MockEventRepo) GetByOwner(_ context.Context, ownerID int64) ([]models.Event, error) {
	var out []models.Event
	for _, e := range m.Items {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockEventRepo) Create(_ context.Context, e *models.Event) error {
	m.Items[e.ID] = *e
	return nil
}

func (m *MockEventRepo) Update(_ context.Context, e *models.Event) error {
	if _, ok := m.Items[e.ID]; !ok {
		return models.ErrNotFound
	}
	m.Items[e.ID] = *e
	return nil
}

func (m *MockEventRepo) UpdateStatus(_ context.Context, id, status string) error {
	e, ok := m.Items[id]
	if !ok {
		return models.ErrNotFound
	}
	e.Status = status
	m.Items[id] = e
	return nil
}

// Search mirrors the Mongo implementation: any term as a case-insensitive
// substring of a text field, the stringified capacity, or a formatted
// datetime.
func (m *MockEventRepo) Search(_ context.Context, terms []string) ([]models.Event, error) {
	var out []models.Event
	for _, e := range m.Items {
		if eventMatches(e, terms) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func eventMatches(e models.Event, terms []string) bool {
	haystacks := []string{
		e.Title, e.Description, e.Category, e.Location, e.Status,
		e.Speaker, e.SpeakerBio,
		e.StartDT.Format("2006-01-02 15:04:05"),
		e.EndDT.Format("2006-01-02 15:04:05"),
		strconv.Itoa(e.Capacity),
	}
	for _, t := range terms {
		lt := strings.ToLower(t)
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), lt) {
				return true
			}
		}
	}
	return false
}

/* ---------- bookings ---------- */

type MockBookingRepo struct {
	Items  map[int64]models.Booking
	nextID int64
}

func (m *MockBookingRepo) Register(_ context.Context, b *models.Booking, capacity int) error {
	booked := 0
	for _, ex := range m.Items {
		if ex.EventID == b.EventID && ex.Status != models.BookingCancelled {
			booked += ex.Quantity
		}
	}
	if capacity-booked < b.Quantity {
		return models.ErrInsufficientAvailability
	}
	m.nextID++
	b.ID = m.nextID
	b.Status = models.BookingConfirmed
	m.Items[b.ID] = *b
	return nil
}

func (m *MockBookingRepo) GetByID(_ context.Context, id int64) (models.Booking, error) {
	b, ok := m.Items[id]
	if !ok {
		return models.Booking{}, models.ErrNotFound
	}
	return b, nil
}

func (m *MockBookingRepo) GetByNumber(_ context.Context, number string) (models.Booking, error) {
	for _, b := range m.Items {
		if b.BookingNumber == number {
			return b, nil
		}
	}
	return models.Booking{}, models.ErrNotFound
}

func (m *MockBookingRepo) ListByUser(_ context.Context, userID int64) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.Items {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockBookingRepo) BookedQuantity(_ context.Context, eventID string) (int, error) {
	sum := 0
	for _, b := range m.Items {
		if b.EventID == eventID && b.Status != models.BookingCancelled {
			sum += b.Quantity
		}
	}
	return sum, nil
}

func (m *MockBookingRepo) Cancel(_ context.Context, id int64) error {
	b, ok := m.Items[id]
	if !ok {
		return models.ErrNotFound
	}
	if b.Status != models.BookingConfirmed {
		return models.ErrBookingNotCancellable
	}
	b.Status = models.BookingCancelled
	m.Items[id] = b
	return nil
}

func (m *MockBookingRepo) NumberExists(_ context.Context, number string) (bool, error) {
	for _, b := range m.Items {
		if b.BookingNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockBookingRepo) SearchOwned(_ context.Context, userID int64, query string) ([]models.Booking, error) {
	q := strings.ToLower(query)
	var out []models.Booking
	for _, b := range m.Items {
		if b.UserID != userID {
			continue
		}
		if strings.Contains(strings.ToLower(b.BookingNumber), q) ||
			strings.Contains(b.BookingDate.Format("2006-01-02 15:04:05"), q) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockBookingRepo) ListOwnedByEvents(_ context.Context, userID int64, eventIDs []string) ([]models.Booking, error) {
	ids := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		ids[id] = true
	}
	var out []models.Booking
	for _, b := range m.Items {
		if b.UserID == userID && ids[b.EventID] {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

/* ---------- comments ---------- */

type MockCommentRepo struct {
	Items  map[int64]models.Comment
	nextID int64
}

func (m *MockCommentRepo) Create(_ context.Context, c *models.Comment) error {
	m.nextID++
	c.ID = m.nextID
	m.Items[c.ID] = *c
	return nil
}

func (m *MockCommentRepo) GetByID(_ context.Context, id int64) (models.Comment, error) {
	c, ok := m.Items[id]
	if !ok {
		return models.Comment{}, models.ErrNotFound
	}
	return c, nil
}

func (m *MockCommentRepo) ListByEvent(_ context.Context, eventID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range m.Items {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockCommentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.Items[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.Items, id)
	return nil
}

func (m *MockCommentRepo) Search(_ context.Context, query string) ([]models.Comment, error) {
	q := strings.ToLower(query)
	var out []models.Comment
	for _, c := range m.Items {
		if strings.Contains(strings.ToLower(c.Text), q) ||
			strings.Contains(c.CreatedAt.Format("2006-01-02 15:04:05"), q) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockCommentRepo) ListByUsers(_ context.Context, userIDs []int64) ([]models.Comment, error) {
	ids := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		ids[id] = true
	}
	var out []models.Comment
	for _, c := range m.Items {
		if ids[c.UserID] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
