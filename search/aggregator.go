package search

import (
	"context"

	"seminarhub/models"
)

// Results holds the four independent result groups. Each keeps its natural
// collection order; no relevance scoring is applied.
type Results struct {
	Pages    []PageRoute      `json:"pages"`
	Events   []models.Event   `json:"events"`
	Comments []models.Comment `json:"comments"`
	Bookings []models.Booking `json:"bookings"`
}

// Aggregator dispatches a normalized query across the entity collections.
type Aggregator struct {
	events   models.EventRepository
	bookings models.BookingRepository
	comments models.CommentRepository
	users    models.UserRepository
}

func NewAggregator(
	events models.EventRepository,
	bookings models.BookingRepository,
	comments models.CommentRepository,
	users models.UserRepository,
) *Aggregator {
	return &Aggregator{events: events, bookings: bookings, comments: comments, users: users}
}

// Search normalizes the raw query once and fans it out. userID is zero for
// anonymous callers; booking results are computed only for authenticated
// callers and restricted to their own bookings.
func (a *Aggregator) Search(ctx context.Context, raw string, userID int64) (Results, error) {
	cq := Normalize(raw)

	var res Results
	res.Pages = PageResults(cq.Raw)

	events, err := a.events.Search(ctx, cq.Terms)
	if err != nil {
		return Results{}, err
	}
	res.Events = events

	comments, err := a.commentResults(ctx, cq.Terms)
	if err != nil {
		return Results{}, err
	}
	res.Comments = comments

	if userID != 0 {
		bookings, err := a.bookingResults(ctx, cq.Terms, events, userID)
		if err != nil {
			return Results{}, err
		}
		res.Bookings = bookings
	}
	return res, nil
}

// commentResults matches comment text directly, and additionally pulls every
// comment authored by a user whose first or last name matches, whether or
// not the comment text itself does.
func (a *Aggregator) commentResults(ctx context.Context, terms []string) ([]models.Comment, error) {
	var merged []models.Comment
	for _, term := range terms {
		direct, err := a.comments.Search(ctx, term)
		if err != nil {
			return nil, err
		}
		merged = append(merged, direct...)

		authors, err := a.users.SearchByName(ctx, term)
		if err != nil {
			return nil, err
		}
		if len(authors) > 0 {
			ids := make([]int64, 0, len(authors))
			for _, u := range authors {
				ids = append(ids, u.ID)
			}
			related, err := a.comments.ListByUsers(ctx, ids)
			if err != nil {
				return nil, err
			}
			merged = append(merged, related...)
		}
	}
	return dedupComments(merged), nil
}

// bookingResults returns the caller's bookings for events that matched the
// event search, then their bookings matching the query directly, merged with
// first-seen order preserved.
func (a *Aggregator) bookingResults(ctx context.Context, terms []string, matchedEvents []models.Event, userID int64) ([]models.Booking, error) {
	var merged []models.Booking

	if len(matchedEvents) > 0 {
		ids := make([]string, 0, len(matchedEvents))
		for _, e := range matchedEvents {
			ids = append(ids, e.ID)
		}
		byEvent, err := a.bookings.ListOwnedByEvents(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
		merged = append(merged, byEvent...)
	}

	for _, term := range terms {
		direct, err := a.bookings.SearchOwned(ctx, userID, term)
		if err != nil {
			return nil, err
		}
		merged = append(merged, direct...)
	}
	return dedupBookings(merged), nil
}

func dedupComments(in []models.Comment) []models.Comment {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(in))
	out := make([]models.Comment, 0, len(in))
	for _, c := range in {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

func dedupBookings(in []models.Booking) []models.Booking {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(in))
	out := make([]models.Booking, 0, len(in))
	for _, b := range in {
		if _, ok := seen[b.ID]; ok {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	return out
}
