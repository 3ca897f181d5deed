package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"seminarhub/models"
	"seminarhub/search"
)

func searchReq(t *testing.T, d serverDeps, q, token string) search.Results {
	t.Helper()
	w := doReq(d.s, http.MethodGet, "/search?q="+url.QueryEscape(q), "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /search code=%d body=%s", w.Code, w.Body.String())
	}
	var res search.Results
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return res
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	deps := setupServerWithDeps(t)
	w := doReq(deps.s, http.MethodGet, "/search?q=%20%20", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty query code=%d body=%s", w.Code, w.Body.String())
	}
}

func TestSearch_PageKeyword(t *testing.T) {
	deps := setupServerWithDeps(t)
	res := searchReq(t, deps, "My Bookings", "")
	if len(res.Pages) != 1 || res.Pages[0].Link != "/bookings" {
		t.Fatalf("want the bookings page, got %+v", res.Pages)
	}
}

func TestSearch_EventsByTextAndMonth(t *testing.T) {
	deps := setupServerWithDeps(t)
	ev := seedEvent(deps, "e-s", 1, 10)
	ev.Title = "Cloud Native Summit"
	ev.StartDT = time.Date(2026, time.October, 5, 9, 0, 0, 0, time.UTC)
	ev.EndDT = time.Date(2026, time.October, 5, 17, 0, 0, 0, time.UTC)
	deps.er.Items[ev.ID] = ev

	if res := searchReq(t, deps, "summit", ""); len(res.Events) != 1 {
		t.Fatalf("text match: got %+v", res.Events)
	}
	// a spelt-out month is rewritten into the timestamp digits
	if res := searchReq(t, deps, "october", ""); len(res.Events) != 1 {
		t.Fatalf("month match: got %+v", res.Events)
	}
}

func TestSearch_CommentsByAuthorName(t *testing.T) {
	deps := setupServerWithDeps(t)
	ev := seedEvent(deps, "e-s2", 1, 10)
	deps.ur.Users["m@x.com"] = models.User{ID: 31, Email: "m@x.com", FirstName: "Margaret", LastName: "Hamilton"}
	deps.cr.Items[1] = models.Comment{ID: 1, Text: "totally unrelated text", CreatedAt: time.Now(), UserID: 31, EventID: ev.ID}

	// matches through the author's name, not the comment text
	res := searchReq(t, deps, "hamilton", "")
	if len(res.Comments) != 1 {
		t.Fatalf("author-name match: got %+v", res.Comments)
	}
}

func TestSearch_BookingsOnlyForCaller(t *testing.T) {
	deps := setupServerWithDeps(t)
	ev := seedEvent(deps, "e-s3", 1, 10)
	ev.Title = "Compilers 101"
	deps.er.Items[ev.ID] = ev
	seedBooking(deps, 1, 9, ev.ID, "EEEE0001", models.BookingConfirmed, 1)
	seedBooking(deps, 2, 10, ev.ID, "EEEE0002", models.BookingConfirmed, 1)

	// anonymous caller sees no bookings
	if res := searchReq(t, deps, "compilers", ""); len(res.Bookings) != 0 {
		t.Fatalf("anonymous bookings leak: %+v", res.Bookings)
	}

	// the signed-in caller sees only their own, via the matched event
	res := searchReq(t, deps, "compilers", authToken(t, 9))
	if len(res.Bookings) != 1 || res.Bookings[0].BookingNumber != "EEEE0001" {
		t.Fatalf("caller bookings: %+v", res.Bookings)
	}

	// and can hit a booking number directly even when no event matches
	res = searchReq(t, deps, "eeee0001", authToken(t, 9))
	if len(res.Bookings) != 1 {
		t.Fatalf("booking number search: %+v", res.Bookings)
	}
}
