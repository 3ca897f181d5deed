package tests

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"seminarhub/availability"
	"seminarhub/middlewares"
	"seminarhub/models"
	"seminarhub/routes"
	"seminarhub/search"
	"seminarhub/tests/mocks"
	"seminarhub/tickets"
	"seminarhub/utils"
)

// GET /events → MISS, GET again → HIT, then POST /events invalidates the
// list cache so the next GET is a MISS again.
func TestCache_MissHitThenInvalidatedByCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	t.Cleanup(func() { mr.Close() })
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	ur := &mocks.MockUserRepo{Users: map[string]models.User{}}
	er := &mocks.MockEventRepo{Items: map[string]models.Event{}}
	br := &mocks.MockBookingRepo{Items: map[int64]models.Booking{}}
	cr := &mocks.MockCommentRepo{Items: map[int64]models.Comment{}}

	s := gin.New()
	s.Use(middlewares.ResponseCache(rdb, 30*time.Second))
	routes.RegisterRoutes(s, routes.Deps{
		Users:    ur,
		Events:   er,
		Bookings: br,
		Comments: cr,
		Resolver: availability.NewResolver(er, br),
		Search:   search.NewAggregator(er, br, cr, ur),
		Printer:  tickets.NewPrinter("test-secret"),
		RDB:      rdb,
		Inv:      utils.NewCacheInvalidator(rdb),
	})

	get := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
		return w
	}

	if w := get(); w.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first GET: want MISS, got %q", w.Header().Get("X-Cache"))
	}
	if w := get(); w.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("second GET: want HIT, got %q", w.Header().Get("X-Cache"))
	}

	// create an event through the real route, with a real token
	token, err := utils.GenerateToken("t@e.com", 1)
	if err != nil {
		t.Fatalf("gen token: %v", err)
	}
	start := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	end := time.Now().Add(26 * time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"title":"T","description":"d","capacity":10,"startDT":%q,"endDT":%q}`, start, end)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	s.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create code=%d body=%s", w.Code, w.Body.String())
	}

	// the list cache was purged, so we are back to a MISS
	if w := get(); w.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("GET after create: want MISS, got %q", w.Header().Get("X-Cache"))
	}
}
