package tests

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"seminarhub/availability"
	"seminarhub/models"
	"seminarhub/routes"
	"seminarhub/search"
	"seminarhub/tests/mocks"
	"seminarhub/tickets"
	"seminarhub/utils"
)

/* ---------- helpers ---------- */

type serverDeps struct {
	s  *gin.Engine
	ur *mocks.MockUserRepo
	er *mocks.MockEventRepo
	br *mocks.MockBookingRepo
	cr *mocks.MockCommentRepo
}

// setupServerWithDeps builds the full router against map-backed repos and a
// miniredis instance, so every middleware on the real route table runs.
func setupServerWithDeps(t *testing.T) serverDeps {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	t.Cleanup(func() { mr.Close() })
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	ur := &mocks.MockUserRepo{Users: map[string]models.User{}}
	er := &mocks.MockEventRepo{Items: map[string]models.Event{}}
	br := &mocks.MockBookingRepo{Items: map[int64]models.Booking{}}
	cr := &mocks.MockCommentRepo{Items: map[int64]models.Comment{}}

	s := gin.New()
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
	return serverDeps{s: s, ur: ur, er: er, br: br, cr: cr}
}

func authToken(t *testing.T, uid int64) string {
	t.Helper()
	token, err := utils.GenerateToken("tester@example.com", uid)
	if err != nil {
		t.Fatalf("gen token: %v", err)
	}
	return token
}

func doReq(s *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	s.ServeHTTP(w, req)
	return w
}

// seedEvent drops an open future event straight into the mock repo.
func seedEvent(d serverDeps, id string, ownerID int64, capacity int) models.Event {
	now := time.Now().UTC()
	ev := models.Event{
		ID:          id,
		Title:       "Go Systems Workshop",
		Description: "hands-on",
		Category:    "workshop",
		Location:    "Room 4",
		Capacity:    capacity,
		Status:      models.EventOpen,
		StartDT:     now.Add(24 * time.Hour),
		EndDT:       now.Add(27 * time.Hour),
		Speaker:     "R. Pike",
		CreatedAt:   now,
		OwnerID:     ownerID,
	}
	d.er.Items[ev.ID] = ev
	return ev
}
