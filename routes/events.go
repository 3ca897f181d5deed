package routes

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"seminarhub/models"
	"seminarhub/utils"
)

// eventView is an event enriched with its remaining ticket count for the
// presentation layer.
type eventView struct {
	models.Event
	Remaining int `json:"remaining"`
}

type eventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Capacity    *int      `json:"capacity" binding:"required"`
	StartDT     time.Time `json:"startDT" binding:"required"`
	EndDT       time.Time `json:"endDT" binding:"required"`
	Speaker     string    `json:"speaker"`
	SpeakerBio  string    `json:"speakerBio"`
	ImageURL    string    `json:"imageUrl"`
}

func (r eventRequest) validate() string {
	if *r.Capacity < 0 {
		return "Capacity cannot be negative."
	}
	if !r.EndDT.After(r.StartDT) {
		return "The end time must be after the start time."
	}
	return ""
}

// GET /events
//
// Every listed event gets a lazy status refresh so the stored status cannot
// drift from the derived one on the read path.
func (d *Deps) getEvents(c *gin.Context) {
	ctx := c.Request.Context()
	events, err := d.Events.GetAll(ctx)
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch events. Try again later.")
		return
	}

	now := time.Now()
	views := make([]eventView, 0, len(events))
	for i := range events {
		if _, err := d.Resolver.Refresh(ctx, &events[i], now); err != nil {
			utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch events. Try again later.")
			return
		}
		remaining, err := d.Resolver.Remaining(ctx, events[i])
		if err != nil {
			utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch events. Try again later.")
			return
		}
		views = append(views, eventView{Event: events[i], Remaining: remaining})
	}
	c.JSON(http.StatusOK, gin.H{"events": views})
}

// GET /events/:id
func (d *Deps) getEvent(c *gin.Context) {
	ctx := c.Request.Context()
	event, err := d.Events.GetByID(ctx, c.Param("id"))
	if errors.Is(err, models.ErrNotFound) {
		utils.Flash(c, http.StatusNotFound, utils.SeverityError, "That event does not exist.")
		return
	}
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch event. Try again later.")
		return
	}

	if _, err := d.Resolver.Refresh(ctx, &event, time.Now()); err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch event. Try again later.")
		return
	}
	remaining, err := d.Resolver.Remaining(ctx, event)
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch event. Try again later.")
		return
	}

	comments, err := d.Comments.ListByEvent(ctx, event.ID)
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch event. Try again later.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":    eventView{Event: event, Remaining: remaining},
		"comments": comments,
	})
}

// POST /events
func (d *Deps) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityError, "Could not parse request data.")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityWarning, msg)
		return
	}

	now := time.Now()
	event := models.Event{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Capacity:    *req.Capacity,
		StartDT:     req.StartDT,
		EndDT:       req.EndDT,
		Speaker:     req.Speaker,
		SpeakerBio:  req.SpeakerBio,
		ImageURL:    req.ImageURL,
		CreatedAt:   now.UTC(),
		OwnerID:     c.GetInt64("userId"),
	}
	// A zero-capacity event is born Sold Out, a past one Inactive.
	event.Status = event.DeriveStatus(event.Capacity, now)

	if err := d.Events.Create(c.Request.Context(), &event); err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not create event. Try again later.")
		return
	}

	d.purgeEventCaches(c, event.ID)
	utils.FlashData(c, http.StatusCreated, utils.SeveritySuccess, "Successfully created new seminar.", gin.H{"event": event})
}

// PUT /events/:id
func (d *Deps) updateEvent(c *gin.Context) {
	ctx := c.Request.Context()
	old, err := d.Events.GetByID(ctx, c.Param("id"))
	if errors.Is(err, models.ErrNotFound) {
		utils.Flash(c, http.StatusNotFound, utils.SeverityError, "That event does not exist.")
		return
	}
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch the event. Try again later.")
		return
	}
	if old.OwnerID != c.GetInt64("userId") {
		utils.Flash(c, http.StatusForbidden, utils.SeverityError, "You are not the owner of that seminar.")
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityError, "Could not parse request data.")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityWarning, msg)
		return
	}

	event := old
	event.Title = req.Title
	event.Description = req.Description
	event.Category = req.Category
	event.Location = req.Location
	event.Capacity = *req.Capacity
	event.StartDT = req.StartDT
	event.EndDT = req.EndDT
	event.Speaker = req.Speaker
	event.SpeakerBio = req.SpeakerBio
	if req.ImageURL != "" {
		event.ImageURL = req.ImageURL
	}

	if err := d.Events.Update(ctx, &event); err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not update event. Try again later.")
		return
	}

	// Capacity or schedule changes can flip the derived status.
	if _, err := d.Resolver.Refresh(ctx, &event, time.Now()); err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not update event. Try again later.")
		return
	}

	d.purgeEventCaches(c, event.ID)
	utils.FlashData(c, http.StatusOK, utils.SeveritySuccess,
		fmt.Sprintf("%s successfully updated!", event.Title), gin.H{"event": event})
}

// POST /events/:id/cancel
func (d *Deps) cancelEvent(c *gin.Context) {
	ctx := c.Request.Context()
	event, err := d.Events.GetByID(ctx, c.Param("id"))
	if errors.Is(err, models.ErrNotFound) {
		utils.Flash(c, http.StatusNotFound, utils.SeverityError, "That event does not exist.")
		return
	}
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch the event. Try again later.")
		return
	}
	if event.OwnerID != c.GetInt64("userId") {
		utils.Flash(c, http.StatusForbidden, utils.SeverityError, "You are not the owner of that event.")
		return
	}

	// Refresh first so an event already past its end reads Inactive here.
	if _, err := d.Resolver.Refresh(ctx, &event, time.Now()); err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not cancel the event. Try again later.")
		return
	}
	if event.Status == models.EventInactive || event.Status == models.EventCancelled {
		utils.Flash(c, http.StatusConflict, utils.SeverityWarning, "This event can no longer be cancelled.")
		return
	}

	if err := d.Events.UpdateStatus(ctx, event.ID, models.EventCancelled); err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not cancel the event. Try again later.")
		return
	}

	d.purgeEventCaches(c, event.ID)
	utils.Flash(c, http.StatusOK, utils.SeverityInfo, "Event has been cancelled.")
}

// POST /events/:id/register
//
// The remaining-capacity check here is advisory, for the friendly message;
// the authoritative gate runs again inside BookingRepository.Register under
// the per-event lock.
func (d *Deps) registerForEvent(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt64("userId")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityError, "Could not parse request data.")
		return
	}
	if req.Quantity <= 0 {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityWarning, "Please request at least one ticket.")
		return
	}

	event, err := d.Events.GetByID(ctx, c.Param("id"))
	if errors.Is(err, models.ErrNotFound) {
		utils.Flash(c, http.StatusNotFound, utils.SeverityError, "That event does not exist.")
		return
	}
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch event. Try again later.")
		return
	}

	if _, err := d.Resolver.Refresh(ctx, &event, time.Now()); err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch event. Try again later.")
		return
	}
	switch event.Status {
	case models.EventCancelled, models.EventInactive:
		utils.Flash(c, http.StatusConflict, utils.SeverityWarning, "This event is not open for registration.")
		return
	case models.EventSoldOut:
		utils.Flash(c, http.StatusConflict, utils.SeverityWarning, "Sorry, this event is sold out!")
		return
	}

	remaining, err := d.Resolver.Remaining(ctx, event)
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch event. Try again later.")
		return
	}
	if req.Quantity > remaining {
		utils.Flash(c, http.StatusConflict, utils.SeverityWarning,
			fmt.Sprintf("Only %d tickets remaining!", remaining))
		return
	}

	number, err := models.GenerateBookingNumber(ctx, d.Bookings.NumberExists)
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not complete the booking. Try again later.")
		return
	}

	booking := models.Booking{
		BookingNumber: number,
		Quantity:      req.Quantity,
		BookingDate:   time.Now().UTC(),
		Status:        models.BookingConfirmed,
		UserID:        userID,
		EventID:       event.ID,
	}
	err = d.Bookings.Register(ctx, &booking, event.Capacity)
	if errors.Is(err, models.ErrInsufficientAvailability) {
		// Someone else got there between our check and the locked one.
		utils.Flash(c, http.StatusConflict, utils.SeverityWarning, "Sorry, those tickets were just taken.")
		return
	}
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not complete the booking. Try again later.")
		return
	}

	if _, err := d.Resolver.Refresh(ctx, &event, time.Now()); err != nil {
		d.Log.Warn("status refresh after booking", "eventId", event.ID, "err", err)
	}

	d.purgeEventCaches(c, event.ID)
	utils.FlashData(c, http.StatusCreated, utils.SeveritySuccess, "Booking confirmed!", gin.H{"booking": booking})
}

// GET /users/:id/events — the "My Seminars" listing.
func (d *Deps) getUserEvents(c *gin.Context) {
	var ownerID int64
	if _, err := fmt.Sscan(c.Param("id"), &ownerID); err != nil {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityError, "Invalid user id.")
		return
	}

	events, err := d.Events.GetByOwner(c.Request.Context(), ownerID)
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch seminars. Try again later.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
