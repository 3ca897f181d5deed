package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"seminarhub/models"
	"seminarhub/utils"
)

// GET /bookings — the caller's bookings, split by status.
func (d *Deps) getBookings(c *gin.Context) {
	bookings, err := d.Bookings.ListByUser(c.Request.Context(), c.GetInt64("userId"))
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch bookings. Try again later.")
		return
	}

	confirmed := make([]models.Booking, 0)
	completed := make([]models.Booking, 0)
	cancelled := make([]models.Booking, 0)
	for _, b := range bookings {
		switch b.Status {
		case models.BookingConfirmed:
			confirmed = append(confirmed, b)
		case models.BookingCompleted:
			completed = append(completed, b)
		case models.BookingCancelled:
			cancelled = append(cancelled, b)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"confirmed": confirmed,
		"completed": completed,
		"cancelled": cancelled,
	})
}

// POST /bookings/:id/cancel
//
// Only the owner may cancel, and only from Confirmed; a second cancel
// attempt is rejected rather than silently accepted.
func (d *Deps) cancelBooking(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityError, "Invalid booking id.")
		return
	}

	booking, err := d.Bookings.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		utils.Flash(c, http.StatusNotFound, utils.SeverityError, "That booking does not exist.")
		return
	}
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch the booking. Try again later.")
		return
	}
	if booking.UserID != c.GetInt64("userId") {
		utils.Flash(c, http.StatusForbidden, utils.SeverityError, "You can only cancel your own bookings.")
		return
	}
	if booking.Status != models.BookingConfirmed {
		utils.Flash(c, http.StatusConflict, utils.SeverityWarning, "This booking cannot be cancelled.")
		return
	}

	if err := d.Bookings.Cancel(ctx, booking.ID); err != nil {
		if errors.Is(err, models.ErrBookingNotCancellable) {
			utils.Flash(c, http.StatusConflict, utils.SeverityWarning, "This booking cannot be cancelled.")
			return
		}
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not cancel the booking. Try again later.")
		return
	}

	// Released capacity can flip a Sold Out event back to Open.
	if event, err := d.Events.GetByID(ctx, booking.EventID); err == nil {
		if _, err := d.Resolver.Refresh(ctx, &event, time.Now()); err != nil {
			d.Log.Warn("status refresh after cancellation", "eventId", event.ID, "err", err)
		}
	}
	d.purgeEventCaches(c, booking.EventID)

	utils.Flash(c, http.StatusOK, utils.SeveritySuccess,
		fmt.Sprintf("Booking %s has been cancelled.", booking.BookingNumber))
}

// GET /bookings/:id/ticket — printable PDF ticket for a confirmed booking.
func (d *Deps) getTicket(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityError, "Invalid booking id.")
		return
	}

	booking, err := d.Bookings.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		utils.Flash(c, http.StatusNotFound, utils.SeverityError, "That booking does not exist.")
		return
	}
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch the booking. Try again later.")
		return
	}
	if booking.UserID != c.GetInt64("userId") {
		utils.Flash(c, http.StatusForbidden, utils.SeverityError, "You can only print your own tickets.")
		return
	}
	if booking.Status != models.BookingConfirmed {
		utils.Flash(c, http.StatusConflict, utils.SeverityWarning, "Only confirmed bookings have a ticket.")
		return
	}

	event, err := d.Events.GetByID(ctx, booking.EventID)
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch the event. Try again later.")
		return
	}
	buyer, err := d.Users.GetByID(ctx, booking.UserID)
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch the ticket holder. Try again later.")
		return
	}

	pdf, err := d.Printer.Render(event, booking, buyer)
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not generate the ticket. Try again later.")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=ticket-"+booking.BookingNumber+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

type checkInRequest struct {
	Payload string `json:"payload"`
}

// POST /events/:id/checkin — the event owner scans a ticket QR code at
// the door. The payload's signature proves the ticket was issued here and
// binds it to one event, so a code printed for another event is rejected
// even before the booking lookup.
func (d *Deps) checkInBooking(c *gin.Context) {
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
		utils.Flash(c, http.StatusForbidden, utils.SeverityError, "Only the event owner can check tickets in.")
		return
	}

	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Payload == "" {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityError, "Please scan a ticket QR code.")
		return
	}

	eventID, number, ok := d.Printer.Verify(req.Payload)
	if !ok {
		utils.Flash(c, http.StatusUnauthorized, utils.SeverityError, "This ticket is not valid.")
		return
	}
	if eventID != event.ID {
		utils.Flash(c, http.StatusConflict, utils.SeverityWarning, "This ticket is for a different event.")
		return
	}

	booking, err := d.Bookings.GetByNumber(ctx, number)
	if errors.Is(err, models.ErrNotFound) {
		utils.Flash(c, http.StatusNotFound, utils.SeverityError, "No booking matches this ticket.")
		return
	}
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch the booking. Try again later.")
		return
	}
	if booking.Status != models.BookingConfirmed {
		utils.Flash(c, http.StatusConflict, utils.SeverityWarning, "This booking is no longer confirmed.")
		return
	}

	utils.FlashData(c, http.StatusOK, utils.SeveritySuccess,
		fmt.Sprintf("Booking %s checked in: %d ticket(s).", booking.BookingNumber, booking.Quantity),
		gin.H{"booking": booking})
}
