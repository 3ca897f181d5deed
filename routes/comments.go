package routes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"seminarhub/models"
	"seminarhub/utils"
)

const maxCommentLength = 1000

type commentRequest struct {
	Text string `json:"text"`
}

// POST /events/:id/comments
func (d *Deps) addComment(c *gin.Context) {
	ctx := c.Request.Context()

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityError, "Could not parse request data.")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityWarning, "Please enter a comment before posting.")
		return
	}
	if len(text) > maxCommentLength {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityWarning, "Comment is too long (max 1000 characters).")
		return
	}

	event, err := d.Events.GetByID(ctx, c.Param("id"))
	if errors.Is(err, models.ErrNotFound) {
		utils.Flash(c, http.StatusNotFound, utils.SeverityError, "That event does not exist.")
		return
	}
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch the event. Try again later.")
		return
	}

	comment := models.Comment{
		EventID:   event.ID,
		UserID:    c.GetInt64("userId"),
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := d.Comments.Create(ctx, &comment); err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not post the comment. Try again later.")
		return
	}

	// The cached event detail embeds its comments.
	d.purgeEventCaches(c, event.ID)
	utils.FlashData(c, http.StatusCreated, utils.SeveritySuccess, "Comment posted!", gin.H{"comment": comment})
}

// GET /events/:id/comments — newest first.
func (d *Deps) getComments(c *gin.Context) {
	comments, err := d.Comments.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch comments. Try again later.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// DELETE /comments/:id — author only.
func (d *Deps) deleteComment(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityError, "Invalid comment id.")
		return
	}

	comment, err := d.Comments.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		utils.Flash(c, http.StatusNotFound, utils.SeverityError, "That comment does not exist.")
		return
	}
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not fetch the comment. Try again later.")
		return
	}
	if comment.UserID != c.GetInt64("userId") {
		utils.Flash(c, http.StatusForbidden, utils.SeverityError, "You can only delete your own comments.")
		return
	}

	if err := d.Comments.Delete(ctx, comment.ID); err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not delete the comment. Try again later.")
		return
	}
	d.purgeEventCaches(c, comment.EventID)
	utils.Flash(c, http.StatusOK, utils.SeveritySuccess, "Comment deleted.")
}
