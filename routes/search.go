package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"seminarhub/utils"
)

// GET /search?q=… — site-wide search. Anonymous callers get pages,
// events and comments; authenticated callers additionally get their
// own matching bookings.
func (d *Deps) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityWarning, "Please enter a search term.")
		return
	}

	results, err := d.Search.Search(c.Request.Context(), q, c.GetInt64("userId"))
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Search failed. Try again later.")
		return
	}
	c.JSON(http.StatusOK, results)
}
