package utils

import "github.com/gin-gonic/gin"

// Severity tags attached to every user-facing message, for presentation.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Flash writes the standard message envelope: a human-readable reason plus a
// severity tag.
func Flash(c *gin.Context, status int, severity, message string) {
	c.JSON(status, gin.H{"message": message, "severity": severity})
}

// FlashData is Flash with an extra payload merged into the envelope.
func FlashData(c *gin.Context, status int, severity, message string, data gin.H) {
	out := gin.H{"message": message, "severity": severity}
	for k, v := range data {
		out[k] = v
	}
	c.JSON(status, out)
}
