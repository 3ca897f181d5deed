package routes

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"seminarhub/availability"
	"seminarhub/middlewares"
	"seminarhub/models"
	"seminarhub/search"
	"seminarhub/tickets"
	"seminarhub/utils"
)

// Deps carries everything the handlers need; main wires it so routes never
// depend on a particular store directly.
type Deps struct {
	Users    models.UserRepository
	Events   models.EventRepository
	Bookings models.BookingRepository
	Comments models.CommentRepository
	Resolver *availability.Resolver
	Search   *search.Aggregator
	Printer  *tickets.Printer
	RDB      *redis.Client
	Inv      *utils.CacheInvalidator
	Log      *slog.Logger
}

func RegisterRoutes(server *gin.Engine, dep Deps) {
	d := &dep
	if d.Log == nil {
		d.Log = slog.Default()
	}

	// Global per-IP rate limit.
	globalLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     20,
		Burst:   40,
		IdleTTL: 3 * time.Minute,
	})
	server.Use(globalLimiter.Middleware(func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}))

	// Stricter per-IP limit on the credential endpoints.
	authLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     0.5,
		Burst:   2,
		IdleTTL: 10 * time.Minute,
	})
	server.POST("/signup",
		authLimiter.Middleware(func(c *gin.Context) string { return "signup:" + c.ClientIP() }),
		d.signup,
	)
	server.POST("/login",
		authLimiter.Middleware(func(c *gin.Context) string { return "login:" + c.ClientIP() }),
		d.login,
	)

	// Public endpoints. Search runs OptionalAuth so booking results show up
	// for signed-in callers.
	server.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	server.GET("/events", d.getEvents)
	server.GET("/events/:id", d.getEvent)
	server.GET("/events/:id/comments", d.getComments)
	server.GET("/search", middlewares.OptionalAuth, d.search)

	// Authenticated group: JWT check, then per-user rate limit and a daily
	// Redis quota.
	auth := server.Group("/")
	auth.Use(middlewares.Authenticate)

	userLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     5,
		Burst:   10,
		IdleTTL: 10 * time.Minute,
	})
	auth.Use(userLimiter.Middleware(func(c *gin.Context) string {
		return "u:" + strconv.FormatInt(c.GetInt64("userId"), 10)
	}))

	auth.Use(middlewares.Quota(d.RDB, middlewares.QuotaRule{
		Limit:  2000,
		Window: 24 * time.Hour,
		KeyFn: func(c *gin.Context) string {
			uid := c.GetInt64("userId")
			if uid == 0 {
				return ""
			}
			return fmt.Sprintf("quota:user:%d:day", uid)
		},
	}))

	auth.POST("/events", d.createEvent)
	auth.PUT("/events/:id", d.updateEvent)
	auth.POST("/events/:id/cancel", d.cancelEvent)
	auth.POST("/events/:id/register", d.registerForEvent)
	auth.POST("/events/:id/checkin", d.checkInBooking)
	auth.POST("/events/:id/comments", d.addComment)
	auth.DELETE("/comments/:id", d.deleteComment)

	auth.GET("/bookings", d.getBookings)
	auth.POST("/bookings/:id/cancel", d.cancelBooking)
	auth.GET("/bookings/:id/ticket", d.getTicket)

	auth.GET("/users/:id/events", d.getUserEvents)
}

// purgeEventCaches drops cached event responses after any event or booking
// mutation so the next read sees fresh status and remaining counts.
func (d *Deps) purgeEventCaches(c *gin.Context, eventID string) {
	if d.Inv == nil {
		return
	}
	d.Inv.PurgeEventsList(c)
	d.Inv.PurgeEventItem(c, eventID)
}
