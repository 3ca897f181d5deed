package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"seminarhub/availability"
	"seminarhub/config"
	"seminarhub/db"
	"seminarhub/logger"
	"seminarhub/middlewares"
	"seminarhub/models"
	"seminarhub/routes"
	"seminarhub/search"
	"seminarhub/tickets"
	"seminarhub/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Setup(cfg.LogLevel)
	utils.SetSecret(cfg.JWTSecret)

	if err := search.ValidatePageRoutes(); err != nil {
		log.Error("page route table invalid", "err", err)
		os.Exit(1)
	}

	pg, err := db.Open(cfg.PostgresDSN)
	if err != nil {
		log.Error("postgres connect failed", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Error("mongo connect failed", "err", err)
		os.Exit(1)
	}
	if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		log.Error("mongo ping failed", "err", err)
		os.Exit(1)
	}
	defer mongoClient.Disconnect(context.Background())

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Caching and quotas degrade gracefully without Redis.
		log.Warn("redis unreachable, caching disabled", "err", err)
	}

	eventsCol := mongoClient.Database(cfg.MongoDB).Collection("events")

	users := models.NewSQLUserRepository(pg)
	events := models.NewMongoEventRepository(eventsCol)
	bookings := models.NewSQLBookingRepository(pg)
	comments := models.NewSQLCommentRepository(pg)

	dep := routes.Deps{
		Users:    users,
		Events:   events,
		Bookings: bookings,
		Comments: comments,
		Resolver: availability.NewResolver(events, bookings),
		Search:   search.NewAggregator(events, bookings, comments, users),
		Printer:  tickets.NewPrinter(cfg.JWTSecret),
		RDB:      rdb,
		Inv:      utils.NewCacheInvalidator(rdb),
		Log:      log,
	}

	server := gin.Default()
	server.Use(middlewares.ResponseCache(rdb, cfg.CacheTTL))
	routes.RegisterRoutes(server, dep)

	log.Info("listening", "port", cfg.Port)
	if err := server.Run(":" + cfg.Port); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
