package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking/internal/booking"
	"github.com/cinetick/booking/internal/config"
	"github.com/cinetick/booking/internal/database"
	"github.com/cinetick/booking/internal/handler"
	"github.com/cinetick/booking/internal/queue"
	"github.com/cinetick/booking/internal/repository"
	"github.com/cinetick/booking/internal/router"
	queue_publisher "github.com/cinetick/booking/internal/service"
	"github.com/cinetick/booking/internal/store"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	docs := store.NewMySQL(db)
	if err := docs.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("schema: %v", err)
	}

	seatRepo := repository.NewSeatRepo(docs)
	roomRepo := repository.NewRoomRepo(docs)
	movieRepo := repository.NewMovieRepo(docs)
	showtimeRepo := repository.NewShowtimeRepo(docs)
	foodRepo := repository.NewFoodRepo(docs)
	ticketRepo := repository.NewTicketRepo(docs)

	// Redis is optional: without it the hold mirror, cache and rate
	// limiter all degrade to pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; holds, cache and rate limiting disabled")
	}
	holds := booking.NewHolds(rdb, seatRepo)
	if err := holds.RecoverOrphans(context.Background()); err != nil {
		log.Printf("hold recovery: %v", err)
	}

	sessionTTL := time.Duration(cfg.SessionTTLMin) * time.Minute
	sessions := booking.NewManager(seatRepo, showtimeRepo, holds, sessionTTL)
	go sessions.RunJanitor(context.Background())
	defer sessions.Stop()

	selector := booking.NewConcessionSelector(foodRepo)
	orchestrator := booking.NewOrchestrator(
		sessions, selector, seatRepo, foodRepo, showtimeRepo, ticketRepo,
		queue_publisher.New(),
	)

	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	publicHandler := &handler.PublicHandler{
		MovieRepo:    movieRepo,
		RoomRepo:     roomRepo,
		ShowtimeRepo: showtimeRepo,
		SeatRepo:     seatRepo,
		FoodRepo:     foodRepo,
	}
	bookingHandler := handler.NewBookingHandler(
		sessions, selector, orchestrator,
		seatRepo, showtimeRepo, movieRepo, roomRepo,
	)
	ticketHandler := &handler.TicketHandler{TicketRepo: ticketRepo}
	adminHandler := handler.NewAdminHandler(roomRepo, seatRepo, movieRepo, showtimeRepo, foodRepo)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterPublic(e, publicHandler, config.LoadCacheConfig(), rdb)
	router.RegisterBooking(e, bookingHandler, ticketHandler, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)
	router.RegisterAdmin(e, adminHandler, ticketHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
