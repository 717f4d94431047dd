package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/sitzy/sitzy/internal/config"
	"github.com/sitzy/sitzy/internal/database"
	"github.com/sitzy/sitzy/internal/handler"
	"github.com/sitzy/sitzy/internal/middleware"
	"github.com/sitzy/sitzy/internal/queue"
	"github.com/sitzy/sitzy/internal/repository"
	"github.com/sitzy/sitzy/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs rate limiting and the response cache.  A nil client
	// disables both and the server still works.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	cars := repository.NewCarRepo(db)
	invitations := repository.NewInvitationRepo(db)
	seats := repository.NewSeatRepo(db)
	passengers := repository.NewPassengerRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	carH := handler.NewCarHandler(cars, users)
	seatH := handler.NewSeatHandler(seats, cars, users, passengers)
	invH := handler.NewInvitationHandler(invitations, cars, users, passengers)
	dashH := handler.NewDashboardHandler(cars, users, invitations, passengers)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.Language())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheGET := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCars(e, carH, seatH, cfg.JWTSecret, cacheGET)
	router.RegisterInvitations(e, invH, dashH, cfg.JWTSecret)

	// Background consumer that appends invitation events to a log file.
	go func() {
		if err := queue.StartInvitationConsumer(); err != nil {
			log.Printf("invitation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
