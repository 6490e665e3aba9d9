package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/countdown"
	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/permission"
	"github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/router"
	"github.com/iliyamo/restaurant-pos/internal/service"
	"github.com/iliyamo/restaurant-pos/internal/session"
	"github.com/iliyamo/restaurant-pos/internal/view"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Event sinks ----
	var sinks service.MultiPublisher
	var events *repository.EventRepo
	if cfg.DBEnabled() {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("mysql: %v", err)
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("mysql: %v", err)
		}
		events = repository.NewEventRepo(db)
		sinks = append(sinks, events)
	}
	brokerURL := queue.BrokerURL()
	queueEnabled := os.Getenv("QUEUE_DISABLED") == ""
	if queueEnabled {
		amqpPub := service.NewAMQPPublisher(brokerURL)
		defer amqpPub.Close()
		sinks = append(sinks, amqpPub)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis: unavailable, rate limiting and catalog cache disabled")
	} else {
		defer rdb.Close()
	}

	// ---- Domain ----
	clock := countdown.SystemClock{}
	timers := countdown.NewRegistry(clock, time.Second)
	defer timers.CancelAll()

	deps := service.Deps{
		Store:  repository.NewStore(model.Floor{ID: uuid.NewString(), Name: cfg.DefaultFloorName}),
		Events: sinks,
		Clock:  clock,
	}
	staff := service.NewStaffService(deps, cfg.BcryptCost)
	if err := staff.SeedDefaults(cfg.Plugins); err != nil {
		log.Fatalf("seed: %v", err)
	}
	if cfg.AdminPIN != "" {
		if _, err := staff.CreateEmployee(cfg.AdminID, cfg.AdminName, permission.RoleAdmin, cfg.AdminPIN); err != nil {
			log.Fatalf("seed admin: %v", err)
		}
	} else {
		log.Printf("seed: ADMIN_PIN not set, no employee can sign in")
	}

	orders := service.NewOrderService(deps)
	if cfg.Env == "dev" {
		if err := orders.CheckConsistency(); err != nil {
			log.Fatalf("startup: %v", err)
		}
		orders.AssertConsistency()
		log.Printf("dev: table/order consistency checked on every update")
	}
	reservations := service.NewReservationService(deps)
	var syncer service.Syncer
	if cfg.ReservationFeed != service.ProviderNone {
		syncer = &service.FeedSyncer{Provider: cfg.ReservationFeed, URL: cfg.ReservationURL, Reservations: reservations}
	}
	var stamps service.StampStore
	if rdb != nil {
		stamps = repository.NewRedisSyncStamp(rdb, "")
	}
	tracker := service.NewSyncTracker(syncer, stamps, clock)
	waitlist := service.NewWaitlistService(deps, timers)
	floors := service.NewFloorService(deps)
	sessions := session.NewManager(cfg.SessionTimeout, clock, timers)

	// ---- HTTP ----
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, staff, sessions),
		Screens:      handler.NewScreenHandler(view.NewRouter(), sessions, staff),
		Orders:       handler.NewOrderHandler(orders),
		Reservations: handler.NewReservationHandler(reservations, tracker),
		Waitlist:     handler.NewWaitlistHandler(waitlist),
		Floors:       handler.NewFloorHandler(floors),
		Staff:        handler.NewStaffHandler(staff),
		Events:       handler.NewEventHandler(events),
	}, router.Guards{
		JWTSecret: cfg.JWTSecret,
		Sessions:  sessions,
		Perms:     staff,
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	if queueEnabled {
		g.Go(func() error {
			if err := queue.StartLifecycleConsumer(ctx, brokerURL); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
