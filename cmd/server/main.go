package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/andreafabbri97/restaurant-manager/internal/config"
	"github.com/andreafabbri97/restaurant-manager/internal/database"
	"github.com/andreafabbri97/restaurant-manager/internal/handler"
	"github.com/andreafabbri97/restaurant-manager/internal/pos"
	"github.com/andreafabbri97/restaurant-manager/internal/queue"
	"github.com/andreafabbri97/restaurant-manager/internal/repository"
	"github.com/andreafabbri97/restaurant-manager/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: cache and rate limiting disabled")
	}

	tables := repository.NewTableRepo(db)
	sessions := repository.NewSessionRepo(db)
	orders := repository.NewOrderRepo(db)
	menu := repository.NewMenuRepo(db)
	settings := repository.NewSettingsRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	store := handler.NewPOSStore(orders, sessions)
	board := pos.NewBoard(store)

	pub := queue.NewPublisher(cfg.AMQPURL)
	notifier := queue.NewNotifier(cfg.AMQPURL, func(queue.OrderChangedEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := board.Refresh(ctx); err != nil {
			log.Printf("board refresh: %v", err)
		}
	})
	go notifier.Start()

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, tokens),
		Users:    handler.NewUserHandler(cfg, users),
		Tables:   handler.NewTableHandler(tables, sessions, orders),
		Sessions: handler.NewSessionHandler(sessions, orders),
		Orders:   handler.NewOrderHandler(store, orders, menu, settings, pub, board, notifier.Connected),
		Menu:     handler.NewMenuHandler(menu),
		Settings: handler.NewSettingsHandler(settings),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
