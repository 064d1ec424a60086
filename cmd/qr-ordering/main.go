package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"qr-ordering/internal/auth"
	"qr-ordering/internal/common/cache"
	"qr-ordering/internal/common/httpx"
	"qr-ordering/internal/common/logger"
	"qr-ordering/internal/config"
	"qr-ordering/internal/connections/database"
	"qr-ordering/internal/connections/rabbitmq"
	redisconn "qr-ordering/internal/connections/redis"
	"qr-ordering/internal/handlers"
	"qr-ordering/internal/realtime"
	"qr-ordering/internal/repository"
	"qr-ordering/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: auto-discover)")
	flag.Parse()

	lg := logger.New("qr-ordering")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := *configPath
	if path == "" {
		found, err := config.FindConfig()
		if err != nil {
			fmt.Fprintln(os.Stderr, "no config.yaml found; pass --config")
			os.Exit(2)
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": path})
		os.Exit(1)
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Error("db_connect_failed", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	var menuCache cache.Cache = cache.NewMemoryCache()
	if cfg.Redis.Enabled {
		rdb, err := redisconn.Connect(ctx, cfg.Redis)
		if err != nil {
			lg.Error("redis_connect_failed", err, nil)
			os.Exit(1)
		}
		defer rdb.Close()
		menuCache = cache.NewRedisCache(rdb)
	}

	var events service.EventPublisher = service.NopEventPublisher{}
	if cfg.Rabbit.Enabled {
		mq, err := rabbitmq.Dial(cfg.Rabbit)
		if err != nil {
			lg.Error("rabbitmq_connect_failed", err, nil)
			os.Exit(1)
		}
		defer mq.Close()
		events = service.NewAMQPEventPublisher(mq)
	}

	ordersRepo := repository.NewOrdersRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	restaurantsRepo := repository.NewRestaurantsRepository(db)
	customersRepo := repository.NewCustomersRepository(db)

	registry := realtime.NewRegistry(lg.With("component", "registry"))
	poller := realtime.NewPoller(
		ordersRepo,
		registry,
		func() ([]string, error) { return registry.ConnectedRestaurants(), nil },
		cfg.Realtime,
		lg.With("component", "poller"),
	)
	defer poller.Stop()

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)

	h := handlers.Handlers{
		Orders:      handlers.NewOrderHandler(service.NewOrderService(ordersRepo, customersRepo, registry, events, lg.With("component", "orders"))),
		Menu:        handlers.NewMenuHandler(service.NewMenuService(menuRepo, menuCache, cfg.Redis.MenuTTL.Std(), lg.With("component", "menu"))),
		Restaurants: handlers.NewRestaurantHandler(service.NewRestaurantService(restaurantsRepo)),
		Customers:   handlers.NewCustomerHandler(service.NewCustomerService(customersRepo)),
		Analytics:   handlers.NewAnalyticsHandler(service.NewAnalyticsService(ordersRepo)),
		Status:      handlers.NewStatusHandler(registry, poller),
		WS:          handlers.NewWSHandler(registry, poller, verifier, lg.With("component", "ws")),
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	lg.Info("service_started", map[string]any{"addr": addr})
	if err := httpx.New(addr, handlers.Router(h, verifier)).Run(ctx); err != nil {
		lg.Error("server_failed", err, nil)
		os.Exit(1)
	}
	lg.Info("service_stopped", nil)
}
