package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ebenezermerd/koricha-storefront/internal/collab"
	"github.com/ebenezermerd/koricha-storefront/internal/httpapi"
	"github.com/ebenezermerd/koricha-storefront/internal/inventory"
	"github.com/ebenezermerd/koricha-storefront/internal/payment"
	"github.com/ebenezermerd/koricha-storefront/internal/store"
)

type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Durable mirror. Redis when set, mongo as an alternative, in-memory
	// otherwise.
	RedisAddr       string `envconfig:"REDIS_ADDR"`
	MongoURI        string `envconfig:"MONGO_URI"`
	MongoDatabase   string `envconfig:"MONGO_DATABASE" default:"storefront"`
	MongoCollection string `envconfig:"MONGO_COLLECTION" default:"profiles"`

	// Collaborator base URLs.
	InventoryURL  string        `envconfig:"INVENTORY_URL" required:"true"`
	AccountURL    string        `envconfig:"ACCOUNT_URL" required:"true"`
	OrdersURL     string        `envconfig:"ORDERS_URL" required:"true"`
	PaymentsURL   string        `envconfig:"PAYMENTS_URL" required:"true"`
	CollabTimeout time.Duration `envconfig:"COLLAB_TIMEOUT" default:"10s"`

	// Payment redirect callbacks.
	ReturnURL   string `envconfig:"PAYMENT_RETURN_URL" required:"true"`
	CallbackURL string `envconfig:"PAYMENT_CALLBACK_URL" required:"true"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("storefront", &cfg); err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	persist, cleanup, err := buildStore(&cfg)
	if err != nil {
		logrus.Fatalf("failed to set up persistence: %v", err)
	}
	defer cleanup()

	gate := inventory.NewCachedGate(collab.NewInventoryClient(cfg.InventoryURL, cfg.CollabTimeout))
	verifier := collab.NewAddressClient(cfg.AccountURL, cfg.CollabTimeout)
	orders := collab.NewOrderClient(cfg.OrdersURL, cfg.CollabTimeout)
	resumer := payment.NewResumer(collab.NewPaymentsClient(cfg.PaymentsURL, cfg.CollabTimeout))

	sessions := httpapi.NewSessions(persist, gate, verifier, orders, resumer, cfg.ReturnURL, cfg.CallbackURL)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpapi.NewRouter(sessions, cfg.RequestTimeout),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("storefront engine starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("server forced to shutdown: %v", err)
	}
}

func buildStore(cfg *Config) (store.Store, func(), error) {
	switch {
	case cfg.RedisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, err
		}
		logrus.Infof("using redis mirror at %s", cfg.RedisAddr)
		return store.NewRedisStore(client), func() { client.Close() }, nil

	case cfg.MongoURI != "":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		db, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		logrus.Infof("using mongo mirror, database %s", cfg.MongoDatabase)
		return store.NewMongoStore(db, cfg.MongoCollection), func() {
			_ = db.Client().Disconnect(context.Background())
		}, nil

	default:
		logrus.Warn("no durable backend configured, cart state will not survive restarts")
		return store.NewMemoryStore(), func() {}, nil
	}
}
