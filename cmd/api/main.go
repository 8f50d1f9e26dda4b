package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dapurlink/go-resto-orders/internal/bookings"
	"github.com/dapurlink/go-resto-orders/internal/clock"
	"github.com/dapurlink/go-resto-orders/internal/config"
	"github.com/dapurlink/go-resto-orders/internal/httpx"
	kafkax "github.com/dapurlink/go-resto-orders/internal/kafka"
	"github.com/dapurlink/go-resto-orders/internal/orders"
	"github.com/dapurlink/go-resto-orders/internal/postgres"
	"github.com/dapurlink/go-resto-orders/internal/redisx"
	"github.com/dapurlink/go-resto-orders/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stores
	var (
		orderStore   orders.Store
		bookingStore bookings.Store
	)
	switch cfg.StoreBackend {
	case "memory":
		mem := store.NewMemory()
		orderStore, bookingStore = mem, mem
		log.Println("using in-memory store (non-durable)")
	default:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		orderStore = &orders.PGStore{DB: db}
		bookingStore = &bookings.PGStore{DB: db}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	pOrderCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pOrderCreated.Start(ctx)
	pOrderChanged := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	pOrderChanged.Start(ctx)
	pBookingReq := kafkax.NewProducer(cfg.KafkaBrokers, bookings.TopicBookingRequested, 1024)
	pBookingReq.Start(ctx)
	pBookingChanged := kafkax.NewProducer(cfg.KafkaBrokers, bookings.TopicBookingChanged, 1024)
	pBookingChanged.Start(ctx)

	// Domain wiring
	clk := clock.Real{}
	orderMgr := orders.NewManager(orderStore, clk)
	arbiter := bookings.NewArbiter(bookingStore, clk)
	bookingMgr := bookings.NewManager(bookingStore)

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Manager: orderMgr,
		Redis:   rdb,
		Created: pOrderCreated,
		Changed: pOrderChanged,
		Service: cfg.ServiceName,
		TaxRate: cfg.TaxRate,
	}
	oh.Register(router)
	bh := &httpx.BookingsHandler{
		Arbiter:   arbiter,
		Manager:   bookingMgr,
		Redis:     rdb,
		Requested: pBookingReq,
		Changed:   pBookingChanged,
		Service:   cfg.ServiceName,
	}
	bh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	for _, p := range []*kafkax.Producer{pOrderCreated, pOrderChanged, pBookingReq, pBookingChanged} {
		p.Close()
	}
	cancel()
	for _, p := range []*kafkax.Producer{pOrderCreated, pOrderChanged, pBookingReq, pBookingChanged} {
		p.WaitClosed()
	}
}
