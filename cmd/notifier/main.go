package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dapurlink/go-resto-orders/internal/bookings"
	"github.com/dapurlink/go-resto-orders/internal/config"
	kafkax "github.com/dapurlink/go-resto-orders/internal/kafka"
	"github.com/dapurlink/go-resto-orders/internal/notifier"
	"github.com/dapurlink/go-resto-orders/internal/orders"
	"github.com/dapurlink/go-resto-orders/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")

	consumers := map[string]kafkax.Handler{
		orders.TopicOrderStatusChanged: svc.HandleOrderEvent,
		bookings.TopicBookingRequested: svc.HandleBookingEvent,
		bookings.TopicBookingChanged:   svc.HandleBookingEvent,
	}
	for topic, handler := range consumers {
		topic, handler := topic, handler
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers)
		cons.OnError = func(err error) { log.Printf("notifier worker (%s): %v", topic, err) }
		go func(topic string) {
			log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, topic, workers)
			if err := cons.Start(ctx, handler); err != nil {
				log.Printf("consumer exit (%s): %v", topic, err)
				cancel()
			}
		}(topic)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down notifier...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
