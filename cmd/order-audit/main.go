// Command order-audit consumes the order event topics and writes one log line
// per event. It is the reference consumer for the events the service publishes.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"

	"myday-qr/internal/config"
	"myday-qr/internal/kafka"
	"myday-qr/internal/logger"
	orderkafka "myday-qr/internal/order/kafka"
)

func handle(log *logger.Logger) kafka.Handler {
	return func(ctx context.Context, msg kafkago.Message) error {
		var event orderkafka.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("undecodable event at offset %d: %w", msg.Offset, err)
		}
		log.LogOrder(event.Type, event.OrderID, fmt.Sprintf("%s %s -> %s (%s)",
			event.CustomerEmail, event.PreviousStatus, event.Status, msg.Topic))
		return nil
	}
}

func main() {
	godotenv.Load()
	cfg := config.Load()
	log := logger.NewLogger(cfg.Log.Dir)
	defer log.Close()

	topics := kafka.NewTopics(cfg.Kafka.TopicPrefix)
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, topics.All(), cfg.Kafka.TopicPrefix+".order-audit", log)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("APP", "Order audit consumer started")
	if err := consumer.Start(ctx, handle(log)); err != nil {
		log.Fatal("KAFKA", err.Error())
	}
	log.Info("APP", "Order audit consumer stopped")
}
