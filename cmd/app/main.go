package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/bootstrap"
	"github.com/Domenick1991/travelbooking/internal/cache"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/postgres"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/approval"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/notification"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	sessions := cache.NewSessionStore(cfg.Redis, time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	defer sessions.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	txm := postgres.NewTxManager(pool)
	bookingRepo := repository.NewBookingRepository()
	approvalRepo := repository.NewApprovalRepository()
	auditRepo := repository.NewAuditRepository()
	notificationRepo := repository.NewNotificationRepository()

	// Every lifecycle event goes to the booking stream and to the
	// notifications topic the email worker consumes.
	topics := []string{cfg.Kafka.BookingEventsTopic, cfg.Kafka.NotificationsTopic}

	bookingService := booking.NewBookingService(pool, txm, bookingRepo, approvalRepo, auditRepo, notificationRepo, producer, topics)
	approvalService := approval.NewApprovalService(pool, txm, bookingRepo, approvalRepo, auditRepo, notificationRepo, producer, topics)
	notificationService := notification.NewNotificationService(pool, txm, notificationRepo, auditRepo)

	err = bootstrap.Run(ctx, cfg, bootstrap.Services{
		Bookings:      bookingService,
		Approvals:     approvalService,
		Notifications: notificationService,
		Sessions:      sessions,
	})
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
}
