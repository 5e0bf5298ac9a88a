package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sdgconnect/config"
	"sdgconnect/internal/database"
	"sdgconnect/internal/observability"
	"sdgconnect/internal/router"
	"sdgconnect/pkg/cloudinary"
	"sdgconnect/pkg/email"
	"sdgconnect/pkg/payment"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db)
	observability.Register()

	var cloud cloudinary.Client
	if cfg.Cloudinary.CloudName != "" {
		cloud, err = cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
	} else {
		log.Printf("[CLOUDINARY] uploads disabled: set CLOUDINARY_CLOUD_NAME to enable")
	}

	var provider payment.Provider
	if cfg.Mpesa.Configured() {
		provider = payment.NewDarajaProvider(cfg.Mpesa.Environment, cfg.Mpesa.ConsumerKey, cfg.Mpesa.ConsumerSecret, cfg.Mpesa.ShortCode, cfg.Mpesa.Passkey)
		log.Printf("[MPESA] Daraja STK push enabled (%s)", cfg.Mpesa.Environment)
	} else {
		log.Printf("[MPESA] Daraja credentials missing, donation initiation disabled")
	}

	var sender email.Sender
	if cfg.Email.APIKey != "" {
		sender = email.NewBrevoSender(cfg.Email.APIKey, cfg.Email.FromName, cfg.Email.FromEmail)
		log.Printf("[EMAIL] Brevo delivery enabled from=%s", cfg.Email.FromEmail)
	} else {
		sender = email.LogSender{}
		log.Printf("[EMAIL] BREVO_API_KEY missing, logging mail instead of sending")
	}

	engine := router.Setup(cfg, db, cloud, provider, sender)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
