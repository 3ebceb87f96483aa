package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"coffeehouse/config"
	"coffeehouse/db"
	"coffeehouse/notify"
	"coffeehouse/services"
	"coffeehouse/storage"
	"coffeehouse/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET not set")
		os.Exit(1)
	}

	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := applyMigrations(context.Background(), true); err != nil {
				fmt.Fprintln(os.Stderr, "migrate:", err)
				os.Exit(1)
			}
			return
		case "seed":
			if err := runSeed(cfg); err != nil {
				fmt.Fprintln(os.Stderr, "seed:", err)
				os.Exit(1)
			}
			return
		}
	}

	// Optional auto-migration (useful in production and for fresh DBs).
	// Set AUTO_MIGRATE=1 (or "true") to enable.
	if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
		if err := applyMigrations(context.Background(), false); err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(1)
		}
	}

	blob, err := storage.NewDisk(cfg.Uploads.Dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "storage:", err)
		os.Exit(1)
	}

	notifier, err := notify.New(cfg.Telegram.Token, cfg.Telegram.AdminChatID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "notify:", err)
		os.Exit(1)
	}
	if notifier != nil {
		fmt.Println("Telegram notifications enabled.")
	}

	srv := web.NewServer(blob, notifier, cfg.Auth.JWTSecret)
	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := http.ListenAndServe(cfg.HTTP.Addr, srv.Router()); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func runSeed(cfg *config.Config) error {
	if err := applyMigrations(context.Background(), false); err != nil {
		return err
	}
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if err := services.Seed(context.Background(), adminEmail, adminPassword); err != nil {
		return err
	}
	fmt.Println("Seed data loaded.")
	return nil
}
