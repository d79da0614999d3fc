package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/liondadev/pixcode/config"
	"github.com/liondadev/pixcode/server"
	"github.com/liondadev/pixcode/store"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the json config file")
	flag.Parse()

	// Open & Load Config
	cfg, err := config.FromFile(*configPath)
	if err != nil {
		log.Panicf("load config: %s", err.Error())
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %s", err.Error())
		return
	}

	for _, dir := range []string{cfg.ImagePath, cfg.MediaPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %s", dir, err.Error())
			return
		}
	}

	// Sqlite connection
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open sqlite driver: %s", err.Error())
		return
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.New(db)
	if err := st.ApplyMigrations(ctx); err != nil {
		log.Panicf("Failed to apply database migrations: %s", err.Error())
		return
	}

	svr := server.New(cfg, st)
	if err := svr.SetupHTTP(); err != nil {
		log.Panicf("setup http: %s", err.Error())
		return
	}

	if err := svr.Run(ctx, cfg.Listen); err != nil {
		log.Panicln(err)
	}

	log.Println("Server stopped")
}
