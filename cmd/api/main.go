package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/arklim/social-platform-auth/internal/infra/app"
	"github.com/arklim/social-platform-auth/internal/infra/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run keeps the fatal exit in one place so deferred cleanup inside the
// application always executes.
func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init application: %w", err)
	}

	return application.Run(ctx)
}
