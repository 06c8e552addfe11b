package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/elcasillas/DealUpdates/internal/api"
	"github.com/elcasillas/DealUpdates/internal/db"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		logrus.Fatalf("Migration failed: %v", err)
	}

	srv := api.NewServer(pool)
	logrus.Infof("Server starting on port %s...", port)
	if err := srv.Start(port); err != nil {
		logrus.Fatal(err)
	}
}
