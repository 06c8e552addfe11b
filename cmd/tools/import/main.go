package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"

	"github.com/elcasillas/DealUpdates/internal/ai"
	"github.com/elcasillas/DealUpdates/internal/db"
	"github.com/elcasillas/DealUpdates/internal/ingest"
	"github.com/elcasillas/DealUpdates/internal/scoring"
)

func main() {
	file := flag.String("file", "", "Path to the CRM notes export CSV")
	configPath := flag.String("config", "", "Optional scoring config YAML (defaults to embedded config)")
	save := flag.Bool("save", false, "Persist the snapshot to the database")
	label := flag.String("label", "", "Label for the saved snapshot")
	flag.Parse()

	if *file == "" {
		logrus.Fatal("Please provide an export file using -file flag")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		logrus.Fatalf("Failed to read export: %v", err)
	}

	cfg := scoring.DefaultConfig()
	if *configPath != "" {
		cfg, err = scoring.LoadConfig(*configPath)
		if err != nil {
			logrus.Fatalf("Failed to load scoring config: %v", err)
		}
	}

	ctx := context.Background()
	pipeline := ingest.NewPipeline(ai.NewClient(os.Getenv("SUMMARIZER_URL")))

	snap, err := pipeline.Run(ctx, string(raw), time.Now().UTC(), nil)
	if err != nil {
		logrus.Fatalf("Import failed: %v", err)
	}

	scoring.ScoreSnapshot(snap, &cfg)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Owner", "Deal", "Stage", "ACV", "Health", "Urgency", "Closing"})
	for _, d := range snap.Deals {
		health := "-"
		if d.Health != nil {
			health = fmt.Sprintf("%d", d.Health.Composite)
		}
		closing := "-"
		if d.ClosingDate != nil {
			closing = d.ClosingDate.Format("2006-01-02")
		}
		t.AppendRow(table.Row{d.Owner, d.Name, d.Stage, fmt.Sprintf("$%.0f", d.ACV), health, d.Urgency, closing})
	}
	t.Render()

	if !*save {
		return
	}

	pool, err := db.Connect(ctx)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		logrus.Fatalf("Migration failed: %v", err)
	}

	id, err := db.NewStore(pool).SaveSnapshot(ctx, *label, snap)
	if err != nil {
		logrus.Fatalf("Failed to save snapshot: %v", err)
	}
	logrus.Infof("Saved snapshot %s with %d deals", id, len(snap.Deals))
}
