package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"

	"github.com/elcasillas/DealUpdates/internal/db"
	"github.com/elcasillas/DealUpdates/internal/ingest"
)

func main() {
	id := flag.String("id", "", "Snapshot ID to inspect")
	base := flag.String("base", "", "Baseline snapshot ID to diff against (requires -id)")
	flag.Parse()

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	store := db.NewStore(pool)

	if *id == "" {
		listSnapshots(ctx, store)
		return
	}

	snapID, err := uuid.Parse(*id)
	if err != nil {
		logrus.Fatalf("Invalid snapshot ID: %v", err)
	}

	if *base == "" {
		showSnapshot(ctx, store, snapID)
		return
	}

	baseID, err := uuid.Parse(*base)
	if err != nil {
		logrus.Fatalf("Invalid baseline snapshot ID: %v", err)
	}
	showDiff(ctx, store, snapID, baseID)
}

func listSnapshots(ctx context.Context, store *db.Store) {
	snaps, err := store.ListSnapshots(ctx)
	if err != nil {
		logrus.Fatalf("Failed to list snapshots: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Label", "Generated At", "Deals", "Created At"})
	for _, s := range snaps {
		t.AppendRow(table.Row{s.ID, s.Label, s.GeneratedAt.Format("2006-01-02"), s.DealCount, s.CreatedAt.Format("2006-01-02 15:04")})
	}
	t.Render()
}

func showSnapshot(ctx context.Context, store *db.Store, id uuid.UUID) {
	deals, err := store.GetSnapshotDeals(ctx, id)
	if err != nil {
		logrus.Fatalf("Failed to load snapshot deals: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Owner", "Deal", "Stage", "ACV", "Health", "Notes", "Summary"})
	for _, d := range deals {
		health := "-"
		if d.CompositeScore != nil {
			health = fmt.Sprintf("%d", *d.CompositeScore)
		}
		summary := d.Summary
		if len(summary) > 60 {
			summary = summary[:57] + "..."
		}
		t.AppendRow(table.Row{d.Owner, d.Name, d.Stage, fmt.Sprintf("$%.0f", d.ACV), health, d.NoteCount, summary})
	}
	t.Render()
}

func showDiff(ctx context.Context, store *db.Store, id, base uuid.UUID) {
	current, err := store.LoadSnapshot(ctx, id)
	if err != nil {
		logrus.Fatalf("Failed to load snapshot: %v", err)
	}
	baseline, err := store.LoadSnapshot(ctx, base)
	if err != nil {
		logrus.Fatalf("Failed to load baseline snapshot: %v", err)
	}

	stats := ingest.DiffSnapshots(baseline, current)
	fmt.Printf("New: %d  Updated: %d  Unchanged: %d  Removed: %d\n\n", stats.New, stats.Updated, stats.Unchanged, stats.Removed)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Deal", "Owner", "Change", "Details"})
	for _, d := range current.Deals {
		if d.ChangeType == ingest.ChangeUnchanged {
			continue
		}
		t.AppendRow(table.Row{d.Name, d.Owner, d.ChangeType, strings.Join(d.Changes, "; ")})
	}
	t.Render()
}
