package ingest

import (
	"strings"
	"testing"
	"time"
)

func dealRow(owner, name, stage, note string, modified *time.Time) *Deal {
	d := &Deal{
		Owner:        owner,
		Name:         name,
		Stage:        stage,
		ModifiedDate: modified,
		Note:         note,
		Key:          DealKey(name, owner),
	}
	d.AddNote(note)
	return d
}

func datePtr(y int, m time.Month, day int) *time.Time {
	t := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDedupe_LaterModifiedWinsScalars(t *testing.T) {
	older := dealRow("Jane Doe", "Acme Renewal", "Proposal", "first touch", datePtr(2025, 7, 1))
	newer := dealRow("Jane Doe", "Acme Renewal", "Negotiation", "pricing agreed", datePtr(2025, 7, 10))

	out := Dedupe([]*Deal{older, newer})
	if len(out) != 1 {
		t.Fatalf("expected 1 deal, got %d", len(out))
	}
	if out[0].Stage != "Negotiation" {
		t.Fatalf("got stage %s", out[0].Stage)
	}
}

func TestDedupe_HasDateBeatsNone(t *testing.T) {
	undated := dealRow("Jane Doe", "Acme Renewal", "Proposal", "a", nil)
	dated := dealRow("Jane Doe", "Acme Renewal", "Negotiation", "b", datePtr(2025, 7, 1))

	out := Dedupe([]*Deal{undated, dated})
	if out[0].Stage != "Negotiation" {
		t.Fatalf("got stage %s", out[0].Stage)
	}
}

func TestDedupe_FirstSeenWinsTies(t *testing.T) {
	first := dealRow("Jane Doe", "Acme Renewal", "Proposal", "a", datePtr(2025, 7, 1))
	second := dealRow("Jane Doe", "Acme Renewal", "Negotiation", "b", datePtr(2025, 7, 1))

	out := Dedupe([]*Deal{first, second})
	if out[0].Stage != "Proposal" {
		t.Fatalf("got stage %s", out[0].Stage)
	}
}

func TestDedupe_NotesAccumulateAcrossAllRows(t *testing.T) {
	a := dealRow("Jane Doe", "Acme Renewal", "Proposal", "zulu note", datePtr(2025, 7, 1))
	b := dealRow("Jane Doe", "Acme Renewal", "Proposal", "alpha note", datePtr(2025, 7, 5))
	c := dealRow("Jane Doe", "Acme Renewal", "Proposal", "alpha note", datePtr(2025, 7, 3))

	out := Dedupe([]*Deal{a, b, c})
	if out[0].NoteCount != 2 {
		t.Fatalf("expected 2 distinct notes, got %d", out[0].NoteCount)
	}
	if out[0].CanonicalNotes != "alpha note"+NoteSeparator+"zulu note" {
		t.Fatalf("got %q", out[0].CanonicalNotes)
	}
	if out[0].NoteHash == "" {
		t.Fatal("expected note hash")
	}
}

func TestDedupe_PreservesFirstEncounterOrder(t *testing.T) {
	deals := []*Deal{
		dealRow("Jane Doe", "Acme Renewal", "Proposal", "a", nil),
		dealRow("Bob Roe", "Initech Pilot", "Discovery", "b", nil),
		dealRow("Jane Doe", "Acme Renewal", "Proposal", "c", datePtr(2025, 7, 1)),
	}

	out := Dedupe(deals)
	if len(out) != 2 {
		t.Fatalf("expected 2 deals, got %d", len(out))
	}
	if !strings.HasPrefix(out[0].Key, "acme renewal") {
		t.Fatalf("order changed: %q first", out[0].Key)
	}
}

func TestDedupe_DistinctKeysStaySeparate(t *testing.T) {
	out := Dedupe([]*Deal{
		dealRow("Jane Doe", "Acme Renewal", "Proposal", "a", nil),
		dealRow("John Doe", "Acme Renewal", "Proposal", "b", nil),
	})
	if len(out) != 2 {
		t.Fatalf("expected 2 deals, got %d", len(out))
	}
}
