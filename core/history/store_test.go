package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func sampleRecord(plate string, exit time.Time) TicketRecord {
	return TicketRecord{
		TicketID: "TKT_0",
		Plate:    plate,
		Model:    "Toyota",
		Class:    "compact",
		SpotID:   "spot_1",
		Entry:    exit.Add(-2 * time.Hour),
		Exit:     exit,
		Charge:   20,
	}
}

func TestJSONLStore_AppendQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	store, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	now := time.Now().UTC().Truncate(time.Second)
	if err := store.Append(context.Background(), sampleRecord("ABC123", now)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(context.Background(), sampleRecord("XYZ789", now)); err != nil {
		t.Fatalf("append: %v", err)
	}
	out, err := store.Query(context.Background(), Query{Plate: "ABC123"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 || out[0].Plate != "ABC123" {
		t.Fatalf("unexpected result %#v", out)
	}
}

func TestSQLiteStore_PersistQuery(t *testing.T) {
	store, err := NewSQLiteStore("file:history_test.db?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	now := time.Now().UTC().Truncate(time.Second)
	if err := store.Append(context.Background(), sampleRecord("ABC123", now)); err != nil {
		t.Fatalf("append: %v", err)
	}
	out, err := store.Query(context.Background(), Query{Class: "compact"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	none, err := store.Query(context.Background(), Query{End: now.Add(-time.Hour)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no records, got %d", len(none))
	}
}

func TestQueryMatchesTimeWindow(t *testing.T) {
	now := time.Now()
	rec := sampleRecord("ABC123", now)
	if !(Query{Start: now.Add(-time.Minute), End: now.Add(time.Minute)}).Matches(rec) {
		t.Fatal("expected match inside window")
	}
	if (Query{Start: now.Add(time.Minute)}).Matches(rec) {
		t.Fatal("expected no match before window")
	}
	if (Query{Class: "heavy"}).Matches(rec) {
		t.Fatal("expected class filter to exclude")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("csv", "x"); err == nil {
		t.Fatal("expected error")
	}
}
