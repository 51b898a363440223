package history_test

import (
	"context"
	"fmt"
	"testing"

	"rcrdr/internal/testsupport"
)

func TestAddAndFetchRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rec, err := store.Add(ctx, "tok-1", "record", "/tmp/out.mp4", "", "starting")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("record must have an assigned ID")
	}
	if rec.Kind != "record" || rec.OutputPath != "/tmp/out.mp4" || rec.Status != "starting" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not populated: %+v", rec)
	}

	got := store.GetByToken(ctx, "tok-1")
	if got == nil || got.ID != rec.ID {
		t.Fatalf("GetByToken = %+v, want id %d", got, rec.ID)
	}
}

func TestUpdateStatusRecordsReason(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.Add(ctx, "tok-2", "convert", "/tmp/out.gif", "/tmp/in.mp4", "starting"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.UpdateStatus(ctx, "tok-2", "failed", "verification failed: empty file"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	rec := store.GetByToken(ctx, "tok-2")
	if rec == nil {
		t.Fatal("record vanished after update")
	}
	if rec.Status != "failed" {
		t.Fatalf("status = %q, want failed", rec.Status)
	}
	if rec.Reason != "verification failed: empty file" {
		t.Fatalf("reason = %q", rec.Reason)
	}
	if rec.InputPath != "/tmp/in.mp4" {
		t.Fatalf("input path = %q", rec.InputPath)
	}
}

func TestListMostRecentFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		token := fmt.Sprintf("tok-%d", i)
		if _, err := store.Add(ctx, token, "record", "/tmp/out.mp4", "", "completed"); err != nil {
			t.Fatalf("Add %s: %v", token, err)
		}
	}

	records, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	if records[0].Token != "tok-2" {
		t.Fatalf("most recent first, got %s", records[0].Token)
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limited len = %d, want 2", len(limited))
	}
}

func TestRetentionPrunesOldest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.HistoryRetentionLimit = 2
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		token := fmt.Sprintf("tok-%d", i)
		if _, err := store.Add(ctx, token, "record", "/tmp/out.mp4", "", "completed"); err != nil {
			t.Fatalf("Add %s: %v", token, err)
		}
	}

	records, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("retention kept %d records, want 2", len(records))
	}
	if store.GetByToken(ctx, "tok-0") != nil {
		t.Fatal("oldest record should have been pruned")
	}
}

func TestGetByTokenMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if rec := store.GetByToken(context.Background(), "absent"); rec != nil {
		t.Fatalf("expected nil for unknown token, got %+v", rec)
	}
}
