package dispatchlog_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"lendwire/internal/dispatchlog"
	"lendwire/internal/notifications"
	"lendwire/internal/request"
	"lendwire/internal/tier"
)

func openStore(t *testing.T) *dispatchlog.Store {
	t.Helper()
	store, err := dispatchlog.OpenPath(filepath.Join(t.TempDir(), "dispatchlog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	attempts := []notifications.Attempt{
		{RequestID: "req-1", Event: request.EventNewRequest, Tier: tier.Medium, Outcome: notifications.OutcomeSent, At: base},
		{RequestID: "req-1", Event: request.EventStatusChanged, Tier: tier.Medium, Outcome: notifications.OutcomeFailed, Detail: "slack returned 500", At: base.Add(time.Minute)},
		{RequestID: "req-2", Event: request.EventNewRequest, Tier: tier.Large, Outcome: notifications.OutcomeSkipped, Detail: "no channel configured", At: base.Add(2 * time.Minute)},
	}
	for _, attempt := range attempts {
		if err := store.RecordAttempt(ctx, attempt); err != nil {
			t.Fatalf("record attempt: %v", err)
		}
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].RequestID != "req-2" || entries[0].Outcome != notifications.OutcomeSkipped {
		t.Fatalf("unexpected newest entry: %+v", entries[0])
	}
	if entries[2].Event != request.EventNewRequest || entries[2].Tier != tier.Medium {
		t.Fatalf("unexpected oldest entry: %+v", entries[2])
	}
	if !entries[2].At.Equal(base) {
		t.Fatalf("timestamp not preserved: %v", entries[2].At)
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		attempt := notifications.Attempt{
			RequestID: "req-1",
			Event:     request.EventNewRequest,
			Tier:      tier.Small,
			Outcome:   notifications.OutcomeSent,
			At:        time.Now().UTC(),
		}
		if err := store.RecordAttempt(ctx, attempt); err != nil {
			t.Fatalf("record attempt: %v", err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestForRequest(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, id := range []string{"req-1", "req-2", "req-1"} {
		attempt := notifications.Attempt{
			RequestID: id,
			Event:     request.EventNewRequest,
			Tier:      tier.Small,
			Outcome:   notifications.OutcomeSent,
			At:        time.Now().UTC(),
		}
		if err := store.RecordAttempt(ctx, attempt); err != nil {
			t.Fatalf("record attempt: %v", err)
		}
	}

	entries, err := store.ForRequest(ctx, "req-1")
	if err != nil {
		t.Fatalf("for request: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for req-1, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.RequestID != "req-1" {
			t.Fatalf("unexpected entry: %+v", entry)
		}
	}
}

func TestOutcomeCounts(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	outcomes := []string{
		notifications.OutcomeSent,
		notifications.OutcomeSent,
		notifications.OutcomeFailed,
		notifications.OutcomeSkipped,
	}
	for _, outcome := range outcomes {
		attempt := notifications.Attempt{
			RequestID: "req-1",
			Event:     request.EventNewRequest,
			Tier:      tier.Small,
			Outcome:   outcome,
			At:        time.Now().UTC(),
		}
		if err := store.RecordAttempt(ctx, attempt); err != nil {
			t.Fatalf("record attempt: %v", err)
		}
	}

	counts, err := store.OutcomeCounts(ctx)
	if err != nil {
		t.Fatalf("outcome counts: %v", err)
	}
	if counts[notifications.OutcomeSent] != 2 || counts[notifications.OutcomeFailed] != 1 || counts[notifications.OutcomeSkipped] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestReopenPreservesEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dispatchlog.db")
	ctx := context.Background()

	store, err := dispatchlog.OpenPath(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	attempt := notifications.Attempt{
		RequestID: "req-1",
		Event:     request.EventNewRequest,
		Tier:      tier.Small,
		Outcome:   notifications.OutcomeSent,
		At:        time.Now().UTC(),
	}
	if err := store.RecordAttempt(ctx, attempt); err != nil {
		t.Fatalf("record attempt: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := dispatchlog.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	entries, err := reopened.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected persisted entry after reopen, got %d", len(entries))
	}
}
