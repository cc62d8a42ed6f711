package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(Run{
		ScenarioID:    "breach-drill",
		Seed:          7,
		Ticks:         420,
		Destroyed:     3,
		Detached:      11,
		Depressurized: 1,
		GunnerShots:   28,
		EndReason:     "crippled",
		DurationMs:    1500,
	})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("SaveRun() id = %q, expected a UUID: %v", id, err)
	}

	run, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run == nil {
		t.Fatal("RunByID() = nil, expected run")
	}
	if run.ScenarioID != "breach-drill" || run.Seed != 7 || run.Ticks != 420 {
		t.Errorf("RunByID() = %+v, fields do not match", run)
	}
	if run.Detached != 11 || run.Depressurized != 1 || run.GunnerShots != 28 {
		t.Errorf("RunByID() = %+v, counters do not match", run)
	}
	if run.EndReason != "crippled" {
		t.Errorf("EndReason = %q, expected %q", run.EndReason, "crippled")
	}
	if run.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
}

func TestStoreKeepsExplicitID(t *testing.T) {
	store := openTestStore(t)

	want := uuid.NewString()
	got, err := store.SaveRun(Run{ID: want, ScenarioID: "duel", EndReason: "quit"})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if got != want {
		t.Errorf("SaveRun() = %q, expected %q", got, want)
	}

	if _, err := store.SaveRun(Run{ID: want, ScenarioID: "duel", EndReason: "quit"}); err == nil {
		t.Error("SaveRun(duplicate id) = nil error, expected error")
	}
}

func TestStoreRunByIDMissing(t *testing.T) {
	store := openTestStore(t)

	run, err := store.RunByID("missing")
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run != nil {
		t.Errorf("RunByID(missing) = %+v, expected nil", run)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for i := 1; i <= 5; i++ {
		if _, err := store.SaveRun(Run{ScenarioID: "outpost", Ticks: int64(i), EndReason: "tick_limit"}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	store.SaveRun(Run{ScenarioID: "duel", Ticks: 99, EndReason: "quit"})

	runs, err := store.RecentRuns("outpost", 3)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs with limit, got %d", len(runs))
	}
	// Newest first
	if runs[0].Ticks != 5 || runs[1].Ticks != 4 || runs[2].Ticks != 3 {
		t.Errorf("Runs not in expected order: %v", runs)
	}

	all, err := store.RecentRuns("", 0)
	if err != nil {
		t.Fatalf("RecentRuns(all) failed: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("Expected 6 runs across scenarios, got %d", len(all))
	}
	if all[0].ScenarioID != "duel" {
		t.Errorf("Expected newest run to be duel, got %s", all[0].ScenarioID)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{ScenarioID: "outpost", EndReason: "quit"})
	store.SaveRun(Run{ScenarioID: "outpost", EndReason: "quit"})
	store.SaveRun(Run{ScenarioID: "duel", EndReason: "quit"})

	if err := store.ClearRuns("outpost"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	outpost, _ := store.RecentRuns("outpost", 10)
	if len(outpost) != 0 {
		t.Errorf("Expected 0 outpost runs after clear, got %d", len(outpost))
	}

	duel, _ := store.RecentRuns("duel", 10)
	if len(duel) != 1 {
		t.Errorf("Duel runs should not be affected by clearing outpost")
	}
}

func TestStoreScenarioStats(t *testing.T) {
	store := openTestStore(t)

	// No runs yet
	empty, err := store.GetScenarioStats("breach-drill")
	if err != nil {
		t.Fatalf("GetScenarioStats() failed: %v", err)
	}
	if empty.Runs != 0 || empty.MostDestroyed != 0 {
		t.Errorf("Expected empty stats, got %+v", empty)
	}

	store.SaveRun(Run{ScenarioID: "breach-drill", Ticks: 100, Destroyed: 2, Detached: 11, EndReason: "crippled"})
	store.SaveRun(Run{ScenarioID: "breach-drill", Ticks: 300, Destroyed: 5, Detached: 4, EndReason: "tick_limit"})
	store.SaveRun(Run{ScenarioID: "duel", Ticks: 50, Destroyed: 9, EndReason: "quit"})

	stats, err := store.GetScenarioStats("breach-drill")
	if err != nil {
		t.Fatalf("GetScenarioStats() failed: %v", err)
	}
	if stats.Runs != 2 {
		t.Errorf("Runs = %d, expected 2", stats.Runs)
	}
	if stats.Crippled != 1 {
		t.Errorf("Crippled = %d, expected 1", stats.Crippled)
	}
	if stats.MostDestroyed != 5 {
		t.Errorf("MostDestroyed = %d, expected 5", stats.MostDestroyed)
	}
	if stats.AvgTicks != 200 {
		t.Errorf("AvgTicks = %f, expected 200", stats.AvgTicks)
	}
	if stats.TotalDetached != 15 {
		t.Errorf("TotalDetached = %d, expected 15", stats.TotalDetached)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed was not set")
	}

	all, err := store.GetAllScenarioStats()
	if err != nil {
		t.Fatalf("GetAllScenarioStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected stats for 2 scenarios, got %d", len(all))
	}
	if all["duel"] == nil || all["duel"].MostDestroyed != 9 {
		t.Errorf("Unexpected duel stats: %+v", all["duel"])
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
