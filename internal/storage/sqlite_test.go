package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vovakirdan/tui-airhockey/internal/match"
	"github.com/vovakirdan/tui-airhockey/internal/multiplayer"
)

var ignoreGenerated = cmpopts.IgnoreFields(MatchRecord{}, "ID", "CreatedAt")

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustSave(t *testing.T, store *Store, rec MatchRecord) int64 {
	t.Helper()

	id, err := store.SaveMatch(rec)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	return id
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreOpenExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.airhockey/history.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".airhockey", "history.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}

func TestSaveAndLoadMatch(t *testing.T) {
	store := openTestStore(t)

	want := MatchRecord{
		MatchID:      "m-1",
		GameID:       "airhockey",
		Mode:         match.BestOfScore,
		Value:        5,
		LeftGoals:    3,
		RightGoals:   1,
		Result:       match.LeftPlayerWin,
		EndReason:    EndReasonCompleted,
		DurationSecs: 95,
		LeftName:     "P1",
		RightName:    "CPU",
	}
	id := mustSave(t, store, want)
	if id <= 0 {
		t.Errorf("expected positive ID, got %d", id)
	}

	got, err := store.MatchByID("m-1")
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("MatchByID() returned nil for a saved match")
	}
	if diff := cmp.Diff(want, *got, ignoreGenerated); diff != "" {
		t.Errorf("MatchByID() mismatch (-want +got):\n%s", diff)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	settings, err := got.Settings()
	if err != nil {
		t.Fatalf("Settings() failed: %v", err)
	}
	if settings.Describe() != "Best Of - scores: 5 points" {
		t.Errorf("unexpected settings %q", settings.Describe())
	}
}

func TestMatchByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.MatchByID("nope")
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestSaveMatchDefaults(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, MatchRecord{GameID: "airhockey", Mode: match.Endless, Result: match.Tie})

	recent, err := store.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 match, got %d", len(recent))
	}
	if len(recent[0].MatchID) != 36 {
		t.Errorf("expected generated UUID, got %q", recent[0].MatchID)
	}
	if recent[0].EndReason != EndReasonCompleted {
		t.Errorf("expected default end reason, got %q", recent[0].EndReason)
	}
}

func TestSaveMatchRejectsBadMode(t *testing.T) {
	store := openTestStore(t)

	_, err := store.SaveMatch(MatchRecord{GameID: "airhockey", Mode: match.Mode(42)})
	if !errors.Is(err, match.ErrInvalidUsage) {
		t.Errorf("expected ErrInvalidUsage, got %v", err)
	}
}

func TestSaveMatchDuplicateID(t *testing.T) {
	store := openTestStore(t)

	rec := MatchRecord{MatchID: "dup", GameID: "airhockey", Mode: match.HighScore, Value: 7}
	mustSave(t, store, rec)
	if _, err := store.SaveMatch(rec); err == nil {
		t.Error("expected error saving a duplicate match ID")
	}
}

func TestRecentMatchesOrderAndLimit(t *testing.T) {
	store := openTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		mustSave(t, store, MatchRecord{MatchID: id, GameID: "airhockey", Mode: match.HighScore, Value: 7})
	}

	recent, err := store.RecentMatches(2)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	var ids []string
	for _, r := range recent {
		ids = append(ids, r.MatchID)
	}
	if diff := cmp.Diff([]string{"c", "b"}, ids); diff != "" {
		t.Errorf("RecentMatches() order mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchesByMode(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, MatchRecord{MatchID: "h1", GameID: "airhockey", Mode: match.HighScore, Value: 7})
	mustSave(t, store, MatchRecord{MatchID: "t1", GameID: "airhockey", Mode: match.Time, Value: 3})
	mustSave(t, store, MatchRecord{MatchID: "h2", GameID: "airhockey_duel", Mode: match.HighScore, Value: 5})

	got, err := store.MatchesByMode(match.HighScore, 0)
	if err != nil {
		t.Fatalf("MatchesByMode() failed: %v", err)
	}
	if len(got) != 2 || got[0].MatchID != "h2" || got[1].MatchID != "h1" {
		t.Errorf("unexpected high score matches: %+v", got)
	}

	if _, err := store.MatchesByMode(match.Mode(9), 10); !errors.Is(err, match.ErrInvalidUsage) {
		t.Errorf("expected ErrInvalidUsage for unknown mode, got %v", err)
	}
}

func TestStats(t *testing.T) {
	store := openTestStore(t)

	for i, r := range []match.Result{match.LeftPlayerWin, match.LeftPlayerWin, match.RightPlayerWin} {
		mustSave(t, store, MatchRecord{
			MatchID:    string(rune('a' + i)),
			GameID:     "airhockey",
			Mode:       match.HighScore,
			Value:      3,
			LeftGoals:  3,
			RightGoals: 1,
			Result:     r,
		})
	}
	mustSave(t, store, MatchRecord{MatchID: "t", GameID: "airhockey", Mode: match.Time, Value: 1, Result: match.Tie})

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}

	want := []ModeStats{
		{Mode: match.HighScore, Matches: 3, LeftWins: 2, RightWins: 1, Goals: 12},
		{Mode: match.Time, Matches: 1, Ties: 1},
	}
	if diff := cmp.Diff(want, stats, cmpopts.IgnoreFields(ModeStats{}, "LastPlayed")); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}

func TestClearMatches(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, MatchRecord{GameID: "airhockey", Mode: match.Endless})
	if err := store.ClearMatches(); err != nil {
		t.Fatalf("ClearMatches() failed: %v", err)
	}

	recent, err := store.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("expected empty history, got %d matches", len(recent))
	}
}

func TestSaveMatchResult(t *testing.T) {
	store := openTestStore(t)

	settings, err := match.NewSettings(match.Time, 2)
	if err != nil {
		t.Fatalf("NewSettings() failed: %v", err)
	}

	data := multiplayer.MatchResultData{
		MatchID:      "online-1",
		GameID:       "airhockey_duel",
		Settings:     settings,
		LeftName:     "alice",
		RightName:    "bob",
		LeftGoals:    2,
		RightGoals:   4,
		Result:       match.LeftPlayerWin,
		EndReason:    "disconnect",
		DurationSecs: 61,
	}
	if err := store.SaveMatchResult(data); err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	got, err := store.MatchByID("online-1")
	if err != nil || got == nil {
		t.Fatalf("MatchByID() = %v, %v", got, err)
	}

	want := MatchRecord{
		MatchID:      "online-1",
		GameID:       "airhockey_duel",
		Mode:         match.Time,
		Value:        2,
		LeftGoals:    2,
		RightGoals:   4,
		Result:       match.LeftPlayerWin,
		EndReason:    "disconnect",
		DurationSecs: 61,
		LeftName:     "alice",
		RightName:    "bob",
	}
	if diff := cmp.Diff(want, *got, ignoreGenerated); diff != "" {
		t.Errorf("stored online match mismatch (-want +got):\n%s", diff)
	}
}
