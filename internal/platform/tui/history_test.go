package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-airhockey/internal/match"
	"github.com/vovakirdan/tui-airhockey/internal/storage"
)

func seedHistory(t *testing.T, store *storage.Store) {
	t.Helper()
	records := []storage.MatchRecord{
		{MatchID: "a", GameID: "airhockey", Mode: match.HighScore, Value: 7, LeftGoals: 7, RightGoals: 2,
			Result: match.LeftPlayerWin, EndReason: storage.EndReasonCompleted, LeftName: "alice", RightName: "CPU"},
		{MatchID: "b", GameID: "airhockey_duel", Mode: match.Time, Value: 3, LeftGoals: 1, RightGoals: 1,
			Result: match.Tie, EndReason: storage.EndReasonCompleted, LeftName: "P1", RightName: "P2"},
		{MatchID: "c", GameID: "airhockey", Mode: match.HighScore, Value: 5, LeftGoals: 0, RightGoals: 2,
			Result: match.RightPlayerWin, EndReason: storage.EndReasonStopped, LeftName: "bob", RightName: "CPU"},
	}
	for _, rec := range records {
		_, err := store.SaveMatch(rec)
		require.NoError(t, err)
	}
}

func matchIDs(records []storage.MatchRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.MatchID)
	}
	return ids
}

func TestHistoryFilters(t *testing.T) {
	store := openStore(t)
	seedHistory(t, store)
	tab := tea.KeyMsg{Type: tea.KeyTab}

	m := NewHistoryModel(store, 80, 30)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, matchIDs(m.Matches()))
	assert.Contains(t, m.View(), "3 matches  |  left wins 1  |  right wins 1  |  ties 1  |  13 goals")

	m = press(t, m, tab)
	assert.ElementsMatch(t, []string{"a", "c"}, matchIDs(m.Matches()))
	assert.Contains(t, m.View(), "MATCH HISTORY - High Score")
	assert.Contains(t, m.View(), "2 matches")

	m = press(t, m, tab, tab)
	if diff := cmp.Diff([]string{"b"}, matchIDs(m.Matches())); diff != "" {
		t.Errorf("time filter (-want +got):\n%s", diff)
	}

	m = press(t, m, tab)
	assert.Empty(t, m.Matches())
	assert.Contains(t, m.View(), "No matches recorded yet.")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Len(t, m.Matches(), 1, "shift+tab goes back to time")

	m = press(t, m, tab)
	m = press(t, m, tab)
	assert.Len(t, m.Matches(), 3, "filters wrap around")
}

func TestHistoryRow(t *testing.T) {
	rec := storage.MatchRecord{
		Mode: match.Time, Value: 3, LeftGoals: 4, RightGoals: 6,
		Result: match.RightPlayerWin, EndReason: storage.EndReasonStopped,
		LeftName: "alice", RightName: "bob",
	}
	row := historyRow(rec)
	if diff := cmp.Diff([]string{"Time 3 min", "alice v bob", "4-6", "bob", "stopped"}, []string(row[1:])); diff != "" {
		t.Errorf("row (-want +got):\n%s", diff)
	}

	rec.Result = match.Tie
	assert.Equal(t, "tie", historyRow(rec)[4])

	assert.Equal(t, "Endless", settingsShort(match.EndlessSettings()))
	assert.Equal(t, "Best Of 5", settingsShort(mustSettings(t, match.BestOfScore, 5)))
}

func TestHistoryWithoutStore(t *testing.T) {
	m := NewHistoryModel(nil, 120, 30)
	assert.Contains(t, m.View(), "Match history is unavailable.")
	assert.Contains(t, m.View(), "0 matches")

	m = press(t, m, keyEsc)
	assert.True(t, m.IsGoingBack())
}

func mustSettings(t *testing.T, mode match.Mode, v uint32) match.Settings {
	t.Helper()
	s, err := match.NewSettings(mode, v)
	require.NoError(t, err)
	return s
}
