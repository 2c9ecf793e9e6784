package game

import (
	"testing"
	"time"
)

// stubWords feeds a fixed word sequence and dictionary to a session.
type stubWords struct {
	queue []string
	dict  mapDict
}

func (s *stubWords) NextWord(length int) (string, bool) {
	if len(s.queue) == 0 {
		return "", false
	}
	w := s.queue[0]
	s.queue = s.queue[1:]
	return w, true
}

func (s *stubWords) Contains(word string) bool { return s.dict.Contains(word) }

var t0 = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, words *stubWords) *Session {
	t.Helper()
	return NewSession("test", DefaultConfig(), words, testRNG(42))
}

func sendLetters(s *Session, word string) {
	for _, r := range word {
		s.HandleCommand(Command{Kind: CmdPushLetter, Letter: r}, t0)
	}
}

func eventKinds(evs []Event) map[EventKind]int {
	m := make(map[EventKind]int)
	for _, e := range evs {
		m[e.Kind]++
	}
	return m
}

func TestSolveAwardsCurrentTeam(t *testing.T) {
	words := &stubWords{queue: []string{"kato"}, dict: mapDict{"KATO": true}}
	s := newTestSession(t, words)

	sendLetters(s, "KATO")
	if !s.HandleCommand(Command{Kind: CmdSubmitGuess}, t0) {
		t.Fatal("submit should apply")
	}

	if !s.Puzzle().Solved() {
		t.Fatal("puzzle should be solved")
	}
	// 4 letters × 10 points, to the team whose turn it is (left).
	if got := s.Scoreboard().Team(SideLeft).Score; got != 40 {
		t.Errorf("left score = %d, want 40", got)
	}
	if got := s.Scoreboard().Team(SideRight).Score; got != 0 {
		t.Errorf("right score = %d, want 0", got)
	}
	kinds := eventKinds(s.TakeEvents())
	if kinds[EventSolved] != 1 || kinds[EventScoreChanged] == 0 {
		t.Errorf("events = %v, want solved and score_changed", kinds)
	}
}

func TestWordCommandsIgnoredOffWordPage(t *testing.T) {
	words := &stubWords{queue: []string{"kato"}, dict: mapDict{"KATO": true}}
	s := newTestSession(t, words)

	s.HandleCommand(Command{Kind: CmdNavigatePage, Dir: DirLeft}, t0)
	if s.Page() != PageLeftBingo {
		t.Fatalf("page = %v, want left bingo", s.Page())
	}

	if s.HandleCommand(Command{Kind: CmdPushLetter, Letter: 'K'}, t0) {
		t.Error("letters on a bingo page must be ignored")
	}
	if s.HandleCommand(Command{Kind: CmdSubmitGuess}, t0) {
		t.Error("submit on a bingo page must be ignored")
	}
	if len(s.Puzzle().Current()) != 0 {
		t.Error("puzzle state leaked from a bingo page")
	}
}

func TestBingoCommandsIgnoredOnWordPage(t *testing.T) {
	words := &stubWords{queue: []string{"kato"}, dict: mapDict{"KATO": true}}
	s := newTestSession(t, words)

	if s.HandleCommand(Command{Kind: CmdDrawBall}, t0) {
		t.Error("draw ball on the word page must be ignored")
	}
	if s.HandleCommand(Command{Kind: CmdNewGrid}, t0) {
		t.Error("new grid on the word page must be ignored")
	}
	if s.Tombola().Remaining() != 25 {
		t.Error("tombola touched from the word page")
	}
}

func TestNavigateSaturates(t *testing.T) {
	s := newTestSession(t, &stubWords{queue: []string{"kato"}, dict: mapDict{}})

	s.HandleCommand(Command{Kind: CmdNavigatePage, Dir: DirRight}, t0)
	if s.Page() != PageRightBingo {
		t.Fatalf("page = %v", s.Page())
	}
	if s.HandleCommand(Command{Kind: CmdNavigatePage, Dir: DirRight}, t0) {
		t.Error("navigation should saturate at the right bingo page")
	}

	s.HandleCommand(Command{Kind: CmdNavigatePage, Dir: DirLeft}, t0)
	s.HandleCommand(Command{Kind: CmdNavigatePage, Dir: DirLeft}, t0)
	if s.Page() != PageLeftBingo {
		t.Fatalf("page = %v, want left bingo", s.Page())
	}
	if s.HandleCommand(Command{Kind: CmdNavigatePage, Dir: DirLeft}, t0) {
		t.Error("navigation should saturate at the left bingo page")
	}
}

func TestAdjustScoreTargetsVisiblePage(t *testing.T) {
	s := newTestSession(t, &stubWords{queue: []string{"kato"}, dict: mapDict{}})

	// Word page: the current turn team takes the adjustment.
	s.Scoreboard().SwitchTeam() // right team's turn
	s.HandleCommand(Command{Kind: CmdAdjustScore, Delta: 1}, t0)
	if got := s.Scoreboard().Team(SideRight).Score; got != 10 {
		t.Errorf("right score = %d, want 10", got)
	}

	// Left bingo page: the left team takes it, regardless of turn.
	s.HandleCommand(Command{Kind: CmdNavigatePage, Dir: DirLeft}, t0)
	s.HandleCommand(Command{Kind: CmdAdjustScore, Delta: -1}, t0)
	if got := s.Scoreboard().Team(SideLeft).Score; got != -10 {
		t.Errorf("left score = %d, want -10", got)
	}

	// An explicit side always wins.
	s.HandleCommand(Command{Kind: CmdAdjustScore, Delta: 1, Side: SideRight, SideSet: true}, t0)
	if got := s.Scoreboard().Team(SideRight).Score; got != 20 {
		t.Errorf("right score = %d, want 20", got)
	}
}

func TestAdjustScoreZeroDeltaIgnored(t *testing.T) {
	s := newTestSession(t, &stubWords{queue: []string{"kato"}, dict: mapDict{}})
	s.TakeEvents()

	if s.HandleCommand(Command{Kind: CmdAdjustScore, Delta: 0}, t0) {
		t.Fatal("zero delta should be ignored")
	}
	if got := s.Scoreboard().Team(SideLeft).Score; got != 0 {
		t.Errorf("score = %d, want untouched 0", got)
	}
	if len(s.TakeEvents()) != 0 {
		t.Error("ignored adjustment must not queue events")
	}
}

func TestToggleTeamOrTimerPerMode(t *testing.T) {
	s := newTestSession(t, &stubWords{queue: []string{"kato"}, dict: mapDict{}})

	s.HandleCommand(Command{Kind: CmdToggleTeamOrTimer}, t0)
	if s.Scoreboard().Current() != SideRight {
		t.Fatal("normal mode toggle should switch teams")
	}

	s.HandleCommand(Command{Kind: CmdToggleSuperDiveno}, t0)
	if s.Mode() != ModeSuperDiveno {
		t.Fatal("mode should be super diveno")
	}
	if s.Timer().State() != TimerStopped {
		t.Fatal("entering super diveno should leave the timer stopped")
	}

	s.HandleCommand(Command{Kind: CmdToggleTeamOrTimer}, t0)
	if s.Timer().State() != TimerRunning {
		t.Fatal("super diveno toggle should start the timer")
	}
	if s.Scoreboard().Current() != SideRight {
		t.Error("super diveno toggle must not switch teams")
	}

	s.HandleCommand(Command{Kind: CmdToggleTeamOrTimer}, t0.Add(10*time.Second))
	if s.Timer().State() != TimerPaused {
		t.Fatal("second toggle should pause the timer")
	}
}

func TestSuperDivenoTimerExpiry(t *testing.T) {
	s := newTestSession(t, &stubWords{queue: []string{"kato"}, dict: mapDict{}})
	s.HandleCommand(Command{Kind: CmdToggleSuperDiveno}, t0)
	s.HandleCommand(Command{Kind: CmdToggleTeamOrTimer}, t0) // start
	s.TakeEvents()

	s.Tick(t0.Add(time.Minute))
	if kinds := eventKinds(s.TakeEvents()); kinds[EventTimerExpired] != 0 {
		t.Fatal("timer expired early")
	}

	s.Tick(t0.Add(6 * time.Minute))
	if kinds := eventKinds(s.TakeEvents()); kinds[EventTimerExpired] != 1 {
		t.Fatal("timer expiry event missing")
	}

	// Expiry stops the timer; further ticks stay silent.
	s.Tick(t0.Add(7 * time.Minute))
	if kinds := eventKinds(s.TakeEvents()); kinds[EventTimerExpired] != 0 {
		t.Fatal("expiry fired twice")
	}
}

func TestSuperDivenoSolveCountsWords(t *testing.T) {
	words := &stubWords{queue: []string{"kato"}, dict: mapDict{"KATO": true}}
	s := newTestSession(t, words)
	s.HandleCommand(Command{Kind: CmdToggleSuperDiveno}, t0)

	sendLetters(s, "KATO")
	s.HandleCommand(Command{Kind: CmdSubmitGuess}, t0)
	if got := s.Scoreboard().Team(SideLeft).WordsSolved; got != 1 {
		t.Errorf("wordsSolved = %d, want 1", got)
	}
}

func TestRejectSolvingGuessRevertsAward(t *testing.T) {
	words := &stubWords{queue: []string{"kato"}, dict: mapDict{"KATO": true}}
	s := newTestSession(t, words)
	s.HandleCommand(Command{Kind: CmdToggleSuperDiveno}, t0)

	sendLetters(s, "KATO")
	s.HandleCommand(Command{Kind: CmdSubmitGuess}, t0)
	s.HandleCommand(Command{Kind: CmdRejectGuess}, t0)

	if s.Puzzle().Solved() {
		t.Fatal("rejected solving guess should unsolve the puzzle")
	}
	if got := s.Scoreboard().Team(SideLeft).Score; got != 0 {
		t.Errorf("score = %d, award should be reverted", got)
	}
	if got := s.Scoreboard().Team(SideLeft).WordsSolved; got != 0 {
		t.Errorf("wordsSolved = %d, want 0", got)
	}
	if got := string(s.Puzzle().Current()); got != "KATO" {
		t.Errorf("current = %q, want the withdrawn guess back", got)
	}
}

func TestRejectNonSolvingGuessKeepsScore(t *testing.T) {
	words := &stubWords{queue: []string{"kato"}, dict: mapDict{"KATO": true, "PANO": true}}
	s := newTestSession(t, words)

	sendLetters(s, "PANO")
	s.HandleCommand(Command{Kind: CmdSubmitGuess}, t0)
	s.HandleCommand(Command{Kind: CmdRejectGuess}, t0)

	if got := s.Scoreboard().Team(SideLeft).Score; got != 0 {
		t.Errorf("score = %d, want untouched 0", got)
	}
	if got := string(s.Puzzle().Current()); got != "PANO" {
		t.Errorf("current = %q, want PANO", got)
	}
	if len(s.Puzzle().Guesses()) != 0 {
		t.Error("guess should have left the history")
	}
}

func TestDrawBallMarksBothGridsAndPaysLines(t *testing.T) {
	words := &stubWords{queue: []string{"kato"}, dict: mapDict{}}
	s := newTestSession(t, words)
	s.HandleCommand(Command{Kind: CmdNavigatePage, Dir: DirLeft}, t0)
	s.TakeEvents()

	// Pool size equals the cell count, so every ball sits on both grids.
	for i := 0; i < 25; i++ {
		if !s.HandleCommand(Command{Kind: CmdDrawBall}, t0) {
			t.Fatalf("draw %d ignored", i)
		}
	}

	full := uint32(1<<25) - 1
	if s.Grid(SideLeft).Marked() != full || s.Grid(SideRight).Marked() != full {
		t.Fatal("drawing the whole pool should mark every cell on both grids")
	}
	// 12 lines per grid (5 rows + 5 columns + 2 diagonals) × 100 points.
	if got := s.Scoreboard().Team(SideLeft).Score; got != 1200 {
		t.Errorf("left score = %d, want 1200", got)
	}
	if got := s.Scoreboard().Team(SideRight).Score; got != 1200 {
		t.Errorf("right score = %d, want 1200", got)
	}

	// Pool exhausted: the next draw surfaces a signal, not a crash.
	s.TakeEvents()
	s.HandleCommand(Command{Kind: CmdDrawBall}, t0)
	if kinds := eventKinds(s.TakeEvents()); kinds[EventNoBallsRemaining] != 1 {
		t.Error("exhausted tombola should queue no_balls_remaining")
	}
}

func TestNewGridRefillsTombola(t *testing.T) {
	words := &stubWords{queue: []string{"kato"}, dict: mapDict{}}
	s := newTestSession(t, words)
	s.HandleCommand(Command{Kind: CmdNavigatePage, Dir: DirRight}, t0)

	for i := 0; i < 10; i++ {
		s.HandleCommand(Command{Kind: CmdDrawBall}, t0)
	}
	before := s.Grid(SideLeft).Marked()

	s.HandleCommand(Command{Kind: CmdNewGrid}, t0)
	if s.Tombola().Remaining() != 25 {
		t.Errorf("tombola remaining = %d, want 25", s.Tombola().Remaining())
	}
	if s.Grid(SideRight).Marked() != 0 {
		t.Error("visible side's grid should be fresh")
	}
	if s.Grid(SideLeft).Marked() != before {
		t.Error("the other side's grid must persist")
	}
}

func TestNewWordReplacesPuzzle(t *testing.T) {
	words := &stubWords{queue: []string{"kato", "hundo"}, dict: mapDict{"KATO": true}}
	s := newTestSession(t, words)

	sendLetters(s, "KATO")
	s.HandleCommand(Command{Kind: CmdSubmitGuess}, t0)
	s.TakeEvents()

	s.HandleCommand(Command{Kind: CmdNewWord}, t0)
	if s.Puzzle().Secret() != "HUNDO" {
		t.Fatalf("secret = %q, want HUNDO", s.Puzzle().Secret())
	}
	if s.Puzzle().Solved() || len(s.Puzzle().Guesses()) != 0 {
		t.Error("new word should reset the puzzle")
	}
	kinds := eventKinds(s.TakeEvents())
	if kinds[EventWordChanged] != 1 {
		t.Error("word_changed event missing")
	}

	// Source exhausted: a signal, and the old puzzle stays playable.
	s.HandleCommand(Command{Kind: CmdNewWord}, t0)
	if kinds := eventKinds(s.TakeEvents()); kinds[EventNoWordAvailable] != 1 {
		t.Error("no_word_available event missing")
	}
	if s.Puzzle().Secret() != "HUNDO" {
		t.Error("puzzle must survive an exhausted word source")
	}
}

func TestEventQueueDedups(t *testing.T) {
	words := &stubWords{queue: []string{"kato"}, dict: mapDict{}}
	s := newTestSession(t, words)
	s.TakeEvents()

	sendLetters(s, "KA")
	kinds := eventKinds(s.TakeEvents())
	if kinds[EventGridChanged] != 1 {
		t.Errorf("grid_changed queued %d times, want 1", kinds[EventGridChanged])
	}
}

func TestDirtyFlagLifecycle(t *testing.T) {
	words := &stubWords{queue: []string{"kato"}, dict: mapDict{}}
	s := newTestSession(t, words)

	if !s.Dirty() {
		t.Fatal("a fresh session has everything to draw")
	}
	s.MarkRendered()
	if s.Dirty() {
		t.Fatal("MarkRendered should clear the flag")
	}
	if s.Snapshot().Dirty {
		t.Fatal("snapshot should reflect the cleared flag")
	}

	s.HandleCommand(Command{Kind: CmdPushLetter, Letter: 'K'}, t0)
	if !s.Dirty() {
		t.Fatal("a state change should set the flag")
	}
}

func TestSnapshotHidesUnrevealedSecret(t *testing.T) {
	words := &stubWords{queue: []string{"kato"}, dict: mapDict{}}
	s := newTestSession(t, words)

	snap := s.Snapshot()
	if snap.Word.Visible[0] != "K" {
		t.Errorf("first letter should start revealed, got %q", snap.Word.Visible[0])
	}
	for i := 1; i < 4; i++ {
		if snap.Word.Visible[i] != "" {
			t.Errorf("position %d leaked %q", i, snap.Word.Visible[i])
		}
	}

	s.HandleCommand(Command{Kind: CmdAddHint}, t0)
	snap = s.Snapshot()
	if snap.Word.Visible[1] != "A" {
		t.Errorf("hint should reveal the second letter, got %q", snap.Word.Visible[1])
	}
	if snap.Word.HintsGiven != 1 {
		t.Errorf("hintsGiven = %d, want 1", snap.Word.HintsGiven)
	}
}

func TestFallbackWordWhenSourceEmpty(t *testing.T) {
	s := newTestSession(t, &stubWords{dict: mapDict{}})
	if s.Puzzle().Secret() != "ERARO" {
		t.Errorf("secret = %q, want the fallback word", s.Puzzle().Secret())
	}
}
