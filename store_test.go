package main

import (
	"errors"
	"sync"
	"testing"

	"github.com/bodul/funzone/internal/puzzle"
)

func newTestCrossword() *Puzzle {
	return &Puzzle{
		Kind: KindCrossword,
		Crossword: puzzle.GenerateCrossword([]puzzle.Entry{
			{Word: "ירושלים", Clue: "בירת ישראל"},
			{Word: "שמש", Clue: "מאירה ביום"},
		}, 12, 12, puzzle.Options{}),
	}
}

func newTestTashchetz() *Puzzle {
	return &Puzzle{
		Kind: KindTashchetz,
		Tashchetz: puzzle.GenerateTashchetz([]puzzle.Entry{
			{Word: "אריה", Clue: "מלך החיות"},
		}, 11, 14, puzzle.Options{}),
	}
}

func TestSaveAndGetPuzzle(t *testing.T) {
	s := NewStore()
	p := s.SavePuzzle(newTestCrossword())

	if p.ID == "" {
		t.Fatal("expected puzzle to have an ID")
	}
	if got := s.GetPuzzle(p.ID); got == nil {
		t.Fatal("expected to find saved puzzle")
	}
	if got := s.GetPuzzle("nonexistent"); got != nil {
		t.Fatal("expected nil for unknown ID")
	}
}

func TestListPuzzles(t *testing.T) {
	s := NewStore()
	s.SavePuzzle(newTestCrossword())
	s.SavePuzzle(newTestTashchetz())

	list := s.ListPuzzles()
	if len(list) != 2 {
		t.Fatalf("expected 2 puzzles, got %d", len(list))
	}
	if list[0].CreatedAt.Before(list[1].CreatedAt) {
		t.Fatal("expected puzzles sorted by descending creation time")
	}
}

func TestCreateGame(t *testing.T) {
	s := NewStore()

	if _, err := s.CreateGame("unknown"); !errors.Is(err, ErrPuzzleNotFound) {
		t.Fatalf("expected ErrPuzzleNotFound, got %v", err)
	}

	ws := s.SavePuzzle(&Puzzle{Kind: KindWordSearch, WordSearch: puzzle.GenerateWordSearch(nil, puzzle.Options{})})
	if _, err := s.CreateGame(ws.ID); !errors.Is(err, ErrNotPlayable) {
		t.Fatalf("expected ErrNotPlayable, got %v", err)
	}

	p := s.SavePuzzle(newTestTashchetz())
	game, err := s.CreateGame(p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if game.PuzzleID != p.ID {
		t.Fatal("game should reference the puzzle")
	}
	if len(game.State) != 14 || len(game.State[0]) != 11 {
		t.Fatalf("expected 14x11 state, got %dx%d", len(game.State), len(game.State[0]))
	}
	if s.GetGame(game.ID) == nil || len(s.ListGames()) != 1 {
		t.Fatal("game should be stored")
	}
}

func TestGameAddPlayer(t *testing.T) {
	s := NewStore()
	p := s.SavePuzzle(newTestCrossword())
	game, _ := s.CreateGame(p.ID)

	p1 := game.AddPlayer("Alice")
	p2 := game.AddPlayer("Bob")

	if p1.Pseudo != "Alice" || p2.Pseudo != "Bob" {
		t.Fatal("unexpected pseudo")
	}
	if p1.Color == p2.Color {
		t.Fatal("players should have different colors")
	}
	if again := game.AddPlayer("Alice"); again != p1 {
		t.Fatal("same pseudo should return same player")
	}

	game.RemovePlayer("Bob")
	if _, ok := game.GetPlayers()["Bob"]; ok {
		t.Fatal("Bob should have left")
	}
}

func TestGameSetCell(t *testing.T) {
	s := NewStore()
	p := s.SavePuzzle(newTestTashchetz())
	game, _ := s.CreateGame(p.ID)

	// Letters of "אריה" run left from the clue at (0,10).
	if !game.SetCell(0, 9, "א") {
		t.Fatal("expected SetCell to succeed on a letter cell")
	}
	if game.SetCell(0, 10, "א") {
		t.Fatal("expected SetCell to fail on the clue cell")
	}
	if game.SetCell(5, 5, "א") {
		t.Fatal("expected SetCell to fail on a black cell")
	}
	if game.SetCell(-1, 0, "א") || game.SetCell(0, 11, "א") {
		t.Fatal("expected SetCell to fail out of bounds")
	}

	if state := game.GetState(); state[0][9] != "א" {
		t.Fatalf("expected 'א', got %q", state[0][9])
	}
}

func TestGetStateCopy(t *testing.T) {
	s := NewStore()
	p := s.SavePuzzle(newTestTashchetz())
	game, _ := s.CreateGame(p.ID)
	game.SetCell(0, 9, "א")

	state := game.GetState()
	state[0][9] = "ז"

	if game.GetState()[0][9] != "א" {
		t.Fatal("GetState should return a copy, not a reference")
	}
}

func TestGameCheck(t *testing.T) {
	s := NewStore()
	p := s.SavePuzzle(newTestTashchetz())
	game, _ := s.CreateGame(p.ID)

	res := game.Check()
	if res.Total != 4 || res.Filled != 0 || res.Complete {
		t.Fatalf("unexpected empty check %+v", res)
	}

	game.SetCell(0, 9, "א")
	game.SetCell(0, 8, "ר")
	game.SetCell(0, 7, "ז")
	res = game.Check()
	if len(res.Wrong) != 1 || res.Wrong[0] != [2]int{0, 7} {
		t.Fatalf("expected (0,7) wrong, got %+v", res.Wrong)
	}

	game.SetCell(0, 7, "י")
	game.SetCell(0, 6, "ה")
	if res = game.Check(); !res.Complete {
		t.Fatalf("expected complete, got %+v", res)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	p := s.SavePuzzle(newTestCrossword())
	game, _ := s.CreateGame(p.ID)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			game.SetCell(6, 2+i%7, "ש")
			game.GetState()
			game.Check()
			game.AddPlayer("player" + string(rune('A'+i%26)))
		}(i)
	}
	wg.Wait()
}
