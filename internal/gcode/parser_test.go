package gcode

import "testing"

func TestParse_Empty(t *testing.T) {
	if moves := Parse("", 0); len(moves) != 0 {
		t.Errorf("expected 0 moves for empty input, got %d", len(moves))
	}
}

func TestParse_CommentsAndOtherCommands(t *testing.T) {
	code := "; header\n(setup)\nG21\nG90\nM2\n"
	if moves := Parse(code, 0); len(moves) != 0 {
		t.Errorf("expected 0 moves, got %d", len(moves))
	}
}

func TestParse_Classification(t *testing.T) {
	code := "G0 Z3\nG0 X10 Y5\nG1 Z0 F1200\nG1 X20 Y5 ; edge\nG0 Z3\n"
	moves := Parse(code, 0)
	want := []MoveType{MovePenUp, MoveTravel, MovePenDown, MoveDraw, MovePenUp}
	if len(moves) != len(want) {
		t.Fatalf("expected %d moves, got %d", len(want), len(moves))
	}
	for i, m := range moves {
		if m.Type != want[i] {
			t.Errorf("move %d: expected type %d, got %d", i, want[i], m.Type)
		}
	}
	if moves[3].FromX != 10 || moves[3].ToX != 20 {
		t.Errorf("expected draw from x=10 to x=20, got %.1f to %.1f", moves[3].FromX, moves[3].ToX)
	}
	if moves[3].FeedRate != 1200 {
		t.Errorf("expected sticky feed 1200, got %.1f", moves[3].FeedRate)
	}
}

func TestParse_InlineParenComment(t *testing.T) {
	moves := Parse("G0 X1 (note) Y2\n", 0)
	if len(moves) != 1 || moves[0].ToX != 1 || moves[0].ToY != 2 {
		t.Errorf("unexpected moves: %+v", moves)
	}
}

func TestParse_NegativeAndLowercase(t *testing.T) {
	moves := Parse("g1 x-5.5 y-2\n", 0)
	if len(moves) != 1 {
		t.Fatalf("expected 1 move, got %d", len(moves))
	}
	if moves[0].ToX != -5.5 || moves[0].ToY != -2 {
		t.Errorf("expected (-5.5,-2), got (%.1f,%.1f)", moves[0].ToX, moves[0].ToY)
	}
}

func TestSegments_SkipsTravelAndZeroLength(t *testing.T) {
	moves := []Move{
		{Type: MoveTravel, ToX: 5},
		{Type: MoveDraw, FromX: 5, ToX: 5},
		{Type: MoveDraw, FromX: 5, ToX: 9, ToY: 1},
	}
	segs := Segments(moves)
	if len(segs) != 1 || segs[0] != (Segment{5, 0, 9, 1}) {
		t.Errorf("unexpected segments: %+v", segs)
	}
}
