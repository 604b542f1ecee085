package wyvern_test

import (
	"testing"

	mg "wyvern-chess/movegen"
)

// GenerateInto must reuse the caller's buffer: move generation sits inside
// the perft and search hot loops and cannot afford per-node slices.
func TestGenerateIntoNoAlloc(t *testing.T) {
	board, err := mg.ParseFEN(mg.FENStartPos)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]mg.Move, 0, mg.MaxMoves)

	allocs := testing.AllocsPerRun(100, func() {
		buf = board.GenerateInto(buf[:0], mg.GenNonEvasions)
		if len(buf) != 20 {
			t.Fatalf("expected 20 moves, got %d", len(buf))
		}
	})
	if allocs != 0 {
		t.Fatalf("expected 0 allocs, got %f", allocs)
	}
}

func TestGenerateLegalNoAlloc(t *testing.T) {
	board, err := mg.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]mg.Move, 0, mg.MaxMoves)

	allocs := testing.AllocsPerRun(100, func() {
		buf = board.GenerateInto(buf[:0], mg.GenLegal)
		if len(buf) != 48 {
			t.Fatalf("expected 48 moves, got %d", len(buf))
		}
	})
	if allocs != 0 {
		t.Fatalf("expected 0 allocs, got %f", allocs)
	}
}

func TestGenerateEvasionsNoAlloc(t *testing.T) {
	// White king in check from the e8 rook.
	board, err := mg.ParseFEN("4r2k/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]mg.Move, 0, mg.MaxMoves)

	allocs := testing.AllocsPerRun(100, func() {
		buf = board.GenerateInto(buf[:0], mg.GenEvasions)
		if len(buf) == 0 {
			t.Fatalf("no evasions generated")
		}
	})
	if allocs != 0 {
		t.Fatalf("expected 0 allocs, got %f", allocs)
	}
}
