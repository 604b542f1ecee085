package wyvern_test

import (
	"testing"

	mg "wyvern-chess/movegen"
)

// walk plays every legal move to the given depth, checking after each
// make/unmake pair that the full position state round-trips.
func walk(t *testing.T, b *mg.Board, depth int) {
	t.Helper()
	if depth == 0 {
		return
	}
	fen := b.FEN()
	hash := b.Hash()

	var buf [mg.MaxMoves]mg.Move
	for _, m := range b.GenerateInto(buf[:0], mg.GenLegal) {
		ok, st := b.MakeMove(m)
		if !ok {
			t.Fatalf("legal move %v rejected in %s", m, fen)
		}
		walk(t, b, depth-1)
		b.UnmakeMove(st)
		if b.FEN() != fen {
			t.Fatalf("unmake of %v: got %s want %s", m, b.FEN(), fen)
		}
		if b.Hash() != hash {
			t.Fatalf("unmake of %v: hash %x want %x", m, b.Hash(), hash)
		}
	}
}

func TestMakeUnmakeWalk(t *testing.T) {
	fens := []string{
		mg.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	for _, fen := range fens {
		b, err := mg.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%s): %v", fen, err)
		}
		walk(t, b, 2)
	}
}

func TestIncrementalHashMatchesRebuild(t *testing.T) {
	b, err := mg.ParseFEN(mg.FENStartPos)
	if err != nil {
		t.Fatal(err)
	}
	// A line touching castling, capture, en passant expiry and promotion-free
	// play; the incremental key must track a from-scratch recompute throughout.
	line := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "g8f6", "e1g1", "f6e4", "d2d4", "e4d6"}
	for _, movestr := range line {
		m, err := b.ParseMove(movestr)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", movestr, err)
		}
		if ok, _ := b.MakeMove(m); !ok {
			t.Fatalf("MakeMove(%s) rejected", movestr)
		}
		reparsed, err := mg.ParseFEN(b.FEN())
		if err != nil {
			t.Fatalf("round-trip FEN after %s: %v", movestr, err)
		}
		if reparsed.Hash() != b.Hash() {
			t.Fatalf("after %s: incremental hash %x, rebuilt %x", movestr, b.Hash(), reparsed.Hash())
		}
	}
}
