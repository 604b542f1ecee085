package movegen

import (
	"math/bits"
	"testing"
)

func TestSliderTablesMatchSlowPath(t *testing.T) {
	// Spot-check the table-driven slider attacks against the ray walker on
	// a spread of squares and occupancies.
	occs := []uint64{
		0,
		0x00FF00000000FF00, // both pawn ranks
		0x0000001818000000, // center block
		0x8100000000000081, // corners
		0x00000000FF000000,
	}
	for sq := 0; sq < 64; sq++ {
		for _, occ := range occs {
			if got, want := rookAttacks(sq, occ), rookAttacksSlow(sq, occ); got != want {
				t.Fatalf("rookAttacks(%d, %x): got %x want %x", sq, occ, got, want)
			}
			if got, want := bishopAttacks(sq, occ), bishopAttacksSlow(sq, occ); got != want {
				t.Fatalf("bishopAttacks(%d, %x): got %x want %x", sq, occ, got, want)
			}
		}
	}
}

func TestExportedSliderBitboards(t *testing.T) {
	occs := []uint64{0, 0x00FF00000000FF00, 0x0000001818000000}
	for sq := uint8(0); sq < 64; sq++ {
		for _, occ := range occs {
			if got, want := CalculateRookMoveBitboard(sq, occ), rookAttacks(int(sq), occ); got != want {
				t.Fatalf("CalculateRookMoveBitboard(%d, %x): got %x want %x", sq, occ, got, want)
			}
			if got, want := CalculateBishopMoveBitboard(sq, occ), bishopAttacks(int(sq), occ); got != want {
				t.Fatalf("CalculateBishopMoveBitboard(%d, %x): got %x want %x", sq, occ, got, want)
			}
		}
	}
}

func TestEmptyBoardAttacksMatchPseudo(t *testing.T) {
	for sq := 0; sq < 64; sq++ {
		if rookAttacks(sq, 0) != pseudoRook[sq] {
			t.Fatalf("square %d: empty-board rook attacks disagree with pseudoRook", sq)
		}
		if bishopAttacks(sq, 0) != pseudoBishop[sq] {
			t.Fatalf("square %d: empty-board bishop attacks disagree with pseudoBishop", sq)
		}
		if pseudoQueen[sq] != (pseudoRook[sq] | pseudoBishop[sq]) {
			t.Fatalf("square %d: pseudoQueen is not rook|bishop union", sq)
		}
	}
}

func TestBetweenAndLine(t *testing.T) {
	e1, e8 := 4, 60
	a1, h8 := 0, 63

	// e1-e8: six squares strictly between.
	if n := bits.OnesCount64(betweenBB[e1][e8]); n != 6 {
		t.Errorf("between e1-e8: %d squares, want 6", n)
	}
	if betweenBB[e1][e8] != betweenBB[e8][e1] {
		t.Errorf("betweenBB not symmetric for e1/e8")
	}
	// a1-h8 long diagonal: six between squares, line covers all eight.
	if n := bits.OnesCount64(betweenBB[a1][h8]); n != 6 {
		t.Errorf("between a1-h8: %d squares, want 6", n)
	}
	if n := bits.OnesCount64(lineBB[a1][h8]); n != 8 {
		t.Errorf("line a1-h8: %d squares, want 8", n)
	}
	// Line includes both endpoints.
	if lineBB[a1][h8]&(1<<uint(a1)) == 0 || lineBB[a1][h8]&(1<<uint(h8)) == 0 {
		t.Errorf("lineBB must include its endpoints")
	}
	// Unaligned squares: both tables empty.
	b1, c3 := 1, 18
	if betweenBB[b1][c3] != 0 || lineBB[b1][c3] != 0 {
		t.Errorf("unaligned b1/c3 should have empty between and line")
	}
	// Adjacent aligned squares: nothing in between, full line.
	if betweenBB[e1][e1+8] != 0 {
		t.Errorf("adjacent squares should have empty between set")
	}
	if lineBB[e1][e1+8] == 0 {
		t.Errorf("adjacent aligned squares should share a line")
	}
}

func TestPawnAttackTables(t *testing.T) {
	e4 := 28
	// White pawn on e4 attacks d5 and f5.
	want := uint64(1)<<35 | uint64(1)<<37
	if pawnAttacks[White][e4] != want {
		t.Errorf("white pawn e4 attacks: got %x want %x", pawnAttacks[White][e4], want)
	}
	// Black pawn on e4 attacks d3 and f3.
	want = uint64(1)<<19 | uint64(1)<<21
	if pawnAttacks[Black][e4] != want {
		t.Errorf("black pawn e4 attacks: got %x want %x", pawnAttacks[Black][e4], want)
	}
	// Edge files never wrap.
	for sqi := 0; sqi < 64; sqi += 8 {
		for c := 0; c < 2; c++ {
			if pawnAttacks[c][sqi]&fileHBB != 0 {
				t.Errorf("a-file pawn attack wraps to h-file at %d", sqi)
			}
		}
	}
}

func TestPextPdepRoundTrip(t *testing.T) {
	masks := []uint64{0x0101010101010100, 0x00FF000000000000, 0x0000000810204080}
	for _, mask := range masks {
		n := bits.OnesCount64(mask)
		for x := uint64(0); x < 1<<uint(n); x += 7 {
			spread := pdep(x, mask)
			if spread&^mask != 0 {
				t.Fatalf("pdep(%x, %x) escapes mask", x, mask)
			}
			if got := pext(spread, mask); got != x {
				t.Fatalf("pext(pdep(%x)) = %x", x, got)
			}
		}
	}
}

func TestAttacksFromOccupancyAware(t *testing.T) {
	b := mustParse(t, FENStartPos)
	// Rook on a1 is boxed in at the start.
	if got := b.AttacksFrom(PieceTypeRook, Square(0)); got != (1<<1 | 1<<8) {
		t.Errorf("a1 rook attacks at startpos: got %x", got)
	}
	// Knight attacks ignore occupancy.
	if got := b.AttacksFrom(PieceTypeKnight, Square(1)); got != knightMoves[1] {
		t.Errorf("b1 knight attacks: got %x want %x", got, knightMoves[1])
	}
}
