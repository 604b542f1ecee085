package movegen

import "math/rand"

// Zobrist hashing tables. Piece keys are indexed by the packed piece value so
// both colors share one table; unused slots stay zero.
var (
	zobristPiece     [15][64]uint64
	zobristCastle    [16]uint64
	zobristEnPassant [8]uint64
	zobristSide      uint64
)

func init() {
	// Fixed seed so keys (and any persisted hashes) are stable across runs.
	rng := rand.New(rand.NewSource(0xC0DE))
	for p := range zobristPiece {
		if p == int(NoPiece) {
			continue
		}
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rng.Uint64()
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rng.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rng.Uint64()
	}
	zobristSide = rng.Uint64()
}

// computeZobrist rebuilds the key from scratch. Used when loading a position
// and by consistency checks in tests.
func (b *Board) computeZobrist() uint64 {
	var key uint64
	for sq := 0; sq < 64; sq++ {
		if p := b.pieces[sq]; p != NoPiece {
			key ^= zobristPiece[p][sq]
		}
	}
	key ^= zobristCastle[int(b.castlingRights)]
	if b.enPassantSquare != NoSquare {
		key ^= zobristEnPassant[fileOf(int(b.enPassantSquare))]
	}
	if b.sideToMove == Black {
		key ^= zobristSide
	}
	return key
}
