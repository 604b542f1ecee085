package movegen

import "math/bits"

// Precomputed attack masks for knights and kings from each square.
var knightMoves [64]uint64
var kingMoves [64]uint64

// Pawn attack masks: pawnAttacks[color][sq] gives the bitboard of squares
// a pawn of 'color' attacks from 'sq'.
var pawnAttacks [2][64]uint64

// Precomputed rays for sliders. For each square and direction, the bitboard of
// squares in that ray (excluding the origin square).
// Rook directions: 0=N, 1=S, 2=E, 3=W
var rookRays [64][4]uint64

// Bishop directions: 0=NE, 1=NW, 2=SE, 3=SW
var bishopRays [64][4]uint64

// Empty-board slider patterns (union of the four rays per square).
var pseudoRook [64]uint64
var pseudoBishop [64]uint64
var pseudoQueen [64]uint64

// betweenBB[a][b] holds the squares strictly between a and b when they share a
// rank, file or diagonal, and 0 otherwise. lineBB[a][b] is the full line
// through both squares (including a and b), or 0 when unaligned.
var betweenBB [64][64]uint64
var lineBB [64][64]uint64

// Masks and lookup tables for magic-like slider attacks (using software pext).
var rookMask [64]uint64
var bishopMask [64]uint64
var rookAttTable [64][]uint64
var bishopAttTable [64][]uint64

func init() {
	initStepTables()
	initRays()
	initSliderTables()
	initLines()
}

// initStepTables precomputes attack bitboards for knights, kings, and pawn captures.
func initStepTables() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		file := fileOf(sq)
		rank := rankOf(sq)
		var nMask, kMask uint64
		for i := 0; i < 8; i++ {
			if r, f := rank+knightOffsets[i][0], file+knightOffsets[i][1]; r >= 0 && r < 8 && f >= 0 && f < 8 {
				nMask |= uint64(1) << uint(r*8+f)
			}
			if r, f := rank+kingOffsets[i][0], file+kingOffsets[i][1]; r >= 0 && r < 8 && f >= 0 && f < 8 {
				kMask |= uint64(1) << uint(r*8+f)
			}
		}
		knightMoves[sq] = nMask
		kingMoves[sq] = kMask

		// Pawn captures. White attacks upward, black downward.
		if rank < 7 {
			if file > 0 {
				pawnAttacks[White][sq] |= uint64(1) << uint((rank+1)*8+file-1)
			}
			if file < 7 {
				pawnAttacks[White][sq] |= uint64(1) << uint((rank+1)*8+file+1)
			}
		}
		if rank > 0 {
			if file > 0 {
				pawnAttacks[Black][sq] |= uint64(1) << uint((rank-1)*8+file-1)
			}
			if file < 7 {
				pawnAttacks[Black][sq] |= uint64(1) << uint((rank-1)*8+file+1)
			}
		}
	}
}

// initRays precomputes directional rays for rook and bishop moves.
func initRays() {
	for sq := 0; sq < 64; sq++ {
		file := fileOf(sq)
		rank := rankOf(sq)

		var ray uint64

		// N
		for r := rank + 1; r < 8; r++ {
			ray |= 1 << uint(r*8+file)
		}
		rookRays[sq][0] = ray

		// S
		ray = 0
		for r := rank - 1; r >= 0; r-- {
			ray |= 1 << uint(r*8+file)
		}
		rookRays[sq][1] = ray

		// E
		ray = 0
		for f := file + 1; f < 8; f++ {
			ray |= 1 << uint(rank*8+f)
		}
		rookRays[sq][2] = ray

		// W
		ray = 0
		for f := file - 1; f >= 0; f-- {
			ray |= 1 << uint(rank*8+f)
		}
		rookRays[sq][3] = ray

		// NE
		ray = 0
		for r, f := rank+1, file+1; r < 8 && f < 8; r, f = r+1, f+1 {
			ray |= 1 << uint(r*8+f)
		}
		bishopRays[sq][0] = ray

		// NW
		ray = 0
		for r, f := rank+1, file-1; r < 8 && f >= 0; r, f = r+1, f-1 {
			ray |= 1 << uint(r*8+f)
		}
		bishopRays[sq][1] = ray

		// SE
		ray = 0
		for r, f := rank-1, file+1; r >= 0 && f < 8; r, f = r-1, f+1 {
			ray |= 1 << uint(r*8+f)
		}
		bishopRays[sq][2] = ray

		// SW
		ray = 0
		for r, f := rank-1, file-1; r >= 0 && f >= 0; r, f = r-1, f-1 {
			ray |= 1 << uint(r*8+f)
		}
		bishopRays[sq][3] = ray

		pseudoRook[sq] = rookRays[sq][0] | rookRays[sq][1] | rookRays[sq][2] | rookRays[sq][3]
		pseudoBishop[sq] = bishopRays[sq][0] | bishopRays[sq][1] | bishopRays[sq][2] | bishopRays[sq][3]
		pseudoQueen[sq] = pseudoRook[sq] | pseudoBishop[sq]
	}
}

// initLines fills betweenBB and lineBB from the ray tables.
func initLines() {
	for a := 0; a < 64; a++ {
		for d := 0; d < 4; d++ {
			// Rook direction pairs are N/S and E/W (d^1); bishop pairs are
			// NE/SW and NW/SE (3-d).
			rr := rookRays[a][d]
			for t := rr; t != 0; {
				bsq := popLSB(&t)
				betweenBB[a][bsq] = rr &^ rookRays[bsq][d] &^ (uint64(1) << uint(bsq))
				lineBB[a][bsq] = rr | rookRays[a][d^1] | (uint64(1) << uint(a))
			}
			br := bishopRays[a][d]
			for t := br; t != 0; {
				bsq := popLSB(&t)
				betweenBB[a][bsq] = br &^ bishopRays[bsq][d] &^ (uint64(1) << uint(bsq))
				lineBB[a][bsq] = br | bishopRays[a][3-d] | (uint64(1) << uint(a))
			}
		}
	}
}

// initSliderTables builds per-square occupancy masks and attack tables.
func initSliderTables() {
	for sq := 0; sq < 64; sq++ {
		file := fileOf(sq)
		rank := rankOf(sq)

		// Rook mask excludes edge squares
		var rm uint64
		for r := rank + 1; r < 7; r++ {
			rm |= 1 << uint(r*8+file)
		}
		for r := rank - 1; r > 0; r-- {
			rm |= 1 << uint(r*8+file)
		}
		for f := file + 1; f < 7; f++ {
			rm |= 1 << uint(rank*8+f)
		}
		for f := file - 1; f > 0; f-- {
			rm |= 1 << uint(rank*8+f)
		}
		rookMask[sq] = rm

		// Bishop mask excludes edges
		var bm uint64
		for r, f := rank+1, file+1; r < 7 && f < 7; r, f = r+1, f+1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank+1, file-1; r < 7 && f > 0; r, f = r+1, f-1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file+1; r > 0 && f < 7; r, f = r-1, f+1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file-1; r > 0 && f > 0; r, f = r-1, f-1 {
			bm |= 1 << uint(r*8+f)
		}
		bishopMask[sq] = bm

		// Build attack tables by iterating all subsets of the mask.
		rBits := bits.OnesCount64(rm)
		bBits := bits.OnesCount64(bm)
		rookAttTable[sq] = make([]uint64, 1<<rBits)
		bishopAttTable[sq] = make([]uint64, 1<<bBits)

		for idx := 0; idx < (1 << rBits); idx++ {
			occ := pdep(uint64(idx), rm)
			rookAttTable[sq][idx] = rookAttacksSlow(sq, occ)
		}
		for idx := 0; idx < (1 << bBits); idx++ {
			occ := pdep(uint64(idx), bm)
			bishopAttTable[sq][idx] = bishopAttacksSlow(sq, occ)
		}
	}
}

// software pext: extract bits of x at positions where mask has 1s, packed into low bits
func pext(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m & -m))
		if (x>>bit)&1 != 0 {
			res |= 1 << idx
		}
		idx++
	}
	return res
}

// software pdep: deposit low bits of x into positions of mask
func pdep(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m & -m))
		if (x>>idx)&1 != 0 {
			res |= 1 << bit
		}
		idx++
	}
	return res
}

// rookAttacks returns rook attack bitboard from sq given current occupancy.
func rookAttacks(sq int, occ uint64) uint64 {
	return rookAttTable[sq][pext(occ, rookMask[sq])]
}

// bishopAttacks returns bishop attack bitboard from sq given current occupancy.
func bishopAttacks(sq int, occ uint64) uint64 {
	return bishopAttTable[sq][pext(occ, bishopMask[sq])]
}

// rookAttacksSlow computes rook attacks by ray walking; used only to seed the tables.
func rookAttacksSlow(sq int, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := rookRays[sq][d]
		if blockers := ray & occ; blockers != 0 {
			var first int
			if d == 0 || d == 2 { // N, E increase square indices
				first = bits.TrailingZeros64(blockers)
			} else {
				first = 63 - bits.LeadingZeros64(blockers)
			}
			ray &^= rookRays[first][d]
		}
		attacks |= ray
	}
	return attacks
}

// bishopAttacksSlow computes bishop attacks by ray walking; used only to seed the tables.
func bishopAttacksSlow(sq int, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := bishopRays[sq][d]
		if blockers := ray & occ; blockers != 0 {
			var first int
			if d == 0 || d == 1 { // NE, NW increase square indices
				first = bits.TrailingZeros64(blockers)
			} else {
				first = 63 - bits.LeadingZeros64(blockers)
			}
			ray &^= bishopRays[first][d]
		}
		attacks |= ray
	}
	return attacks
}

// attacksFromOcc returns the squares a piece of the given type would attack
// from sq, given an explicit occupancy. Pawn attacks depend on side and are
// handled by the pawn generator directly.
func attacksFromOcc(pt PieceType, sq int, occ uint64) uint64 {
	switch pt {
	case PieceTypeKnight:
		return knightMoves[sq]
	case PieceTypeBishop:
		return bishopAttacks(sq, occ)
	case PieceTypeRook:
		return rookAttacks(sq, occ)
	case PieceTypeQueen:
		return rookAttacks(sq, occ) | bishopAttacks(sq, occ)
	case PieceTypeKing:
		return kingMoves[sq]
	}
	return 0
}

// AttacksFrom returns the attack bitboard of a piece of the given type standing
// on sq, using the board's current occupancy.
func (b *Board) AttacksFrom(pt PieceType, sq Square) uint64 {
	return attacksFromOcc(pt, int(sq), b.AllOccupancy())
}

// CalculateRookMoveBitboard returns rook attacks from the given square for the
// supplied occupancy mask.
func CalculateRookMoveBitboard(square uint8, occupancy uint64) uint64 {
	return rookAttacks(int(square), occupancy)
}

// CalculateBishopMoveBitboard returns bishop attacks from the given square for
// the supplied occupancy mask.
func CalculateBishopMoveBitboard(square uint8, occupancy uint64) uint64 {
	return bishopAttacks(int(square), occupancy)
}
