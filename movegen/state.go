package movegen

// attackersTo returns the pieces of both colors attacking sq under the given occupancy.
func (b *Board) attackersTo(sq int, occ uint64) uint64 {
	// Pawn attacks are looked up in reverse: the white pawns attacking sq sit
	// on the squares a black pawn on sq would attack.
	return pawnAttacks[Black][sq]&b.pawns[White] |
		pawnAttacks[White][sq]&b.pawns[Black] |
		knightMoves[sq]&(b.knights[0]|b.knights[1]) |
		kingMoves[sq]&(b.kings[0]|b.kings[1]) |
		rookAttacks(sq, occ)&(b.rooks[0]|b.rooks[1]|b.queens[0]|b.queens[1]) |
		bishopAttacks(sq, occ)&(b.bishops[0]|b.bishops[1]|b.queens[0]|b.queens[1])
}

// IsSquareAttacked reports whether the given square is attacked by the given color.
// AttackersTo returns all pieces of both colors attacking sq under the given
// occupancy. Passing a reduced occupancy exposes x-ray attackers, which is
// what exchange evaluation needs.
func (b *Board) AttackersTo(sq Square, occ uint64) uint64 {
	return b.attackersTo(int(sq), occ)
}

func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.attackersTo(int(sq), b.AllOccupancy())&b.occupancy[int(by)] != 0
}

// Checkers returns the bitboard of opponent pieces giving check to the side to move.
func (b *Board) Checkers() uint64 {
	ksq := b.KingSquare(b.sideToMove)
	if ksq == NoSquare {
		return 0
	}
	return b.attackersTo(int(ksq), b.AllOccupancy()) & b.occupancy[int(b.sideToMove.Other())]
}

// hiddenCheckers finds pieces of the given color that stand alone between an
// enemy slider of sliderColor and the king on ksq. With blockerColor equal to
// the king's side these are the absolute pins; with blockerColor equal to the
// slider's side they are the discovered-check candidates.
func (b *Board) hiddenCheckers(ksq int, sliderColor, blockerColor Color) uint64 {
	si := int(sliderColor)
	occ := b.AllOccupancy()
	var result uint64

	sliders := (b.rooks[si]|b.queens[si])&pseudoRook[ksq] |
		(b.bishops[si]|b.queens[si])&pseudoBishop[ksq]
	for sliders != 0 {
		s := popLSB(&sliders)
		blockers := betweenBB[ksq][s] & occ
		if blockers != 0 && !moreThanOne(blockers) && blockers&b.occupancy[int(blockerColor)] != 0 {
			result |= blockers
		}
	}
	return result
}

// Pinned returns the bitboard of the given side's pieces that are absolutely
// pinned against their own king.
func (b *Board) Pinned(c Color) uint64 {
	ksq := b.KingSquare(c)
	if ksq == NoSquare {
		return 0
	}
	return b.hiddenCheckers(int(ksq), c.Other(), c)
}

// DiscoveredCheckCandidates returns the side to move's pieces whose departure
// from their square would reveal a slider check against the enemy king.
func (b *Board) DiscoveredCheckCandidates() uint64 {
	us := b.sideToMove
	ksq := b.KingSquare(us.Other())
	if ksq == NoSquare {
		return 0
	}
	return b.hiddenCheckers(int(ksq), us, us)
}

// checkInfo aggregates the enemy-king-relative masks the check-delivery
// generators need: for each piece type, the squares from which that type
// would give direct check, plus the discovered-check candidate set.
type checkInfo struct {
	ksq          int // enemy king square
	dcCandidates uint64
	checkSq      [7]uint64
}

func (b *Board) newCheckInfo() checkInfo {
	us := b.sideToMove
	them := us.Other()
	var ci checkInfo
	ksq := b.KingSquare(them)
	if ksq == NoSquare {
		ci.ksq = -1
		return ci
	}
	ci.ksq = int(ksq)
	ci.dcCandidates = b.DiscoveredCheckCandidates()

	occ := b.AllOccupancy()
	ci.checkSq[PieceTypePawn] = pawnAttacks[them][ci.ksq]
	ci.checkSq[PieceTypeKnight] = knightMoves[ci.ksq]
	ci.checkSq[PieceTypeBishop] = bishopAttacks(ci.ksq, occ)
	ci.checkSq[PieceTypeRook] = rookAttacks(ci.ksq, occ)
	ci.checkSq[PieceTypeQueen] = ci.checkSq[PieceTypeBishop] | ci.checkSq[PieceTypeRook]
	return ci
}
