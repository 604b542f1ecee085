package engine

import (
	mg "wyvern-chess/movegen"
)

var seePieceValue = [7]int32{
	mg.PieceTypePawn:   100,
	mg.PieceTypeKnight: 300,
	mg.PieceTypeBishop: 300,
	mg.PieceTypeRook:   500,
	mg.PieceTypeQueen:  900,
	mg.PieceTypeKing:   5000,
}

// see runs a static exchange evaluation of the capture sequence on a move's
// target square, returning the expected material balance in centipawns for
// the side making the move. The swap-off walks both sides' attackers from
// least valuable to most, re-exposing x-ray attackers as pieces leave the
// occupancy.
func see(b *mg.Board, move mg.Move) int32 {
	from := move.From()
	to := move.To()
	side := b.SideToMove()

	target := b.PieceAt(to).Type()
	if target == mg.PieceTypeNone {
		// Only en passant reaches here with an empty target square.
		target = mg.PieceTypePawn
	}
	attacker := b.PieceAt(from).Type()
	if attacker == mg.PieceTypeNone {
		return 0
	}

	occ := b.AllOccupancy() &^ (uint64(1) << uint(from))
	attadef := b.AttackersTo(to, occ)

	white, black := b.Bitboards(mg.White), b.Bitboards(mg.Black)
	straight := white.Rooks | white.Queens | black.Rooks | black.Queens
	diagonal := white.Bishops | white.Queens | black.Bishops | black.Queens

	var gain [32]int32
	depth := 0
	gain[0] = seePieceValue[target]
	nextVictim := attacker
	side = side.Other()

	for {
		attackers := attadef & occ & b.ColorOccupancy(side)
		if attackers == 0 {
			break
		}
		piece, pieceBB := leastValuableAttacker(b, attackers, side)
		if piece == mg.PieceTypeNone {
			break
		}

		depth++
		gain[depth] = seePieceValue[nextVictim] - gain[depth-1]
		if gain[depth] < 0 && gain[depth-1] > 0 {
			// Neither side can improve from here; prune the swap-off.
			break
		}

		occ &^= pieceBB
		// Removing a piece may expose a slider behind it; only sliding
		// attacks change with the occupancy.
		attadef |= mg.CalculateRookMoveBitboard(uint8(to), occ)&straight |
			mg.CalculateBishopMoveBitboard(uint8(to), occ)&diagonal

		nextVictim = piece
		side = side.Other()
		if depth >= len(gain)-1 {
			break
		}
	}

	// Negamax the gain array back to the root.
	for depth > 0 {
		if -gain[depth] < gain[depth-1] {
			gain[depth-1] = -gain[depth]
		}
		depth--
	}
	return gain[0]
}

// leastValuableAttacker picks the cheapest attacking piece of one side from
// the attacker set, returning its type and single-bit bitboard.
func leastValuableAttacker(b *mg.Board, attackers uint64, side mg.Color) (mg.PieceType, uint64) {
	bbs := b.Bitboards(side)
	for _, cand := range [6]struct {
		pt   mg.PieceType
		mask uint64
	}{
		{mg.PieceTypePawn, bbs.Pawns},
		{mg.PieceTypeKnight, bbs.Knights},
		{mg.PieceTypeBishop, bbs.Bishops},
		{mg.PieceTypeRook, bbs.Rooks},
		{mg.PieceTypeQueen, bbs.Queens},
		{mg.PieceTypeKing, bbs.Kings},
	} {
		if sub := attackers & cand.mask; sub != 0 {
			return cand.pt, sub & -sub
		}
	}
	return mg.PieceTypeNone, 0
}
