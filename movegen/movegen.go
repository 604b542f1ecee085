package movegen

import "math/bits"

// File and rank masks.
const (
	fileABB uint64 = 0x0101010101010101
	fileHBB uint64 = fileABB << 7

	rank1BB uint64 = 0xFF
	rank2BB uint64 = rank1BB << 8
	rank3BB uint64 = rank1BB << 16
	rank6BB uint64 = rank1BB << 40
	rank7BB uint64 = rank1BB << 48
)

func fileBB(f int) uint64 { return fileABB << uint(f) }

// GenType selects which category of moves a generation call produces.
type GenType int

const (
	// GenCaptures produces pseudo-legal captures and queen promotions.
	GenCaptures GenType = iota
	// GenQuiets produces pseudo-legal non-captures, underpromotions and castling.
	GenQuiets
	// GenQuietChecks produces pseudo-legal non-captures that give check.
	GenQuietChecks
	// GenEvasions produces pseudo-legal check responses; requires the side
	// to move to be in check.
	GenEvasions
	// GenNonEvasions produces all pseudo-legal moves; requires the side to
	// move not to be in check.
	GenNonEvasions
	// GenLegal produces fully legal moves for any position.
	GenLegal
)

// pawnPush returns the single-push square delta for the side.
func pawnPush(side Color) int {
	if side == White {
		return 8
	}
	return -8
}

// pawnShift moves every pawn of the bitboard by the given delta, masking off
// pawns that would wrap across the board edge on capture deltas.
func pawnShift(b uint64, delta int) uint64 {
	switch delta {
	case 8:
		return b << 8
	case -8:
		return b >> 8
	case 7:
		return (b &^ fileABB) << 7
	case 9:
		return (b &^ fileHBB) << 9
	case -7:
		return (b &^ fileHBB) >> 7
	case -9:
		return (b &^ fileABB) >> 9
	}
	return 0
}

// GenerateInto writes the requested category of moves for the side to move
// into dst and returns the extended slice. dst is truncated and reused, so a
// preallocated buffer of MaxMoves capacity makes generation allocation-free.
// All categories except GenLegal produce pseudo-legal output; callers filter
// with Legal where full legality matters.
func (b *Board) GenerateInto(dst []Move, gt GenType) []Move {
	moves := dst[:0]
	switch gt {
	case GenEvasions:
		return b.generateEvasions(moves)
	case GenQuietChecks:
		return b.generateQuietChecks(moves)
	case GenLegal:
		if b.Checkers() != 0 {
			moves = b.generateEvasions(moves)
		} else {
			moves = b.generateNonEvasions(moves, GenNonEvasions)
		}
		pinned := b.Pinned(b.sideToMove)
		// Partition in place: swap rejected moves with the last unprocessed
		// entry. The surviving order is not stable.
		for i := 0; i < len(moves); {
			if b.Legal(moves[i], pinned) {
				i++
			} else {
				moves[i] = moves[len(moves)-1]
				moves = moves[:len(moves)-1]
			}
		}
		return moves
	default:
		return b.generateNonEvasions(moves, gt)
	}
}

// Generate returns a freshly allocated move list; prefer GenerateInto on hot paths.
func (b *Board) Generate(gt GenType) []Move {
	return b.GenerateInto(make([]Move, 0, MaxMoves), gt)
}

// generateNonEvasions handles the Captures, Quiets and NonEvasions categories
// by deriving the target mask and running the per-piece generators against it.
func (b *Board) generateNonEvasions(moves []Move, gt GenType) []Move {
	us := b.sideToMove
	occ := b.AllOccupancy()

	var target uint64
	switch gt {
	case GenCaptures:
		target = b.occupancy[us.Other()]
	case GenQuiets:
		target = ^occ
	default:
		target = ^b.occupancy[us]
	}

	moves = b.generatePawnMoves(moves, us, gt, target, nil)
	for pt := PieceTypeKnight; pt <= PieceTypeQueen; pt++ {
		moves = b.generatePieceMoves(moves, us, pt, target)
	}
	moves = b.generateKingMoves(moves, us, target)

	if gt != GenCaptures {
		moves = b.generateCastle(moves, us, KingSide)
		moves = b.generateCastle(moves, us, QueenSide)
	}
	return moves
}

// generatePieceMoves serializes attack-set-intersect-target for every piece of
// the given type. No legality filtering happens here; pins and self-checks are
// the Legal predicate's concern.
func (b *Board) generatePieceMoves(moves []Move, us Color, pt PieceType, target uint64) []Move {
	occ := b.AllOccupancy()
	pieces := b.piecesOf(us, pt)
	for pieces != 0 {
		from := popLSB(&pieces)
		att := attacksFromOcc(pt, from, occ) & target
		for att != 0 {
			to := popLSB(&att)
			moves = append(moves, NewMove(Square(from), Square(to)))
		}
	}
	return moves
}

// generateKingMoves is the single-square specialization of the above.
func (b *Board) generateKingMoves(moves []Move, us Color, target uint64) []Move {
	ksq := b.KingSquare(us)
	if ksq == NoSquare {
		return moves
	}
	att := kingMoves[int(ksq)] & target
	for att != 0 {
		to := popLSB(&att)
		moves = append(moves, NewMove(ksq, Square(to)))
	}
	return moves
}

// makePromotions emits the promotion set for one pawn arrival square. The
// queen is generated for the capture-flavored categories, underpromotions for
// the quiet and evasion ones, and the check category adds only the knight
// promotion when it checks from the arrival square.
func (b *Board) makePromotions(moves []Move, gt GenType, from, to int, ci *checkInfo) []Move {
	if gt == GenCaptures || gt == GenEvasions || gt == GenNonEvasions {
		moves = append(moves, NewPromotion(Square(from), Square(to), PieceTypeQueen))
	}
	if gt == GenQuiets || gt == GenEvasions || gt == GenNonEvasions {
		moves = append(moves,
			NewPromotion(Square(from), Square(to), PieceTypeRook),
			NewPromotion(Square(from), Square(to), PieceTypeBishop),
			NewPromotion(Square(from), Square(to), PieceTypeKnight))
	}
	if gt == GenQuietChecks && ci != nil && ci.ksq >= 0 {
		// Only the checking knight promotion: the queen promotion already
		// belongs to the capture-flavored categories.
		if knightMoves[to]&(uint64(1)<<uint(ci.ksq)) != 0 {
			moves = append(moves, NewPromotion(Square(from), Square(to), PieceTypeKnight))
		}
	}
	return moves
}

// generatePawnMoves produces the pawn subset of the given category against the
// target mask. ci is required only for GenQuietChecks.
func (b *Board) generatePawnMoves(moves []Move, us Color, gt GenType, target uint64, ci *checkInfo) []Move {
	them := us.Other()
	occ := b.AllOccupancy()
	empty := ^occ

	up := pawnPush(us)
	var upLeft, upRight int
	var rank7, rank3 uint64
	if us == White {
		upLeft, upRight = 7, 9
		rank7, rank3 = rank7BB, rank3BB
	} else {
		upLeft, upRight = -9, -7
		rank7, rank3 = rank2BB, rank6BB
	}

	pawns := b.pawns[int(us)]
	pawnsOn7 := pawns & rank7
	pawnsNotOn7 := pawns &^ rank7

	enemies := b.occupancy[int(them)]
	switch gt {
	case GenCaptures:
		enemies = target
	case GenEvasions:
		enemies &= target
	}

	// Single and double pushes, promotions excluded.
	if gt != GenCaptures {
		b1 := pawnShift(pawnsNotOn7, up) & empty
		b2 := pawnShift(b1&rank3, up) & empty

		switch gt {
		case GenEvasions:
			b1 &= target
			b2 &= target
		case GenQuietChecks:
			b1 &= ci.checkSq[PieceTypePawn]
			b2 &= ci.checkSq[PieceTypePawn]
			// Any push by a discovered-check candidate reveals check, except
			// for pawns sharing a file with the enemy king: their pushes stay
			// on the slider's line, and their captures leave the candidate
			// set by construction.
			if dcPawns := pawnsNotOn7 & ci.dcCandidates; dcPawns != 0 {
				dcPawns &^= fileBB(fileOf(ci.ksq))
				dc1 := pawnShift(dcPawns, up) & empty
				dc2 := pawnShift(dc1&rank3, up) & empty
				b1 |= dc1
				b2 |= dc2
			}
		}

		for b1 != 0 {
			to := popLSB(&b1)
			moves = append(moves, NewMove(Square(to-up), Square(to)))
		}
		for b2 != 0 {
			to := popLSB(&b2)
			moves = append(moves, NewMove(Square(to-2*up), Square(to)))
		}
	}

	// Promotions.
	if pawnsOn7 != 0 {
		c1 := pawnShift(pawnsOn7, upLeft) & enemies
		c2 := pawnShift(pawnsOn7, upRight) & enemies
		p1 := pawnShift(pawnsOn7, up) & empty
		if gt == GenEvasions {
			p1 &= target
		}
		if gt == GenQuietChecks {
			// Capture promotions are not quiet.
			c1, c2 = 0, 0
		}
		for c1 != 0 {
			to := popLSB(&c1)
			moves = b.makePromotions(moves, gt, to-upLeft, to, ci)
		}
		for c2 != 0 {
			to := popLSB(&c2)
			moves = b.makePromotions(moves, gt, to-upRight, to, ci)
		}
		for p1 != 0 {
			to := popLSB(&p1)
			moves = b.makePromotions(moves, gt, to-up, to, ci)
		}
	}

	// Ordinary captures and en passant.
	if gt == GenCaptures || gt == GenEvasions || gt == GenNonEvasions {
		c1 := pawnShift(pawnsNotOn7, upLeft) & enemies
		c2 := pawnShift(pawnsNotOn7, upRight) & enemies
		for c1 != 0 {
			to := popLSB(&c1)
			moves = append(moves, NewMove(Square(to-upLeft), Square(to)))
		}
		for c2 != 0 {
			to := popLSB(&c2)
			moves = append(moves, NewMove(Square(to-upRight), Square(to)))
		}

		if b.enPassantSquare != NoSquare {
			ep := int(b.enPassantSquare)
			// An en passant capture evades check only when the checker is the
			// double-pushed pawn itself.
			if gt != GenEvasions || target&(uint64(1)<<uint(ep-up)) != 0 {
				attackers := pawnAttacks[them][ep] & pawnsNotOn7
				for attackers != 0 {
					from := popLSB(&attackers)
					moves = append(moves, NewEnPassant(Square(from), Square(ep)))
				}
			}
		}
	}

	return moves
}

// generateCastle emits at most one castling move for the given wing. The
// generated move is fully legal with respect to occupancy and attacks; the
// Legal predicate accepts castle moves unchecked on that basis.
func (b *Board) generateCastle(moves []Move, us Color, wing int) []Move {
	if !b.CanCastle(us, wing) {
		return moves
	}
	ksqS := b.KingSquare(us)
	rsqS := b.castleRook[int(us)][wing]
	if ksqS == NoSquare || rsqS == NoSquare {
		return moves
	}
	ksq, rsq := int(ksqS), int(rsqS)
	them := us.Other()
	occ := b.AllOccupancy()
	themOcc := b.occupancy[int(them)]

	rank := rankOf(ksq) * 8
	var kto, rto int
	if wing == KingSide {
		kto, rto = rank+6, rank+5
	} else {
		kto, rto = rank+2, rank+3
	}

	// King span: every square must be the king's or rook's own square or
	// empty, and no square on it may be attacked (the king's own square
	// included: castling out of check is illegal).
	lo, hi := ksq, kto
	if lo > hi {
		lo, hi = hi, lo
	}
	for s := lo; s <= hi; s++ {
		if s != ksq && s != rsq && occ&(uint64(1)<<uint(s)) != 0 {
			return moves
		}
		if b.attackersTo(s, occ)&themOcc != 0 {
			return moves
		}
	}

	// Rook span: empty apart from the king and rook themselves.
	lo, hi = rsq, rto
	if lo > hi {
		lo, hi = hi, lo
	}
	for s := lo; s <= hi; s++ {
		if s != ksq && s != rsq && occ&(uint64(1)<<uint(s)) != 0 {
			return moves
		}
	}

	// Variant back ranks: a queenside rook starting on the b-file leaves the
	// corner square exposed after castling; an enemy rook or queen sitting
	// there would attack through the gap.
	if wing == QueenSide && fileOf(rsq) == 1 {
		corner := uint64(1) << uint(rank)
		if (b.rooks[int(them)]|b.queens[int(them)])&corner != 0 {
			return moves
		}
	}

	return append(moves, NewCastle(Square(ksq), Square(rsq)))
}

// generateEvasions produces the check-response set. Precondition: the side to
// move is in check.
func (b *Board) generateEvasions(moves []Move) []Move {
	us := b.sideToMove
	ksqS := b.KingSquare(us)
	if ksqS == NoSquare {
		return moves
	}
	ksq := int(ksqS)
	kingBB := uint64(1) << uint(ksq)
	occ := b.AllOccupancy()
	checkers := b.Checkers()

	// Accumulate the full rays of every slider checker so king destinations
	// still on the checking ray (squares beyond the king included) are
	// excluded up front.
	var sliderAttacks uint64
	checkersCnt := 0
	for t := checkers; t != 0; {
		csq := popLSB(&t)
		checkersCnt++
		switch typeOf(b.pieces[csq]) {
		case PieceTypeBishop:
			sliderAttacks |= pseudoBishop[csq]
		case PieceTypeRook:
			sliderAttacks |= pseudoRook[csq]
		case PieceTypeQueen:
			// When the king sits on one of the queen's rook lines both ray
			// families are unobstructed near the king, so the empty-board
			// pattern is exact. On a diagonal check the rook rays may be
			// blocked, so real occupancy decides which squares stay covered.
			if pseudoRook[csq]&kingBB != 0 {
				sliderAttacks |= pseudoRook[csq] | pseudoBishop[csq]
			} else {
				sliderAttacks |= pseudoBishop[csq] | rookAttacks(csq, occ)
			}
		}
	}

	// King evasions first.
	att := kingMoves[ksq] &^ b.occupancy[int(us)] &^ sliderAttacks
	for att != 0 {
		to := popLSB(&att)
		moves = append(moves, NewMove(Square(ksq), Square(to)))
	}

	// Under double check only the king may move.
	if checkersCnt > 1 {
		return moves
	}

	// Block the ray or capture the sole checker.
	csq := bits.TrailingZeros64(checkers)
	target := betweenBB[csq][ksq] | checkers

	moves = b.generatePawnMoves(moves, us, GenEvasions, target, nil)
	for pt := PieceTypeKnight; pt <= PieceTypeQueen; pt++ {
		moves = b.generatePieceMoves(moves, us, pt, target)
	}
	return moves
}

// generateQuietChecks produces the non-capture checking moves: discovered
// checks first, then direct checks per piece type. Precondition: the side to
// move is not in check.
func (b *Board) generateQuietChecks(moves []Move) []Move {
	us := b.sideToMove
	ci := b.newCheckInfo()
	if ci.ksq < 0 {
		return moves
	}
	occ := b.AllOccupancy()
	empty := ^occ

	// Discovered checks: any destination off the slider's line reveals it,
	// so every empty reachable square qualifies. Pawns are handled by the
	// pawn generator and queen moves always check directly.
	for dc := ci.dcCandidates; dc != 0; {
		from := popLSB(&dc)
		pt := typeOf(b.pieces[from])
		if pt == PieceTypePawn || pt == PieceTypeQueen {
			continue
		}
		att := attacksFromOcc(pt, from, occ) & empty
		if pt == PieceTypeKing {
			// Squares inside the enemy king's queen pattern would be
			// ordinary checks from the king's new square, not discovered ones.
			att &^= pseudoQueen[ci.ksq]
		}
		for att != 0 {
			to := popLSB(&att)
			moves = append(moves, NewMove(Square(from), Square(to)))
		}
	}

	// Pawn checks: direct pushes into the enemy king's pawn shadow plus
	// discovered pushes, and checking promotions.
	moves = b.generatePawnMoves(moves, us, GenQuietChecks, 0, &ci)

	// Direct checks, skipping pieces already counted as discovered sources.
	for pt := PieceTypeKnight; pt <= PieceTypeQueen; pt++ {
		pieces := b.piecesOf(us, pt) &^ ci.dcCandidates
		for pieces != 0 {
			from := popLSB(&pieces)
			// Cheap empty-board reject before the occupancy-aware lookup.
			switch pt {
			case PieceTypeBishop:
				if pseudoBishop[from]&ci.checkSq[pt] == 0 {
					continue
				}
			case PieceTypeRook:
				if pseudoRook[from]&ci.checkSq[pt] == 0 {
					continue
				}
			case PieceTypeQueen:
				if pseudoQueen[from]&ci.checkSq[pt] == 0 {
					continue
				}
			}
			att := attacksFromOcc(pt, from, occ) & ci.checkSq[pt] & empty
			for att != 0 {
				to := popLSB(&att)
				moves = append(moves, NewMove(Square(from), Square(to)))
			}
		}
	}
	return moves
}

// ==========================
// Legality
// ==========================

// Legal reports whether a pseudo-legal move leaves the mover's own king safe.
// pinned must be the side to move's pinned mask, b.Pinned(b.SideToMove()).
func (b *Board) Legal(m Move, pinned uint64) bool {
	us := b.sideToMove
	them := us.Other()
	ksqS := b.KingSquare(us)
	if ksqS == NoSquare {
		return true
	}
	ksq := int(ksqS)
	from := int(m.From())
	to := int(m.To())
	occ := b.AllOccupancy()
	ti := int(them)

	switch m.Kind() {
	case MoveCastle:
		// Fully validated at generation time.
		return true
	case MoveEnPassant:
		// Simulate the twin occupancy change: mover and captured pawn leave,
		// mover arrives. Only sliders can be revealed.
		capSq := to - pawnPush(us)
		occp := occ&^(uint64(1)<<uint(from))&^(uint64(1)<<uint(capSq)) | uint64(1)<<uint(to)
		return rookAttacks(ksq, occp)&(b.rooks[ti]|b.queens[ti]) == 0 &&
			bishopAttacks(ksq, occp)&(b.bishops[ti]|b.queens[ti]) == 0
	}

	if from == ksq {
		// King moves: the destination must be safe once the king has left its
		// square (a slider may attack through the vacated square).
		occp := occ &^ (uint64(1) << uint(from))
		return b.attackersTo(to, occp)&b.occupancy[ti] == 0
	}

	// Everything else is legal unless pinned and leaving the pin line.
	return pinned == 0 ||
		pinned&(uint64(1)<<uint(from)) == 0 ||
		lineBB[from][ksq]&(uint64(1)<<uint(to)) != 0
}

// IsPseudoLegal is the fast structural membership test: it pattern-matches a
// normal move's fields directly against board state. The three special kinds
// carry invariants that are cheaper to re-derive by regeneration, so they are
// deferred to the slow path wholesale.
func (b *Board) IsPseudoLegal(m Move) bool {
	if m == MoveNone {
		return false
	}
	if m.Kind() != MoveNormal {
		return b.inGeneratedSet(m)
	}

	us := b.sideToMove
	them := us.Other()
	from := int(m.From())
	to := int(m.To())
	pc := b.pieces[from]
	if pc == NoPiece || colorOf(pc) != us {
		return false
	}
	if b.occupancy[int(us)]&(uint64(1)<<uint(to)) != 0 {
		return false
	}

	pt := typeOf(pc)
	occ := b.AllOccupancy()
	if pt == PieceTypePawn {
		// A normal-kind pawn move never reaches the last rank; promotions
		// carry their own kind.
		if relativeRank(us, to) == 7 {
			return false
		}
		up := pawnPush(us)
		switch {
		case pawnAttacks[us][from]&(uint64(1)<<uint(to)) != 0:
			if b.occupancy[int(them)]&(uint64(1)<<uint(to)) == 0 {
				return false
			}
		case to == from+up:
			if occ&(uint64(1)<<uint(to)) != 0 {
				return false
			}
		case to == from+2*up && relativeRank(us, from) == 1:
			if occ&(uint64(1)<<uint(from+up)|uint64(1)<<uint(to)) != 0 {
				return false
			}
		default:
			return false
		}
	} else if attacksFromOcc(pt, from, occ)&(uint64(1)<<uint(to)) == 0 {
		return false
	}

	// While in check the move must resolve the check the same way the
	// evasion generator would.
	if checkers := b.Checkers(); checkers != 0 {
		if pt != PieceTypeKing {
			if moreThanOne(checkers) {
				return false
			}
			csq := bits.TrailingZeros64(checkers)
			ksq := int(b.KingSquare(us))
			if (betweenBB[csq][ksq]|checkers)&(uint64(1)<<uint(to)) == 0 {
				return false
			}
		} else if b.attackersTo(to, occ&^(uint64(1)<<uint(from)))&b.occupancy[int(them)] != 0 {
			return false
		}
	}
	return true
}

// inGeneratedSet regenerates the position's full pseudo-legal set and
// linear-searches it for the exact move. Off hot paths only.
func (b *Board) inGeneratedSet(m Move) bool {
	var buf [MaxMoves]Move
	gt := GenNonEvasions
	if b.Checkers() != 0 {
		gt = GenEvasions
	}
	for _, x := range b.GenerateInto(buf[:0], gt) {
		if x == m {
			return true
		}
	}
	return false
}

// IsLegal is the slow full legality test: regenerate, search, then apply the
// legality predicate.
func (b *Board) IsLegal(m Move) bool {
	return b.inGeneratedSet(m) && b.Legal(m, b.Pinned(b.sideToMove))
}
