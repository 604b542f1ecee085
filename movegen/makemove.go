package movegen

import (
	"errors"
	"strings"
)

// MoveState holds the minimal state needed to undo a move.
type MoveState struct {
	move          Move
	moved         Piece
	captured      Piece
	capturedSq    Square
	prevCastling  CastlingRights
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
}

// NullState stores the minimal information needed to undo a null move.
type NullState struct {
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
	prevSide      Color
}

// Move returns the move this undo state belongs to.
func (st MoveState) Move() Move { return st.move }

// MakeMove applies a move to the board. It returns ok=false if the move
// leaves the mover's king in check, restoring the original position.
func (b *Board) MakeMove(m Move) (ok bool, st MoveState) {
	st = MoveState{
		move:          m,
		moved:         b.pieces[int(m.From())],
		captured:      NoPiece,
		capturedSq:    NoSquare,
		prevCastling:  b.castlingRights,
		prevEnPassant: b.enPassantSquare,
		prevHalfmove:  b.halfmoveClock,
		prevFullmove:  b.fullmoveNumber,
		prevZobrist:   b.zobristKey,
	}

	us := b.sideToMove
	them := us.Other()
	from := m.From()
	to := m.To()

	// Any existing en passant target expires now.
	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[fileOf(int(b.enPassantSquare))]
		b.enPassantSquare = NoSquare
	}

	switch m.Kind() {
	case MoveCastle:
		// 'to' is the rook's square; lift both pieces before placing them so
		// overlapping variant destinations cannot clobber each other.
		kto, rto := m.CastleKingTo()
		rook := b.removePiece(to)
		king := b.removePiece(from)
		b.addPiece(kto, king)
		b.addPiece(rto, rook)
	case MoveEnPassant:
		capSq := to - Square(pawnPush(us))
		st.captured = b.removePiece(capSq)
		st.capturedSq = capSq
		b.addPiece(to, b.removePiece(from))
	case MovePromotion:
		if cap := b.pieces[int(to)]; cap != NoPiece {
			st.captured = cap
			st.capturedSq = to
			b.removePiece(to)
		}
		b.removePiece(from)
		b.addPiece(to, PieceFromType(us, m.Promotion()))
	default:
		if cap := b.pieces[int(to)]; cap != NoPiece {
			st.captured = cap
			st.capturedSq = to
			b.removePiece(to)
		}
		b.addPiece(to, b.removePiece(from))

		// A double push opens an en passant target behind the pawn.
		if typeOf(st.moved) == PieceTypePawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16) {
			ep := from + Square(pawnPush(us))
			b.enPassantSquare = ep
			b.zobristKey ^= zobristEnPassant[fileOf(int(ep))]
		}
	}

	// Castling rights: a king move clears both wings; a rook leaving or being
	// captured on its starting square clears that wing. Matching on the
	// recorded rook squares keeps this correct for variant back ranks.
	newCR := b.castlingRights
	if typeOf(st.moved) == PieceTypeKing {
		if us == White {
			newCR &^= CastlingWhiteK | CastlingWhiteQ
		} else {
			newCR &^= CastlingBlackK | CastlingBlackQ
		}
	}
	for ci := 0; ci < 2; ci++ {
		for wing := KingSide; wing <= QueenSide; wing++ {
			if rs := b.castleRook[ci][wing]; rs != NoSquare && (rs == from || rs == to) {
				newCR &^= castleRightMask(Color(ci), wing)
			}
		}
	}
	if newCR != b.castlingRights {
		b.zobristKey ^= zobristCastle[int(b.castlingRights)]
		b.zobristKey ^= zobristCastle[int(newCR)]
		b.castlingRights = newCR
	}

	b.sideToMove = them
	b.zobristKey ^= zobristSide

	// Reject a move that leaves the mover's own king in check.
	if b.InCheck(us) {
		b.UnmakeMove(st)
		return false, st
	}

	if typeOf(st.moved) == PieceTypePawn || st.captured != NoPiece {
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}
	if us == Black {
		b.fullmoveNumber++
	}
	return true, st
}

func castleRightMask(c Color, wing int) CastlingRights {
	switch {
	case c == White && wing == KingSide:
		return CastlingWhiteK
	case c == White && wing == QueenSide:
		return CastlingWhiteQ
	case c == Black && wing == KingSide:
		return CastlingBlackK
	default:
		return CastlingBlackQ
	}
}

// UnmakeMove undoes a previously made move, restoring board state exactly.
func (b *Board) UnmakeMove(st MoveState) {
	m := st.move
	from := m.From()
	to := m.To()

	switch m.Kind() {
	case MoveCastle:
		kto, rto := m.CastleKingTo()
		king := b.removePiece(kto)
		rook := b.removePiece(rto)
		b.addPiece(from, king)
		b.addPiece(to, rook)
	case MovePromotion:
		b.removePiece(to)
		b.addPiece(from, st.moved)
	default:
		b.addPiece(from, b.removePiece(to))
	}
	if st.captured != NoPiece {
		b.addPiece(st.capturedSq, st.captured)
	}

	b.sideToMove = colorOf(st.moved)
	b.castlingRights = st.prevCastling
	b.enPassantSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove
	// Exact Zobrist restoration.
	b.zobristKey = st.prevZobrist
}

// MakeNullMove switches the side to move without moving any piece. It clears
// any en passant target and advances the clocks as a reversible half-move.
func (b *Board) MakeNullMove() (st NullState) {
	st.prevEnPassant = b.enPassantSquare
	st.prevHalfmove = b.halfmoveClock
	st.prevFullmove = b.fullmoveNumber
	st.prevZobrist = b.zobristKey
	st.prevSide = b.sideToMove

	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[fileOf(int(b.enPassantSquare))]
		b.enPassantSquare = NoSquare
	}
	b.halfmoveClock++
	b.sideToMove = b.sideToMove.Other()
	b.zobristKey ^= zobristSide
	if st.prevSide == Black {
		b.fullmoveNumber++
	}
	return st
}

// UnmakeNullMove restores the board to the state prior to MakeNullMove.
func (b *Board) UnmakeNullMove(st NullState) {
	b.enPassantSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove
	b.sideToMove = st.prevSide
	b.zobristKey = st.prevZobrist
}

// IsCapture reports whether the given move captures a piece (including en passant).
func (b *Board) IsCapture(m Move) bool {
	if m.Kind() == MoveEnPassant {
		return true
	}
	if m.Kind() == MoveCastle {
		return false
	}
	return b.pieces[int(m.To())] != NoPiece
}

// ParseMove resolves a UCI move string (e2e4, e7e8q) against the current
// position, returning the exact encoded legal move. This is the only place
// textual moves enter the engine, so the cost of a legal-generation pass is
// acceptable.
func (b *Board) ParseMove(movestr string) (Move, error) {
	movestr = strings.TrimSpace(strings.ToLower(movestr))
	if movestr == "0000" {
		return MoveNone, nil
	}
	if len(movestr) < 4 || len(movestr) > 5 {
		return MoveNone, errors.New("invalid move length")
	}
	var buf [MaxMoves]Move
	for _, m := range b.GenerateInto(buf[:0], GenLegal) {
		if m.String() == movestr {
			return m, nil
		}
	}
	return MoveNone, errors.New("move is not legal in this position: " + movestr)
}
