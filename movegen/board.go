package movegen

import "math/bits"

// Piece constants and types for pieces and colors
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	// Black pieces are encoded as (white piece type | 8) so that
	// - piece & 7 gives the type in [1..6]
	// - piece & 8 != 0 indicates Black
	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is a colorless representation of a chess piece used for table lookups.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// Type returns the colorless type of the piece (ignores side).
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece defaults to White.
func (p Piece) Color() Color { return colorOf(p) }

// PieceFromType combines a colorless type with a side to produce a concrete Piece.
func PieceFromType(color Color, pt PieceType) Piece {
	if pt == PieceTypeNone {
		return NoPiece
	}
	p := Piece(pt)
	if color == Black {
		p |= 8
	}
	return p
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

// Castling rights bit flags
type CastlingRights uint8

const (
	// White king-side (short) castling
	CastlingWhiteK CastlingRights = 1 << iota
	// White queen-side (long) castling
	CastlingWhiteQ
	// Black king-side castling
	CastlingBlackK
	// Black queen-side castling
	CastlingBlackQ
)

// Square represents a board position (0-63).
type Square int

const NoSquare Square = -1

// File and rank helpers for a square index.
func fileOf(sq int) int { return sq & 7 }
func rankOf(sq int) int { return sq >> 3 }

// relativeRank returns the rank of sq as seen from the given side
// (rank 0 is the side's back rank).
func relativeRank(side Color, sq int) int {
	r := rankOf(sq)
	if side == Black {
		r = 7 - r
	}
	return r
}

// Castling wings, indexing the per-side rook start squares.
const (
	KingSide  = 0
	QueenSide = 1
)

// Bitboards exposes the per-piece bitboards for one side.
type Bitboards struct {
	Pawns   uint64
	Knights uint64
	Bishops uint64
	Rooks   uint64
	Queens  uint64
	Kings   uint64
	All     uint64
}

// Board represents the chess board state, including piece placement and game state.
// Move generation treats a Board as an immutable snapshot: all generator entry
// points are read-only, so independent goroutines may generate from independent
// Board values with no synchronization.
type Board struct {
	// Piece bitboards for each piece type and color (index 0 = white, 1 = black)
	pawns   [2]uint64
	knights [2]uint64
	bishops [2]uint64
	rooks   [2]uint64
	queens  [2]uint64
	kings   [2]uint64

	// Occupancy bitboards for each side
	occupancy [2]uint64

	// Piece placement array for each square (0 = NoPiece, otherwise a Piece constant)
	pieces [64]Piece

	// Side to move
	sideToMove Color

	// Castling rights for both sides (bitmask using CastlingRights flags)
	castlingRights CastlingRights

	// Starting squares of the castling rooks, per side and wing. For the
	// standard start position these are the corner squares; variant setups
	// (Chess960 / Shredder-FEN) may place them anywhere on the back rank.
	castleRook [2][2]Square

	// En passant target square (if a pawn moved two steps last move, otherwise NoSquare)
	enPassantSquare Square

	// Halfmove clock (half-moves since last capture or pawn advance, for the 50-move rule)
	halfmoveClock int

	// Fullmove number (starts at 1, incremented after Black's move)
	fullmoveNumber int

	// Zobrist hash key for the current position
	zobristKey uint64
}

// ==========================
// Bitboard helpers
// ==========================

// bb returns a bitboard with the given square bit set.
func bb(sq Square) uint64 { return 1 << uint64(sq) }

// popLSB removes and returns the least significant set bit from the mask.
func popLSB(mask *uint64) int {
	x := *mask & -(*mask)
	idx := bits.TrailingZeros64(x)
	*mask &= *mask - 1
	return idx
}

// moreThanOne reports whether the bitboard has two or more bits set.
func moreThanOne(b uint64) bool { return b&(b-1) != 0 }

// ==========================
// Read-only queries (the generator's consumed surface)
// ==========================

// AllOccupancy returns a bitboard of all occupied squares.
func (b *Board) AllOccupancy() uint64 { return b.occupancy[0] | b.occupancy[1] }

// ColorOccupancy returns the occupancy bitboard for the given color.
func (b *Board) ColorOccupancy(c Color) uint64 { return b.occupancy[int(c)] }

// PieceAt returns the piece on a square.
func (b *Board) PieceAt(sq Square) Piece { return b.pieces[int(sq)] }

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Color { return b.sideToMove }

// EnPassantSquare returns the current en-passant target square or NoSquare.
func (b *Board) EnPassantSquare() Square { return b.enPassantSquare }

// HalfmoveClock accessor for consumers that want read-only access.
func (b *Board) HalfmoveClock() int { return b.halfmoveClock }

// FullmoveNumber returns the full move counter (incremented after Black's move).
func (b *Board) FullmoveNumber() int { return b.fullmoveNumber }

// Hash returns the current Zobrist position key.
func (b *Board) Hash() uint64 { return b.zobristKey }

// KingSquare returns the king square of the given side, or NoSquare if absent.
func (b *Board) KingSquare(c Color) Square {
	k := b.kings[int(c)]
	if k == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(k))
}

// CanCastle reports whether the given side still holds the castling right
// for the given wing (KingSide or QueenSide).
func (b *Board) CanCastle(c Color, wing int) bool {
	return b.castlingRights&castleRightMask(c, wing) != 0
}

// CastleRookSquare returns the starting square of the castling rook for the
// given side and wing. Meaningful only while the matching right is held.
func (b *Board) CastleRookSquare(c Color, wing int) Square { return b.castleRook[int(c)][wing] }

// piecesOf returns the bitboard of the given side's pieces of one type.
func (b *Board) piecesOf(c Color, pt PieceType) uint64 {
	ci := int(c)
	switch pt {
	case PieceTypePawn:
		return b.pawns[ci]
	case PieceTypeKnight:
		return b.knights[ci]
	case PieceTypeBishop:
		return b.bishops[ci]
	case PieceTypeRook:
		return b.rooks[ci]
	case PieceTypeQueen:
		return b.queens[ci]
	case PieceTypeKing:
		return b.kings[ci]
	}
	return 0
}

// Bitboards returns the per-piece bitboards for the requested side.
func (b *Board) Bitboards(color Color) Bitboards {
	idx := int(color)
	return Bitboards{
		Pawns:   b.pawns[idx],
		Knights: b.knights[idx],
		Bishops: b.bishops[idx],
		Rooks:   b.rooks[idx],
		Queens:  b.queens[idx],
		Kings:   b.kings[idx],
		All:     b.occupancy[idx],
	}
}

// ==========================
// Game status
// ==========================

// HasLegalMoves reports whether the side to move has any legal moves.
func (b *Board) HasLegalMoves() bool {
	var buf [MaxMoves]Move
	return len(b.GenerateInto(buf[:0], GenLegal)) > 0
}

// InCheck reports whether the specified color's king is currently in check.
func (b *Board) InCheck(color Color) bool {
	ksq := b.KingSquare(color)
	if ksq == NoSquare {
		return false
	}
	return b.IsSquareAttacked(ksq, color.Other())
}

// InCheckmate reports whether the side to move is checkmated.
func (b *Board) InCheckmate() bool {
	return b.Checkers() != 0 && !b.HasLegalMoves()
}

// InStalemate reports whether the side to move is stalemated.
func (b *Board) InStalemate() bool {
	return b.Checkers() == 0 && !b.HasLegalMoves()
}

// IsDrawBy50 reports a 50-move rule draw (halfmoveClock counts half-moves).
func (b *Board) IsDrawBy50() bool { return b.halfmoveClock >= 100 }

// IsDrawByRepetition reports a draw by threefold repetition based on the
// provided history of Zobrist keys. The current position counts as one
// occurrence; a trailing history entry equal to it is not double-counted.
func (b *Board) IsDrawByRepetition(history []uint64) bool {
	target := b.zobristKey
	end := len(history)
	if end > 0 && history[end-1] == target {
		end--
	}
	matches := 0
	for i := 0; i < end; i++ {
		if history[i] == target {
			matches++
			if matches >= 2 {
				return true
			}
		}
	}
	return false
}

// ==========================
// Mutation helpers
// ==========================

// colorOf returns the color of a piece. NoPiece is treated as White.
func colorOf(p Piece) Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// typeOf returns the piece type with the color stripped.
func typeOf(p Piece) PieceType { return PieceType(p & 7) }

// addPiece places a piece on an empty square and updates bitboards, occupancy and zobrist.
func (b *Board) addPiece(sq Square, p Piece) {
	if p == NoPiece {
		return
	}
	idx := int(sq)
	b.pieces[idx] = p
	ci := int(colorOf(p))
	b.occupancy[ci] |= bb(sq)
	switch typeOf(p) {
	case PieceTypePawn:
		b.pawns[ci] |= bb(sq)
	case PieceTypeKnight:
		b.knights[ci] |= bb(sq)
	case PieceTypeBishop:
		b.bishops[ci] |= bb(sq)
	case PieceTypeRook:
		b.rooks[ci] |= bb(sq)
	case PieceTypeQueen:
		b.queens[ci] |= bb(sq)
	case PieceTypeKing:
		b.kings[ci] |= bb(sq)
	}
	b.zobristKey ^= zobristPiece[p][idx]
}

// removePiece removes a piece from a square and updates bitboards, occupancy and zobrist.
func (b *Board) removePiece(sq Square) Piece {
	idx := int(sq)
	p := b.pieces[idx]
	if p == NoPiece {
		return NoPiece
	}
	ci := int(colorOf(p))
	mask := ^bb(sq)
	b.pieces[idx] = NoPiece
	b.occupancy[ci] &= mask
	switch typeOf(p) {
	case PieceTypePawn:
		b.pawns[ci] &= mask
	case PieceTypeKnight:
		b.knights[ci] &= mask
	case PieceTypeBishop:
		b.bishops[ci] &= mask
	case PieceTypeRook:
		b.rooks[ci] &= mask
	case PieceTypeQueen:
		b.queens[ci] &= mask
	case PieceTypeKing:
		b.kings[ci] &= mask
	}
	b.zobristKey ^= zobristPiece[p][idx]
	return p
}

// SetPiece sets a piece on a square, replacing any existing piece, and keeps state in sync.
func (b *Board) SetPiece(sq Square, p Piece) {
	b.removePiece(sq)
	b.addPiece(sq, p)
}

// ClearSquare removes any piece from the given square.
func (b *Board) ClearSquare(sq Square) { _ = b.removePiece(sq) }

// Validate checks internal consistency between pieces[], per-piece bitboards, and occupancy.
func (b *Board) Validate() bool {
	var occ [2]uint64
	var pawns, knights, bishops, rooks, queens, kings [2]uint64
	for sq := 0; sq < 64; sq++ {
		p := b.pieces[sq]
		if p == NoPiece {
			continue
		}
		ci := int(colorOf(p))
		bit := uint64(1) << uint(sq)
		occ[ci] |= bit
		switch typeOf(p) {
		case PieceTypePawn:
			pawns[ci] |= bit
		case PieceTypeKnight:
			knights[ci] |= bit
		case PieceTypeBishop:
			bishops[ci] |= bit
		case PieceTypeRook:
			rooks[ci] |= bit
		case PieceTypeQueen:
			queens[ci] |= bit
		case PieceTypeKing:
			kings[ci] |= bit
		}
	}
	if occ != b.occupancy {
		return false
	}
	if pawns != b.pawns || knights != b.knights || bishops != b.bishops ||
		rooks != b.rooks || queens != b.queens || kings != b.kings {
		return false
	}
	return b.zobristKey == b.computeZobrist()
}
