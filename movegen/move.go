package movegen

// Move encodes a chess move in 16 bits:
//
//	bits  0-5  destination square
//	bits  6-11 origin square
//	bits 12-13 promotion piece type minus knight (knight=0 .. queen=3)
//	bits 14-15 special kind (normal / promotion / en passant / castle)
//
// Castle moves carry the castling rook's square as the destination, which
// keeps the encoding valid for variant back-rank setups where the king and
// rook targets cannot be derived from the corner squares.
//
// Moves compare by encoded value. MoveNone is the zero value and never a
// real move (a1a1 cannot occur).
type Move uint16

const MoveNone Move = 0

// Special-kind values, stored in the top two bits.
const (
	MoveNormal    = 0 << 14
	MovePromotion = 1 << 14
	MoveEnPassant = 2 << 14
	MoveCastle    = 3 << 14
)

// MaxMoves bounds the number of moves any reachable position can produce;
// the theoretical maximum is 218. Callers preallocate buffers of this size.
const MaxMoves = 256

// NewMove constructs a plain move.
func NewMove(from, to Square) Move {
	return Move(uint16(to)&0x3F | uint16(from&0x3F)<<6)
}

// NewPromotion constructs a promotion move to the given piece type.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(uint16(to)&0x3F | uint16(from&0x3F)<<6 |
		uint16(promo-PieceTypeKnight)<<12 | MovePromotion)
}

// NewEnPassant constructs an en-passant capture.
func NewEnPassant(from, to Square) Move {
	return Move(uint16(to)&0x3F | uint16(from&0x3F)<<6 | MoveEnPassant)
}

// NewCastle constructs a castling move; to is the castling rook's square.
func NewCastle(kingFrom, rookSq Square) Move {
	return Move(uint16(rookSq)&0x3F | uint16(kingFrom&0x3F)<<6 | MoveCastle)
}

// From returns the origin square of the move.
func (m Move) From() Square { return Square((m >> 6) & 0x3F) }

// To returns the destination square. For castle moves this is the rook square.
func (m Move) To() Square { return Square(m & 0x3F) }

// Kind returns the special kind bits (MoveNormal, MovePromotion, MoveEnPassant, MoveCastle).
func (m Move) Kind() uint16 { return uint16(m) & (3 << 14) }

// Promotion returns the promotion piece type, or PieceTypeNone for non-promotions.
func (m Move) Promotion() PieceType {
	if m.Kind() != MovePromotion {
		return PieceTypeNone
	}
	return PieceType((m>>12)&3) + PieceTypeKnight
}

// CastleKingTo returns the king and rook destination squares of a castle
// move, derived from which wing the rook sits on relative to the king.
func (m Move) CastleKingTo() (kingTo, rookTo Square) {
	rank := rankOf(int(m.From())) * 8
	if m.To() > m.From() { // king side
		return Square(rank + 6), Square(rank + 5) // g-file, f-file
	}
	return Square(rank + 2), Square(rank + 3) // c-file, d-file
}

// String produces the UCI representation of the move (e.g. "e2e4", "e7e8q").
// Castle moves are printed king-from/king-to, matching UCI for standard chess.
func (m Move) String() string {
	if m == MoveNone {
		return "0000"
	}
	from := m.From()
	to := m.To()
	if m.Kind() == MoveCastle {
		to, _ = m.CastleKingTo()
	}
	s := squareName(from) + squareName(to)
	if p := m.Promotion(); p != PieceTypeNone {
		s += string(promoChar(p))
	}
	return s
}

func squareName(sq Square) string {
	return string([]byte{'a' + byte(fileOf(int(sq))), '1' + byte(rankOf(int(sq)))})
}

func promoChar(pt PieceType) byte {
	switch pt {
	case PieceTypeKnight:
		return 'n'
	case PieceTypeBishop:
		return 'b'
	case PieceTypeRook:
		return 'r'
	case PieceTypeQueen:
		return 'q'
	}
	return '?'
}
