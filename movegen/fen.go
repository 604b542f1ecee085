package movegen

import (
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the standard chess starting position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenPieceChars = map[byte]Piece{
	'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop,
	'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop,
	'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
}

var pieceFENChars = map[Piece]byte{
	WhitePawn: 'P', WhiteKnight: 'N', WhiteBishop: 'B',
	WhiteRook: 'R', WhiteQueen: 'Q', WhiteKing: 'K',
	BlackPawn: 'p', BlackKnight: 'n', BlackBishop: 'b',
	BlackRook: 'r', BlackQueen: 'q', BlackKing: 'k',
}

// NewBoard returns a board set up in the standard starting position.
func NewBoard() *Board {
	b, err := ParseFEN(FENStartPos)
	if err != nil {
		panic("movegen: bad start position FEN: " + err.Error())
	}
	return b
}

// ParseFEN builds a board from a FEN string. Castling rights accept the
// classical KQkq letters as well as Shredder-FEN rook-file letters (AHah...)
// for variant back ranks.
func ParseFEN(fen string) (*Board, error) {
	b := &Board{}
	if err := b.LoadFEN(fen); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadFEN replaces the board contents with the position described by fen.
// On error the board is left in an unspecified state.
func (b *Board) LoadFEN(fen string) error {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 4 {
		return fmt.Errorf("fen: expected at least 4 fields, got %d", len(fields))
	}

	*b = Board{enPassantSquare: NoSquare, fullmoveNumber: 1}
	b.castleRook = [2][2]Square{{NoSquare, NoSquare}, {NoSquare, NoSquare}}

	// Field 1: piece placement, rank 8 down to rank 1.
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("fen: expected 8 ranks, got %d", len(ranks))
	}
	for r := 0; r < 8; r++ {
		file := 0
		for i := 0; i < len(ranks[r]); i++ {
			c := ranks[r][i]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			p, ok := fenPieceChars[c]
			if !ok {
				return fmt.Errorf("fen: invalid piece char %q", c)
			}
			if file > 7 {
				return fmt.Errorf("fen: rank %d overflows", 8-r)
			}
			b.addPiece(Square((7-r)*8+file), p)
			file++
		}
		if file != 8 {
			return fmt.Errorf("fen: rank %d has %d files", 8-r, file)
		}
	}
	if b.kings[0] == 0 || b.kings[1] == 0 {
		return fmt.Errorf("fen: both kings must be present")
	}

	// Field 2: side to move.
	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return fmt.Errorf("fen: invalid side to move %q", fields[1])
	}

	// Field 3: castling rights.
	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			if err := b.addCastlingRight(fields[2][i]); err != nil {
				return err
			}
		}
	}

	// Field 4: en passant target.
	if fields[3] != "-" {
		sq, err := parseSquare(fields[3])
		if err != nil {
			return fmt.Errorf("fen: invalid en passant square %q", fields[3])
		}
		b.enPassantSquare = sq
	}

	// Optional fields 5 and 6: halfmove clock and fullmove number.
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return fmt.Errorf("fen: invalid halfmove clock %q", fields[4])
		}
		b.halfmoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return fmt.Errorf("fen: invalid fullmove number %q", fields[5])
		}
		b.fullmoveNumber = n
	}

	b.zobristKey = b.computeZobrist()
	return nil
}

// addCastlingRight records one castling-rights letter and resolves the
// matching rook's starting square on the back rank.
func (b *Board) addCastlingRight(c byte) error {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	ksq := b.KingSquare(color)
	backRank := rankOf(int(ksq))
	rooks := b.rooks[int(color)]

	var rsq Square
	var wing int
	switch {
	case c == 'K':
		// Outermost rook on the king side of the back rank.
		wing = KingSide
		rsq = NoSquare
		for f := 7; f > fileOf(int(ksq)); f-- {
			if sq := Square(backRank*8 + f); rooks&bb(sq) != 0 {
				rsq = sq
				break
			}
		}
	case c == 'Q':
		wing = QueenSide
		rsq = NoSquare
		for f := 0; f < fileOf(int(ksq)); f++ {
			if sq := Square(backRank*8 + f); rooks&bb(sq) != 0 {
				rsq = sq
				break
			}
		}
	case c >= 'A' && c <= 'H':
		// Shredder-FEN: the letter names the rook's file directly.
		rf := int(c - 'A')
		rsq = Square(backRank*8 + rf)
		if rooks&bb(rsq) == 0 {
			return fmt.Errorf("fen: no rook on castling file %c", c)
		}
		if rf > fileOf(int(ksq)) {
			wing = KingSide
		} else {
			wing = QueenSide
		}
	default:
		return fmt.Errorf("fen: invalid castling char %q", c)
	}
	if rsq == NoSquare {
		return fmt.Errorf("fen: no rook found for castling right %c", c)
	}
	b.castleRook[int(color)][wing] = rsq
	b.castlingRights |= castleRightMask(color, wing)
	return nil
}

// FEN serializes the position. Castling rights use the classical letters when
// the rook sits on its corner file and the Shredder file letter otherwise.
func (b *Board) FEN() string {
	var sb strings.Builder

	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			p := b.pieces[r*8+f]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pieceFENChars[p])
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	if b.castlingRights == 0 {
		sb.WriteByte('-')
	} else {
		for ci := 0; ci < 2; ci++ {
			for wing := KingSide; wing <= QueenSide; wing++ {
				if !b.CanCastle(Color(ci), wing) {
					continue
				}
				var c byte
				rf := fileOf(int(b.castleRook[ci][wing]))
				switch {
				case wing == KingSide && rf == 7:
					c = 'K'
				case wing == QueenSide && rf == 0:
					c = 'Q'
				default:
					c = byte('A' + rf)
				}
				if Color(ci) == Black {
					c += 'a' - 'A'
				}
				sb.WriteByte(c)
			}
		}
	}

	sb.WriteByte(' ')
	if b.enPassantSquare == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteString(squareName(b.enPassantSquare))
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullmoveNumber))
	return sb.String()
}

// parseSquare converts algebraic notation (e.g. "e4") to a square index.
func parseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return Square(int(s[1]-'1')*8 + int(s[0]-'a')), nil
}
