package engine

import (
	"golang.org/x/exp/slices"

	mg "wyvern-chess/movegen"
)

// MaxDepth bounds search ply and sizes the per-ply tables.
const MaxDepth = 100

// Most Valuable Victim - Least Valuable Aggressor, indexed [victim][attacker].
var mvvLva = [7][7]uint16{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 0}, // victim pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim knight
	{0, 34, 33, 32, 31, 30, 0}, // victim bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim rook
	{0, 54, 53, 52, 51, 50, 0}, // victim queen
	{0, 0, 0, 0, 0, 0, 0},
}

// Ordering offsets. Hash/PV moves come first, then promotions and captures,
// then the quiet-move heuristics.
const (
	pvOffset        uint16 = 25000
	promotionOffset uint16 = 20000
	captureOffset   uint16 = 15000
	killerOffset    uint16 = 2000
	counterOffset   uint16 = 1000
)

const historyMaxVal = 10000 // stays below the capture offsets

// KillerTable remembers two quiet beta-cutoff moves per ply.
type KillerTable struct {
	moves [MaxDepth + 1][2]mg.Move
}

func (k *KillerTable) Insert(m mg.Move, ply int) {
	if m != k.moves[ply][0] {
		k.moves[ply][1] = k.moves[ply][0]
		k.moves[ply][0] = m
	}
}

func (k *KillerTable) Clear() {
	for ply := range k.moves {
		k.moves[ply][0] = mg.MoveNone
		k.moves[ply][1] = mg.MoveNone
	}
}

// HistoryTable tracks quiet moves by side and from/to squares: moves that
// cause beta cutoffs gain score, moves searched past without one lose it.
// A counter-move slot remembers the quiet refutation of the previous move.
type HistoryTable struct {
	history [2][64][64]int
	counter [2][64][64]mg.Move
}

func (h *HistoryTable) Good(side mg.Color, m mg.Move, depth int) {
	s := &h.history[side][m.From()][m.To()]
	*s += depth * depth
	if *s >= historyMaxVal {
		h.age(side)
	}
}

func (h *HistoryTable) Bad(side mg.Color, m mg.Move) {
	s := &h.history[side][m.From()][m.To()]
	if *s > 0 {
		*s--
	}
}

func (h *HistoryTable) StoreCounter(side mg.Color, prev, m mg.Move) {
	if prev != mg.MoveNone {
		h.counter[side][prev.From()][prev.To()] = m
	}
}

func (h *HistoryTable) age(side mg.Color) {
	for from := 0; from < 64; from++ {
		for to := 0; to < 64; to++ {
			h.history[side][from][to] /= 2
		}
	}
}

func (h *HistoryTable) Clear() {
	for side := 0; side < 2; side++ {
		for from := 0; from < 64; from++ {
			for to := 0; to < 64; to++ {
				h.history[side][from][to] = 0
				h.counter[side][from][to] = mg.MoveNone
			}
		}
	}
}

type scoredMove struct {
	move  mg.Move
	score uint16
}

type moveList struct {
	moves []scoredMove
}

// orderNextMove selection-sorts the single best remaining move to the front.
// Most nodes cut off after a move or two, so fully sorting wastes work.
func orderNextMove(currIndex int, list *moveList) {
	bestIndex := currIndex
	bestScore := list.moves[bestIndex].score
	for i := currIndex + 1; i < len(list.moves); i++ {
		if list.moves[i].score > bestScore {
			bestIndex = i
			bestScore = list.moves[i].score
		}
	}
	list.moves[currIndex], list.moves[bestIndex] = list.moves[bestIndex], list.moves[currIndex]
}

// scoreMoves attaches an ordering score to every move at a node.
func (s *Search) scoreMoves(b *mg.Board, moves []mg.Move, ply int, pvMove, prevMove mg.Move) moveList {
	side := b.SideToMove()
	list := moveList{moves: make([]scoredMove, len(moves))}
	for i, m := range moves {
		var score uint16
		switch {
		case m == pvMove:
			score = pvOffset + 1500
		case m.Kind() == mg.MovePromotion:
			score = promotionOffset + uint16(PieceValueEG[m.Promotion()])
		case b.IsCapture(m):
			victim := b.PieceAt(m.To()).Type()
			if m.Kind() == mg.MoveEnPassant {
				victim = mg.PieceTypePawn
			}
			score = captureOffset + mvvLva[victim][b.PieceAt(m.From()).Type()]
		case s.killers.moves[ply][0] == m:
			score = killerOffset + 200
		case s.killers.moves[ply][1] == m:
			score = killerOffset
		default:
			score = uint16(s.history.history[side][m.From()][m.To()])
			if prevMove != mg.MoveNone && s.history.counter[side][prevMove.From()][prevMove.To()] == m {
				score += counterOffset
			}
		}
		list.moves[i] = scoredMove{move: m, score: score}
	}
	return list
}

// scoreCaptures keeps only captures and promotions, scored for quiescence.
func (s *Search) scoreCaptures(b *mg.Board, moves []mg.Move, pvMove mg.Move) moveList {
	list := moveList{moves: make([]scoredMove, 0, len(moves))}
	for _, m := range moves {
		isPromotion := m.Kind() == mg.MovePromotion
		if !b.IsCapture(m) && !isPromotion {
			continue
		}
		var score uint16
		switch {
		case m == pvMove:
			score = captureOffset + 256
		case isPromotion:
			score = captureOffset + 75
		default:
			victim := b.PieceAt(m.To()).Type()
			if m.Kind() == mg.MoveEnPassant {
				victim = mg.PieceTypePawn
			}
			score = mvvLva[victim][b.PieceAt(m.From()).Type()]
		}
		list.moves = append(list.moves, scoredMove{move: m, score: score})
	}
	return list
}

// sortRootMoves orders the root move list once per iteration, best first.
func sortRootMoves(list *moveList) {
	slices.SortStableFunc(list.moves, func(a, b scoredMove) bool {
		return a.score > b.score
	})
}
