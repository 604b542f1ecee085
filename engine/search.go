package engine

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	mg "wyvern-chess/movegen"
)

// Score constants. Mate scores are encoded as MaxScore minus the ply at
// which the mate is delivered, so they always fit the table's int16 payload.
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0
)

// Pruning and reduction parameters.
var (
	futilityMargins   = [8]int32{0, 120, 220, 320, 420, 520, 620, 720}
	rfpMargins        = [8]int32{0, 100, 200, 300, 400, 500, 600, 700}
	deltaMargin       int32 = 200
	aspirationWindow  int32 = 35
	nullMoveMinDepth        = 3
	lmrMoveLimit            = 4
	lmrDepthLimit           = 3
)

// Limits bounds one search invocation.
type Limits struct {
	Depth      int // 0 means no fixed depth
	MoveTimeMs int // 0 means derive from clock
	TimeMs     int // remaining clock for the side to move
	IncMs      int
	Infinite   bool
}

// PVLine collects the principal variation while searching.
type PVLine struct {
	Moves []mg.Move
}

func (pv *PVLine) Clear() { pv.Moves = pv.Moves[:0] }

func (pv *PVLine) Update(m mg.Move, child *PVLine) {
	pv.Moves = append(pv.Moves[:0], m)
	pv.Moves = append(pv.Moves, child.Moves...)
}

func (pv *PVLine) String() string {
	var s string
	for _, m := range pv.Moves {
		s += " " + m.String()
	}
	return s
}

// Search owns all per-engine search state: the shared transposition table,
// the quiet-move heuristics and the repetition history. One Search is driven
// by one goroutine; independent Search values may share the same TransTable.
type Search struct {
	tt      *TransTable
	killers KillerTable
	history HistoryTable
	timer   TimeHandler

	// Hashes of positions on the game and search path, for repetition checks.
	keys []uint64

	nodes     uint64
	stop      atomic.Bool
	prevScore int32

	// Info receives UCI "info" lines when non-nil.
	Info io.Writer
}

// NewSearch creates a search context bound to the given table.
func NewSearch(tt *TransTable) *Search {
	return &Search{tt: tt}
}

// Stop aborts the current search at the next node-count check.
func (s *Search) Stop() { s.stop.Store(true) }

// NewGame clears all game-scoped state.
func (s *Search) NewGame() {
	s.tt.Clear()
	s.killers.Clear()
	s.history.Clear()
	s.keys = s.keys[:0]
	s.prevScore = 0
}

// SetHistory seeds the repetition stack with the hashes of every position
// played so far, the root position last.
func (s *Search) SetHistory(keys []uint64) {
	s.keys = append(s.keys[:0], keys...)
}

// BestMove runs an iterative-deepening search and returns the best move
// found with its score from the side to move's perspective.
func (s *Search) BestMove(b *mg.Board, limits Limits) (mg.Move, int32) {
	s.stop.Store(false)
	s.nodes = 0
	s.tt.NewSearch()

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}
	useCustomDepth := limits.Depth > 0 || limits.Infinite
	if limits.MoveTimeMs > 0 {
		s.timer.StartFixed(limits.MoveTimeMs)
	} else {
		s.timer.Init(limits.TimeMs, limits.IncMs, useCustomDepth)
		s.timer.Start(b)
	}

	var bestMove mg.Move
	var bestScore int32 = -MaxScore
	var pv, prevPV PVLine

	alpha, beta := -MaxScore, MaxScore
	window := aspirationWindow
	if s.prevScore != 0 {
		alpha = s.prevScore - window
		beta = s.prevScore + window
	}

	start := time.Now()
	for depth := 1; depth <= maxDepth; depth++ {
		pv.Clear()
		score := s.alphabeta(b, alpha, beta, depth, 0, &pv, mg.MoveNone, false)

		if s.aborted() {
			break
		}

		// Aspiration window fell short: widen and repeat the iteration.
		if score <= alpha || score >= beta {
			window *= 2
			if window > MaxScore {
				window = MaxScore
			}
			alpha = score - window
			beta = score + window
			depth--
			continue
		}

		bestScore = score
		s.prevScore = score
		if len(pv.Moves) > 0 {
			bestMove = pv.Moves[0]
			prevPV.Moves = append(prevPV.Moves[:0], pv.Moves...)
		}
		window = aspirationWindow
		alpha = score - window
		beta = score + window

		s.reportInfo(depth, score, start, &pv)

		// Mate found: deeper iterations cannot improve it.
		if score > Checkmate || score < -Checkmate {
			break
		}
		if !useCustomDepth && s.timer.Expired() {
			break
		}
	}

	if bestMove == mg.MoveNone && len(prevPV.Moves) > 0 {
		bestMove = prevPV.Moves[0]
	}
	if bestMove == mg.MoveNone {
		// Never timed out of depth 1 with a move in hand; fall back to any
		// legal move so the engine cannot forfeit.
		var buf [mg.MaxMoves]mg.Move
		if moves := b.GenerateInto(buf[:0], mg.GenLegal); len(moves) > 0 {
			bestMove = moves[0]
		}
	}
	return bestMove, bestScore
}

func (s *Search) aborted() bool {
	return s.stop.Load() || s.timer.Expired()
}

func (s *Search) checkAbort() bool {
	// Poll the clock sparsely; a time check per node costs more than it saves.
	if s.nodes&1023 == 0 && s.aborted() {
		s.stop.Store(true)
	}
	return s.stop.Load()
}

func (s *Search) reportInfo(depth int, score int32, start time.Time, pv *PVLine) {
	if s.Info == nil {
		return
	}
	elapsed := time.Since(start).Milliseconds()
	if elapsed == 0 {
		elapsed = 1
	}
	nps := s.nodes * 1000 / uint64(elapsed)
	fmt.Fprintf(s.Info, "info depth %d score %s nodes %d nps %d time %d hashfull %d pv%s\n",
		depth, scoreString(score), s.nodes, nps, elapsed, s.tt.Hashfull(), pv.String())
}

// scoreString renders a score the way UCI wants: centipawns, or moves to mate.
func scoreString(score int32) string {
	if score > Checkmate {
		return fmt.Sprintf("mate %d", (MaxScore-score+1)/2)
	}
	if score < -Checkmate {
		return fmt.Sprintf("mate %d", -int((MaxScore+score+1)/2))
	}
	return fmt.Sprintf("cp %d", score)
}

// isRepetition reports whether the current position already occurred on the
// game or search path.
func (s *Search) isRepetition(b *mg.Board) bool {
	key := b.Hash()
	// Only positions since the last irreversible move can repeat.
	limit := len(s.keys) - 1 - b.HalfmoveClock()
	if limit < 0 {
		limit = 0
	}
	// keys ends with the current position; earlier occurrences with the same
	// side to move lie two plies apart from it.
	for i := len(s.keys) - 3; i >= limit; i -= 2 {
		if s.keys[i] == key {
			return true
		}
	}
	return false
}

func (s *Search) alphabeta(b *mg.Board, alpha, beta int32, depth, ply int, pv *PVLine, prevMove mg.Move, didNull bool) int32 {
	s.nodes++
	if s.checkAbort() {
		return 0
	}

	isRoot := ply == 0
	isPVNode := beta-alpha > 1
	inCheck := b.Checkers() != 0

	if !isRoot {
		if s.isRepetition(b) || b.IsDrawBy50() {
			return DrawScore
		}
		// Mate distance pruning.
		if mateAlpha := -MaxScore + int32(ply); mateAlpha > alpha {
			alpha = mateAlpha
		}
		if mateBeta := MaxScore - int32(ply) - 1; mateBeta < beta {
			beta = mateBeta
		}
		if alpha >= beta {
			return alpha
		}
	}

	if inCheck {
		depth++ // check extension
	}
	if depth <= 0 {
		return s.quiescence(b, alpha, beta, ply)
	}

	// Transposition lookup.
	key := b.Hash()
	var ttMove mg.Move
	entry, found := s.tt.Probe(key)
	if found {
		ttMove = entry.Move()
		if !isPVNode && int(entry.Depth()) >= depth {
			score := scoreFromTT(int32(entry.Value()), ply)
			switch entry.Bound() {
			case BoundExact:
				s.tt.Refresh(entry)
				return score
			case BoundLower:
				if score >= beta {
					s.tt.Refresh(entry)
					return score
				}
			case BoundUpper:
				if score <= alpha {
					s.tt.Refresh(entry)
					return score
				}
			}
		}
	}

	staticEval := Evaluate(b)
	if found && entry.Eval() != 0 {
		// A stored exact-ish value is a better oracle than the raw eval.
		staticEval = int32(entry.Eval()) + int32(entry.EvalMargin())
	}

	if !isPVNode && !inCheck {
		// Reverse futility: eval is so far above beta a real search will not
		// come back under it.
		if depth < len(rfpMargins) && staticEval-rfpMargins[depth] >= beta && beta > -Checkmate {
			return staticEval
		}
		// Null move: hand the opponent a free move; if we still beat beta the
		// position is good enough to cut. Skipped with only pawns left, where
		// zugzwang makes the premise false.
		if !didNull && depth >= nullMoveMinDepth && staticEval >= beta && GetPiecePhase(b) > 0 {
			st := b.MakeNullMove()
			s.keys = append(s.keys, b.Hash())
			r := 2 + depth/4
			score := -s.alphabeta(b, -beta, -beta+1, depth-1-r, ply+1, &PVLine{}, mg.MoveNone, true)
			s.keys = s.keys[:len(s.keys)-1]
			b.UnmakeNullMove(st)
			if s.stop.Load() {
				return 0
			}
			if score >= beta && score < Checkmate {
				return score
			}
		}
	}

	var buf [mg.MaxMoves]mg.Move
	moves := b.GenerateInto(buf[:0], mg.GenLegal)
	if len(moves) == 0 {
		if inCheck {
			return -MaxScore + int32(ply)
		}
		return DrawScore
	}

	list := s.scoreMoves(b, moves, ply, ttMove, prevMove)
	if isRoot {
		sortRootMoves(&list)
	}

	bestScore := -MaxScore
	bestMove := mg.MoveNone
	bound := BoundUpper
	var childPV PVLine
	searched := 0

	for i := range list.moves {
		if !isRoot {
			orderNextMove(i, &list)
		}
		m := list.moves[i].move
		quiet := !b.IsCapture(m) && m.Kind() != mg.MovePromotion

		// Futility: a hopeless quiet move near the horizon cannot raise alpha.
		if !isPVNode && !inCheck && quiet && searched > 0 &&
			depth < len(futilityMargins) && staticEval+futilityMargins[depth] <= alpha &&
			abs32(alpha) < Checkmate {
			continue
		}

		ok, st := b.MakeMove(m)
		if !ok {
			continue
		}
		s.keys = append(s.keys, b.Hash())
		searched++

		childPV.Clear()
		var score int32
		if searched == 1 || isRoot {
			// Root moves always get the full window at full depth: a root
			// scout makes its children non-PV, and the null-move cutoff there
			// can stand pat right at the window edge and hide a forced mate
			// behind the material score.
			score = -s.alphabeta(b, -beta, -alpha, depth-1, ply+1, &childPV, m, false)
		} else {
			// Late move reductions, then a zero-window verification, then a
			// full re-search only if the move beats alpha after all.
			reduction := 0
			if quiet && depth >= lmrDepthLimit && searched > lmrMoveLimit && !inCheck {
				reduction = 1 + searched/8
				if reduction >= depth {
					reduction = depth - 1
				}
			}
			score = -s.alphabeta(b, -alpha-1, -alpha, depth-1-reduction, ply+1, &childPV, m, false)
			if score > alpha && reduction > 0 {
				score = -s.alphabeta(b, -alpha-1, -alpha, depth-1, ply+1, &childPV, m, false)
			}
			if score > alpha && score < beta {
				score = -s.alphabeta(b, -beta, -alpha, depth-1, ply+1, &childPV, m, false)
			}
		}

		s.keys = s.keys[:len(s.keys)-1]
		b.UnmakeMove(st)
		if s.stop.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				bound = BoundExact
				pv.Update(m, &childPV)
			}
		}
		if alpha >= beta {
			bound = BoundLower
			if quiet {
				s.killers.Insert(m, ply)
				s.history.Good(b.SideToMove(), m, depth)
				s.history.StoreCounter(b.SideToMove(), prevMove, m)
			}
			break
		}
		if quiet {
			s.history.Bad(b.SideToMove(), m)
		}
	}

	if searched == 0 {
		// Every generated move was pruned; fall back to the static bound.
		return alpha
	}

	margin := clamp16(bestScore - staticEval)
	s.tt.Store(key, bestMove, bound,
		int16(scoreToTT(bestScore, ply)), int16(depth), clamp16(staticEval), margin)
	return bestScore
}

func (s *Search) quiescence(b *mg.Board, alpha, beta int32, ply int) int32 {
	s.nodes++
	if s.checkAbort() {
		return 0
	}

	inCheck := b.Checkers() != 0
	if inCheck {
		// In check there is no standing pat; search all evasions.
		var buf [mg.MaxMoves]mg.Move
		moves := b.GenerateInto(buf[:0], mg.GenLegal)
		if len(moves) == 0 {
			return -MaxScore + int32(ply)
		}
		best := -MaxScore
		for _, m := range moves {
			ok, st := b.MakeMove(m)
			if !ok {
				continue
			}
			score := -s.quiescence(b, -beta, -alpha, ply+1)
			b.UnmakeMove(st)
			if s.stop.Load() {
				return 0
			}
			if score > best {
				best = score
				if score > alpha {
					alpha = score
				}
			}
			if alpha >= beta {
				break
			}
		}
		return best
	}

	standPat := Evaluate(b)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	var buf [mg.MaxMoves]mg.Move
	moves := b.GenerateInto(buf[:0], mg.GenCaptures)
	pinned := b.Pinned(b.SideToMove())
	list := s.scoreCaptures(b, moves, mg.MoveNone)

	best := standPat
	for i := range list.moves {
		orderNextMove(i, &list)
		m := list.moves[i].move
		if !b.Legal(m, pinned) {
			continue
		}
		// Delta pruning: even winning this piece cannot lift the score near alpha.
		victim := b.PieceAt(m.To()).Type()
		if m.Kind() == mg.MoveEnPassant {
			victim = mg.PieceTypePawn
		}
		if m.Kind() != mg.MovePromotion && standPat+seePieceValue[victim]+deltaMargin <= alpha {
			continue
		}
		// Skip captures that lose material outright.
		if see(b, m) < 0 {
			continue
		}

		ok, st := b.MakeMove(m)
		if !ok {
			continue
		}
		score := -s.quiescence(b, -beta, -alpha, ply+1)
		b.UnmakeMove(st)
		if s.stop.Load() {
			return 0
		}
		if score > best {
			best = score
			if score > alpha {
				alpha = score
			}
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

// scoreToTT shifts a mate score so it is relative to the storing node rather
// than the root; scoreFromTT undoes the shift at probe time.
func scoreToTT(score int32, ply int) int32 {
	if score > Checkmate {
		return score + int32(ply)
	}
	if score < -Checkmate {
		return score - int32(ply)
	}
	return score
}

func scoreFromTT(score int32, ply int) int32 {
	if score > Checkmate {
		return score - int32(ply)
	}
	if score < -Checkmate {
		return score + int32(ply)
	}
	return score
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp16(v int32) int16 {
	if v > 32000 {
		return 32000
	}
	if v < -32000 {
		return -32000
	}
	return int16(v)
}
