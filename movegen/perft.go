package movegen

// Perft counts the leaf nodes of the legal move tree to the given depth.
// The standard correctness drill for a move generator: any divergence from
// the published node counts pinpoints a generation or make/unmake bug.
func Perft(b *Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var buf [MaxMoves]Move
	moves := b.GenerateInto(buf[:0], GenLegal)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		ok, st := b.MakeMove(m)
		if !ok {
			continue
		}
		nodes += Perft(b, depth-1)
		b.UnmakeMove(st)
	}
	return nodes
}

// PerftResult is one root move's subtree count from PerftDivide.
type PerftResult struct {
	Move  Move
	Nodes uint64
}

// PerftDivide returns per-root-move node counts plus the total, for
// narrowing down where two generators disagree.
func PerftDivide(b *Board, depth int) ([]PerftResult, uint64) {
	var buf [MaxMoves]Move
	moves := b.GenerateInto(buf[:0], GenLegal)
	results := make([]PerftResult, 0, len(moves))
	var total uint64
	for _, m := range moves {
		ok, st := b.MakeMove(m)
		if !ok {
			continue
		}
		n := uint64(1)
		if depth > 1 {
			n = Perft(b, depth-1)
		}
		b.UnmakeMove(st)
		results = append(results, PerftResult{Move: m, Nodes: n})
		total += n
	}
	return results, total
}
