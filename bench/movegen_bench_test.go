package bench

import (
	"testing"

	mg "wyvern-chess/movegen"
)

func benchGenerate(b *testing.B, fen string, gt mg.GenType) {
	board, err := mg.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	buf := make([]mg.Move, 0, mg.MaxMoves)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = board.GenerateInto(buf[:0], gt)
	}
}

const kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func BenchmarkGenerateNonEvasions_Initial(b *testing.B) {
	benchGenerate(b, mg.FENStartPos, mg.GenNonEvasions)
}

func BenchmarkGenerateNonEvasions_Kiwipete(b *testing.B) {
	benchGenerate(b, kiwipeteFEN, mg.GenNonEvasions)
}

func BenchmarkGenerateLegal_Kiwipete(b *testing.B) {
	benchGenerate(b, kiwipeteFEN, mg.GenLegal)
}

func BenchmarkGenerateCaptures_Kiwipete(b *testing.B) {
	benchGenerate(b, kiwipeteFEN, mg.GenCaptures)
}

func BenchmarkGenerateQuietChecks_Kiwipete(b *testing.B) {
	benchGenerate(b, kiwipeteFEN, mg.GenQuietChecks)
}

func BenchmarkGenerateEvasions_DoubleCheck(b *testing.B) {
	benchGenerate(b, "4r2k/8/8/8/7b/8/8/4K3 w - - 0 1", mg.GenEvasions)
}

func BenchmarkMakeUnmake(b *testing.B) {
	board, err := mg.ParseFEN(kiwipeteFEN)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	moves := board.GenerateInto(make([]mg.Move, 0, mg.MaxMoves), mg.GenLegal)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := moves[i%len(moves)]
		if ok, st := board.MakeMove(m); ok {
			board.UnmakeMove(st)
		}
	}
}
