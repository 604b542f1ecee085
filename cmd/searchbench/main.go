package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"wyvern-chess/engine"
	mg "wyvern-chess/movegen"
)

// searchbench runs fixed-depth searches outside the test harness, mainly as a
// pprof target for search and evaluation profiling.
func main() {
	depthFlag := flag.Int("depth", 10, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	hashFlag := flag.Int("hash", engine.DefaultTTSizeMB, "transposition table size in MB")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	if *depthFlag <= 0 {
		log.Fatalf("depth must be positive, got %d", *depthFlag)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	fen := mg.FENStartPos
	if *fenFlag != "" {
		fen = *fenFlag
	}

	tt := engine.NewTransTable(*hashFlag)
	search := engine.NewSearch(tt)
	search.Info = os.Stdout

	fmt.Printf("searchbench: fen=%q depth=%d repeat=%d hash=%dMB\n", fen, *depthFlag, *repeatFlag, *hashFlag)

	startAll := time.Now()
	for i := 0; i < *repeatFlag; i++ {
		board, err := mg.ParseFEN(fen)
		if err != nil {
			log.Fatalf("bad FEN: %v", err)
		}
		search.NewGame()
		search.SetHistory([]uint64{board.Hash()})

		iterStart := time.Now()
		best, score := search.BestMove(board, engine.Limits{Depth: *depthFlag})
		fmt.Printf("iteration %d: bestmove %v score %d time=%v\n", i+1, best, score, time.Since(iterStart))
	}
	fmt.Printf("total time: %v\n", time.Since(startAll))

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}
}
