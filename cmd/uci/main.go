package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"wyvern-chess/engine"
	mg "wyvern-chess/movegen"
)

func main() {
	uciLoop()
}

func uciLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	board := mg.NewBoard()
	tt := engine.NewTransTable(engine.DefaultTTSizeMB)
	search := engine.NewSearch(tt)
	search.Info = os.Stdout
	var history []uint64

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name Wyvern 1.0")
			fmt.Println("id author Wyvern team")
			fmt.Printf("option name Hash type spin default %d min 1 max 4096\n", engine.DefaultTTSizeMB)
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			board = mg.NewBoard()
			history = history[:0]
			search.NewGame()
		case "setoption":
			// setoption name <id> value <x>
			name, value := parseOption(tokens[1:])
			if strings.EqualFold(name, "Hash") {
				if mb, err := strconv.Atoi(value); err == nil && mb > 0 {
					tt.Resize(mb)
				}
			}
		case "position":
			b, keys, err := parsePosition(tokens[1:])
			if err != nil {
				fmt.Println("info string", err)
				continue
			}
			board = b
			history = keys
		case "go":
			limits := parseGo(tokens[1:], board.SideToMove())
			search.SetHistory(history)
			best, _ := search.BestMove(board, limits)
			if best == mg.MoveNone {
				fmt.Println("bestmove 0000")
			} else {
				fmt.Println("bestmove", best.String())
			}
		case "stop":
			search.Stop()
		case "quit":
			return
		default:
			fmt.Println("info string Unknown command:", line)
		}
	}
}

func parseOption(tokens []string) (name, value string) {
	for i := 0; i < len(tokens); i++ {
		switch strings.ToLower(tokens[i]) {
		case "name":
			if i+1 < len(tokens) {
				name = tokens[i+1]
			}
		case "value":
			if i+1 < len(tokens) {
				value = tokens[i+1]
			}
		}
	}
	return name, value
}

// parsePosition handles "startpos [moves ...]" and "fen <fen> [moves ...]",
// returning the resulting board plus the hash of every position along the way
// for repetition detection.
func parsePosition(tokens []string) (*mg.Board, []uint64, error) {
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("malformed position command")
	}

	var board *mg.Board
	var err error
	i := 0
	switch strings.ToLower(tokens[0]) {
	case "startpos":
		board = mg.NewBoard()
		i = 1
	case "fen":
		j := 1
		for j < len(tokens) && strings.ToLower(tokens[j]) != "moves" {
			j++
		}
		board, err = mg.ParseFEN(strings.Join(tokens[1:j], " "))
		if err != nil {
			return nil, nil, err
		}
		i = j
	default:
		return nil, nil, fmt.Errorf("invalid position subcommand %q", tokens[0])
	}

	keys := []uint64{board.Hash()}
	if i < len(tokens) && strings.ToLower(tokens[i]) == "moves" {
		for _, movestr := range tokens[i+1:] {
			m, err := board.ParseMove(movestr)
			if err != nil {
				return nil, nil, err
			}
			if ok, _ := board.MakeMove(m); !ok {
				return nil, nil, fmt.Errorf("illegal move %s", movestr)
			}
			keys = append(keys, board.Hash())
		}
	}
	return board, keys, nil
}

func parseGo(tokens []string, side mg.Color) engine.Limits {
	var limits engine.Limits
	var wtime, btime, winc, binc int
	for i := 0; i < len(tokens); i++ {
		next := func() int {
			if i+1 < len(tokens) {
				i++
				v, _ := strconv.Atoi(tokens[i])
				return v
			}
			return 0
		}
		switch strings.ToLower(tokens[i]) {
		case "infinite":
			limits.Infinite = true
		case "depth":
			limits.Depth = next()
		case "movetime":
			limits.MoveTimeMs = next()
		case "wtime":
			wtime = next()
		case "btime":
			btime = next()
		case "winc":
			winc = next()
		case "binc":
			binc = next()
		}
	}
	if side == mg.White {
		limits.TimeMs, limits.IncMs = wtime, winc
	} else {
		limits.TimeMs, limits.IncMs = btime, binc
	}
	if limits.TimeMs == 0 && limits.MoveTimeMs == 0 && limits.Depth == 0 && !limits.Infinite {
		limits.TimeMs = 300000
	}
	return limits
}
