package engine

import (
	"time"

	mg "wyvern-chess/movegen"
)

// TimeHandler budgets wall-clock time for one move from the remaining game
// time, the increment and a phase-based estimate of moves left.
type TimeHandler struct {
	remainingTime    int
	increment        int
	deadline         time.Time
	usingCustomDepth bool
}

func (th *TimeHandler) Init(remainingTime, increment int, useCustomDepth bool) {
	th.remainingTime = remainingTime
	th.increment = increment
	th.usingCustomDepth = useCustomDepth
}

// Start computes the budget for the upcoming move and arms the deadline.
func (th *TimeHandler) Start(b *mg.Board) {
	movesLeft := estimateMovesRemaining(GetPiecePhase(b))

	const overheadMs = 30 // reserve for UCI/IO jitter
	const minMoveMs = 5
	const maxFrac = 0.7 // never spend more than 70% of remaining time
	const panicThreshMs = 1000
	const panicFrac = 0.90

	rem := th.remainingTime
	inc := th.increment

	var moveTime int
	if inc > 0 {
		if rem < panicThreshMs {
			// Nearly flagged: live off the increment and bank a little.
			moveTime = int(float64(inc) * panicFrac)
		} else {
			moveTime = rem/movesLeft + inc
		}
	} else {
		moveTime = rem / 40
	}

	if moveTime < minMoveMs {
		moveTime = minMoveMs
	}
	if moveTime > int(float64(rem)*maxFrac) {
		moveTime = int(float64(rem) * maxFrac)
	}
	if moveTime > rem-overheadMs {
		moveTime = rem - overheadMs
	}
	if moveTime < minMoveMs {
		moveTime = minMoveMs
	}

	th.deadline = time.Now().Add(time.Duration(moveTime) * time.Millisecond)
}

// StartFixed arms the deadline with an exact per-move budget ("go movetime").
func (th *TimeHandler) StartFixed(ms int) {
	th.usingCustomDepth = false
	th.deadline = time.Now().Add(time.Duration(ms) * time.Millisecond)
}

// Expired reports whether the move budget has run out. Depth-limited
// searches never expire.
func (th *TimeHandler) Expired() bool {
	if th.usingCustomDepth {
		return false
	}
	return time.Now().After(th.deadline)
}

// estimateMovesRemaining interpolates between 20 (endgame) and 45
// (opening/middlegame) based on the material phase.
func estimateMovesRemaining(phase int) int {
	return (phase*25)/24 + 20
}
