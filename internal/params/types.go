package params

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// Schedule orders the full and partial rounds of the permutation.
type Schedule uint8

const (
	// ScheduleSplit runs FullRounds/2 full rounds, the partial rounds, then
	// the remaining FullRounds/2 full rounds. This is the circomlib layout.
	ScheduleSplit Schedule = iota
	// ScheduleFullFirst runs every full round before the partial rounds.
	ScheduleFullFirst
)

func (s Schedule) String() string {
	switch s {
	case ScheduleSplit:
		return "split"
	case ScheduleFullFirst:
		return "full-first"
	default:
		return "unknown"
	}
}

// PartialSBox selects the state position that receives the S-box in partial rounds.
type PartialSBox uint8

const (
	PartialSBoxFirst PartialSBox = iota
	PartialSBoxLast
)

// Parameters bundles all constants needed by the permutation for one state width.
// A Parameters value is immutable once returned by a Selector.
type Parameters struct {
	StateSize     int
	FullRounds    int
	PartialRounds int
	Alpha         uint64
	Schedule      Schedule
	PartialIndex  int

	// RoundConstants holds one row per round. Rows are StateSize wide unless
	// the selector was configured with a narrower row width.
	RoundConstants [][]fr.Element
	// MDS is the StateSize x StateSize mixing matrix, row-major.
	MDS [][]fr.Element
}

// Rounds returns the total number of rounds.
func (p *Parameters) Rounds() int {
	return p.FullRounds + p.PartialRounds
}

// IsFull reports whether round r applies the S-box to every state position.
func (p *Parameters) IsFull(r int) bool {
	if p.Schedule == ScheduleFullFirst {
		return r < p.FullRounds
	}
	half := p.FullRounds / 2
	return r < half || r >= half+p.PartialRounds
}

// RowWidth returns the number of round constants applied per round.
func (p *Parameters) RowWidth() int {
	if len(p.RoundConstants) == 0 {
		return 0
	}
	return len(p.RoundConstants[0])
}
