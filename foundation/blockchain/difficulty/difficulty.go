// Package difficulty retargets the proof of work difficulty toward a target
// time between blocks.
package difficulty

import (
	"time"
)

// Minimum is the lowest difficulty a block can be mined at.
const Minimum uint = 1

// Adjust returns the difficulty for a block stamped at next whose parent
// was stamped at prev with the specified difficulty. The retarget only looks
// at the last interval and moves by a single step:
//
//	interval < target  difficulty + 1
//	interval > target  max(1, difficulty - 1)
//	interval == target difficulty
//
// A negative interval, where the clock went backwards, counts as too fast.
func Adjust(prev time.Time, next time.Time, prevDifficulty uint, target time.Duration) uint {
	dt := next.Sub(prev)

	switch {
	case dt < target:
		return prevDifficulty + 1

	case dt > target:
		if prevDifficulty <= Minimum {
			return Minimum
		}
		return prevDifficulty - 1

	default:
		return prevDifficulty
	}
}
