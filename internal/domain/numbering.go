package domain

import "errors"

// Sibling position tiers, widest first. Appends step by the widest
// tier that still fits; compaction uses the widest tier whose
// positions all fit under MaxSegment.
var tiers = [...]int{100, 10, 1}

// ErrExhausted is returned when no legal sibling position exists at
// the requested spot. Compacting the level restores headroom.
var ErrExhausted = errors.New("sibling positions exhausted; run compact to renumber")

// AppendPosition returns the position for a new last sibling. An empty
// level starts at 100. Otherwise the result is max(occupied) + step,
// where step is the widest tier keeping the result within range.
func AppendPosition(occupied []int) (int, error) {
	if len(occupied) == 0 {
		return tiers[0], nil
	}
	last := 0
	for _, n := range occupied {
		if n > last {
			last = n
		}
	}
	for _, step := range tiers {
		if last+step <= MaxSegment {
			return last + step, nil
		}
	}
	return 0, ErrExhausted
}

// BetweenPosition returns the midpoint position strictly between a and
// b. Pass a=0 to insert before the first sibling. A gap of one leaves
// no room and fails with ErrExhausted.
func BetweenPosition(a, b int) (int, error) {
	if b-a < 2 {
		return 0, ErrExhausted
	}
	mid := (a + b) / 2
	if mid < MinSegment || mid > MaxSegment {
		return 0, ErrExhausted
	}
	return mid, nil
}

// BeforePosition returns a position for a new sibling immediately
// before target, given the occupied positions at the level.
func BeforePosition(occupied []int, target int) (int, error) {
	predecessor := 0
	for _, n := range occupied {
		if n < target && n > predecessor {
			predecessor = n
		}
	}
	return BetweenPosition(predecessor, target)
}

// AfterPosition returns a position for a new sibling immediately after
// target: the midpoint to the next occupied position, or an append
// when target is the last sibling.
func AfterPosition(occupied []int, target int) (int, error) {
	successor := 0
	for _, n := range occupied {
		if n > target && (successor == 0 || n < successor) {
			successor = n
		}
	}
	if successor == 0 {
		return AppendPosition(occupied)
	}
	return BetweenPosition(target, successor)
}

// CompactStep returns the widest tier step such that count evenly
// spaced siblings all fit under MaxSegment.
func CompactStep(count int) (int, error) {
	for _, step := range tiers {
		if count*step <= MaxSegment {
			return step, nil
		}
	}
	return 0, ErrExhausted
}

// CompactPositions returns count evenly spaced positions at the widest
// fitting tier: step, 2*step, ..., count*step.
func CompactPositions(count int) ([]int, error) {
	step, err := CompactStep(count)
	if err != nil {
		return nil, err
	}
	positions := make([]int, count)
	for i := range positions {
		positions[i] = (i + 1) * step
	}
	return positions, nil
}
