package chat

import (
	"strconv"
	"strings"
)

// maxRolls bounds the number of dice in one RdS roll.
const maxRolls = 100

type RollResult struct {
	Spec   string
	Values []int
}

func (r RollResult) String() string {
	parts := make([]string, len(r.Values))
	for i, v := range r.Values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

// ParseRoll accepts "N" (one roll of 1..N) or "RdS" (R rolls of an S sided
// die). Both numbers must be positive.
func ParseRoll(spec string) (rolls, sides int, err error) {
	spec = strings.TrimSpace(spec)

	if before, after, ok := strings.Cut(spec, "d"); ok {
		rolls, err = strconv.Atoi(before)
		if err != nil {
			return 0, 0, newError(ErrorCodeInvalidArgument, "Invalid roll", err)
		}
		sides, err = strconv.Atoi(after)
		if err != nil {
			return 0, 0, newError(ErrorCodeInvalidArgument, "Invalid roll", err)
		}
	} else {
		rolls = 1
		sides, err = strconv.Atoi(spec)
		if err != nil {
			return 0, 0, newError(ErrorCodeInvalidArgument, "Invalid roll", err)
		}
	}

	if rolls <= 0 || sides <= 0 || rolls > maxRolls {
		return 0, 0, ErrInvalidRoll
	}
	return rolls, sides, nil
}

// Roll parses spec and rolls it with intn, which must return a value in
// [0, n).
func Roll(spec string, intn func(int) int) (RollResult, error) {
	rolls, sides, err := ParseRoll(spec)
	if err != nil {
		return RollResult{}, err
	}

	values := make([]int, rolls)
	for i := range values {
		values[i] = intn(sides) + 1
	}
	return RollResult{Spec: strings.TrimSpace(spec), Values: values}, nil
}

func Flip(intn func(int) int) string {
	if intn(2) == 0 {
		return "heads"
	}
	return "tails"
}
