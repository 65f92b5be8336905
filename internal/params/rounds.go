package params

const (
	// FullRounds is fixed for every width.
	FullRounds = 8
	// Alpha is the S-box exponent.
	Alpha = 5

	MinWidth = 2
	MaxWidth = 17

	// NarrowRowWidth is the row width used by deployments that only keep the
	// first three round constants of each round.
	NarrowRowWidth = 3
)

// partialRounds is indexed by width-2.
var partialRounds = [MaxWidth - MinWidth + 1]int{
	56, 57, 56, 60, 60, 63, 64, 63, 60, 66, 60, 65, 70, 60, 64, 68,
}

// PartialRounds returns the number of partial rounds for state width t.
func PartialRounds(t int) (int, error) {
	if t < MinWidth || t > MaxWidth {
		return 0, &UnsupportedWidthError{Width: t, Min: MinWidth, Max: MaxWidth}
	}
	return partialRounds[t-MinWidth], nil
}
