package params

// Validate checks basic shape and sizes of the parameter set.
func Validate(p *Parameters) error {
	width := p.StateSize
	if width < MinWidth || width > MaxWidth {
		return &UnsupportedWidthError{Width: width, Min: MinWidth, Max: MaxWidth}
	}
	if p.Alpha != Alpha {
		return configErrorf(width, "unsupported S-box exponent %d", p.Alpha)
	}
	if p.FullRounds%2 != 0 {
		return configErrorf(width, "full rounds must be even, got %d", p.FullRounds)
	}
	if p.PartialIndex < 0 || p.PartialIndex >= width {
		return configErrorf(width, "partial S-box index %d out of range", p.PartialIndex)
	}
	if len(p.RoundConstants) != p.Rounds() {
		return configErrorf(width, "round constant rows mismatch: have %d, want %d", len(p.RoundConstants), p.Rounds())
	}
	rowWidth := p.RowWidth()
	if rowWidth == 0 || rowWidth > width {
		return configErrorf(width, "round constant row width %d", rowWidth)
	}
	for i, row := range p.RoundConstants {
		if len(row) != rowWidth {
			return configErrorf(width, "round constant row %d has %d entries, want %d", i, len(row), rowWidth)
		}
	}
	if len(p.MDS) != width {
		return configErrorf(width, "mds has %d rows", len(p.MDS))
	}
	for i, row := range p.MDS {
		if len(row) != width {
			return configErrorf(width, "mds row %d has %d entries", i, len(row))
		}
	}
	return nil
}
