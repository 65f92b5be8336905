package params

import (
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/rs/zerolog"
)

// Option configures a Selector.
type Option func(*selectorConfig)

type selectorConfig struct {
	rowWidth    int
	schedule    Schedule
	partialSBox PartialSBox
	log         zerolog.Logger
}

// WithRowWidth keeps only the first w round constants of every round when the
// state is wider than w. Zero keeps full rows.
func WithRowWidth(w int) Option {
	return func(c *selectorConfig) { c.rowWidth = w }
}

func WithSchedule(s Schedule) Option {
	return func(c *selectorConfig) { c.schedule = s }
}

func WithPartialSBox(p PartialSBox) Option {
	return func(c *selectorConfig) { c.partialSBox = p }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *selectorConfig) { c.log = l }
}

// Selector maps an input arity to reduced, validated permutation parameters.
// Parameters are derived at most once per width and shared afterwards.
type Selector struct {
	table Table
	cfg   selectorConfig

	mu    sync.Mutex
	cache map[int]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	p    *Parameters
	err  error
}

// NewSelector builds a Selector over table.
func NewSelector(table Table, opts ...Option) *Selector {
	cfg := selectorConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Selector{
		table: table,
		cfg:   cfg,
		cache: make(map[int]*cacheEntry),
	}
}

// Select returns the parameters for hashing n inputs (state width n+1).
func (s *Selector) Select(n int) (*Parameters, error) {
	t := n + 1
	if t < MinWidth || t > MaxWidth {
		return nil, &UnsupportedWidthError{Width: t, Min: MinWidth, Max: MaxWidth}
	}

	s.mu.Lock()
	e, ok := s.cache[t]
	if !ok {
		e = &cacheEntry{}
		s.cache[t] = e
	}
	s.mu.Unlock()

	e.once.Do(func() {
		e.p, e.err = s.derive(t)
	})
	return e.p, e.err
}

func (s *Selector) derive(t int) (*Parameters, error) {
	rp, err := PartialRounds(t)
	if err != nil {
		return nil, err
	}
	rounds := FullRounds + rp

	rawC, err := s.table.RoundConstants(t)
	if err != nil {
		return nil, fmt.Errorf("poseidon254: round constants for width %d: %w", t, err)
	}
	if len(rawC) < rounds*t {
		return nil, configErrorf(t, "table has %d round constants, want %d", len(rawC), rounds*t)
	}
	rawM, err := s.table.MDS(t)
	if err != nil {
		return nil, fmt.Errorf("poseidon254: mds for width %d: %w", t, err)
	}
	if len(rawM) != t {
		return nil, configErrorf(t, "table mds has %d rows", len(rawM))
	}

	rowWidth := t
	if s.cfg.rowWidth > 0 && s.cfg.rowWidth < t {
		rowWidth = s.cfg.rowWidth
		s.cfg.log.Warn().
			Int("width", t).
			Int("rowWidth", rowWidth).
			Msg("narrowed round constant rows drop columns; output will not match a full-width circuit")
	}

	p := &Parameters{
		StateSize:      t,
		FullRounds:     FullRounds,
		PartialRounds:  rp,
		Alpha:          Alpha,
		Schedule:       s.cfg.schedule,
		RoundConstants: make([][]fr.Element, rounds),
		MDS:            make([][]fr.Element, t),
	}
	if s.cfg.partialSBox == PartialSBoxLast {
		p.PartialIndex = t - 1
	}

	// The raw stream is t values per round even when rows are narrowed.
	for r := range rounds {
		row := make([]fr.Element, rowWidth)
		for j := range rowWidth {
			v := rawC[r*t+j]
			if v == nil {
				return nil, configErrorf(t, "nil round constant at %d", r*t+j)
			}
			row[j].SetBigInt(v)
		}
		p.RoundConstants[r] = row
	}
	for i, rawRow := range rawM {
		if len(rawRow) != t {
			return nil, configErrorf(t, "table mds row %d has %d entries", i, len(rawRow))
		}
		row := make([]fr.Element, t)
		for j, v := range rawRow {
			if v == nil {
				return nil, configErrorf(t, "nil mds entry at [%d][%d]", i, j)
			}
			row[j].SetBigInt(v)
		}
		p.MDS[i] = row
	}

	if err := Validate(p); err != nil {
		return nil, err
	}
	s.cfg.log.Debug().
		Int("width", t).
		Int("partialRounds", rp).
		Stringer("schedule", p.Schedule).
		Msg("derived poseidon parameters")
	return p, nil
}
