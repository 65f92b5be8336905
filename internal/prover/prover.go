// Package prover runs the batch "hash, then prove" pipeline: every proof
// input record is turned into a circuit assignment, proved with Groth16 over
// BN254, verified, and written to its own output file. A failing record is
// reported and never stops the others.
package prover

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/whirlwind/poseidon254"
	"github.com/whirlwind/poseidon254/circuits"
)

// Option configures a Prover.
type Option func(*Prover)

// WithKeysDir loads <dir>/<type>.pk and .vk when present, and saves freshly
// generated keys there otherwise.
func WithKeysDir(dir string) Option {
	return func(p *Prover) { p.keysDir = dir }
}

func WithLogger(l zerolog.Logger) Option {
	return func(p *Prover) { p.log = l }
}

// Prover proves records concurrently. Circuits are compiled and keys set up
// at most once per circuit type.
type Prover struct {
	hasher  *poseidon254.Hasher
	keysDir string
	log     zerolog.Logger

	mu      sync.Mutex
	systems map[circuits.Kind]*system
}

type system struct {
	once sync.Once
	ccs  constraint.ConstraintSystem
	pk   groth16.ProvingKey
	vk   groth16.VerifyingKey
	err  error
}

func New(h *poseidon254.Hasher, opts ...Option) *Prover {
	p := &Prover{
		hasher:  h,
		log:     zerolog.Nop(),
		systems: make(map[circuits.Kind]*system),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prove builds the witness of rec, proves it and checks the proof.
func (p *Prover) Prove(ctx context.Context, rec Record) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kind, err := circuits.ParseKind(rec.Type)
	if err != nil {
		return nil, err
	}
	in, err := circuits.DecodeInput(kind, rec.Data)
	if err != nil {
		return nil, err
	}
	assignment, err := in.Assignment(p.hasher)
	if err != nil {
		return nil, err
	}
	sys, err := p.system(kind)
	if err != nil {
		return nil, err
	}

	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("prover: %s witness: %w", kind, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proof, err := groth16.Prove(sys.ccs, sys.pk, w)
	if err != nil {
		return nil, fmt.Errorf("prover: %s prove: %w", kind, err)
	}
	public, err := w.Public()
	if err != nil {
		return nil, fmt.Errorf("prover: %s public witness: %w", kind, err)
	}
	if err := groth16.Verify(proof, sys.vk, public); err != nil {
		return nil, fmt.Errorf("prover: %s verify: %w", kind, err)
	}
	return newResult(proof, public)
}

// Report lists the outcome of a batch run.
type Report struct {
	Proved []string
	Failed map[string]error
}

// Err joins the per-key failures in key order, or returns nil.
func (r *Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	keys := make([]string, 0, len(r.Failed))
	for k := range r.Failed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	errs := make([]error, len(keys))
	for i, k := range keys {
		errs[i] = fmt.Errorf("%s: %w", k, r.Failed[k])
	}
	return errors.Join(errs...)
}

// Run proves every record with at most workers in flight and writes
// <outDir>/<key>.json for each success. The returned error is only set when
// the run itself could not proceed; per-record failures are in the Report.
func (p *Prover) Run(ctx context.Context, records map[string]Record, outDir string, workers int) (*Report, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("prover: %w", err)
	}
	if workers < 1 {
		workers = 1
	}

	report := &Report{Failed: make(map[string]error)}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(workers)
	for _, key := range sortedKeys(records) {
		g.Go(func() error {
			err := p.proveAndWrite(ctx, key, records[key], outDir)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[key] = err
				p.log.Error().Err(err).Str("key", key).Msg("proof failed")
				return nil
			}
			report.Proved = append(report.Proved, key)
			p.log.Info().Str("key", key).Str("type", records[key].Type).Msg("proof written")
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(report.Proved)
	return report, ctx.Err()
}

func (p *Prover) proveAndWrite(ctx context.Context, key string, rec Record, outDir string) error {
	if err := validKey(key); err != nil {
		return err
	}
	res, err := p.Prove(ctx, rec)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("prover: encode result: %w", err)
	}
	return os.WriteFile(filepath.Join(outDir, key+".json"), data, 0o644)
}

func (p *Prover) system(kind circuits.Kind) (*system, error) {
	p.mu.Lock()
	sys, ok := p.systems[kind]
	if !ok {
		sys = &system{}
		p.systems[kind] = sys
	}
	p.mu.Unlock()

	sys.once.Do(func() {
		sys.err = p.setup(kind, sys)
	})
	return sys, sys.err
}

func (p *Prover) setup(kind circuits.Kind, sys *system) error {
	circuit, err := circuits.New(kind, p.hasher)
	if err != nil {
		return err
	}
	sys.ccs, err = frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return fmt.Errorf("prover: compile %s: %w", kind, err)
	}
	p.log.Debug().
		Str("type", string(kind)).
		Int("constraints", sys.ccs.GetNbConstraints()).
		Msg("circuit compiled")

	loaded, err := p.loadKeys(kind, sys)
	if err != nil {
		return err
	}
	if loaded {
		return nil
	}

	p.log.Info().Str("type", string(kind)).Msg("running groth16 setup")
	if sys.pk, sys.vk, err = groth16.Setup(sys.ccs); err != nil {
		return fmt.Errorf("prover: setup %s: %w", kind, err)
	}
	return p.saveKeys(kind, sys)
}

func (p *Prover) keyPaths(kind circuits.Kind) (string, string) {
	base := filepath.Join(p.keysDir, string(kind))
	return base + ".pk", base + ".vk"
}

func (p *Prover) loadKeys(kind circuits.Kind, sys *system) (bool, error) {
	if p.keysDir == "" {
		return false, nil
	}
	pkPath, vkPath := p.keyPaths(kind)
	if _, err := os.Stat(pkPath); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	sys.pk = groth16.NewProvingKey(ecc.BN254)
	if err := readFrom(pkPath, sys.pk); err != nil {
		return false, err
	}
	sys.vk = groth16.NewVerifyingKey(ecc.BN254)
	if err := readFrom(vkPath, sys.vk); err != nil {
		return false, err
	}
	p.log.Info().Str("type", string(kind)).Str("pk", pkPath).Msg("loaded proving key")
	return true, nil
}

func (p *Prover) saveKeys(kind circuits.Kind, sys *system) error {
	if p.keysDir == "" {
		return nil
	}
	if err := os.MkdirAll(p.keysDir, 0o755); err != nil {
		return fmt.Errorf("prover: %w", err)
	}
	pkPath, vkPath := p.keyPaths(kind)
	if err := writeTo(pkPath, sys.pk); err != nil {
		return err
	}
	return writeTo(vkPath, sys.vk)
}

func readFrom(path string, dst io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("prover: %w", err)
	}
	defer f.Close()
	if _, err := dst.ReadFrom(f); err != nil {
		return fmt.Errorf("prover: read %s: %w", path, err)
	}
	return nil
}

func writeTo(path string, src io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("prover: %w", err)
	}
	if _, err := src.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("prover: write %s: %w", path, err)
	}
	return f.Close()
}
