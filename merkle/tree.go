// Package merkle implements an append-only Poseidon Merkle tree that keeps a
// bounded history of roots, as used by the deposit pool.
package merkle

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

const (
	// RootHistorySize is the number of recent roots accepted by IsKnownRoot.
	RootHistorySize = 100
	MaxLevels       = 31
)

// ZeroValue is the empty-leaf value.
var ZeroValue = mustElement("21663839004416932945382355908790599225266501822907911457504978515578255421292")

var ErrTreeFull = errors.New("merkle: tree is full")

// Hasher is satisfied by *poseidon254.Hasher.
type Hasher interface {
	HashElements(inputs ...fr.Element) (fr.Element, error)
}

// Path is the authentication path of a leaf. Indices[i] is 1 when the node at
// level i is a right child.
type Path struct {
	Index    uint64
	Indices  []uint8
	Elements []fr.Element
}

// TreeWithHistory is not safe for concurrent use.
type TreeWithHistory struct {
	hasher Hasher
	levels int

	zeros          []fr.Element
	filledSubtrees []fr.Element
	roots          [RootHistorySize]fr.Element

	currentRootIndex int
	nextIndex        uint64
}

// New builds an empty tree with the given number of levels (1..MaxLevels).
func New(h Hasher, levels int) (*TreeWithHistory, error) {
	if levels <= 0 || levels > MaxLevels {
		return nil, fmt.Errorf("merkle: levels must be in 1..%d, got %d", MaxLevels, levels)
	}
	t := &TreeWithHistory{
		hasher:         h,
		levels:         levels,
		zeros:          make([]fr.Element, levels),
		filledSubtrees: make([]fr.Element, levels),
	}

	current := ZeroValue
	t.zeros[0] = current
	t.filledSubtrees[0] = current
	for i := 1; i < levels; i++ {
		next, err := t.HashLeftRight(current, current)
		if err != nil {
			return nil, err
		}
		current = next
		t.zeros[i] = current
		t.filledSubtrees[i] = current
	}

	root, err := t.HashLeftRight(current, current)
	if err != nil {
		return nil, err
	}
	t.roots[0] = root
	return t, nil
}

func (t *TreeWithHistory) HashLeftRight(left, right fr.Element) (fr.Element, error) {
	return t.hasher.HashElements(left, right)
}

func (t *TreeWithHistory) Levels() int {
	return t.levels
}

// Zero returns the root of an empty subtree of height level.
func (t *TreeWithHistory) Zero(level int) fr.Element {
	return t.zeros[level]
}

// Len returns the number of inserted leaves.
func (t *TreeWithHistory) Len() uint64 {
	return t.nextIndex
}

// Insert appends leaf and returns its index.
func (t *TreeWithHistory) Insert(leaf fr.Element) (uint64, error) {
	path, err := t.InsertWithPath(leaf)
	if err != nil {
		return 0, err
	}
	return path.Index, nil
}

// InsertWithPath appends leaf and returns its authentication path against the new root.
func (t *TreeWithHistory) InsertWithPath(leaf fr.Element) (Path, error) {
	if t.nextIndex == uint64(1)<<t.levels {
		return Path{}, ErrTreeFull
	}
	path := Path{
		Index:    t.nextIndex,
		Indices:  make([]uint8, t.levels),
		Elements: make([]fr.Element, t.levels),
	}

	filled := make([]fr.Element, t.levels)
	copy(filled, t.filledSubtrees)

	idx := t.nextIndex
	current := leaf
	for i := range t.levels {
		var left, right fr.Element
		if idx%2 == 0 {
			left, right = current, t.zeros[i]
			filled[i] = current
			path.Elements[i] = t.zeros[i]
		} else {
			left, right = t.filledSubtrees[i], current
			path.Indices[i] = 1
			path.Elements[i] = t.filledSubtrees[i]
		}
		next, err := t.HashLeftRight(left, right)
		if err != nil {
			return Path{}, err
		}
		current = next
		idx /= 2
	}

	t.filledSubtrees = filled
	t.currentRootIndex = (t.currentRootIndex + 1) % RootHistorySize
	t.roots[t.currentRootIndex] = current
	t.nextIndex++
	return path, nil
}

// IsKnownRoot reports whether root is one of the last RootHistorySize roots.
// The zero element is never a known root.
func (t *TreeWithHistory) IsKnownRoot(root fr.Element) bool {
	if root.IsZero() {
		return false
	}
	for i := range t.roots {
		if t.roots[i].Equal(&root) {
			return true
		}
	}
	return false
}

func (t *TreeWithHistory) LastRoot() fr.Element {
	return t.roots[t.currentRootIndex]
}

// ComputeRoot folds leaf up the given path.
func ComputeRoot(h Hasher, leaf fr.Element, path Path) (fr.Element, error) {
	if len(path.Indices) != len(path.Elements) {
		return fr.Element{}, fmt.Errorf("merkle: path has %d indices but %d elements", len(path.Indices), len(path.Elements))
	}
	current := leaf
	for i, sibling := range path.Elements {
		var err error
		if path.Indices[i] == 0 {
			current, err = h.HashElements(current, sibling)
		} else {
			current, err = h.HashElements(sibling, current)
		}
		if err != nil {
			return fr.Element{}, err
		}
	}
	return current, nil
}

func mustElement(s string) fr.Element {
	var e fr.Element
	if _, err := e.SetString(s); err != nil {
		panic(err)
	}
	return e
}
