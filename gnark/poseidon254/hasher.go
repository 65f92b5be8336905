package poseidon254

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash"
)

var _ hash.FieldHasher = (*Hasher)(nil)

// Hasher buffers written variables and hashes all of them on Sum, so that
// Write(a, b); Sum() equals Hash(api, src, a, b).
type Hasher struct {
	api  frontend.API
	src  Source
	data []frontend.Variable
}

func NewHasher(api frontend.API, src Source) *Hasher {
	return &Hasher{api: api, src: src}
}

func (h *Hasher) Write(data ...frontend.Variable) {
	h.data = append(h.data, data...)
}

func (h *Hasher) Reset() {
	h.data = nil
}

// Sum panics when the buffered input count has no parameter set, which is a
// circuit definition error.
func (h *Hasher) Sum() frontend.Variable {
	out, err := MultiHash(h.api, h.src, h.data...)
	if err != nil {
		panic(err)
	}
	return out
}
