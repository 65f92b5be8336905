package poseidon254

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/whirlwind/poseidon254/internal/params"
)

const (
	maxRate            = params.MaxWidth - 1
	MaxMultiHashInputs = 4096
)

// MultiHash hashes an arbitrary-length list of variables by chunking with the
// highest available rate (16), matching the native MultiHash.
func MultiHash(api frontend.API, src Source, inputs ...frontend.Variable) (frontend.Variable, error) {
	if len(inputs) == 0 {
		var zero frontend.Variable
		return zero, fmt.Errorf("poseidon254: need at least 1 input")
	}
	if len(inputs) > MaxMultiHashInputs {
		var zero frontend.Variable
		return zero, fmt.Errorf("poseidon254: too many inputs (%d > %d)", len(inputs), MaxMultiHashInputs)
	}

	current := make([]frontend.Variable, len(inputs))
	copy(current, inputs)

	for len(current) > maxRate {
		next := make([]frontend.Variable, 0, (len(current)+maxRate-1)/maxRate)
		for i := 0; i < len(current); i += maxRate {
			end := min(i+maxRate, len(current))
			h, err := Hash(api, src, current[i:end]...)
			if err != nil {
				var zero frontend.Variable
				return zero, err
			}
			next = append(next, h)
		}
		current = next
	}

	return Hash(api, src, current...)
}
