package params_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whirlwind/poseidon254/internal/params"
)

const tinyTable = `{
  "C": [["0x10", "17", "0x0"], ["1", "2", "3", "4"]],
  "M": [[["1", "2"], ["3", "0x4"]], [["1", "2", "3"], ["4", "5", "6"], ["7", "8", "9"]]],
  "S": [["ignored"]]
}`

func TestParseJSON(t *testing.T) {
	table, err := params.ParseJSON(strings.NewReader(tinyTable))
	require.NoError(t, err)

	c, err := table.RoundConstants(2)
	require.NoError(t, err)
	require.Len(t, c, 3)
	assert.Equal(t, "16", c[0].String())
	assert.Equal(t, "17", c[1].String())
	assert.Equal(t, "0", c[2].String())

	m, err := table.MDS(3)
	require.NoError(t, err)
	assert.Equal(t, "9", m[2][2].String())

	_, err = table.RoundConstants(4)
	assert.Error(t, err)
}

func TestParseJSONErrors(t *testing.T) {
	cases := map[string]string{
		"syntax":   `{"C": [`,
		"empty":    `{"C": [], "M": []}`,
		"mismatch": `{"C": [["1"]], "M": []}`,
		"bad int":  `{"C": [["12a"]], "M": [[["1"]]]}`,
		"negative": `{"C": [["-1"]], "M": [[["1"]]]}`,
		"bad mds":  `{"C": [["1"]], "M": [[["0xzz"]]]}`,
	}
	for name, in := range cases {
		_, err := params.ParseJSON(strings.NewReader(in))
		assert.Error(t, err, name)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poseidon_constants.json")
	require.NoError(t, os.WriteFile(path, []byte(tinyTable), 0o644))

	table, err := params.LoadJSON(path)
	require.NoError(t, err)
	_, err = table.MDS(2)
	require.NoError(t, err)

	_, err = params.LoadJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
