package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcbuild/decision/parts"
)

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"CPU": [{"name": "Ryzen 5 7600", "price": 199, "data": {"performance": {"cores": 6}}}],
		"gpu": []
	}`), 0o600))

	cat, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, cat[parts.CategoryCPU], 1)
	cores, ok := cat[parts.CategoryCPU][0].Number("cores")
	require.True(t, ok)
	assert.Equal(t, 6.0, cores)
	assert.Empty(t, cat[parts.CategoryGPU])
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"unknown category": `{"monitor": [{"name": "x"}]}`,
		"invalid record":   `{"cpu": [{"name": "x", "price": -5}]}`,
		"not json":         `[`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestFlattenUsesCategoryOrder(t *testing.T) {
	cat, err := Decode(strings.NewReader(`{
		"psu": [{"name": "psu"}],
		"cpu": [{"name": "cpu"}],
		"gpu": [{"name": "gpu"}]
	}`))
	require.NoError(t, err)

	var names []string
	for _, p := range Flatten(cat) {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"cpu", "gpu", "psu"}, names)
}
