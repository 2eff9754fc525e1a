package registry

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbdfinder/engine/internal/types"
)

func TestIsScanSafe(t *testing.T) {
	assert.True(t, IsScanSafe(`G{3,}[ACGT]{1,7}G{3,}`))
	assert.True(t, IsScanSafe(`[AG]{15,}`))

	assert.False(t, IsScanSafe(`([ACGT])\1{7,}`))
	assert.False(t, IsScanSafe(`(?P=arm)`))
	assert.False(t, IsScanSafe(`(?=GGG)`))
	assert.False(t, IsScanSafe(`(?!CCC)`))
	assert.False(t, IsScanSafe(`\k<unit>`))
	assert.False(t, IsScanSafe(`(?#comment)AAA`))
}

func TestLoad_BuiltinCatalog(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, reg.All)
	assert.NotEmpty(t, reg.Safe)
	assert.NotEmpty(t, reg.Fallback)
	assert.Equal(t, len(reg.All), len(reg.Safe)+len(reg.Fallback))

	// The G4 family is DFA-expressible; the STR family needs
	// backreferences and must land on the fallback side.
	for _, p := range reg.ForClass(types.ClassGQuadruplex) {
		assert.True(t, p.ScanSafe, "pattern %s", p.MotifID)
	}
	for _, p := range reg.ForClass(types.ClassSlippedDNA) {
		assert.False(t, p.ScanSafe, "pattern %s", p.MotifID)
	}
}

func TestLoadFS_CustomCatalog(t *testing.T) {
	fsys := fstest.MapFS{
		"patterns/custom.yml": &fstest.MapFile{Data: []byte(`
patterns:
  - motif_id: g4.test
    name: Test G4
    class: g_quadruplex
    subclass: canonical_G4
    regex: "G{3,}"
    weight: 1.0
`)},
	}
	reg, err := LoadFS(fsys, "patterns")
	require.NoError(t, err)
	require.Len(t, reg.All, 1)
	p := reg.All[0]
	assert.Equal(t, types.ClassGQuadruplex, p.ClassID)
	assert.Equal(t, "g4.test", p.MotifID)
	assert.True(t, p.ScanSafe)
}

func TestLoadFS_UnknownClassIsLoadError(t *testing.T) {
	fsys := fstest.MapFS{
		"patterns/bad.yml": &fstest.MapFile{Data: []byte(`
patterns:
  - motif_id: bad.test
    name: Bad class
    class: not_a_class
    regex: "AAA"
`)},
	}
	_, err := LoadFS(fsys, "patterns")
	assert.Error(t, err)
}

func TestForClass_FiltersByClass(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)
	for _, p := range reg.ForClass(types.ClassTriplex) {
		assert.Equal(t, types.ClassTriplex, p.ClassID)
	}
	assert.NotEmpty(t, reg.ForClass(types.ClassTriplex))
}
