package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactory_DefaultSelectsAllPrimaryClasses(t *testing.T) {
	detectors, err := Factory(&Env{}, nil)
	assert.NoError(t, err)
	assert.Len(t, detectors, 9)
}

func TestFactory_SubsetByName(t *testing.T) {
	detectors, err := Factory(&Env{}, []string{"g_quadruplex", "z_dna"})
	assert.NoError(t, err)
	assert.Len(t, detectors, 2)
}

func TestFactory_UnknownClassErrors(t *testing.T) {
	_, err := Factory(&Env{}, []string{"not_a_real_class"})
	assert.Error(t, err)
}
