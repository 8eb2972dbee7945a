package passgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_LengthAndClasses(t *testing.T) {
	for range 50 {
		pwd, err := Generate(DefaultLength)
		require.NoError(t, err)
		assert.Len(t, pwd, DefaultLength)

		for _, class := range classes {
			assert.True(t, strings.ContainsAny(pwd, class), "password %q misses class %q", pwd, class)
		}
	}
}

func TestGenerate_Distinct(t *testing.T) {
	a, err := Generate(DefaultLength)
	require.NoError(t, err)
	b, err := Generate(DefaultLength)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerate_TooShort(t *testing.T) {
	_, err := Generate(3)
	assert.Error(t, err)
}
