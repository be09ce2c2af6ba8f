package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("tajne-heslo")
	require.NoError(t, err)
	assert.NotEqual(t, "tajne-heslo", hash)

	assert.NoError(t, CompareHash(hash, "tajne-heslo"))
	assert.Error(t, CompareHash(hash, "spatne-heslo"))
}

func TestGetHashNotDeterministic(t *testing.T) {
	a, err := GetHash("heslo")
	require.NoError(t, err)
	b, err := GetHash("heslo")
	require.NoError(t, err)
	// bcrypt salts every hash
	assert.NotEqual(t, a, b)
}
