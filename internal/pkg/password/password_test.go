package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	stored, err := Hash("admin123")
	require.NoError(t, err)

	hashHex, salt, ok := strings.Cut(stored, ".")
	require.True(t, ok)
	assert.Len(t, hashHex, 128)
	assert.Len(t, salt, 32)

	assert.True(t, Verify("admin123", stored))
}

func TestHashUsesFreshSalt(t *testing.T) {
	a, err := Hash("same")
	require.NoError(t, err)
	b, err := Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyRejectsMutations(t *testing.T) {
	stored, err := Hash("hunter22")
	require.NoError(t, err)

	assert.False(t, Verify("hunter23", stored))
	assert.False(t, Verify("Hunter22", stored))
	assert.False(t, Verify("", stored))

	flipped := []byte(stored)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}
	assert.False(t, Verify("hunter22", string(flipped)))
}

func TestVerifyMalformed(t *testing.T) {
	for _, stored := range []string{
		"",
		"nodelimiter",
		".",
		"abcd.",
		".abcd",
		"zz.00112233445566778899aabbccddeeff",
		strings.Repeat("a", 128) + ".not-hex",
	} {
		assert.False(t, Verify("anything", stored), stored)
	}
}

func TestVerifyLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, Verify("admin123", string(legacy)))
	assert.False(t, Verify("admin124", string(legacy)))
	assert.True(t, NeedsRehash(string(legacy)))
}
