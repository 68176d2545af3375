package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParse(t *testing.T) {
	c, err := NewCodec("secret")
	require.NoError(t, err)

	tok, err := c.Sign("sid-1", 7, time.Hour)
	require.NoError(t, err)

	claims, err := c.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.EqualValues(t, 7, claims.UserID)
}

func TestParseRejectsForeignSecretAndExpiry(t *testing.T) {
	a, _ := NewCodec("a")
	b, _ := NewCodec("b")

	tok, err := a.Sign("sid", 1, time.Hour)
	require.NoError(t, err)
	_, err = b.Parse(tok)
	assert.Error(t, err)

	expired, err := a.Sign("sid", 1, -time.Minute)
	require.NoError(t, err)
	_, err = a.Parse(expired)
	assert.Error(t, err)

	_, err = a.Parse("garbage")
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	_, err := NewCodec("")
	assert.Error(t, err)
}
