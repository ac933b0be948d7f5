package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateParse(t *testing.T) {
	token, err := Generate(secret, "user-1", "bodeguero", "inventario-ledger", 5)
	require.NoError(t, err)

	userID, role, err := Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "bodeguero", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate(secret, "user-1", "admin", "", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro-secret", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := Generate(secret, "user-1", "admin", "", -1)
	require.NoError(t, err)

	_, _, err = Parse(secret, token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "user-1", "admin", "", 5)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, _, err = Parse("", "x.y.z")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
