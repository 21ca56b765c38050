package auth

import (
	"testing"
	"time"

	"finesse/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-test-secret-test-secret-00"

func usuario() *model.Usuario {
	return &model.Usuario{ID: 7, Nome: "Ana", Email: "ana@clinica.com", Perfil: model.PerfilAdmin, Ativo: true}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	p := NewTokenProvider(secret, time.Hour, 24*time.Hour)
	tok, err := p.GenerateAccess(usuario())
	require.NoError(t, err)

	claims, err := p.Parse(tok, TypeAccess)
	require.NoError(t, err)
	id, _ := claims.UserID()
	assert.Equal(t, int64(7), id)
	assert.Equal(t, "ana@clinica.com", claims.Email)
	assert.Equal(t, []string{"ROLE_ADMIN"}, claims.Roles)
	assert.True(t, claims.HasRole("ROLE_ADMIN"))
}

func TestRefreshToken_RejectedAsAccess(t *testing.T) {
	p := NewTokenProvider(secret, time.Hour, 24*time.Hour)
	tok, err := p.GenerateRefresh(usuario())
	require.NoError(t, err)

	_, err = p.Parse(tok, TypeAccess)
	assert.ErrorIs(t, err, ErrWrongType)

	claims, err := p.Parse(tok, TypeRefresh)
	require.NoError(t, err)
	assert.Empty(t, claims.Roles)
}

func TestParse_Expired(t *testing.T) {
	p := NewTokenProvider(secret, time.Minute, time.Hour)
	p.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := p.GenerateAccess(usuario())
	require.NoError(t, err)

	p.now = time.Now
	_, err = p.Parse(tok, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_WrongSecretOrAlgorithm(t *testing.T) {
	other := NewTokenProvider("another-secret-another-secret-another", time.Hour, time.Hour)
	tok, _ := other.GenerateAccess(usuario())

	p := NewTokenProvider(secret, time.Hour, time.Hour)
	_, err := p.Parse(tok, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Type: TypeAccess}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = p.Parse(none, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = p.Parse("garbage", TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
