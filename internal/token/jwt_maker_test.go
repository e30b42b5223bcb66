package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewJWTMakerKeySize(t *testing.T) {
	_, err := NewJWTMaker("too-short")
	require.Error(t, err)

	maker, err := NewJWTMaker(testSecret)
	require.NoError(t, err)
	require.NotNil(t, maker)
}

func TestJWTMaker(t *testing.T) {
	maker, err := NewJWTMaker(testSecret)
	require.NoError(t, err)

	userID := uuid.New()
	tokenString, payload, err := maker.CreateToken(userID.String(), time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	require.NotNil(t, payload)

	verified, err := maker.VerifyToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, payload.ID, verified.ID)
	assert.Equal(t, issuer, verified.Issuer)

	got, err := verified.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestExpiredJWTToken(t *testing.T) {
	maker, err := NewJWTMaker(testSecret)
	require.NoError(t, err)

	tokenString, _, err := maker.CreateToken(uuid.NewString(), -time.Minute)
	require.NoError(t, err)

	_, err = maker.VerifyToken(tokenString)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestInvalidJWTTokenAlgNone(t *testing.T) {
	payload, err := NewPayload(uuid.NewString(), time.Minute)
	require.NoError(t, err)

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodNone, payload)
	tokenString, err := jwtToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	maker, err := NewJWTMaker(testSecret)
	require.NoError(t, err)

	_, err = maker.VerifyToken(tokenString)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTTokenWrongSecret(t *testing.T) {
	maker, err := NewJWTMaker(testSecret)
	require.NoError(t, err)
	other, err := NewJWTMaker("fedcba9876543210fedcba9876543210")
	require.NoError(t, err)

	tokenString, _, err := other.CreateToken(uuid.NewString(), time.Minute)
	require.NoError(t, err)

	_, err = maker.VerifyToken(tokenString)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPayloadUserIDRejectsNonUUID(t *testing.T) {
	payload, err := NewPayload("not-a-uuid", time.Minute)
	require.NoError(t, err)

	_, err = payload.UserID()
	require.Error(t, err)
}
