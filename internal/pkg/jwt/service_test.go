package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACService_RoundTrip(t *testing.T) {
	svc := NewHMACService("s3cret", time.Hour)

	tok, err := svc.GenerateReviewerToken(" rev-1 ", "")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "rev-1", claims.ReviewerID)
	assert.Equal(t, RoleReviewer, claims.Role)
	assert.Equal(t, "rev-1", claims.Subject)
}

func TestHMACService_Expired(t *testing.T) {
	svc := NewHMACService("s3cret", time.Minute)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	tok, err := svc.GenerateReviewerToken("rev-1", RoleAdmin)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = svc.ValidateToken(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestHMACService_WrongSecret(t *testing.T) {
	tok, err := NewHMACService("a", time.Hour).GenerateReviewerToken("rev-1", RoleReviewer)
	require.NoError(t, err)

	_, err = NewHMACService("b", time.Hour).ValidateToken(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = NewHMACService("a", time.Hour).ValidateToken("not.a.token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHMACService_RejectsBadInput(t *testing.T) {
	svc := NewHMACService("s3cret", time.Hour)

	_, err := svc.GenerateReviewerToken("", RoleReviewer)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.GenerateReviewerToken("rev-1", "superuser")
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = NewHMACService("", time.Hour).GenerateReviewerToken("rev-1", RoleReviewer)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
