package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func TestNewCodec_RejectsEmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewCodec("  ", time.Hour, nil)
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	now, _ := fixedClock(time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC))
	codec, err := NewCodec(testSecret, 0, now)
	require.NoError(t, err)
	require.Equal(t, DefaultTTL, codec.TTL())

	token, err := codec.Mint(7, "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, token.ID)
	require.Equal(t, now().Add(DefaultTTL), token.ExpiresAt)

	identity, err := codec.Verify(token.Value)
	require.NoError(t, err)
	require.Equal(t, int64(7), identity.UserID)
	require.Equal(t, "ADMIN", identity.Role)
	require.Equal(t, token.ID, identity.TokenID)
	require.True(t, identity.ExpiresAt.Equal(token.ExpiresAt))
}

func TestCodec_MintGeneratesUniqueIDs(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec(testSecret, time.Hour, nil)
	require.NoError(t, err)

	first, err := codec.Mint(1, "ADMIN")
	require.NoError(t, err)
	second, err := codec.Mint(1, "ADMIN")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestCodec_MintRequiresIdentity(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec(testSecret, time.Hour, nil)
	require.NoError(t, err)

	_, err = codec.Mint(0, "ADMIN")
	require.Error(t, err)
	_, err = codec.Mint(1, "")
	require.Error(t, err)
}

func TestCodec_VerifyFailures(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		now, advance := fixedClock(start)
		codec, err := NewCodec(testSecret, time.Hour, now)
		require.NoError(t, err)

		token, err := codec.Mint(1, "ADMIN")
		require.NoError(t, err)

		advance(time.Hour + time.Second)
		_, err = codec.Verify(token.Value)
		require.ErrorIs(t, err, ErrInvalidToken)
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		now, _ := fixedClock(start)
		issuer, err := NewCodec("another-secret", time.Hour, now)
		require.NoError(t, err)
		verifier, err := NewCodec(testSecret, time.Hour, now)
		require.NoError(t, err)

		token, err := issuer.Mint(1, "ADMIN")
		require.NoError(t, err)

		_, err = verifier.Verify(token.Value)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		t.Parallel()
		now, _ := fixedClock(start)
		codec, err := NewCodec(testSecret, time.Hour, now)
		require.NoError(t, err)

		token, err := codec.Mint(1, "ROOM_PREPARER")
		require.NoError(t, err)

		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1",
				ExpiresAt: jwt.NewNumericDate(start.Add(time.Hour)),
			},
			UserID: 1,
			Role:   "ADMIN",
		}).SignedString([]byte("attacker"))
		require.NoError(t, err)

		parts := strings.Split(token.Value, ".")
		forgedParts := strings.Split(forged, ".")
		spliced := parts[0] + "." + forgedParts[1] + "." + parts[2]

		_, err = codec.Verify(spliced)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		t.Parallel()
		now, _ := fixedClock(start)
		codec, err := NewCodec(testSecret, time.Hour, now)
		require.NoError(t, err)

		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1",
				ExpiresAt: jwt.NewNumericDate(start.Add(time.Hour)),
			},
			UserID: 1,
			Role:   "ADMIN",
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Verify(unsigned)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject mismatch", func(t *testing.T) {
		t.Parallel()
		now, _ := fixedClock(start)
		codec, err := NewCodec(testSecret, time.Hour, now)
		require.NoError(t, err)

		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "2",
				ExpiresAt: jwt.NewNumericDate(start.Add(time.Hour)),
			},
			UserID: 1,
			Role:   "ADMIN",
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing expiry", func(t *testing.T) {
		t.Parallel()
		now, _ := fixedClock(start)
		codec, err := NewCodec(testSecret, time.Hour, now)
		require.NoError(t, err)

		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
			UserID:           1,
			Role:             "ADMIN",
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		codec, err := NewCodec(testSecret, time.Hour, nil)
		require.NoError(t, err)

		for _, raw := range []string{"", "not-a-token", "a.b.c"} {
			_, err = codec.Verify(raw)
			require.True(t, errors.Is(err, ErrInvalidToken), "token %q", raw)
		}
	})
}
