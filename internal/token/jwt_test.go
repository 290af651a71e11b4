package token

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tmeduca/investigacion-portal/internal/model"
)

const testIssuer = "https://portal.test"

func TestJWT_Roundtrip(t *testing.T) {
	j := NewJWT("secret", testIssuer, time.Hour)

	in := model.Claims{Email: "a@x.cl", Role: model.RoleProfessor, FirstLogin: true}
	tok, err := j.Issue(in)
	require.NoError(t, err)
	require.Equal(t, 3, len(strings.Split(tok, ".")))

	got, err := j.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, in.Email, got.Email)
	require.Equal(t, in.Role, got.Role)
	require.Equal(t, in.FirstLogin, got.FirstLogin)
	require.Equal(t, testIssuer, got.Issuer)
	require.False(t, got.IssuedAt.IsZero())
	require.Equal(t, time.Hour, got.ExpiresAt.Sub(got.IssuedAt))

	second, err := j.Issue(in)
	require.NoError(t, err)
	require.NotEqual(t, tok, second, "identical claims still mint distinct tokens")
}

func TestJWT_Expired(t *testing.T) {
	j := NewJWT("secret", testIssuer, -time.Minute)

	tok, err := j.Issue(model.Claims{Email: "a@x.cl", Role: model.RoleProfessor})
	require.NoError(t, err)

	_, err = j.Verify(tok)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestJWT_Malformed(t *testing.T) {
	j := NewJWT("secret", testIssuer, time.Hour)

	for _, tok := range []string{"", "onlyonepart", "two.parts", "a.b.c.d"} {
		_, err := j.Verify(tok)
		require.ErrorIs(t, err, model.ErrTokenMalformed, "token %q", tok)
	}
}

func TestJWT_SignatureTampering(t *testing.T) {
	j := NewJWT("secret", testIssuer, time.Hour)

	tok, err := j.Issue(model.Claims{Email: "a@x.cl", Role: model.RoleProfessor})
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	// Flip every byte of the signature segment in turn; each variant
	// must fail as a bad signature. The final segment byte carries
	// base64 padding bits that decoders ignore, so stop short of it.
	sig := parts[2]
	for i := 0; i < len(sig)-1; i++ {
		flipped := []byte(sig)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(flipped)
		if tampered == tok {
			continue
		}
		_, err := j.Verify(tampered)
		require.ErrorIs(t, err, model.ErrBadSignature, "flipped byte %d", i)
	}
}

func TestJWT_WrongKey(t *testing.T) {
	j := NewJWT("secret", testIssuer, time.Hour)
	other := NewJWT("other-secret", testIssuer, time.Hour)

	tok, err := j.Issue(model.Claims{Email: "a@x.cl", Role: model.RoleProfessor})
	require.NoError(t, err)

	_, err = other.Verify(tok)
	require.ErrorIs(t, err, model.ErrBadSignature)
}

func TestJWT_PayloadTampering(t *testing.T) {
	j := NewJWT("secret", testIssuer, time.Hour)

	tok, err := j.Issue(model.Claims{Email: "a@x.cl", Role: model.RoleProfessor})
	require.NoError(t, err)

	// Swap in a different, validly encoded payload; the signature no
	// longer covers it.
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"email":"evil@x.cl","role":"admin"}`))
	parts := strings.Split(tok, ".")
	tampered := parts[0] + "." + forged + "." + parts[2]

	_, err = j.Verify(tampered)
	require.ErrorIs(t, err, model.ErrBadSignature)
}

func TestClaims_Refreshed(t *testing.T) {
	c := model.Claims{
		Email:      "a@x.cl",
		Role:       model.RoleResearcher,
		FirstLogin: true,
		IssuedAt:   time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
		Issuer:     testIssuer,
	}

	r := c.Refreshed()
	require.Equal(t, c.Email, r.Email)
	require.Equal(t, c.Role, r.Role)
	require.Equal(t, c.FirstLogin, r.FirstLogin)
	require.True(t, r.IssuedAt.IsZero())
	require.True(t, r.ExpiresAt.IsZero())
	require.Empty(t, r.Issuer)
}
