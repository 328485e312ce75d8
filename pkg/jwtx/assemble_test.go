package jwtx_test

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aussiebroadwan/remotesign/pkg/certchain/certchaintest"
	"github.com/aussiebroadwan/remotesign/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testChain = []string{"MIIBleaf", "MIIBroot"}

func decodeSegment(t *testing.T, seg string) []byte {
	t.Helper()
	require.NotContains(t, seg, "=")
	b, err := base64.RawURLEncoding.DecodeString(seg)
	require.NoError(t, err)
	return b
}

func TestHashHexKnownVector(t *testing.T) {
	got := jwtx.HashHex("eyJhbGciOiJSUzI1NiJ9.eyJzdWIiOiJ0ZXN0In0")
	require.Equal(t, "114224c86f4b880922ff372ec0c1d35a35e7a819683287299e26f65833b9155d", got)
}

func TestAssembleForcesReservedHeaders(t *testing.T) {
	header := map[string]any{
		"alg": "none",
		"typ": "at+jwt",
		"x5c": []any{"attacker"},
		"kid": "key-1",
	}

	u, err := jwtx.Assemble(header, map[string]any{"sub": "test"}, testChain)
	require.NoError(t, err)

	segments := strings.Split(u.SigningInput, ".")
	require.Len(t, segments, 2)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(decodeSegment(t, segments[0]), &decoded))
	require.Equal(t, "RS256", decoded["alg"])
	require.Equal(t, "JWT", decoded["typ"])
	require.Equal(t, []any{"MIIBleaf", "MIIBroot"}, decoded["x5c"])
	require.Equal(t, "key-1", decoded["kid"])

	// The caller's map is left alone.
	require.Equal(t, "none", header["alg"])
}

func TestAssembleSegmentsRoundTrip(t *testing.T) {
	header, err := jwtx.ParseObject(`{"kid":"k","cty":"JWT"}`)
	require.NoError(t, err)
	payload, err := jwtx.ParseObject(`{"sub":"test","n":1.50,"big":12345678901234567890,"html":"<b>&"}`)
	require.NoError(t, err)

	u, err := jwtx.Assemble(header, payload, testChain)
	require.NoError(t, err)

	segments := strings.Split(u.SigningInput, ".")
	require.Len(t, segments, 2)

	wantHeader, err := json.Marshal(u.Header)
	require.NoError(t, err)
	wantPayload, err := json.Marshal(u.Payload)
	require.NoError(t, err)

	require.Equal(t, wantHeader, decodeSegment(t, segments[0]))
	require.Equal(t, wantPayload, decodeSegment(t, segments[1]))

	// Number literals survive unchanged.
	require.Contains(t, string(wantPayload), `"n":1.50`)
	require.Contains(t, string(wantPayload), `"big":12345678901234567890`)

	require.Equal(t, jwtx.HashHex(u.SigningInput), u.HashHex)
}

func TestAssembleHeaderSerialization(t *testing.T) {
	u, err := jwtx.Assemble(nil, map[string]any{"sub": "test"}, []string{"AAAA"})
	require.NoError(t, err)

	segments := strings.Split(u.SigningInput, ".")
	require.Equal(t, `{"alg":"RS256","typ":"JWT","x5c":["AAAA"]}`, string(decodeSegment(t, segments[0])))
	require.Equal(t, "eyJzdWIiOiJ0ZXN0In0", segments[1])
}

func TestAssembleRejectsEmptyChain(t *testing.T) {
	_, err := jwtx.Assemble(map[string]any{}, map[string]any{}, nil)
	require.ErrorIs(t, err, jwtx.ErrEmptyChain)
}

func TestCompleteEncodesBase64URL(t *testing.T) {
	u, err := jwtx.Assemble(nil, nil, testChain)
	require.NoError(t, err)

	signed := u.Complete([]byte{0xfb, 0xff, 0xfe, 0x00})
	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	require.Equal(t, "-__-AA", parts[2])
	require.NotContains(t, parts[2], "+")
	require.NotContains(t, parts[2], "/")
	require.NotContains(t, parts[2], "=")
}

func TestSignedTokenVerifiesWithLeafKey(t *testing.T) {
	chain := certchaintest.New(t, 2)

	u, err := jwtx.Assemble(map[string]any{"kid": "leaf"}, map[string]any{"sub": "test"}, chain.X5C())
	require.NoError(t, err)

	// Stand in for the remote signer: sign the digest the hex string encodes.
	digest, err := hex.DecodeString(u.HashHex)
	require.NoError(t, err)
	sig, err := rsa.SignPKCS1v15(rand.Reader, chain.LeafKey, crypto.SHA256, digest)
	require.NoError(t, err)

	signed := u.Complete(sig)

	parsed, err := jwt.Parse(signed, func(tok *jwt.Token) (any, error) {
		return chain.Certs[0].PublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	require.Equal(t, "leaf", parsed.Header["kid"])
}
