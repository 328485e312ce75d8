package jwtx

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Header names the system owns. Caller values for these are overwritten.
const (
	HeaderAlg = "alg"
	HeaderTyp = "typ"
	HeaderX5C = "x5c"

	TokenType = "JWT"
)

// Algorithm is what the remote signer produces: RSASSA-PKCS1-v1_5 over SHA-256.
var Algorithm = jwt.SigningMethodRS256.Alg()

// ErrEmptyChain is returned when there is no certificate to put in x5c.
var ErrEmptyChain = errors.New("jwtx: certificate chain is empty")

// Unsigned is a JWT waiting for its signature. SigningInput holds the exact
// bytes that were hashed, so the signature always covers what is emitted.
type Unsigned struct {
	Header       map[string]any
	Payload      map[string]any
	SigningInput string
	HashHex      string

	token *jwt.Token
}

// Assemble forces alg/typ/x5c into a copy of header, serializes header and
// payload, and hashes the signing input.
func Assemble(header, payload map[string]any, chain []string) (*Unsigned, error) {
	if len(chain) == 0 {
		return nil, ErrEmptyChain
	}

	h := maps.Clone(header)
	if h == nil {
		h = make(map[string]any, 3)
	}
	h[HeaderAlg] = Algorithm
	h[HeaderTyp] = TokenType
	h[HeaderX5C] = slices.Clone(chain)

	if payload == nil {
		payload = map[string]any{}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims(payload))
	token.Header = h

	signingInput, err := token.SigningString()
	if err != nil {
		return nil, fmt.Errorf("jwtx: encode token: %w", err)
	}

	return &Unsigned{
		Header:       h,
		Payload:      payload,
		SigningInput: signingInput,
		HashHex:      HashHex(signingInput),
		token:        token,
	}, nil
}

// HashHex is the lowercase hex SHA-256 of the signing input. This string,
// not the raw input, is what the remote signer receives.
func HashHex(signingInput string) string {
	sum := sha256.Sum256([]byte(signingInput))
	return hex.EncodeToString(sum[:])
}

// Complete appends the unpadded base64url signature segment.
func (u *Unsigned) Complete(signature []byte) string {
	return u.SigningInput + "." + u.token.EncodeSegment(signature)
}
