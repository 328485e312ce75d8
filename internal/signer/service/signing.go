package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/remotesign/pkg/certchain"
	"github.com/aussiebroadwan/remotesign/pkg/cryptox"
	"github.com/aussiebroadwan/remotesign/pkg/jwtx"
	"github.com/aussiebroadwan/remotesign/pkg/signsdk"
	"github.com/aussiebroadwan/remotesign/pkg/slogx"
)

// TokenIssuer obtains access tokens from the identity provider.
type TokenIssuer interface {
	ClientCredentialsGrant(ctx context.Context) (*signsdk.Token, error)
}

// HashSigner signs SHA-256 digests remotely.
type HashSigner interface {
	SignHash(ctx context.Context, accessToken, hashHex string) ([]byte, error)
}

// SigningService turns caller JSON into a JWT signed by the remote signer
// and carrying the configured certificate chain.
type SigningService struct {
	Tokens    TokenIssuer
	Signer    HashSigner
	ChainPath string
	Metrics   Recorder
}

func (s *SigningService) recorder() Recorder {
	if s.Metrics == nil {
		return nopRecorder{}
	}
	return s.Metrics
}

// Authenticate performs the client-credentials exchange. The caller is
// responsible for keeping the token; nothing is cached here.
func (s *SigningService) Authenticate(ctx context.Context) (*signsdk.Token, error) {
	l := slogx.FromContext(ctx)
	rec := s.recorder()

	start := time.Now()
	tok, err := s.Tokens.ClientCredentialsGrant(ctx)
	rec.ObserveUpstream("token", time.Since(start))
	if err != nil {
		rec.RecordAuthentication(false)
		l.Warn("authentication failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	rec.RecordAuthentication(true)
	l.Info("authenticated",
		slog.String("token_fp", cryptox.Fingerprint(tok.AccessToken)),
		slog.Time("expires_at", tok.Expiry),
	)
	return tok, nil
}

// Sign builds the JWT for rawHeader and rawPayload, has its hash signed with
// accessToken, and returns the compact serialization.
//
// The certificate chain is read from disk on every call.
func (s *SigningService) Sign(ctx context.Context, accessToken, rawHeader, rawPayload string) (string, error) {
	jwt, err := s.sign(ctx, accessToken, rawHeader, rawPayload)

	result := resultOf(err)
	s.recorder().RecordSign(result)

	l := slogx.FromContext(ctx)
	switch result {
	case ResultSuccess:
		l.Info("jwt signed", slog.Int("jwt_len", len(jwt)))
	case ResultNotAuthenticated, ResultInvalidRequest:
		l.Info("sign request rejected", slog.String("result", result), slog.Any("error", err))
	default:
		l.Error("sign request failed", slog.String("result", result), slog.Any("error", err))
	}

	return jwt, err
}

func (s *SigningService) sign(ctx context.Context, accessToken, rawHeader, rawPayload string) (string, error) {
	if strings.TrimSpace(accessToken) == "" {
		return "", ErrNotAuthenticated
	}

	header, err := jwtx.ParseObject(rawHeader)
	if err != nil {
		return "", fmt.Errorf("%w: header: %w", ErrInvalidRequestFormat, err)
	}
	payload, err := jwtx.ParseObject(rawPayload)
	if err != nil {
		return "", fmt.Errorf("%w: payload: %w", ErrInvalidRequestFormat, err)
	}

	if strings.TrimSpace(s.ChainPath) == "" {
		return "", fmt.Errorf("%w: certificate chain path not configured", ErrConfiguration)
	}
	chain := certchain.Load(ctx, s.ChainPath)
	s.recorder().SetChainLength(len(chain))

	unsigned, err := jwtx.Assemble(header, payload, chain)
	if err != nil {
		if errors.Is(err, jwtx.ErrEmptyChain) {
			return "", fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		return "", err
	}

	slogx.FromContext(ctx).Debug("jwt assembled",
		slog.String("signing_input", unsigned.SigningInput),
		slog.String("hash", unsigned.HashHex),
		slog.Int("chain_length", len(chain)),
	)

	start := time.Now()
	sig, err := s.Signer.SignHash(ctx, accessToken, unsigned.HashHex)
	s.recorder().ObserveUpstream("sign", time.Since(start))
	if err != nil {
		if errors.Is(err, signsdk.ErrMalformedResponse) {
			return "", fmt.Errorf("%w: %w", ErrMalformedSigningResponse, err)
		}
		return "", fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	return unsigned.Complete(sig), nil
}
