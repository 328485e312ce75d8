// Package certchaintest generates throwaway certificate chains for tests.
package certchaintest

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Chain is a leaf-first certificate chain whose leaf has an RSA key, so it
// can stand behind RS256 signatures.
type Chain struct {
	Certs   []*x509.Certificate
	LeafKey *rsa.PrivateKey
}

// New builds a chain of n certificates: leaf, n-2 intermediates, self-signed root.
func New(t testing.TB, n int) *Chain {
	t.Helper()
	require.GreaterOrEqual(t, n, 1)

	leafKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keys := make([]crypto.Signer, n)
	keys[0] = leafKey
	for i := 1; i < n; i++ {
		keys[i], err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
	}

	now := time.Now()
	certs := make([]*x509.Certificate, n)
	for i := n - 1; i >= 0; i-- {
		tmpl := &x509.Certificate{
			SerialNumber:          big.NewInt(int64(i + 1)),
			Subject:               pkix.Name{CommonName: commonName(i, n)},
			NotBefore:             now.Add(-time.Hour),
			NotAfter:              now.Add(24 * time.Hour),
			BasicConstraintsValid: true,
			IsCA:                  i > 0,
			KeyUsage:              x509.KeyUsageDigitalSignature,
		}
		if i > 0 {
			tmpl.KeyUsage |= x509.KeyUsageCertSign
		}

		parent, parentKey := tmpl, keys[i]
		if i < n-1 {
			parent, parentKey = certs[i+1], keys[i+1]
		}

		der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, keys[i].Public(), parentKey)
		require.NoError(t, err)

		certs[i], err = x509.ParseCertificate(der)
		require.NoError(t, err)
	}

	return &Chain{Certs: certs, LeafKey: leafKey}
}

func commonName(i, n int) string {
	switch {
	case i == 0:
		return "remotesign test leaf"
	case i == n-1:
		return "remotesign test root"
	default:
		return fmt.Sprintf("remotesign test intermediate %d", i)
	}
}

// PEM returns the chain as concatenated PEM blocks, leaf first.
func (c *Chain) PEM() []byte {
	var out []byte
	for _, cert := range c.Certs {
		out = append(out, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})...)
	}
	return out
}

// X5C returns the chain as the JWT header expects it.
func (c *Chain) X5C() []string {
	out := make([]string, len(c.Certs))
	for i, cert := range c.Certs {
		out[i] = base64.StdEncoding.EncodeToString(cert.Raw)
	}
	return out
}

// WriteFile writes the PEM chain into a temp dir and returns its path.
func (c *Chain) WriteFile(t testing.TB) string {
	t.Helper()
	return WriteFile(t, c.PEM())
}

// WriteFile writes arbitrary PEM text into a temp dir and returns its path.
func WriteFile(t testing.TB, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chain.pem")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
